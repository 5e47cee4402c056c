package orbit

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Glyphs used on the character grid.
const (
	GlyphSatellite = '●'
	GlyphSelected  = '◉'
	GlyphEarth     = '░'
	GlyphRing      = '·'
	GlyphOrbit     = '∙'
)

// Cell is one character of the grid.
type Cell struct {
	Rune  rune
	Color Color
	Bold  bool
}

// Grid rasterises the frame onto a width x height character grid. The
// viewBox is scaled to fit, so circles come out as ellipses on terminals
// with non-square cells.
func Grid(f Frame, width, height int) [][]Cell {
	if width <= 0 || height <= 0 {
		return nil
	}
	grid := make([][]Cell, height)
	for y := range grid {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{Rune: ' '}
		}
		grid[y] = row
	}
	r := raster{grid: grid, w: width, h: height}
	c := f.Geometry.Center()

	// earth, filled
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := r.toView(x, y)
			if math.Hypot(p.X-c.X, p.Y-c.Y) <= EarthRadius {
				r.set(x, y, Cell{Rune: GlyphEarth, Color: ColorEarthEdge})
			}
		}
	}
	// crosshairs
	cx, cy := r.toGrid(c)
	for x := 0; x < width; x++ {
		r.set(x, cy, Cell{Rune: '─', Color: ColorEarthEdge})
	}
	for y := 0; y < height; y++ {
		r.set(cx, y, Cell{Rune: '│', Color: ColorEarthEdge})
	}
	r.set(cx, cy, Cell{Rune: '┼', Color: ColorEarthEdge})
	for _, radius := range RangeRings {
		r.circle(c, radius, Cell{Rune: GlyphRing, Color: ColorEarthEdge})
	}
	if len(f.Markers) > 0 {
		r.circle(c, f.Geometry.Radius, Cell{Rune: GlyphOrbit, Color: ColorNeutral})
	}

	for _, m := range f.Markers {
		x, y := r.toGrid(m.Pos)
		glyph := GlyphSatellite
		if m.Selected {
			glyph = GlyphSelected
		}
		r.set(x, y, Cell{Rune: glyph, Color: m.Color, Bold: m.Selected})
	}
	// labels go after every marker so they never hide one
	for _, m := range f.Markers {
		x, y := r.toGrid(m.Pos)
		label := Cell{Color: ColorNeutral}
		if m.Selected {
			label = Cell{Color: ColorHighlight, Bold: true}
		}
		for i, ch := range []rune(m.Satellite.OrbitSlot) {
			if r.occupied(x+2+i, y) {
				break
			}
			label.Rune = ch
			r.set(x+2+i, y, label)
		}
	}

	// the ring pulses between two shapes once per second
	open, closeRune := '(', ')'
	if f.At.Unix()%2 == 0 {
		open, closeRune = '[', ']'
	}
	for _, a := range f.Anomalies {
		x, y := r.toGrid(a.Pos)
		r.set(x-1, y, Cell{Rune: open, Color: ColorRed, Bold: true})
		r.set(x+1, y, Cell{Rune: closeRune, Color: ColorRed, Bold: true})
	}
	return grid
}

// RenderASCII renders the frame as colored text lines.
func RenderASCII(f Frame, width, height int) string {
	grid := Grid(f, width, height)
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// PlainASCII renders the frame without styling.
func PlainASCII(f Frame, width, height int) string {
	grid := Grid(f, width, height)
	lines := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func renderRow(row []Cell) string {
	var b strings.Builder
	var run strings.Builder
	cur := Cell{}
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if cur.Color == "" {
			b.WriteString(run.String())
		} else {
			st := lipgloss.NewStyle().Foreground(lipgloss.Color(string(cur.Color))).Bold(cur.Bold)
			b.WriteString(st.Render(run.String()))
		}
		run.Reset()
	}
	for _, c := range row {
		if c.Color != cur.Color || c.Bold != cur.Bold {
			flush()
			cur = c
		}
		run.WriteRune(c.Rune)
	}
	flush()
	return b.String()
}

type raster struct {
	grid [][]Cell
	w, h int
}

func (r raster) toGrid(p Point) (int, int) {
	x := int(math.Round(p.X / ViewWidth * float64(r.w-1)))
	y := int(math.Round(p.Y / ViewHeight * float64(r.h-1)))
	return x, y
}

func (r raster) toView(x, y int) Point {
	var p Point
	if r.w > 1 {
		p.X = float64(x) / float64(r.w-1) * ViewWidth
	}
	if r.h > 1 {
		p.Y = float64(y) / float64(r.h-1) * ViewHeight
	}
	return p
}

func (r raster) set(x, y int, c Cell) {
	if y < 0 || y >= r.h || x < 0 || x >= r.w {
		return
	}
	r.grid[y][x] = c
}

func (r raster) circle(center Point, radius float64, c Cell) {
	// enough samples to leave no gaps at the grid resolution
	steps := int(2*math.Pi*radius/ViewWidth*float64(r.w)) * 2
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := r.toGrid(Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)})
		r.set(x, y, c)
	}
}

func (r raster) occupied(x, y int) bool {
	if y < 0 || y >= r.h || x < 0 || x >= r.w {
		return true
	}
	switch r.grid[y][x].Rune {
	case GlyphSatellite, GlyphSelected:
		return true
	}
	return false
}
