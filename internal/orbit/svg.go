package orbit

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/orbit.svg.tmpl
var templateFS embed.FS

var svgTemplate = template.Must(template.New("orbit.svg.tmpl").Funcs(template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"add": func(a, b float64) float64 { return a + b },
	"xml": template.HTMLEscapeString,
}).ParseFS(templateFS, "templates/orbit.svg.tmpl"))

// SVGOptions tunes SVG output.
type SVGOptions struct {
	// Href, when set, wraps each marker in a link to the returned URL.
	Href func(Marker) string
	// Class is set on the root svg element.
	Class string
}

type svgPalette struct {
	EarthCore Color
	EarthRim  Color
	EarthEdge Color
	Space     Color
	Neutral   Color
	Highlight Color
	Alert     Color
}

type svgData struct {
	Frame
	Width         float64
	Height        float64
	Center        Point
	EarthRadius   float64
	OrbitRadius   float64
	Rings         []float64
	RingGap       float64
	LabelOffset   float64
	AnomalyRadius float64
	Palette       svgPalette
	Href          func(Marker) string
	Class         string
}

// RenderSVG writes the frame as an SVG document.
func RenderSVG(w io.Writer, f Frame, opts SVGOptions) error {
	data := svgData{
		Frame:         f,
		Width:         ViewWidth,
		Height:        ViewHeight,
		Center:        f.Geometry.Center(),
		EarthRadius:   EarthRadius,
		OrbitRadius:   f.Geometry.Radius,
		Rings:         RangeRings,
		RingGap:       SelectionRingGap,
		LabelOffset:   LabelOffset,
		AnomalyRadius: AnomalyRingRadius,
		Palette: svgPalette{
			EarthCore: ColorEarthCore,
			EarthRim:  ColorEarthRim,
			EarthEdge: ColorEarthEdge,
			Space:     ColorSpace,
			Neutral:   ColorNeutral,
			Highlight: ColorHighlight,
			Alert:     ColorRed,
		},
		Href:  opts.Href,
		Class: opts.Class,
	}
	if err := svgTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// SVG returns the frame as an SVG string.
func SVG(f Frame, opts SVGOptions) (string, error) {
	var b strings.Builder
	if err := RenderSVG(&b, f, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}
