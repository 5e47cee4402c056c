package header

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Default clock locale and zone.
const (
	DefaultLocale   = "en-IN"
	DefaultTimezone = "Asia/Kolkata"
)

// regions whose locales show a 12-hour clock
var twelveHourRegions = map[string]bool{
	"US": true,
	"IN": true,
	"AU": true,
	"CA": true,
	"NZ": true,
	"PH": true,
}

// ClockFormat formats the header clock as hour:minute for a locale.
type ClockFormat struct {
	Tag      language.Tag
	Location *time.Location
}

// NewClockFormat parses locale (a BCP 47 tag) and loads the zone.
func NewClockFormat(locale, timezone string) (ClockFormat, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return ClockFormat{}, fmt.Errorf("locale %q: %w", locale, err)
	}
	loc := time.Local
	if timezone != "" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return ClockFormat{}, fmt.Errorf("timezone %q: %w", timezone, err)
		}
	}
	return ClockFormat{Tag: tag, Location: loc}, nil
}

// Format returns the two-digit hour and minute of t.
func (c ClockFormat) Format(t time.Time) string {
	return FormatClock(t, c.Tag, c.Location)
}

// FormatClock formats t as hour:minute the way tag's region writes it.
func FormatClock(t time.Time, tag language.Tag, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	region, _ := tag.Region()
	if !twelveHourRegions[region.String()] {
		return t.Format("15:04")
	}
	s := t.Format("03:04 PM")
	if region.String() == "IN" {
		s = strings.ToLower(s)
	}
	return s
}
