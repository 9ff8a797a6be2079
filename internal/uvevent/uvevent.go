// Package uvevent turns raw hourly UV samples into a single peak-UV calendar
// event with a textual bar chart of all qualifying hours.
package uvevent

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"suncal-service/internal/forecast"
)

// PeakEvent summarizes the highest rounded UV value in a forecast window.
type PeakEvent struct {
	MaxUV       int
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
}

type hourlyPoint struct {
	uv   int       // rounded to nearest integer
	hour time.Time // floored to the start of its UTC hour
}

// Build aggregates samples into a peak event. Filtering compares the
// unrounded UV value against minUV, so 0.6 is out and 1.4 is in at minUV=1.
// Returns false when no sample qualifies; the caller then simply emits no UV
// event.
//
// The event spans from the earliest peak hour to the latest peak hour plus
// one. Ties across non-contiguous hours widen the span over hours that are
// not themselves peak hours; that is the documented behavior.
func Build(samples []forecast.Sample, minUV int, tzOffsetHours float64) (*PeakEvent, bool) {
	points := make([]hourlyPoint, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.UV) || math.IsInf(s.UV, 0) {
			continue
		}
		if s.UV < float64(minUV) {
			continue
		}
		points = append(points, hourlyPoint{
			uv:   int(math.Round(s.UV)),
			hour: s.Time.UTC().Truncate(time.Hour),
		})
	}
	if len(points) == 0 {
		return nil, false
	}

	maxUV := points[0].uv
	for _, p := range points[1:] {
		if p.uv > maxUV {
			maxUV = p.uv
		}
	}

	var start, latest time.Time
	for _, p := range points {
		if p.uv != maxUV {
			continue
		}
		if start.IsZero() || p.hour.Before(start) {
			start = p.hour
		}
		if latest.IsZero() || p.hour.After(latest) {
			latest = p.hour
		}
	}

	return &PeakEvent{
		MaxUV:       maxUV,
		Start:       start,
		End:         latest.Add(time.Hour),
		Summary:     fmt.Sprintf("UV Index %d", maxUV),
		Description: renderChart(points, minUV, tzOffsetHours),
	}, true
}

// renderChart produces one line per qualifying point, in upstream order:
// a fixed-width local hour label, a bar, and the rounded value.
func renderChart(points []hourlyPoint, minUV int, tzOffsetHours float64) string {
	offset := time.Duration(tzOffsetHours * float64(time.Hour))

	lines := make([]string, 0, len(points))
	for _, p := range points {
		barLen := p.uv - (minUV - 1)
		if barLen < 0 {
			barLen = 0
		}
		lines = append(lines, hourLabel(p.hour.Add(offset))+" "+
			strings.Repeat("█", barLen)+" "+strconv.Itoa(p.uv))
	}
	return strings.Join(lines, "\n")
}

// fixedWidth maps the label characters to fullwidth glyphs. Calendar clients
// render descriptions in proportional fonts, so plain digits would skew the
// bars out of alignment.
var fixedWidth = map[rune]rune{
	'0': '０', '1': '１', '2': '２', '3': '３', '4': '４',
	'5': '５', '6': '６', '7': '７', '8': '８', '9': '９',
	'A': 'Ａ', 'P': 'Ｐ', 'M': 'Ｍ',
}

// hourLabel formats a local instant as a 2-digit 12-hour label such as ０７ＡＭ.
func hourLabel(t time.Time) string {
	var b strings.Builder
	for _, r := range t.Format("03PM") {
		if fw, ok := fixedWidth[r]; ok {
			r = fw
		}
		b.WriteRune(r)
	}
	return b.String()
}
