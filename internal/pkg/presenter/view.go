package presenter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

const EmptyMessage = "No readings stored yet. Refresh to fetch the latest listing."

type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// View is what the dashboard shows for one field selection.
type View struct {
	Field   model.Field   `json:"field"`
	Unit    string        `json:"unit"`
	Points  []Point       `json:"points"`
	Recent  model.Records `json:"recent"`
	Total   int           `json:"total"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
}

// Build plots field over time and keeps the last tail records, in the order
// they were stored, for the table.
func Build(records model.Records, field model.Field, tail int) View {
	v := View{
		Field:  field,
		Unit:   field.Unit(),
		Points: []Point{},
		Recent: records.Tail(tail),
		Total:  len(records),
	}
	if len(records) == 0 {
		v.Empty = true
		v.Message = EmptyMessage
		return v
	}

	v.Points = lo.FilterMap(records, func(r model.Record, _ int) (Point, bool) {
		value := field.Value(r)
		if value == nil {
			return Point{}, false
		}
		return Point{Timestamp: r.Timestamp, Value: *value}, true
	})
	slices.SortStableFunc(v.Points, func(a, b Point) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return v
}

// Polyline lays the points out in a width x height box, left to right by
// time, for an SVG polyline.
func (v View) Polyline(width, height float64) string {
	if len(v.Points) == 0 {
		return ""
	}
	first, last := v.Points[0].Timestamp, v.Points[len(v.Points)-1].Timestamp
	span := last.Sub(first).Seconds()
	low := lo.MinBy(v.Points, func(a, b Point) bool { return a.Value < b.Value }).Value
	high := lo.MaxBy(v.Points, func(a, b Point) bool { return a.Value > b.Value }).Value

	coords := make([]string, 0, len(v.Points))
	for _, p := range v.Points {
		x := width / 2
		if span > 0 {
			x = p.Timestamp.Sub(first).Seconds() / span * width
		}
		y := height / 2
		if high > low {
			y = height - (p.Value-low)/(high-low)*height
		}
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return strings.Join(coords, " ")
}

// FormatReading renders an optional reading for tables.
func FormatReading(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
