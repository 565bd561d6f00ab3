// Package render defines the render specs produced by the projectors. A spec
// is everything a rendering adapter needs to draw one dashboard region; the
// adapters never look at the dataset itself.
package render

import (
	"fmt"
	"strings"
)

// Kind names a dashboard region
type Kind string

const (
	KindDemographics Kind = "demographics"
	KindBar          Kind = "bar"
	KindGauge        Kind = "gauge"
	KindScatter      Kind = "scatter"
)

// Kinds lists the regions in dispatch order.
var Kinds = []Kind{KindDemographics, KindBar, KindGauge, KindScatter}

// ParseKind validates a region name from a URL segment.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Dashboard is the combined output of one selection.
type Dashboard struct {
	Index        int          `json:"index"`
	Subject      string       `json:"subject"`
	Demographics Demographics `json:"demographics"`
	Bar          BarChart     `json:"bar"`
	Gauge        Gauge        `json:"gauge"`
	Scatter      Scatter      `json:"scatter"`
}

// Demographics is the ordered list of "key:value" lines.
type Demographics struct {
	Lines []string `json:"lines"`
}

const (
	// BarSlots is the fixed number of bars drawn for every subject.
	BarSlots = 10
	// BarTitle is the bar chart title.
	BarTitle = "Most Prominent Bacteria"
	// OrientationHorizontal draws categories on the y axis, bottom to top.
	OrientationHorizontal = "h"

	placeholderPrefix = "__placeholder_"
)

// PlaceholderCategory returns the opaque category token for the n-th padded
// bar slot (n starts at 1). Tokens are unique per slot so a category axis
// never merges two empty bars.
func PlaceholderCategory(n int) string {
	return fmt.Sprintf("%s%d", placeholderPrefix, n)
}

// IsPlaceholderCategory reports whether a category is a padding token.
func IsPlaceholderCategory(category string) bool {
	return strings.HasPrefix(category, placeholderPrefix)
}

// DisplayCategory maps padding tokens to an empty axis label.
func DisplayCategory(category string) string {
	if IsPlaceholderCategory(category) {
		return ""
	}
	return category
}

// BarChart holds the top taxa in drawing order: index 0 is the bottom bar,
// so the first-ranked taxon is last.
type BarChart struct {
	Title       string    `json:"title"`
	Orientation string    `json:"orientation"`
	Values      []float64 `json:"x"`
	Categories  []string  `json:"y"`
	Labels      []string  `json:"text"`
	Placeholder []bool    `json:"placeholder"`
}

// Len returns the number of bar slots.
func (b BarChart) Len() int {
	return len(b.Values)
}

// Range is a closed numeric interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GaugeStep is one colored band of the gauge axis.
type GaugeStep struct {
	Range Range  `json:"range"`
	Color string `json:"color"`
}

// Point is a position in gauge-relative coordinates: (0,0) bottom left,
// (1,1) top right.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Needle is the line segment drawn over the gauge.
type Needle struct {
	From         Point   `json:"from"`
	To           Point   `json:"to"`
	AngleDegrees float64 `json:"angle_degrees"`
	Color        string  `json:"color"`
	Width        int     `json:"width"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// Gauge is the wash-frequency indicator. When the subject has no usable wash
// frequency Valid is false and Needle is nil; renderers draw the bands only.
type Gauge struct {
	Title     string      `json:"title"`
	WashCount int         `json:"value"`
	Valid     bool        `json:"valid"`
	Axis      Range       `json:"axis"`
	BarColor  string      `json:"bar_color"`
	Steps     []GaugeStep `json:"steps"`
	Needle    *Needle     `json:"needle,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Margin    Margin      `json:"margin"`
}

// Marker is one bubble of the scatter plot.
type Marker struct {
	X     int     `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Size  float64 `json:"size"`
	Hue   float64 `json:"hue"`
	Color string  `json:"color"`
}

// Scatter is the marker-only plot of every taxon.
type Scatter struct {
	Mode    string   `json:"mode"`
	Markers []Marker `json:"markers"`
}

// ModeMarkers draws markers without connecting lines.
const ModeMarkers = "markers"
