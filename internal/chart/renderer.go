// Package chart turns a forecast series into drawable geometry: two
// Catmull-Rom-smoothed temperature curves (actual and feels-like) plus the
// axis metadata needed to label them.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"wearcast/internal/weather"
)

// Smoothing constants. The curve is a Catmull-Rom approximation built from
// cubic Beziers; control points are offset by Tension*Smoothing along the
// neighbor chord. Visual parity depends on these exact values.
const (
	Tension   = 0.4
	Smoothing = 0.3

	// TempPadding widens the temperature axis beyond the observed range.
	TempPadding = 5.0
)

// Point is a screen-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Op is a path segment operation.
type Op string

const (
	OpMove  Op = "move"
	OpLine  Op = "line"
	OpCubic Op = "cubic"
)

// Segment is one drawing instruction. C1 and C2 are set only for OpCubic.
type Segment struct {
	Op Op    `json:"op"`
	C1 Point `json:"c1,omitempty"`
	C2 Point `json:"c2,omitempty"`
	To Point `json:"to"`
}

// Path is the drawable geometry for one tracked dimension. Points holds the
// scaled sample markers; a single-point series has one marker and no
// segments.
type Path struct {
	Points   []Point   `json:"points"`
	Segments []Segment `json:"segments"`
}

// SVG renders the path as an SVG path-data string, empty when there is
// nothing to draw.
func (p Path) SVG() string {
	var b strings.Builder
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			fmt.Fprintf(&b, "M %.2f %.2f ", s.To.X, s.To.Y)
		case OpLine:
			fmt.Fprintf(&b, "L %.2f %.2f ", s.To.X, s.To.Y)
		case OpCubic:
			fmt.Fprintf(&b, "C %.2f %.2f, %.2f %.2f, %.2f %.2f ",
				s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.To.X, s.To.Y)
		}
	}
	return strings.TrimSpace(b.String())
}

// Axes is the derived scale metadata for the chart.
type Axes struct {
	TempMin float64   `json:"temp_min"`
	TempMax float64   `json:"temp_max"`
	TimeMin time.Time `json:"time_min"`
	TimeMax time.Time `json:"time_max"`
	// NowX is set only when the current instant falls inside the time
	// domain; HasNow distinguishes "at x=0" from "omitted".
	NowX   float64 `json:"now_x"`
	HasNow bool    `json:"has_now"`
}

// Chart is the full render result. It is a value object regenerated on
// every snapshot; nothing mutates it after construction.
type Chart struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Actual    Path    `json:"actual"`
	FeelsLike Path    `json:"feels_like"`
	Axes      Axes    `json:"axes"`
}

// Empty reports whether the series produced nothing drawable, which happens
// for an empty input or one with no finite temperature values.
func (c Chart) Empty() bool {
	return len(c.Actual.Points) == 0 && len(c.FeelsLike.Points) == 0
}

// Renderer scales forecast samples into a Width×Height canvas with an Inset
// margin on every side.
type Renderer struct {
	Width  float64
	Height float64
	Inset  float64
}

// NewRenderer returns a renderer with the default canvas geometry.
func NewRenderer() Renderer {
	return Renderer{Width: 720, Height: 280, Inset: 40}
}

// Render builds the chart for a forecast series. It tolerates series of any
// length: zero points yield an empty chart, one point a lone marker, two
// points a straight segment, three or more a smoothed curve. Points with a
// non-finite temperature in either dimension are dropped first.
func (r Renderer) Render(series weather.Series, now time.Time) Chart {
	pts := filterFinite(series)
	if len(pts) == 0 {
		return Chart{Width: r.Width, Height: r.Height}
	}

	tempMin, tempMax := tempRange(pts)
	tempMin -= TempPadding
	tempMax += TempPadding

	timeMin := pts[0].Time
	timeMax := pts[len(pts)-1].Time

	scaleX := func(t time.Time) float64 {
		span := timeMax.Sub(timeMin)
		if span <= 0 {
			return r.Width / 2
		}
		frac := float64(t.Sub(timeMin)) / float64(span)
		return r.Inset + frac*(r.Width-2*r.Inset)
	}
	scaleY := func(v float64) float64 {
		frac := (v - tempMin) / (tempMax - tempMin)
		return r.Height - r.Inset - frac*(r.Height-2*r.Inset)
	}

	actual := make([]Point, len(pts))
	feels := make([]Point, len(pts))
	for i, p := range pts {
		x := scaleX(p.Time)
		actual[i] = Point{X: x, Y: scaleY(p.Temperature)}
		feels[i] = Point{X: x, Y: scaleY(p.FeelsLike)}
	}

	axes := Axes{
		TempMin: tempMin,
		TempMax: tempMax,
		TimeMin: timeMin,
		TimeMax: timeMax,
	}
	if !now.Before(timeMin) && !now.After(timeMax) {
		axes.NowX = scaleX(now)
		axes.HasNow = true
	}

	return Chart{
		Width:     r.Width,
		Height:    r.Height,
		Actual:    smoothPath(actual),
		FeelsLike: smoothPath(feels),
		Axes:      axes,
	}
}

// smoothPath emits the segments for one dimension. For three or more points
// each consecutive pair becomes a cubic Bezier whose control points lean on
// the clamped neighbors:
//
//	cp1 = P[i]   + (P[i+1] - P[i-1]) * Tension * Smoothing
//	cp2 = P[i+1] - (P[i+2] - P[i])   * Tension * Smoothing
func smoothPath(pts []Point) Path {
	path := Path{Points: pts}
	if len(pts) < 2 {
		return path
	}

	path.Segments = append(path.Segments, Segment{Op: OpMove, To: pts[0]})

	if len(pts) == 2 {
		path.Segments = append(path.Segments, Segment{Op: OpLine, To: pts[1]})
		return path
	}

	const f = Tension * Smoothing
	n := len(pts)
	for i := 0; i < n-1; i++ {
		p0 := pts[clamp(i-1, n)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[clamp(i+2, n)]

		c1 := Point{
			X: p1.X + (p2.X-p0.X)*f,
			Y: p1.Y + (p2.Y-p0.Y)*f,
		}
		c2 := Point{
			X: p2.X - (p3.X-p1.X)*f,
			Y: p2.Y - (p3.Y-p1.Y)*f,
		}
		path.Segments = append(path.Segments, Segment{Op: OpCubic, C1: c1, C2: c2, To: p2})
	}
	return path
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func filterFinite(series weather.Series) weather.Series {
	out := make(weather.Series, 0, len(series))
	for _, p := range series {
		if !finite(p.Temperature) || !finite(p.FeelsLike) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func tempRange(pts weather.Series) (min, max float64) {
	min = pts[0].Temperature
	max = pts[0].Temperature
	for _, p := range pts {
		for _, v := range [2]float64{p.Temperature, p.FeelsLike} {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}
