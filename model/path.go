package model

import "math"

// PathKind is the type of a normalized vector path
type PathKind int

const (
	PathLine PathKind = iota
	PathRect
	PathCurve
	PathPolyline
)

// String returns the lowercase name of the kind
func (k PathKind) String() string {
	switch k {
	case PathLine:
		return "line"
	case PathRect:
		return "rect"
	case PathCurve:
		return "curve"
	case PathPolyline:
		return "polyline"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k PathKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// VectorPath is one normalized drawing primitive.
// Rectangles hold 4 corners, curves their 4 control points.
type VectorPath struct {
	Kind   PathKind
	Points []Point
	Stroke Color
	Fill   Color
	Width  float64
	BBox   BBox
}

// IsSegment reports whether the path is a 2-point line.
func (p VectorPath) IsSegment() bool {
	return p.Kind == PathLine && len(p.Points) == 2
}

// Length returns the length of a 2-point line, or 0 for anything else.
func (p VectorPath) Length() float64 {
	if !p.IsSegment() {
		return 0
	}
	return p.Points[0].Distance(p.Points[1])
}

// DrawingData holds all vector paths extracted from a single page.
type DrawingData struct {
	Paths      []VectorPath
	PageWidth  float64
	PageHeight float64
}

// PageSizeInches returns the page size in inches.
func (d DrawingData) PageSizeInches() (width, height float64) {
	return d.PageWidth / 72, d.PageHeight / 72
}

// PageArea returns the page area in square points.
func (d DrawingData) PageArea() float64 {
	return d.PageWidth * d.PageHeight
}

// DrawingStats summarizes a DrawingData.
type DrawingStats struct {
	PathCount       int
	LineCount       int
	RectCount       int
	CurveCount      int
	PolylineCount   int
	TotalLineLength float64
	BBox            BBox
	HasBBox         bool
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
