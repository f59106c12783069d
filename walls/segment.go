package walls

import (
	"fmt"
	"math"

	"github.com/tsawler/takeoff/model"
)

// Orientation of a wall segment
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	Angled
)

// String returns the lowercase name of the orientation
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "angled"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// AngleTolerance is the default H/V classification tolerance in degrees.
const AngleTolerance = 2.0

// LineAngle returns the angle of the line from a to b in [0, 180).
func LineAngle(a, b model.Point) float64 {
	deg := math.Abs(math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi)
	return math.Mod(deg, 180)
}

// Classify returns the orientation of the line from a to b using the given
// angle tolerance in degrees.
func Classify(a, b model.Point, tolerance float64) Orientation {
	angle := LineAngle(a, b)
	if angle <= tolerance || angle >= 180-tolerance {
		return Horizontal
	}
	if math.Abs(angle-90) <= tolerance {
		return Vertical
	}
	return Angled
}

// Segment is a straight candidate wall. Orientation and length are always
// derived from the endpoints, so a rebuilt segment is never stale.
type Segment struct {
	Start model.Point
	End   model.Point

	// Thickness in points; 0 when unknown
	Thickness float64
}

// NewSegment creates a segment with unknown thickness.
func NewSegment(start, end model.Point) Segment {
	return Segment{Start: start, End: end}
}

// Orientation classifies the segment with the default tolerance.
func (s Segment) Orientation() Orientation {
	return Classify(s.Start, s.End, AngleTolerance)
}

// Length returns the segment length in points.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the center of the segment.
func (s Segment) Midpoint() model.Point {
	return s.Start.Midpoint(s.End)
}

// String implements fmt.Stringer.
func (s Segment) String() string {
	return fmt.Sprintf("%s (%.1f,%.1f)-(%.1f,%.1f)", s.Orientation(), s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// Endpoints returns the start and end of every segment in order.
func Endpoints(segments []Segment) []model.Point {
	pts := make([]model.Point, 0, 2*len(segments))
	for _, s := range segments {
		pts = append(pts, s.Start, s.End)
	}
	return pts
}

// TotalLength sums the lengths of the segments.
func TotalLength(segments []Segment) float64 {
	var total float64
	for _, s := range segments {
		total += s.Length()
	}
	return total
}
