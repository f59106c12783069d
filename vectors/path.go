package vectors

import (
	"math"

	"github.com/tsawler/takeoff/model"
)

// Path replays PDF-style path construction (m, l, c, h) and remembers the
// subpaths it was built from.
type Path struct {
	// Subpaths holds finished and in-progress subpaths in drawing order
	Subpaths []Subpath

	currentPoint    model.Point
	subpathStart    model.Point
	hasCurrentPoint bool
}

// Subpath is one connected run of segments.
type Subpath struct {
	Start  model.Point
	Edges  []Edge
	Closed bool
}

// Edge is a straight or cubic piece of a subpath. Straight edges have two
// points; curves have four (start, control 1, control 2, end).
type Edge struct {
	Points []model.Point
}

// IsCurve reports whether the edge is a cubic Bézier segment.
func (e Edge) IsCurve() bool {
	return len(e.Points) == 4
}

// NewPath creates a new empty path
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new subpath at the specified point
func (p *Path) MoveTo(pt model.Point) {
	p.Subpaths = append(p.Subpaths, Subpath{Start: pt})
	p.currentPoint = pt
	p.subpathStart = pt
	p.hasCurrentPoint = true
}

// LineTo appends a straight edge from the current point
func (p *Path) LineTo(pt model.Point) {
	if !p.hasCurrentPoint {
		// Treat as moveto if no current point
		p.MoveTo(pt)
		return
	}
	p.appendEdge(Edge{Points: []model.Point{p.currentPoint, pt}})
	p.currentPoint = pt
}

// CurveTo appends a cubic Bézier curve with control points c1, c2 and end point end
func (p *Path) CurveTo(c1, c2, end model.Point) {
	if !p.hasCurrentPoint {
		p.MoveTo(c1)
	}
	p.appendEdge(Edge{Points: []model.Point{p.currentPoint, c1, c2, end}})
	p.currentPoint = end
}

// ClosePath closes the current subpath, adding the closing edge when the
// current point is away from the subpath start.
func (p *Path) ClosePath() {
	if !p.hasCurrentPoint || len(p.Subpaths) == 0 {
		return
	}
	if !pointsEqual(p.currentPoint, p.subpathStart, 0.1) {
		p.appendEdge(Edge{Points: []model.Point{p.currentPoint, p.subpathStart}})
	}
	p.Subpaths[len(p.Subpaths)-1].Closed = true
	p.currentPoint = p.subpathStart
}

// Rectangle appends a rectangle as a complete subpath
func (p *Path) Rectangle(r model.BBox) {
	p.MoveTo(model.Pt(r.Left(), r.Top()))
	p.LineTo(model.Pt(r.Right(), r.Top()))
	p.LineTo(model.Pt(r.Right(), r.Bottom()))
	p.LineTo(model.Pt(r.Left(), r.Bottom()))
	p.ClosePath()
}

// IsEmpty returns true if the path has no edges
func (p *Path) IsEmpty() bool {
	for _, sp := range p.Subpaths {
		if len(sp.Edges) > 0 {
			return false
		}
	}
	return true
}

func (p *Path) appendEdge(e Edge) {
	last := &p.Subpaths[len(p.Subpaths)-1]
	last.Edges = append(last.Edges, e)
}

// Corners returns the vertices of a straight subpath, without repeating the
// start point at the end. ok is false if the subpath contains a curve.
func (sp Subpath) Corners() (corners []model.Point, ok bool) {
	corners = []model.Point{sp.Start}
	for _, e := range sp.Edges {
		if e.IsCurve() {
			return nil, false
		}
		corners = append(corners, e.Points[1])
	}
	if len(corners) > 1 && pointsEqual(corners[0], corners[len(corners)-1], 0.1) {
		corners = corners[:len(corners)-1]
	}
	return corners, true
}

// pointsEqual checks if two points are approximately equal
func pointsEqual(a, b model.Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

// isRectangle checks if four points form a rectangle: every corner must be
// a right angle within roughly 6 degrees.
func isRectangle(corners []model.Point, tolerance float64) bool {
	if len(corners) != 4 {
		return false
	}

	for i := 0; i < 4; i++ {
		p0 := corners[i].Vec()
		p1 := corners[(i+1)%4].Vec()
		p2 := corners[(i+2)%4].Vec()

		v1 := p1.Sub(p0)
		v2 := p2.Sub(p1)
		len1, len2 := v1.Length(), v2.Length()
		if len1 < tolerance || len2 < tolerance {
			return false
		}

		// Normalized dot product (cosine of angle)
		cosAngle := (v1.X*v2.X + v1.Y*v2.Y) / (len1 * len2)
		if math.Abs(cosAngle) > 0.1 {
			return false
		}
	}

	return true
}

// isAxisAligned reports whether every edge of the ring is horizontal or vertical.
func isAxisAligned(corners []model.Point, tolerance float64) bool {
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if math.Abs(a.X-b.X) > tolerance && math.Abs(a.Y-b.Y) > tolerance {
			return false
		}
	}
	return true
}
