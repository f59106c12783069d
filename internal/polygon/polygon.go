// Package polygon holds ring arithmetic shared by the wall and room
// detectors. Area, length, centroid and containment are computed by
// orb/planar on rings converted from model points; convex hulls use a
// monotone chain.
//
// A ring is an ordered []model.Point. Rings returned by this package are
// closed: the first point is repeated at the end.
package polygon

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tsawler/takeoff/model"
)

// ConvexHull returns the closed convex hull of the points using the
// monotone chain algorithm, or nil when the points span no area.
func ConvexHull(points []model.Point) []model.Point {
	if len(points) < 3 {
		return nil
	}

	pts := make([]model.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Less(pts[j]) })

	// Remove exact duplicates
	uniq := pts[:1]
	for _, p := range pts[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return nil
	}

	hull := make([]model.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// hull now ends with its first point
	if len(hull) < 4 {
		return nil
	}
	if Area(hull) <= 0 {
		return nil
	}
	return hull
}

func cross(o, a, b model.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Close returns the ring with its first point appended if it is not
// already closed.
func Close(ring []model.Point) []model.Point {
	if len(ring) == 0 || ring[0] == ring[len(ring)-1] {
		return ring
	}
	out := make([]model.Point, len(ring), len(ring)+1)
	copy(out, ring)
	return append(out, ring[0])
}

// Ring converts points to an orb ring, closing it if needed.
func Ring(points []model.Point) orb.Ring {
	points = Close(points)
	r := make(orb.Ring, len(points))
	for i, p := range points {
		r[i] = orb.Point{p.X, p.Y}
	}
	return r
}

func fromOrb(p orb.Point) model.Point {
	return model.Pt(p[0], p[1])
}

// SignedArea returns the area of the ring. It is positive for rings that
// turn counter-clockwise in a Y-up frame.
func SignedArea(ring []model.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	_, a := planar.CentroidArea(Ring(ring))
	return a
}

// Area returns the absolute area of the ring.
func Area(ring []model.Point) float64 {
	return math.Abs(SignedArea(ring))
}

// Perimeter returns the length of the closed ring.
func Perimeter(ring []model.Point) float64 {
	if len(ring) < 2 {
		return 0
	}
	return planar.Length(orb.LineString(Ring(ring)))
}

// Centroid returns the area centroid of the ring, falling back to the
// vertex mean for degenerate rings.
func Centroid(ring []model.Point) model.Point {
	ring = Close(ring)
	if len(ring) == 0 {
		return model.Point{}
	}
	if len(ring) >= 4 {
		c, a := planar.CentroidArea(Ring(ring))
		if math.Abs(a) >= 1e-12 {
			return fromOrb(c)
		}
	}
	n := len(ring) - 1
	if n == 0 {
		return ring[0]
	}
	var sx, sy float64
	for _, p := range ring[:n] {
		sx += p.X
		sy += p.Y
	}
	return model.Pt(sx/float64(n), sy/float64(n))
}

// Contains reports whether p lies inside the ring. Points on the boundary
// count as inside.
func Contains(ring []model.Point, p model.Point) bool {
	if len(ring) < 3 {
		return false
	}
	return planar.RingContains(Ring(ring), orb.Point{p.X, p.Y})
}

// BoundaryDistance returns the distance from p to the nearest edge of the ring.
func BoundaryDistance(ring []model.Point, p model.Point) float64 {
	ring = Close(ring)
	best := math.Inf(1)
	for i := 0; i+1 < len(ring); i++ {
		best = math.Min(best, SegmentDistance(p, ring[i], ring[i+1]))
	}
	return best
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b model.Point) float64 {
	ab := b.Vec().Sub(a.Vec())
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Distance(a)
	}
	ap := p.Vec().Sub(a.Vec())
	t := (ap.X*ab.X + ap.Y*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(model.FromVec(a.Vec().Add(ab.Mul(t))))
}
