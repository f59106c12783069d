// Package snap closes near-miss gaps between wall segment endpoints.
//
// CAD exports often leave gaps of a point or two where walls should meet.
// Endpoints within a tolerance are clustered with a disjoint set and each
// cluster is replaced by its centroid, so polygon reconstruction sees exact
// coincident vertices. No two snapped endpoints are left within the
// tolerance, so snapping a snapped set changes nothing.
package snap

import (
	"math"

	"github.com/tsawler/takeoff/internal/unionfind"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/walls"
)

// Config holds snapper configuration
type Config struct {
	// Maximum endpoint distance for snapping (points)
	Tolerance float64

	// Endpoint count above which neighbours are found through a grid index
	// instead of the pairwise scan
	GridThreshold int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Tolerance:     3.0,
		GridThreshold: 2000,
	}
}

// Snapper snaps segment endpoints together.
type Snapper struct {
	config Config
}

// New creates a snapper with default configuration.
func New() *Snapper {
	return &Snapper{config: DefaultConfig()}
}

// NewWithConfig creates a snapper with the given configuration.
func NewWithConfig(config Config) *Snapper {
	return &Snapper{config: config}
}

// Endpoints snaps segments with the default grid threshold.
func Endpoints(segments []walls.Segment, tolerance float64) []walls.Segment {
	cfg := DefaultConfig()
	cfg.Tolerance = tolerance
	return NewWithConfig(cfg).Snap(segments)
}

// Snap returns new segments with clustered endpoints. Zero-length results
// are dropped and segments with the same unordered endpoint pair are kept
// once. Thickness is carried over.
func (s *Snapper) Snap(segments []walls.Segment) []walls.Segment {
	if len(segments) == 0 {
		return nil
	}

	seen := make(map[model.Point]bool)
	var unique []model.Point
	for _, seg := range segments {
		for _, p := range []model.Point{seg.Start, seg.End} {
			if !seen[p] {
				seen[p] = true
				unique = append(unique, p)
			}
		}
	}

	mapping := s.cluster(unique)

	type pairKey struct{ a, b model.Point }
	pairs := make(map[pairKey]bool)
	var out []walls.Segment
	for _, seg := range segments {
		start := mapping[seg.Start]
		end := mapping[seg.End]
		if start == end {
			continue
		}

		key := pairKey{start, end}
		if end.Less(start) {
			key = pairKey{end, start}
		}
		if pairs[key] {
			continue
		}
		pairs[key] = true

		out = append(out, walls.Segment{Start: start, End: end, Thickness: seg.Thickness})
	}
	return out
}

// maxPasses bounds re-clustering of centroids.
const maxPasses = 64

// cluster maps every point to the centroid of its tolerance cluster.
// Merging a cluster can move its centroid within tolerance of another one,
// so centroids are clustered again until no two are within tolerance.
// Centroids are weighted by the number of points they stand for.
func (s *Snapper) cluster(points []model.Point) map[model.Point]model.Point {
	reps := append([]model.Point(nil), points...)
	weights := make([]float64, len(points))
	repOf := make([]int, len(points))
	for i := range points {
		weights[i] = 1
		repOf[i] = i
	}

	for pass := 0; pass < maxPasses; pass++ {
		groups := s.groups(reps)
		if len(groups) == len(reps) {
			break
		}

		next := make([]model.Point, len(groups))
		nextWeights := make([]float64, len(groups))
		moved := make([]int, len(reps))
		for g, members := range groups {
			if len(members) == 1 {
				next[g] = reps[members[0]]
				nextWeights[g] = weights[members[0]]
				moved[members[0]] = g
				continue
			}
			var cx, cy, w float64
			for _, i := range members {
				cx += reps[i].X * weights[i]
				cy += reps[i].Y * weights[i]
				w += weights[i]
				moved[i] = g
			}
			next[g] = model.Pt(cx/w, cy/w)
			nextWeights[g] = w
		}
		for i := range repOf {
			repOf[i] = moved[repOf[i]]
		}
		reps, weights = next, nextWeights
	}

	mapping := make(map[model.Point]model.Point, len(points))
	for i, p := range points {
		mapping[p] = reps[repOf[i]]
	}
	return mapping
}

// groups returns the index groups of points joined by distances within
// the tolerance.
func (s *Snapper) groups(points []model.Point) [][]int {
	ds := unionfind.New(len(points))
	tol := s.config.Tolerance

	if len(points) > s.config.GridThreshold && tol > 0 {
		unionWithGrid(ds, points, tol)
	} else {
		for i := range points {
			for j := i + 1; j < len(points); j++ {
				if points[i].Distance(points[j]) <= tol {
					ds.Union(i, j)
				}
			}
		}
	}
	return ds.Groups()
}

type cell struct{ x, y int }

// unionWithGrid buckets points into cells of the tolerance size and only
// compares points in neighbouring cells. The unions are the same as the
// pairwise scan.
func unionWithGrid(ds *unionfind.DisjointSet, points []model.Point, tol float64) {
	cellOf := func(p model.Point) cell {
		return cell{int(math.Floor(p.X / tol)), int(math.Floor(p.Y / tol))}
	}

	grid := make(map[cell][]int)
	for i, p := range points {
		c := cellOf(p)
		grid[c] = append(grid[c], i)
	}

	for i, p := range points {
		c := cellOf(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[cell{c.x + dx, c.y + dy}] {
					if j > i && p.Distance(points[j]) <= tol {
						ds.Union(i, j)
					}
				}
			}
		}
	}
}

// ToGrid rounds a point to the nearest multiple of size, rounding halves
// to even.
func ToGrid(p model.Point, size float64) model.Point {
	return model.Pt(
		math.RoundToEven(p.X/size)*size,
		math.RoundToEven(p.Y/size)*size,
	)
}
