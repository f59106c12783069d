package walls

import (
	"math"
	"sort"

	"github.com/tsawler/takeoff/internal/polygon"
	"github.com/tsawler/takeoff/model"
)

// Config holds detector configuration
type Config struct {
	// Minimum stroke width for a wall line (points)
	MinWidth float64

	// Minimum line length; shorter lines are ticks and symbols (points)
	MinLength float64

	// Tolerance for horizontal/vertical classification (degrees)
	AngleTolerance float64

	// Maximum RGB component sum for a dark color
	MaxDarkColorSum float64

	// Lines longer than Q3 + OutlierIQRFactor*IQR are dropped
	OutlierIQRFactor float64

	// Gap window for parallel face pairs (points)
	PairMinGap float64
	PairMaxGap float64

	// Maximum angle difference for a parallel pair (degrees)
	PairAngleTolerance float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinWidth:           1.0,
		MinLength:          36.0,
		AngleTolerance:     AngleTolerance,
		MaxDarkColorSum:    1.0,
		OutlierIQRFactor:   3.0,
		PairMinGap:         2.0,
		PairMaxGap:         20.0,
		PairAngleTolerance: 5.0,
	}
}

// Analysis is the result of wall detection on a drawing.
type Analysis struct {
	Segments []Segment

	// Sum of segment lengths (points)
	TotalLength float64

	// Median gap of parallel face pairs; 0 when none were found
	Thickness float64

	// Number of parallel pair observations behind Thickness
	PairCount int

	// Closed convex hull of all endpoints; nil for fewer than 3 points
	OuterBoundary []model.Point
}

// HasParallelPairs reports whether any wall was drawn with two faces.
func (a Analysis) HasParallelPairs() bool {
	return a.PairCount > 0
}

// Detector identifies wall segments from vector paths.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with the given configuration.
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Detect filters the drawing down to probable walls. Empty or insufficient
// input returns an empty Analysis.
func (d *Detector) Detect(data model.DrawingData) Analysis {
	candidates := d.filterCandidates(data.Paths)
	if len(candidates) == 0 {
		return Analysis{}
	}

	candidates = d.removeLengthOutliers(candidates)
	if len(candidates) == 0 {
		return Analysis{}
	}

	var gaps []float64
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if gap, ok := d.parallelGap(candidates[i], candidates[j]); ok {
				gaps = append(gaps, gap)
			}
		}
	}

	segments := make([]Segment, 0, len(candidates))
	for _, p := range candidates {
		segments = append(segments, NewSegment(p.Points[0], p.Points[1]))
	}

	return Analysis{
		Segments:      segments,
		TotalLength:   TotalLength(segments),
		Thickness:     Median(gaps),
		PairCount:     len(gaps),
		OuterBoundary: polygon.ConvexHull(Endpoints(segments)),
	}
}

// EnclosedArea returns the area of the convex hull of all segment
// endpoints in square points. It overestimates concave footprints and is
// only a fallback. ok is false when the hull is empty.
func EnclosedArea(segments []Segment) (area float64, ok bool) {
	hull := polygon.ConvexHull(Endpoints(segments))
	if hull == nil {
		return 0, false
	}
	area = polygon.Area(hull)
	return area, area > 0
}

// filterCandidates applies the width, length, color and orientation checks
// in that order.
func (d *Detector) filterCandidates(paths []model.VectorPath) []model.VectorPath {
	var out []model.VectorPath
	for _, p := range paths {
		if !p.IsSegment() {
			continue
		}
		if p.Width < d.config.MinWidth {
			continue
		}
		if p.Length() < d.config.MinLength {
			continue
		}
		if !d.isDark(p.Stroke) {
			continue
		}
		if Classify(p.Points[0], p.Points[1], d.config.AngleTolerance) == Angled {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isDark treats an unset stroke as the default black.
func (d *Detector) isDark(c model.Color) bool {
	if !c.IsSet() {
		return true
	}
	return c.Sum() <= d.config.MaxDarkColorSum
}

// removeLengthOutliers drops lines longer than Q3 + k*IQR. Fewer than four
// candidates are returned unchanged.
func (d *Detector) removeLengthOutliers(candidates []model.VectorPath) []model.VectorPath {
	if len(candidates) < 4 {
		return candidates
	}

	lengths := make([]float64, len(candidates))
	for i, p := range candidates {
		lengths[i] = p.Length()
	}
	sort.Float64s(lengths)

	n := len(lengths)
	q1 := lengths[n/4]
	q3 := lengths[3*n/4]
	upper := q3 + d.config.OutlierIQRFactor*(q3-q1)

	var out []model.VectorPath
	for _, p := range candidates {
		if p.Length() <= upper {
			out = append(out, p)
		}
	}
	return out
}

// parallelGap returns the perpendicular distance from a's line to b's
// midpoint when the two lines are roughly parallel and the distance falls in
// the pair window.
func (d *Detector) parallelGap(a, b model.VectorPath) (float64, bool) {
	a1, a2 := a.Points[0], a.Points[1]
	b1, b2 := b.Points[0], b.Points[1]

	diff := math.Abs(LineAngle(a1, a2) - LineAngle(b1, b2))
	tol := d.config.PairAngleTolerance
	if diff > tol && diff < 180-tol {
		return 0, false
	}

	dir := a2.Vec().Sub(a1.Vec())
	length := dir.Length()
	if length < 0.001 {
		return 0, false
	}

	rel := b1.Midpoint(b2).Vec().Sub(a1.Vec())
	dist := math.Abs(rel.X*dir.Y-rel.Y*dir.X) / length

	if dist >= d.config.PairMinGap && dist <= d.config.PairMaxGap {
		return dist, true
	}
	return 0, false
}

// Median returns the median of values, averaging the middle pair for even
// counts. It returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
