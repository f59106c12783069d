package centerline

import (
	"math"
	"sort"

	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/walls"
)

// Config holds extraction configuration
type Config struct {
	// Segments whose perpendicular coordinates step by no more than this
	// share a group (points)
	GroupTolerance float64

	// Gap window for pairing two groups (points)
	MinGap float64
	MaxGap float64

	// Ranges shorter than this are dropped (points)
	MinLength float64

	// Largest collinear gap CloseGaps bridges (points)
	MaxDoorGap float64

	// Largest distance ExtendToIntersections moves an endpoint (points)
	MaxExtension float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		GroupTolerance: 2.0,
		MinGap:         4.0,
		MaxGap:         18.0,
		MinLength:      1.0,
		MaxDoorGap:     60.0,
		MaxExtension:   80.0,
	}
}

// Result is the output of centerline extraction. Every input segment is
// either behind a centerline or listed in Unpaired.
type Result struct {
	Centerlines []walls.Segment
	Unpaired    []walls.Segment

	// Median pair gap; 0 when no pair was found
	Thickness float64
}

// Extractor pairs parallel wall faces.
type Extractor struct {
	config Config
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return &Extractor{config: DefaultConfig()}
}

// NewExtractorWithConfig creates an extractor with the given configuration.
func NewExtractorWithConfig(config Config) *Extractor {
	return &Extractor{config: config}
}

// Extract pairs parallel groups per orientation and emits centerlines.
// Angled segments are never paired and go to Unpaired.
func (e *Extractor) Extract(segments []walls.Segment) Result {
	var result Result
	var gaps []float64

	for _, o := range []walls.Orientation{walls.Horizontal, walls.Vertical} {
		groups := groupByPerp(byOrientation(segments, o), e.config.GroupTolerance)
		used := make([]bool, len(groups))

		for i := range groups {
			if used[i] {
				continue
			}
			for j := i + 1; j < len(groups); j++ {
				if used[j] {
					continue
				}
				gap := math.Abs(groups[j].coord - groups[i].coord)
				if gap < e.config.MinGap {
					continue
				}
				if gap > e.config.MaxGap {
					// sorted, so no point looking further
					break
				}

				gaps = append(gaps, gap)
				center := (groups[i].coord + groups[j].coord) / 2

				var ranges []span
				for _, s := range append(append([]walls.Segment(nil), groups[i].members...), groups[j].members...) {
					ranges = append(ranges, parallelRange(s, o))
				}
				for _, r := range mergeRanges(ranges) {
					if r.hi-r.lo < e.config.MinLength {
						continue
					}
					result.Centerlines = append(result.Centerlines, makeSegment(o, center, r))
				}

				used[i], used[j] = true, true
				break
			}
		}

		for i, g := range groups {
			if !used[i] {
				result.Unpaired = append(result.Unpaired, g.members...)
			}
		}
	}
	result.Unpaired = append(result.Unpaired, byOrientation(segments, walls.Angled)...)

	if len(gaps) > 0 {
		sort.Float64s(gaps)
		result.Thickness = gaps[len(gaps)/2]
	}
	return result
}

// CloseGaps merges collinear centerlines whose gap is at most the
// configured door gap. Larger gaps are left open.
func (e *Extractor) CloseGaps(centerlines []walls.Segment) []walls.Segment {
	return CloseGaps(centerlines, e.config.MaxDoorGap, e.config.MinLength)
}

// ExtendToIntersections extends centerline ends to perpendicular
// neighbours within the configured distance.
func (e *Extractor) ExtendToIntersections(centerlines []walls.Segment) []walls.Segment {
	return ExtendToIntersections(centerlines, e.config.MaxExtension)
}

// Pipeline runs Extract, CloseGaps and ExtendToIntersections in order.
func (e *Extractor) Pipeline(segments []walls.Segment) Result {
	result := e.Extract(segments)
	result.Centerlines = e.ExtendToIntersections(e.CloseGaps(result.Centerlines))
	return result
}

// CloseGaps regroups centerlines by perpendicular coordinate (within 1pt),
// sorts each group by parallel range and bridges gaps of at most maxGap.
func CloseGaps(centerlines []walls.Segment, maxGap, minLength float64) []walls.Segment {
	var out []walls.Segment
	for _, o := range []walls.Orientation{walls.Horizontal, walls.Vertical} {
		for _, g := range groupByPerp(byOrientation(centerlines, o), 1.0) {
			ranges := make([]span, len(g.members))
			for i, s := range g.members {
				ranges[i] = parallelRange(s, o)
			}
			sortSpans(ranges)

			bridged := []span{ranges[0]}
			for _, r := range ranges[1:] {
				last := &bridged[len(bridged)-1]
				if r.lo-last.hi <= maxGap {
					last.hi = math.Max(last.hi, r.hi)
				} else {
					bridged = append(bridged, r)
				}
			}

			for _, r := range bridged {
				if r.hi-r.lo < minLength {
					continue
				}
				out = append(out, makeSegment(o, g.coord, r))
			}
		}
	}
	return out
}

// ExtendToIntersections moves each centerline end onto a perpendicular
// centerline when one lies within maxExt along the segment's axis and its
// span (grown by maxExt) covers the segment's coordinate. Both ends extend
// independently. Segments are compared against the unextended set.
func ExtendToIntersections(centerlines []walls.Segment, maxExt float64) []walls.Segment {
	hs := byOrientation(centerlines, walls.Horizontal)
	vs := byOrientation(centerlines, walls.Vertical)

	out := make([]walls.Segment, 0, len(hs)+len(vs))
	out = append(out, extendAgainst(hs, vs, walls.Horizontal, maxExt)...)
	out = append(out, extendAgainst(vs, hs, walls.Vertical, maxExt)...)
	return out
}

func extendAgainst(segs, perps []walls.Segment, o walls.Orientation, maxExt float64) []walls.Segment {
	other := walls.Vertical
	if o == walls.Vertical {
		other = walls.Horizontal
	}

	out := make([]walls.Segment, len(segs))
	for i, s := range segs {
		coord := perpCoord(s, o)
		orig := parallelRange(s, o)
		r := orig

		for _, p := range perps {
			pc := perpCoord(p, other)
			pr := parallelRange(p, other)
			if coord < pr.lo-maxExt || coord > pr.hi+maxExt {
				continue
			}
			if d := r.lo - pc; d > 0 && d <= maxExt {
				r.lo = pc
			}
			if d := pc - r.hi; d > 0 && d <= maxExt {
				r.hi = pc
			}
		}

		if r != orig {
			out[i] = makeSegment(o, coord, r)
		} else {
			out[i] = s
		}
	}
	return out
}

// group is a set of segments sharing a perpendicular coordinate.
type group struct {
	coord   float64
	members []walls.Segment
}

// groupByPerp sorts segments by perpendicular coordinate and chains
// neighbours whose coordinates differ by at most tolerance. Each group is
// keyed by its mean coordinate. Groups come back in coordinate order.
func groupByPerp(segments []walls.Segment, tolerance float64) []group {
	if len(segments) == 0 {
		return nil
	}

	type entry struct {
		seg   walls.Segment
		coord float64
	}
	entries := make([]entry, len(segments))
	for i, s := range segments {
		entries[i] = entry{s, perpCoord(s, s.Orientation())}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].coord < entries[j].coord })

	var groups []group
	current := []walls.Segment{entries[0].seg}
	sum := entries[0].coord

	flush := func() {
		groups = append(groups, group{coord: sum / float64(len(current)), members: current})
	}

	for k := 1; k < len(entries); k++ {
		if entries[k].coord-entries[k-1].coord <= tolerance {
			current = append(current, entries[k].seg)
			sum += entries[k].coord
			continue
		}
		flush()
		current = []walls.Segment{entries[k].seg}
		sum = entries[k].coord
	}
	flush()

	return groups
}

func byOrientation(segments []walls.Segment, o walls.Orientation) []walls.Segment {
	var out []walls.Segment
	for _, s := range segments {
		if s.Orientation() == o {
			out = append(out, s)
		}
	}
	return out
}

// perpCoord is y for horizontal segments and x otherwise.
func perpCoord(s walls.Segment, o walls.Orientation) float64 {
	if o == walls.Horizontal {
		return (s.Start.Y + s.End.Y) / 2
	}
	return (s.Start.X + s.End.X) / 2
}

// span is a closed 1-D range.
type span struct {
	lo, hi float64
}

func parallelRange(s walls.Segment, o walls.Orientation) span {
	if o == walls.Horizontal {
		return span{math.Min(s.Start.X, s.End.X), math.Max(s.Start.X, s.End.X)}
	}
	return span{math.Min(s.Start.Y, s.End.Y), math.Max(s.Start.Y, s.End.Y)}
}

func sortSpans(spans []span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].lo != spans[j].lo {
			return spans[i].lo < spans[j].lo
		}
		return spans[i].hi < spans[j].hi
	})
}

// mergeRanges merges overlapping ranges and returns them sorted.
func mergeRanges(ranges []span) []span {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]span(nil), ranges...)
	sortSpans(sorted)

	merged := []span{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.lo <= last.hi {
			last.hi = math.Max(last.hi, r.hi)
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func makeSegment(o walls.Orientation, coord float64, r span) walls.Segment {
	if o == walls.Horizontal {
		return walls.NewSegment(model.Pt(r.lo, coord), model.Pt(r.hi, coord))
	}
	return walls.NewSegment(model.Pt(coord, r.lo), model.Pt(coord, r.hi))
}
