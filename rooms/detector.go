package rooms

import (
	"fmt"

	"github.com/tsawler/takeoff/internal/polygon"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/snap"
	"github.com/tsawler/takeoff/walls"
)

// Config holds room detector configuration
type Config struct {
	// Faces smaller than this are artifacts (square points)
	MinArea float64

	// Faces larger than this fraction of the page are the sheet border
	MaxPageFraction float64

	// Length added to both ends of each segment before noding (points)
	Extension float64

	// Endpoint snapping applied before noding
	Snap snap.Config

	// Largest distance from a label to a room centroid outside the room (points)
	MaxLabelDistance float64

	// Room names recognized on the drawing
	Vocabulary Vocabulary
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinArea:          100,
		MaxPageFraction:  0.80,
		Extension:        1.0,
		Snap:             snap.DefaultConfig(),
		MaxLabelDistance: 50,
		Vocabulary:       DefaultVocabulary(),
	}
}

// Method records how the rooms of an Analysis were produced.
type Method int

const (
	// NoRooms means there was no usable linework.
	NoRooms Method = iota
	// Polygonized means closed faces were reconstructed.
	Polygonized
	// HullFallback means a single convex hull room stands in for the plan.
	HullFallback
)

// String returns the method name
func (m Method) String() string {
	switch m {
	case Polygonized:
		return "polygonized"
	case HullFallback:
		return "hull_fallback"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	switch string(text) {
	case "polygonized":
		*m = Polygonized
	case "hull_fallback":
		*m = HullFallback
	case "none", "":
		*m = NoRooms
	default:
		return fmt.Errorf("unknown room method %q", text)
	}
	return nil
}

// Room is one closed polygon.
type Room struct {
	Index int

	// Closed outer ring and any holes
	Polygon []model.Point
	Holes   [][]model.Point

	Area      float64 // square points
	Perimeter float64 // points
	Centroid  model.Point

	// Empty when no label was found
	Label string
	Type  RoomType

	// Real-world values, valid when Scaled is true
	AreaSF      float64
	PerimeterLF float64
	Scaled      bool
}

// Name returns the label, or "Room N" for unlabeled rooms.
func (r Room) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("Room %d", r.Index)
}

// Contains reports whether p is inside the room or within tolerance of its
// boundary.
func (r Room) Contains(p model.Point, tolerance float64) bool {
	f := Face{Shell: r.Polygon, Holes: r.Holes}
	if f.Contains(p) {
		return true
	}
	return polygon.BoundaryDistance(r.Polygon, p) < tolerance
}

// Analysis is the result of room detection.
type Analysis struct {
	Rooms []Room

	TotalArea   float64 // square points
	TotalAreaSF float64
	Scaled      bool

	// Convex hull of all room vertices; nil without rooms
	OuterBoundary []model.Point

	Method Method
}

// PolygonizeSuccess reports whether real faces were reconstructed.
func (a Analysis) PolygonizeSuccess() bool {
	return a.Method == Polygonized
}

// RoomCount returns the number of rooms.
func (a Analysis) RoomCount() int {
	return len(a.Rooms)
}

// WithScale returns a copy with real-world areas and perimeters computed
// for the scale factor. A non-positive factor clears them.
func (a Analysis) WithScale(factor float64) Analysis {
	out := a
	out.Rooms = make([]Room, len(a.Rooms))
	out.TotalAreaSF = 0
	out.Scaled = factor > 0
	for i, r := range a.Rooms {
		if factor > 0 {
			r.AreaSF = model.SquareFeet(r.Area, factor)
			r.PerimeterLF = model.LinearFeet(r.Perimeter, factor)
			out.TotalAreaSF += r.AreaSF
		} else {
			r.AreaSF, r.PerimeterLF = 0, 0
		}
		r.Scaled = factor > 0
		out.Rooms[i] = r
	}
	return out
}

// Detector reconstructs rooms from wall segments.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with the given configuration.
// A nil vocabulary is replaced by the default one.
func NewDetectorWithConfig(config Config) *Detector {
	if config.Vocabulary == nil {
		config.Vocabulary = DefaultVocabulary()
	}
	return &Detector{config: config}
}

// Detect builds rooms from segments. A positive scale fills in real-world
// values; a positive page area enables the sheet-border filter.
func (d *Detector) Detect(segments []walls.Segment, scale, pageArea float64) Analysis {
	if len(segments) == 0 {
		return Analysis{}
	}

	snapped := snap.NewWithConfig(d.config.Snap).Snap(segments)
	if len(snapped) == 0 {
		return Analysis{}
	}

	lines := make([]Line, 0, len(snapped))
	for _, s := range snapped {
		a, b := extend(s.Start, s.End, d.config.Extension)
		lines = append(lines, Line{A: a, B: b})
	}

	var kept []Face
	for _, f := range Polygonize(lines) {
		area := f.Area()
		if area < d.config.MinArea {
			continue
		}
		if pageArea > 0 && area > pageArea*d.config.MaxPageFraction {
			continue
		}
		kept = append(kept, f)
	}

	if len(kept) == 0 {
		return hullFallback(snapped).WithScale(scale)
	}

	a := Analysis{Method: Polygonized}
	var all []model.Point
	for i, f := range kept {
		r := roomFromFace(f, i)
		a.Rooms = append(a.Rooms, r)
		a.TotalArea += r.Area
		all = append(all, r.Polygon...)
	}
	a.OuterBoundary = polygon.ConvexHull(all)

	return a.WithScale(scale)
}

// DetectAndLabel runs Detect followed by Label.
func (d *Detector) DetectAndLabel(segments []walls.Segment, blocks []model.TextBlock, scale, pageArea float64) Analysis {
	return d.Label(d.Detect(segments, scale, pageArea), blocks)
}

func roomFromFace(f Face, index int) Room {
	return Room{
		Index:     index,
		Polygon:   f.Shell,
		Holes:     f.Holes,
		Area:      f.Area(),
		Perimeter: f.Perimeter(),
		Centroid:  f.Centroid(),
		Type:      Other,
	}
}

// hullFallback returns the convex hull of all endpoints as one room.
func hullFallback(segments []walls.Segment) Analysis {
	hull := polygon.ConvexHull(walls.Endpoints(segments))
	if hull == nil {
		return Analysis{}
	}
	r := roomFromFace(Face{Shell: hull}, 0)
	return Analysis{
		Rooms:         []Room{r},
		TotalArea:     r.Area,
		OuterBoundary: hull,
		Method:        HullFallback,
	}
}

// extend lengthens the segment a-b by ext at both ends.
func extend(a, b model.Point, ext float64) (model.Point, model.Point) {
	dir := b.Vec().Sub(a.Vec())
	if dir.Length() < 1e-9 {
		return a, b
	}
	u := dir.Normalize().Mul(ext)
	return model.FromVec(a.Vec().Sub(u)), model.FromVec(b.Vec().Add(u))
}
