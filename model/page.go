package model

// OpKind identifies a raw drawing operation handed over by the decoder.
type OpKind string

const (
	OpLine  OpKind = "line"
	OpRect  OpKind = "rect"
	OpCurve OpKind = "curve"
	OpQuad  OpKind = "quad"
	OpPath  OpKind = "path"
)

// SegmentType defines the type of a path segment inside an OpPath operation
type SegmentType string

const (
	// SegMoveTo starts a new subpath
	SegMoveTo SegmentType = "m"
	// SegLineTo draws a line to a point
	SegLineTo SegmentType = "l"
	// SegCurveTo draws a cubic Bézier curve
	SegCurveTo SegmentType = "c"
	// SegClose closes the current subpath
	SegClose SegmentType = "h"
)

// PathSegment represents a single segment of an OpPath operation.
// MoveTo and LineTo carry one point; CurveTo carries control point 1,
// control point 2 and the end point; Close carries none.
type PathSegment struct {
	Type   SegmentType `json:"op" yaml:"op"`
	Points []Point     `json:"points,omitempty" yaml:"points,omitempty"`
}

// DrawOp is one raw drawing operation.
//
// Line ops carry 2 points, curve ops 4 control points and quad ops 4 corners
// (upper-left, upper-right, lower-right, lower-left). Rect ops use Rect.
// Path ops use Segments. Stroke and Fill are raw color components as the
// decoder saw them.
type DrawOp struct {
	Kind     OpKind        `json:"kind" yaml:"kind"`
	Points   []Point       `json:"points,omitempty" yaml:"points,omitempty"`
	Rect     BBox          `json:"rect,omitempty" yaml:"rect,omitempty"`
	Segments []PathSegment `json:"segments,omitempty" yaml:"segments,omitempty"`
	Stroke   []float64     `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Fill     []float64     `json:"fill,omitempty" yaml:"fill,omitempty"`
	Width    float64       `json:"width,omitempty" yaml:"width,omitempty"`
}

// TextRun is a run of text with its bounding box
type TextRun struct {
	Text string `json:"text" yaml:"text"`
	BBox BBox   `json:"bbox" yaml:"bbox"`
}

// Page represents a single decoded drawing page
type Page struct {
	Number int       `json:"number,omitempty" yaml:"number,omitempty"` // 1-indexed page number
	Width  float64   `json:"width" yaml:"width"`                       // Page width in points
	Height float64   `json:"height" yaml:"height"`                     // Page height in points
	Ops    []DrawOp  `json:"ops" yaml:"ops"`
	Text   []TextRun `json:"text,omitempty" yaml:"text,omitempty"`
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
		Ops:    make([]DrawOp, 0),
		Text:   make([]TextRun, 0),
	}
}

// AddLine appends a stroked line operation.
func (p *Page) AddLine(a, b Point, width float64) {
	p.Ops = append(p.Ops, DrawOp{Kind: OpLine, Points: []Point{a, b}, Width: width})
}

// AddText appends a text run.
func (p *Page) AddText(text string, bbox BBox) {
	p.Text = append(p.Text, TextRun{Text: text, BBox: bbox})
}

// Area returns the page area in square points
func (p *Page) Area() float64 {
	return p.Width * p.Height
}
