package vectors

import (
	"github.com/tsawler/takeoff/model"
)

// Config holds extractor configuration
type Config struct {
	// Tolerance for rectangle corner and axis checks (points)
	RectTolerance float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		RectTolerance: 0.5,
	}
}

// Extractor converts raw page operations into vector paths.
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

// Extract normalizes every supported operation of the page. A nil page
// yields empty drawing data.
func (ex *Extractor) Extract(page *model.Page) model.DrawingData {
	if page == nil {
		return model.DrawingData{}
	}

	paths := make([]model.VectorPath, 0, len(page.Ops))
	for _, op := range page.Ops {
		paths = append(paths, ex.convert(op)...)
	}

	return model.DrawingData{
		Paths:      paths,
		PageWidth:  page.Width,
		PageHeight: page.Height,
	}
}

// convert turns one raw operation into zero or more paths.
func (ex *Extractor) convert(op model.DrawOp) []model.VectorPath {
	style := pathStyle{
		stroke: model.ColorFromComponents(op.Stroke),
		fill:   model.ColorFromComponents(op.Fill),
		width:  op.Width,
	}

	switch op.Kind {
	case model.OpLine:
		if len(op.Points) != 2 {
			return nil
		}
		return []model.VectorPath{style.build(model.PathLine, op.Points)}

	case model.OpRect:
		r := op.Rect
		corners := []model.Point{
			model.Pt(r.Left(), r.Top()),
			model.Pt(r.Right(), r.Top()),
			model.Pt(r.Right(), r.Bottom()),
			model.Pt(r.Left(), r.Bottom()),
		}
		vp := style.build(model.PathRect, corners)
		vp.BBox = r
		return []model.VectorPath{vp}

	case model.OpCurve:
		if len(op.Points) != 4 {
			return nil
		}
		return []model.VectorPath{style.build(model.PathCurve, op.Points)}

	case model.OpQuad:
		if len(op.Points) != 4 {
			return nil
		}
		return []model.VectorPath{style.build(model.PathPolyline, op.Points)}

	case model.OpPath:
		return ex.convertPath(op.Segments, style)
	}

	return nil
}

// convertPath replays path segments and splits the result into rectangles,
// single lines and curves.
func (ex *Extractor) convertPath(segments []model.PathSegment, style pathStyle) []model.VectorPath {
	p := NewPath()
	for _, seg := range segments {
		switch seg.Type {
		case model.SegMoveTo:
			if len(seg.Points) == 1 {
				p.MoveTo(seg.Points[0])
			}
		case model.SegLineTo:
			if len(seg.Points) == 1 {
				p.LineTo(seg.Points[0])
			}
		case model.SegCurveTo:
			if len(seg.Points) == 3 {
				p.CurveTo(seg.Points[0], seg.Points[1], seg.Points[2])
			}
		case model.SegClose:
			p.ClosePath()
		}
	}

	var out []model.VectorPath
	for _, sp := range p.Subpaths {
		if rect, ok := ex.detectRectangle(sp); ok {
			out = append(out, style.build(model.PathRect, rect))
			continue
		}
		for _, e := range sp.Edges {
			if e.IsCurve() {
				out = append(out, style.build(model.PathCurve, e.Points))
			} else {
				out = append(out, style.build(model.PathLine, e.Points))
			}
		}
	}
	return out
}

// detectRectangle checks if a subpath is a closed axis-aligned rectangle
func (ex *Extractor) detectRectangle(sp Subpath) ([]model.Point, bool) {
	if !sp.Closed {
		return nil, false
	}
	corners, ok := sp.Corners()
	if !ok || len(corners) != 4 {
		return nil, false
	}
	tol := ex.config.RectTolerance
	if !isRectangle(corners, tol) || !isAxisAligned(corners, tol) {
		return nil, false
	}
	return corners, true
}

type pathStyle struct {
	stroke model.Color
	fill   model.Color
	width  float64
}

func (s pathStyle) build(kind model.PathKind, points []model.Point) model.VectorPath {
	pts := make([]model.Point, len(points))
	copy(pts, points)
	return model.VectorPath{
		Kind:   kind,
		Points: pts,
		Stroke: s.stroke,
		Fill:   s.fill,
		Width:  s.width,
		BBox:   model.BBoxOf(pts),
	}
}
