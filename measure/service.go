package measure

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/takeoff/centerline"
	"github.com/tsawler/takeoff/internal/polygon"
	"github.com/tsawler/takeoff/interpret"
	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/render"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
	"github.com/tsawler/takeoff/vectors"
	"github.com/tsawler/takeoff/verify"
	"github.com/tsawler/takeoff/walls"
)

// Config gathers the configuration of every stage.
type Config struct {
	Vectors    vectors.Config
	Walls      walls.Config
	Centerline centerline.Config
	Rooms      rooms.Config
	Scale      scale.Config

	// Reconstruct rooms from centerlines when walls have two faces
	UseCenterlines bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Vectors:        vectors.DefaultConfig(),
		Walls:          walls.DefaultConfig(),
		Centerline:     centerline.DefaultConfig(),
		Rooms:          rooms.DefaultConfig(),
		Scale:          scale.DefaultConfig(),
		UseCenterlines: true,
	}
}

// Service runs the measurement pipeline. It is safe for concurrent use.
type Service struct {
	extractor   *vectors.Extractor
	walls       *walls.Detector
	centerlines *centerline.Extractor
	rooms       *rooms.Detector
	scale       *scale.Detector

	useCenterlines bool

	verifier    *verify.Verifier
	interpreter *interpret.Interpreter
	renderer    *render.Renderer

	logger      *log.Logger
	concurrency int
}

// New creates a service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger:      log.New(io.Discard, "", 0),
		concurrency: runtime.NumCPU(),
	}
	s.applyConfig(DefaultConfig())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) applyConfig(c Config) {
	s.extractor = vectors.NewExtractorWithConfig(c.Vectors)
	s.walls = walls.NewDetectorWithConfig(c.Walls)
	s.centerlines = centerline.NewExtractorWithConfig(c.Centerline)
	s.rooms = rooms.NewDetectorWithConfig(c.Rooms)
	s.scale = scale.NewDetectorWithConfig(c.Scale)
	s.useCenterlines = c.UseCenterlines
}

// scaleOutcome is what the scale branch of Measure produces.
type scaleOutcome struct {
	scale        *scale.Result
	assumed      bool
	verification *verify.Result
}

// geometryOutcome is what the geometry branch of Measure produces, all in
// drawing points.
type geometryOutcome struct {
	walls       walls.Analysis
	rooms       rooms.Analysis
	centerlines bool
}

// Measure runs the pipeline on one page. Only context cancellation is
// reported as an error; every other problem degrades the result.
func (s *Service) Measure(ctx context.Context, page *model.Page) (PageMeasurements, error) {
	data := s.extractor.Extract(page)
	if len(data.Paths) == 0 {
		s.logger.Printf("Page %d: no vector data", pageNumber(page))
		return noData(page, data), nil
	}

	blocks := scale.ExtractTextBlocks(page)

	var img *llm.Image
	if s.renderer != nil && (s.verifier != nil || s.interpreter != nil) {
		var err error
		if img, err = s.renderer.Image(data); err != nil {
			s.logger.Printf("Failed to render page %d: %v", pageNumber(page), err)
		}
	}

	var so scaleOutcome
	var geo geometryOutcome

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		so = s.resolveScale(gctx, data, blocks, img)
		return gctx.Err()
	})
	g.Go(func() error {
		geo = s.detectGeometry(data)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return PageMeasurements{}, fmt.Errorf("failed to measure page %d: %w", pageNumber(page), err)
	}

	m := s.assemble(page, data, blocks, so, geo)

	if s.interpreter != nil {
		summary := interpret.NewSummary(rooms.Analysis{Rooms: m.Rooms, TotalAreaSF: m.GrossAreaSF}, m.Scale, blocks, m.WallCount, m.Confidence)
		in := s.interpreter.Interpret(ctx, summary, img)
		m.Interpretation = &in
		if in.IsDefault() {
			m.Warnings = append(m.Warnings, "LLM interpretation unavailable")
		}
	}

	if err := ctx.Err(); err != nil {
		return PageMeasurements{}, fmt.Errorf("failed to measure page %d: %w", pageNumber(page), err)
	}

	s.logger.Printf("Page %d: %d walls, %d rooms (%s), %.1f SF, confidence %s",
		m.PageNumber, m.WallCount, m.RoomCount, m.RoomMethod, m.GrossAreaSF, m.Confidence)
	return m, nil
}

// resolveScale tries page text, then dimension calibration, then the
// verifier. The assumed default is applied later so the verifier sees
// only real detections.
func (s *Service) resolveScale(ctx context.Context, data model.DrawingData, blocks []model.TextBlock, img *llm.Image) scaleOutcome {
	var out scaleOutcome
	if r, ok := s.scale.Detect(data, blocks); ok {
		out.scale = &r
	}

	if s.verifier != nil {
		v := s.verifier.Verify(ctx, verify.Input{
			Detected:   out.scale,
			Blocks:     blocks,
			PageHeight: data.PageHeight,
			Image:      img,
		})
		out.verification = &v
		if v.Scale != nil {
			out.scale = v.Scale
		}
	}

	if out.scale == nil {
		d := scale.DefaultScale()
		out.scale = &d
		out.assumed = true
	}
	return out
}

// detectGeometry finds walls and rooms without a scale.
func (s *Service) detectGeometry(data model.DrawingData) geometryOutcome {
	var out geometryOutcome
	out.walls = s.walls.Detect(data)
	if len(out.walls.Segments) == 0 {
		return out
	}

	pageArea := data.PageArea()
	segments := out.walls.Segments

	if s.useCenterlines && out.walls.HasParallelPairs() {
		res := s.centerlines.Pipeline(segments)
		if len(res.Centerlines) > 0 {
			a := s.rooms.Detect(res.Centerlines, 0, pageArea)
			if a.PolygonizeSuccess() {
				out.rooms = a
				out.centerlines = true
				return out
			}
		}
	}

	out.rooms = s.rooms.Detect(segments, 0, pageArea)
	return out
}

// assemble converts point-space results with the resolved scale and
// assigns the confidence tier.
func (s *Service) assemble(page *model.Page, data model.DrawingData, blocks []model.TextBlock, so scaleOutcome, geo geometryOutcome) PageMeasurements {
	m := PageMeasurements{
		PageNumber:    pageNumber(page),
		Scale:         so.scale,
		ScaleAssumed:  so.assumed,
		WallCount:     len(geo.walls.Segments),
		WallThickness: geo.walls.Thickness,
		Centerlines:   geo.centerlines,
		Verification:  so.verification,
		Walls:         geo.walls.Segments,
		OuterBoundary: geo.walls.OuterBoundary,
		TextBlocks:    blocks,
		Raw:           data,
	}
	if so.verification != nil {
		m.Warnings = append(m.Warnings, so.verification.Warnings...)
	}
	if so.assumed {
		m.Warnings = append(m.Warnings, fmt.Sprintf("no scale found; assuming %s", so.scale.Notation))
	}

	factor := so.scale.Factor

	ra := s.rooms.Label(geo.rooms.WithScale(factor), blocks)
	m.Rooms = ra.Rooms
	m.RoomCount = ra.RoomCount()
	m.RoomMethod = ra.Method
	if ra.Method == rooms.HullFallback {
		m.Warnings = append(m.Warnings, "no closed rooms found; using the convex hull of all walls")
	}

	switch {
	case ra.PolygonizeSuccess():
		m.GrossAreaSF = ra.TotalAreaSF
	case m.WallCount > 0:
		if area, ok := walls.EnclosedArea(geo.walls.Segments); ok {
			m.GrossAreaSF = model.SquareFeet(area, factor)
		}
	}

	if b := geo.walls.OuterBoundary; len(b) > 0 {
		if p := polygon.Perimeter(b); p > 0 {
			m.PerimeterLF = model.LinearFeet(p, factor)
		}
	}
	if geo.walls.TotalLength > 0 {
		m.TotalWallLengthLF = model.LinearFeet(geo.walls.TotalLength, factor)
	}

	m.Confidence = confidence(so, geo.walls.OuterBoundary != nil, ra.PolygonizeSuccess())
	return m
}

// confidence assigns the tier: low for an assumed scale, high with an
// outer boundary, medium otherwise. Polygonized rooms or a model-backed
// scale raise medium to high.
func confidence(so scaleOutcome, hasBoundary, polygonized bool) model.Confidence {
	if so.assumed || so.scale == nil {
		return model.ConfidenceLow
	}
	c := model.ConfidenceMedium
	if hasBoundary {
		c = model.ConfidenceHigh
	}
	if c == model.ConfidenceMedium && polygonized {
		c = model.ConfidenceHigh
	}
	if c == model.ConfidenceMedium && so.verification != nil && so.verification.Source.Trusted() {
		c = model.ConfidenceHigh
	}
	return c
}

// MeasureAll measures pages in parallel. Results are in page order. The
// first error cancels the remaining pages.
func (s *Service) MeasureAll(ctx context.Context, pages []*model.Page) ([]PageMeasurements, error) {
	results := make([]PageMeasurements, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			m, err := s.Measure(gctx, page)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func pageNumber(page *model.Page) int {
	if page == nil {
		return 0
	}
	return page.Number
}
