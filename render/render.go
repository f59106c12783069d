// Package render rasterizes extracted vector data to an image, used as
// the page picture sent along with model requests and by the render
// command.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/model"
)

// Config holds rasterizer configuration
type Config struct {
	// Output resolution
	DPI float64

	// Longest allowed image side; DPI is lowered to fit (pixels)
	MaxDimension int

	// Thinnest stroke drawn (pixels)
	MinStrokeWidth float64

	// Straight pieces per cubic curve
	CurveSteps int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		DPI:            100,
		MaxDimension:   2000,
		MinStrokeWidth: 1,
		CurveSteps:     16,
	}
}

// Renderer draws DrawingData onto a white canvas.
type Renderer struct {
	config Config
}

// New creates a renderer with default configuration.
func New() *Renderer {
	return &Renderer{config: DefaultConfig()}
}

// NewWithConfig creates a renderer with the given configuration.
func NewWithConfig(config Config) *Renderer {
	return &Renderer{config: config}
}

// Size returns the pixel size of the page and the points-to-pixels factor.
func (r *Renderer) Size(data model.DrawingData) (w, h int, scale float64) {
	dpi := r.config.DPI
	if dpi <= 0 {
		dpi = DefaultConfig().DPI
	}
	scale = dpi / model.PointsPerInch
	longest := math.Max(data.PageWidth, data.PageHeight) * scale
	if limit := float64(r.config.MaxDimension); limit > 0 && longest > limit {
		scale *= limit / longest
	}
	w = int(math.Ceil(data.PageWidth * scale))
	h = int(math.Ceil(data.PageHeight * scale))
	return max(w, 1), max(h, 1), scale
}

// Rasterize draws every path. Rectangles with a fill color are filled;
// everything is stroked in its stroke color, black when unset.
func (r *Renderer) Rasterize(data model.DrawingData) *image.RGBA {
	w, h, scale := r.Size(data)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ras := vector.NewRasterizer(w, h)
	for _, p := range data.Paths {
		if p.Kind == model.PathRect && p.Fill.IsSet() && len(p.Points) == 4 {
			ras.Reset(w, h)
			ras.MoveTo(dev(p.Points[0], scale))
			for _, q := range p.Points[1:] {
				ras.LineTo(dev(q, scale))
			}
			ras.ClosePath()
			ras.Draw(img, img.Bounds(), image.NewUniform(toRGBA(p.Fill)), image.Point{})
		}

		pts := r.outline(p)
		if len(pts) < 2 {
			continue
		}
		half := math.Max(p.Width*scale, r.config.MinStrokeWidth) / 2

		ras.Reset(w, h)
		for i := 1; i < len(pts); i++ {
			strokeSegment(ras, pts[i-1].Vec().Mul(scale), pts[i].Vec().Mul(scale), half)
		}
		ras.Draw(img, img.Bounds(), image.NewUniform(toRGBA(p.Stroke)), image.Point{})
	}
	return img
}

// outline returns the polyline traced when stroking p.
func (r *Renderer) outline(p model.VectorPath) []model.Point {
	switch p.Kind {
	case model.PathRect:
		if len(p.Points) != 4 {
			return nil
		}
		return append(append([]model.Point(nil), p.Points...), p.Points[0])
	case model.PathCurve:
		if len(p.Points) != 4 {
			return p.Points
		}
		return flatten(p.Points, r.config.CurveSteps)
	default:
		return p.Points
	}
}

// flatten samples a cubic Bézier curve.
func flatten(c []model.Point, steps int) []model.Point {
	if steps < 1 {
		steps = 1
	}
	p0, p1, p2, p3 := c[0].Vec(), c[1].Vec(), c[2].Vec(), c[3].Vec()
	out := make([]model.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		v := p0.Mul(u * u * u).
			Add(p1.Mul(3 * u * u * t)).
			Add(p2.Mul(3 * u * t * t)).
			Add(p3.Mul(t * t * t))
		out = append(out, model.FromVec(v))
	}
	return out
}

// strokeSegment adds the quad covering a-b at the given half width.
func strokeSegment(ras *vector.Rasterizer, a, b vec.Vec2, half float64) {
	d := b.Sub(a)
	if d.Length() == 0 {
		return
	}
	u := d.Normalize()
	n := vec.Vec2{X: -u.Y, Y: u.X}.Mul(half)
	// square caps keep joints closed
	a = a.Sub(u.Mul(half))
	b = b.Add(u.Mul(half))

	ras.MoveTo(f32(a.Add(n)))
	ras.LineTo(f32(b.Add(n)))
	ras.LineTo(f32(b.Sub(n)))
	ras.LineTo(f32(a.Sub(n)))
	ras.ClosePath()
}

func dev(p model.Point, scale float64) (float32, float32) {
	return float32(p.X * scale), float32(p.Y * scale)
}

func f32(v vec.Vec2) (float32, float32) {
	return float32(v.X), float32(v.Y)
}

func toRGBA(c model.Color) color.RGBA {
	r, g, b, ok := c.Components()
	if !ok {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// WritePNG rasterizes data and writes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, data model.DrawingData) error {
	if err := png.Encode(w, r.Rasterize(data)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Image renders data as a PNG ready to attach to a model request.
func (r *Renderer) Image(data model.DrawingData) (*llm.Image, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(&buf, data); err != nil {
		return nil, err
	}
	return &llm.Image{MediaType: "image/png", Data: buf.Bytes()}, nil
}
