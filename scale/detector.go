package scale

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/takeoff/model"
)

// Config holds scale detector configuration
type Config struct {
	// Largest distance between a dimension string and the midpoint of the
	// line it calibrates against (points)
	CalibrationRadius float64

	// Lines shorter than this are ignored during calibration (points)
	MinLineLength float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		CalibrationRadius: 50,
		MinLineLength:     1,
	}
}

// fractions maps the paper lengths used in architectural scales to inches.
var fractions = map[string]float64{
	"1/8":   0.125,
	"1/4":   0.25,
	"3/16":  0.1875,
	"3/8":   0.375,
	"1/2":   0.5,
	"3/4":   0.75,
	"1":     1.0,
	"1 1/2": 1.5,
	"3":     3.0,
}

var (
	// 1/8"=1'-0", 1 1/2"=1'-0", 1=20'-0"
	archPattern = regexp.MustCompile(`(\d+(?:\s+\d+)?/\d+|\d+)\s*(?:"|'')?\s*=\s*(\d+)\s*'\s*-?\s*(\d+)\s*(?:"|'')?`)

	// 2"=10'-0"; the inch mark is required
	wholeInchPattern = regexp.MustCompile(`(\d+)\s*(?:"|'')\s*=\s*(\d+)\s*'\s*-?\s*(\d+)\s*(?:"|'')?`)

	// 1:100
	metricPattern = regexp.MustCompile(`1\s*:\s*(\d+)`)
)

// Detector finds the drawing scale of a page.
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

// Detect tries the page text first and falls back to dimension
// calibration.
func (d *Detector) Detect(data model.DrawingData, blocks []model.TextBlock) (Result, bool) {
	if r, ok := d.DetectFromText(PageText(blocks)); ok {
		return r, true
	}
	return d.DetectFromDimensions(data.Paths, blocks)
}

// DetectFromText parses scale notation from text. Architectural, whole
// inch and metric patterns are tried in that order and the first match
// with a positive factor is returned with high confidence.
func (d *Detector) DetectFromText(text string) (Result, bool) {
	norm := Normalize(text)
	for _, try := range []func(string) (Result, bool){tryArchitectural, tryWholeInch, tryMetric} {
		if r, ok := try(norm); ok {
			return r, true
		}
	}
	return Result{}, false
}

func tryArchitectural(text string) (Result, bool) {
	for _, m := range archPattern.FindAllStringSubmatch(text, -1) {
		drawing, ok := fractions[collapseLines(m[1])]
		if !ok {
			continue
		}
		if r, ok := NewResult(drawing, feetInches(m[2], m[3]), strings.TrimSpace(m[0]), model.ConfidenceHigh); ok {
			return r, true
		}
	}
	return Result{}, false
}

func tryWholeInch(text string) (Result, bool) {
	for _, m := range wholeInchPattern.FindAllStringSubmatch(text, -1) {
		drawing, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if r, ok := NewResult(drawing, feetInches(m[2], m[3]), strings.TrimSpace(m[0]), model.ConfidenceHigh); ok {
			return r, true
		}
	}
	return Result{}, false
}

func tryMetric(text string) (Result, bool) {
	for _, m := range metricPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if r, ok := NewResult(1, float64(n), strings.TrimSpace(m[0]), model.ConfidenceHigh); ok {
			return r, true
		}
	}
	return Result{}, false
}

func feetInches(feet, inches string) float64 {
	f, _ := strconv.Atoi(feet)
	i, _ := strconv.Atoi(inches)
	return float64(f)*12 + float64(i)
}

// DetectFromDimensions calibrates the scale from dimension annotations.
// Every text block that parses as a dimension is paired with the 2-point
// lines whose midpoint lies within CalibrationRadius; the closest pair
// across the page gives the scale, at medium confidence.
func (d *Detector) DetectFromDimensions(paths []model.VectorPath, blocks []model.TextBlock) (Result, bool) {
	if len(paths) == 0 || len(blocks) == 0 {
		return Result{}, false
	}

	var lines []model.VectorPath
	for _, p := range paths {
		if p.IsSegment() {
			lines = append(lines, p)
		}
	}
	if len(lines) == 0 {
		return Result{}, false
	}

	var best Result
	found := false
	bestDist := math.Inf(1)

	for _, tb := range blocks {
		realInches, ok := ParseDimension(tb.Text)
		if !ok || realInches <= 0 {
			continue
		}
		for _, line := range lines {
			mid := line.Points[0].Midpoint(line.Points[1])
			dist := mid.Distance(tb.Position)
			if dist > d.config.CalibrationRadius || dist >= bestDist {
				continue
			}
			length := line.Length()
			if length < d.config.MinLineLength {
				continue
			}
			r, ok := NewResult(model.PaperInches(length), realInches, strings.TrimSpace(tb.Text), model.ConfidenceMedium)
			if !ok {
				continue
			}
			best, bestDist, found = r, dist, true
		}
	}
	return best, found
}

// DetectFromText parses scale notation with the default configuration.
func DetectFromText(text string) (Result, bool) {
	return NewDetector().DetectFromText(text)
}
