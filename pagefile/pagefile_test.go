package pagefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tsawler/takeoff/model"
)

const yamlDoc = `
pages:
  - width: 792
    height: 612
    ops:
      - kind: line
        points: [{x: 100, y: 100}, {x: 676, y: 100}]
        width: 2
        stroke: [0]
      - kind: rect
        rect: {x: 10, y: 10, width: 50, height: 20}
      - kind: path
        segments:
          - {op: m, points: [{x: 0, y: 0}]}
          - {op: l, points: [{x: 40, y: 0}]}
          - {op: h}
    text:
      - text: 'SCALE: 1/4"=1''-0"'
        bbox: {x: 300, y: 560, width: 120, height: 12}
  - number: 7
    width: 612
    height: 792
`

const jsonPage = `{
  "width": 792,
  "height": 612,
  "ops": [{"kind": "line", "points": [{"x": 0, "y": 0}, {"x": 100, "y": 0}], "width": 1.5}]
}`

// ============================================================================
// Format detection tests
// ============================================================================

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"plan.json", JSON},
		{"plan.YAML", YAML},
		{"dir/plan.yml", YAML},
		{"plan.pdf", Unknown},
		{"plan", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Detect(tt.filename); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectFromContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"object", "  \n{\"width\": 1}", JSON},
		{"array", "[1]", JSON},
		{"yaml", "pages: []", YAML},
		{"blank", " \n\t", Unknown},
		{"empty", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromContent([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFromContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Decoding tests
// ============================================================================

func TestParse_YAMLDocument(t *testing.T) {
	pages, err := Parse([]byte(yamlDoc), YAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}

	p := pages[0]
	if p.Number != 1 || p.Width != 792 || p.Height != 612 {
		t.Errorf("page 1 = %d %vx%v", p.Number, p.Width, p.Height)
	}
	if pages[1].Number != 7 {
		t.Errorf("page 2 number = %d, want 7", pages[1].Number)
	}

	want := []model.DrawOp{
		{Kind: model.OpLine, Points: []model.Point{model.Pt(100, 100), model.Pt(676, 100)}, Width: 2, Stroke: []float64{0}},
		{Kind: model.OpRect, Rect: model.NewBBox(10, 10, 50, 20)},
		{Kind: model.OpPath, Segments: []model.PathSegment{
			{Type: model.SegMoveTo, Points: []model.Point{model.Pt(0, 0)}},
			{Type: model.SegLineTo, Points: []model.Point{model.Pt(40, 0)}},
			{Type: model.SegClose},
		}},
	}
	if diff := cmp.Diff(want, p.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if len(p.Text) != 1 || p.Text[0].Text != `SCALE: 1/4"=1'-0"` {
		t.Errorf("text = %+v", p.Text)
	}
}

func TestParse_SinglePage(t *testing.T) {
	for _, f := range []Format{JSON, Unknown} {
		pages, err := Parse([]byte(jsonPage), f)
		if err != nil {
			t.Fatalf("Parse(%v) error = %v", f, err)
		}
		if len(pages) != 1 || pages[0].Number != 1 || len(pages[0].Ops) != 1 {
			t.Errorf("Parse(%v) = %+v", f, pages)
		}
		if pages[0].Ops[0].Width != 1.5 {
			t.Errorf("width = %v, want 1.5", pages[0].Ops[0].Width)
		}
	}
}

func TestParse_NoPages(t *testing.T) {
	tests := []struct {
		name string
		data string
		f    Format
	}{
		{"empty list", `{"pages": []}`, JSON},
		{"empty object", `{}`, JSON},
		{"yaml empty list", "pages: []\n", YAML},
		{"null pages", `{"pages": [null]}`, JSON},
		{"blank", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.f); !errors.Is(err, ErrNoPages) {
				t.Errorf("Parse() error = %v, want ErrNoPages", err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"pages": [`), JSON)
	if err == nil || errors.Is(err, ErrNoPages) {
		t.Errorf("Parse() error = %v, want a parse error", err)
	}
	if !strings.Contains(err.Error(), "failed to parse JSON") {
		t.Errorf("error = %q", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	pages, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("len(pages) = %d, want 2", len(pages))
	}

	if _, err := Open(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Open() of a missing file succeeded")
	}
}

// ============================================================================
// Encoding tests
// ============================================================================

func TestWrite_RoundTrip(t *testing.T) {
	pages, err := Parse([]byte(yamlDoc), YAML)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{JSON, YAML} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, pages, f); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if diff := cmp.Diff(pages, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if err := Write(&bytes.Buffer{}, nil, JSON); !errors.Is(err, ErrNoPages) {
		t.Errorf("Write(nil) error = %v, want ErrNoPages", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := model.NewPage(792, 612)
	a.AddLine(model.Pt(0, 0), model.Pt(100, 0), 2)

	b := model.NewPage(792, 612)
	b.AddLine(model.Pt(0, 0), model.Pt(100, 0), 2)
	b.Number = 5

	c := model.NewPage(792, 612)
	c.AddLine(model.Pt(0, 0), model.Pt(100, 1), 2)

	fa := Fingerprint(a)
	if len(fa) != 64 {
		t.Fatalf("Fingerprint() = %q, want 64 hex digits", fa)
	}
	if fa != Fingerprint(b) {
		t.Error("page number changed the fingerprint")
	}
	if fa == Fingerprint(c) {
		t.Error("different geometry has the same fingerprint")
	}
	if Fingerprint(nil) != "" {
		t.Error("Fingerprint(nil) != \"\"")
	}
}
