package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
	"github.com/tsawler/takeoff/verify"
	"github.com/tsawler/takeoff/walls"
)

func samplePage() measure.PageMeasurements {
	sc, _ := scale.NewResult(0.25, 12, `1/4"=1'-0"`, model.ConfidenceHigh)
	ring := []model.Point{model.Pt(100, 100), model.Pt(676, 100), model.Pt(676, 388), model.Pt(100, 388), model.Pt(100, 100)}
	return measure.PageMeasurements{
		PageNumber:        1,
		Scale:             &sc,
		GrossAreaSF:       1234.56,
		PerimeterLF:       96,
		TotalWallLengthLF: 140.5,
		WallCount:         4,
		WallThickness:     6,
		Rooms: []rooms.Room{
			{Index: 0, Polygon: ring, Centroid: model.Pt(388, 244), Label: "KITCHEN", Type: rooms.Kitchen, AreaSF: 512, PerimeterLF: 96, Scaled: true},
			{Index: 1, Polygon: ring, Centroid: model.Pt(388, 244)},
		},
		RoomCount:    2,
		RoomMethod:   rooms.Polygonized,
		Centerlines:  true,
		Confidence:   model.ConfidenceHigh,
		Verification: &verify.Result{Source: verify.LLMConfirmed},
		Walls:        []walls.Segment{walls.NewSegment(model.Pt(100, 100), model.Pt(676, 100))},
		Raw: model.DrawingData{
			PageWidth:  792,
			PageHeight: 612,
			Paths: []model.VectorPath{
				{Kind: model.PathLine, Points: []model.Point{model.Pt(100, 100), model.Pt(676, 100)}, Width: 2},
				{Kind: model.PathRect, Points: []model.Point{model.Pt(10, 10), model.Pt(20, 10), model.Pt(20, 20), model.Pt(10, 20)}},
				{Kind: model.PathCurve, Points: []model.Point{model.Pt(0, 0), model.Pt(10, 0), model.Pt(20, 10), model.Pt(20, 20)}},
			},
		},
		Warnings: []string{"LLM scale differs"},
	}
}

// ============================================================================
// Formatting tests
// ============================================================================

func TestUnits(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SF(1234.56), "1,234.6 SF"},
		{SF(0), "0.0 SF"},
		{LF(96), "96.0 LF"},
		{LF(12345.04), "12,345.0 LF"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, []measure.PageMeasurements{samplePage()}); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Page 1",
		`1/4"=1'-0" (x48)`,
		"LLM_CONFIRMED",
		"1,234.6 SF",
		"96.0 LF",
		"polygonized, centerlines",
		"HIGH",
		"KITCHEN",
		"kitchen (wet)",
		"Room 1",
		"512.0 SF",
		"! LLM scale differs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text() missing %q in:\n%s", want, out)
		}
	}
}

func TestText_NoData(t *testing.T) {
	var buf bytes.Buffer
	m := measure.PageMeasurements{PageNumber: 3, Confidence: model.ConfidenceNone, Warnings: []string{"page has no vector data"}}
	if err := Text(&buf, []measure.PageMeasurements{m}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "NONE") || !strings.Contains(out, "page has no vector data") {
		t.Errorf("Text() = %s", out)
	}
	if strings.Contains(out, "Gross area") {
		t.Error("no-data page reports an area")
	}
}

// ============================================================================
// JSON tests
// ============================================================================

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, "plan.yaml", []measure.PageMeasurements{samplePage()}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var doc struct {
		Source string `json:"source"`
		Pages  []struct {
			Page        int     `json:"page"`
			GrossAreaSF float64 `json:"gross_area_sf"`
			RoomMethod  string  `json:"room_method"`
			Confidence  string  `json:"confidence"`
			Scale       struct {
				Factor float64 `json:"scale_factor"`
			} `json:"scale"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Source != "plan.yaml" || len(doc.Pages) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	p := doc.Pages[0]
	if p.Page != 1 || p.GrossAreaSF != 1234.56 || p.RoomMethod != "polygonized" || p.Confidence != "high" || p.Scale.Factor != 48 {
		t.Errorf("page = %+v", p)
	}
	if strings.Contains(buf.String(), `"Paths"`) {
		t.Error("raw paths leaked into the report")
	}
}

func TestGeoJSON(t *testing.T) {
	fc := GeoJSON(samplePage())
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("GeoJSON() = %+v", fc)
	}

	f := fc.Features[0]
	if f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) != 1 || len(f.Geometry.Coordinates[0]) != 5 {
		t.Fatalf("geometry = %+v", f.Geometry)
	}
	// 100pt at 1/4"=1'-0" is 100/72*48/12 ft, y flipped
	first := f.Geometry.Coordinates[0][0]
	if want := model.Round(100.0/72*4, 4); first[0] != want || first[1] != -want {
		t.Errorf("first vertex = %v, want [%v %v]", first, want, -want)
	}
	if f.Properties["label"] != "KITCHEN" || f.Properties["unit"] != "ft" || f.Properties["wet"] != true {
		t.Errorf("properties = %v", f.Properties)
	}
	if _, ok := fc.Features[1].Properties["label"]; ok {
		t.Error("unlabeled room has a label property")
	}

	m := samplePage()
	m.Scale = nil
	if u := GeoJSON(m).Features[0].Properties["unit"]; u != "pt" {
		t.Errorf("unit without scale = %v, want pt", u)
	}

	empty := GeoJSON(measure.PageMeasurements{})
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(empty); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"features":[]`) {
		t.Errorf("empty collection = %s", buf.String())
	}
}

// ============================================================================
// PDF tests
// ============================================================================

func TestPDF(t *testing.T) {
	tests := []struct {
		name string
		m    measure.PageMeasurements
	}{
		{"full page", samplePage()},
		{"no page size", func() measure.PageMeasurements {
			m := samplePage()
			m.Raw.PageWidth, m.Raw.PageHeight = 0, 0
			return m
		}()},
		{"empty", measure.PageMeasurements{Confidence: model.ConfidenceNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PDF(&buf, tt.m); err != nil {
				t.Fatalf("PDF() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("PDF() output does not start with %%PDF-")
			}
		})
	}
}

func TestPageSize(t *testing.T) {
	m := samplePage()
	if w, h := pageSize(m); w != 792 || h != 612 {
		t.Errorf("pageSize() = %v x %v, want 792 x 612", w, h)
	}
	m.Raw.PageWidth = 0
	if w, h := pageSize(m); w != 676+36 || h != 100+36 {
		t.Errorf("pageSize() from paths = %v x %v", w, h)
	}
	if w, h := pageSize(measure.PageMeasurements{}); w != 792 || h != 612 {
		t.Errorf("pageSize() default = %v x %v", w, h)
	}
}

func TestRooms(t *testing.T) {
	var buf bytes.Buffer
	if err := Rooms(&buf, samplePage()); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "KITCHEN") || strings.Contains(out, "Gross area") {
		t.Errorf("Rooms() = %s", out)
	}

	buf.Reset()
	if err := Rooms(&buf, measure.PageMeasurements{PageNumber: 2}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Page 2: no rooms\n" {
		t.Errorf("Rooms() = %q", buf.String())
	}
}
