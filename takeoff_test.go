package takeoff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/pagefile"
	"github.com/tsawler/takeoff/verify"
)

// rectanglePage is a 32'x16' single-line footprint at 1/4"=1'-0".
func rectanglePage(withScale bool) *model.Page {
	p := model.NewPage(792, 612)
	p.AddLine(model.Pt(100, 100), model.Pt(676, 100), 2)
	p.AddLine(model.Pt(676, 100), model.Pt(676, 388), 2)
	p.AddLine(model.Pt(676, 388), model.Pt(100, 388), 2)
	p.AddLine(model.Pt(100, 388), model.Pt(100, 100), 2)
	p.AddText("KITCHEN", model.NewBBox(370, 240, 40, 10))
	if withScale {
		p.AddText(`SCALE: 1/4"=1'-0"`, model.NewBBox(300, 560, 100, 12))
	}
	return p
}

type scriptedModel struct {
	reply string
	err   error
}

func (m scriptedModel) Complete(ctx context.Context, req llm.Request) (string, error) {
	return m.reply, m.err
}

func TestOpen(t *testing.T) {
	// Test with non-existent file
	_, _, err := Open("nonexistent.yaml").Measure(context.Background())
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpen_PageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := pagefile.Write(f, []*model.Page{rectanglePage(true), rectanglePage(false)}, pagefile.JSON); err != nil {
		t.Fatal(err)
	}
	f.Close()

	count, err := Open(path).PageCount()
	if err != nil || count != 2 {
		t.Fatalf("PageCount() = %d, %v, want 2", count, err)
	}

	pages, warnings, err := Open(path).Measure(context.Background())
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	if pages[0].Scale.Factor != 48 || pages[1].Scale.Factor != 96 {
		t.Errorf("scales = %v, %v", pages[0].Scale.Factor, pages[1].Scale.Factor)
	}

	// only the second page has no scale
	if len(warnings) != 1 || warnings[0].Page != 2 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestFromPages(t *testing.T) {
	pages, warnings, err := FromPages(rectanglePage(true)).Measure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	m := pages[0]
	if m.PageNumber != 1 || m.RoomCount != 1 || m.Rooms[0].Label != "KITCHEN" {
		t.Errorf("Measure() = %+v", m)
	}
	if m.GrossAreaSF < 500 || m.GrossAreaSF > 520 {
		t.Errorf("GrossAreaSF = %.1f, want ~512", m.GrossAreaSF)
	}
}

func TestFromPages_Empty(t *testing.T) {
	if _, err := FromPages().PageCount(); !errors.Is(err, pagefile.ErrNoPages) {
		t.Errorf("PageCount() error = %v, want ErrNoPages", err)
	}
	if _, _, err := FromPages(nil).Measure(context.Background()); !errors.Is(err, pagefile.ErrNoPages) {
		t.Errorf("Measure() error = %v, want ErrNoPages", err)
	}
}

// ============================================================================
// Page selection tests
// ============================================================================

func TestPageSelection(t *testing.T) {
	a, b, c := rectanglePage(true), rectanglePage(false), rectanglePage(true)
	job := FromPages(a, b, c)

	tests := []struct {
		name    string
		job     *Job
		want    []int
		wantErr bool
	}{
		{"all", job, []int{1, 2, 3}, false},
		{"one", job.Pages(2), []int{2}, false},
		{"sorted and deduplicated", job.Pages(3, 1).Pages(3), []int{1, 3}, false},
		{"out of range", job.Pages(4), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := tt.job.SelectedPages()
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectedPages() error = %v, wantErr %v", err, tt.wantErr)
			}
			var got []int
			for _, p := range pages {
				got = append(got, p.Number)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SelectedPages() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SelectedPages() = %v, want %v", got, tt.want)
				}
			}
		})
	}

	// chaining never changes the original
	if pages, _ := job.SelectedPages(); len(pages) != 3 {
		t.Errorf("original job selects %d pages, want 3", len(pages))
	}
	if a.Number != 0 {
		t.Error("FromPages numbered the caller's page")
	}
}

// ============================================================================
// Model integration tests
// ============================================================================

func TestVerify(t *testing.T) {
	reply := `{"notation": "1/4\"=1'-0\"", "scale_factor": 48, "confidence": "HIGH"}`
	pages, warnings, err := FromPages(rectanglePage(false)).
		Verify(scriptedModel{reply: reply}).
		Measure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	m := pages[0]
	if m.ScaleAssumed || m.Scale.Factor != 48 || m.Verification.Source != verify.LLMRecovered {
		t.Errorf("Measure() scale = %+v, verification %+v", m.Scale, m.Verification)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestInterpret_Failure(t *testing.T) {
	pages, warnings, err := FromPages(rectanglePage(true)).
		Interpret(scriptedModel{err: llm.ErrTimeout}).
		MaxAttempts(1).
		Measure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !pages[0].Interpretation.IsDefault() {
		t.Errorf("Interpretation = %+v, want default", pages[0].Interpretation)
	}
	if !strings.Contains(FormatWarnings(warnings), "page 1: LLM interpretation unavailable") {
		t.Errorf("warnings = %q", FormatWarnings(warnings))
	}
}

// ============================================================================
// Helper tests
// ============================================================================

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{{Page: 1, Message: "a"}, {Message: "b"}})
	if got != "page 1: a; b" {
		t.Errorf("FormatWarnings() = %q", got)
	}
	if FormatWarnings(nil) != "" {
		t.Error("FormatWarnings(nil) != \"\"")
	}
}

func TestMust(t *testing.T) {
	if got := Must(FromPages(rectanglePage(true)).PageCount()); got != 1 {
		t.Errorf("Must() = %d, want 1", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustMeasure() did not panic")
		}
	}()
	MustMeasure(Open("nonexistent.yaml").Measure(context.Background()))
}
