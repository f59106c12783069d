package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/pagefile"
)

// ============================================================================
// Test Helpers
// ============================================================================

// testEnv writes a two-page plan file and a config file whose store lives
// in a temporary directory.
func testEnv(t *testing.T) (dir, plan, cfg string) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("TAKEOFF_LLM_MODEL", "")
	dir = t.TempDir()

	first := model.NewPage(792, 612)
	first.AddLine(model.Pt(100, 100), model.Pt(676, 100), 2)
	first.AddLine(model.Pt(676, 100), model.Pt(676, 388), 2)
	first.AddLine(model.Pt(676, 388), model.Pt(100, 388), 2)
	first.AddLine(model.Pt(100, 388), model.Pt(100, 100), 2)
	first.AddText("LIVING ROOM", model.NewBBox(360, 240, 60, 10))
	first.AddText(`SCALE: 1/4"=1'-0"`, model.NewBBox(300, 560, 100, 12))

	second := model.NewPage(612, 792)

	plan = filepath.Join(dir, "plan.yaml")
	f, err := os.Create(plan)
	if err != nil {
		t.Fatal(err)
	}
	if err := pagefile.Write(f, []*model.Page{first, second}, pagefile.YAML); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg = filepath.Join(dir, "takeoff.yaml")
	body := "store:\n  path: " + filepath.Join(dir, "db", "history.db") + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, plan, cfg
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// ============================================================================
// measure tests
// ============================================================================

func TestMeasure_Text(t *testing.T) {
	_, plan, cfg := testEnv(t)
	out, _, err := run(t, "measure", plan, "--config", cfg)
	if err != nil {
		t.Fatalf("measure error = %v", err)
	}
	for _, want := range []string{"Page 1", "512.0 SF", "96.0 LF", "LIVING ROOM", "Page 2", "page has no vector data"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMeasure_JSONAndFiles(t *testing.T) {
	dir, plan, cfg := testEnv(t)
	pdf := filepath.Join(dir, "overlay.pdf")
	geo := filepath.Join(dir, "rooms.geojson")

	out, _, err := run(t, "measure", plan, "--config", cfg, "--page", "1", "--json", "--pdf", pdf, "--geojson", geo)
	if err != nil {
		t.Fatalf("measure error = %v", err)
	}

	var doc struct {
		Pages []struct {
			Page        int     `json:"page"`
			GrossAreaSF float64 `json:"gross_area_sf"`
		} `json:"pages"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Page != 1 {
		t.Errorf("pages = %+v", doc.Pages)
	}

	// a single page keeps the file names as given
	for _, path := range []string{pdf, geo} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestMeasure_PerPageFiles(t *testing.T) {
	dir, plan, cfg := testEnv(t)
	if _, _, err := run(t, "measure", plan, "--config", cfg, "--pdf", filepath.Join(dir, "overlay.pdf")); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"overlay-p1.pdf", "overlay-p2.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestMeasure_Errors(t *testing.T) {
	dir, plan, cfg := testEnv(t)

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"pages": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"measure", filepath.Join(dir, "nope.yaml"), "--config", cfg}, "failed to open page file"},
		{"no pages", []string{"measure", empty, "--config", cfg}, "no pages"},
		{"bad page", []string{"measure", plan, "--config", cfg, "--page", "9"}, "page 9 not found"},
		{"no api key", []string{"measure", plan, "--config", cfg, "--verify"}, "ANTHROPIC_API_KEY"},
		{"no argument", []string{"measure", "--config", cfg}, "accepts 1 arg"},
		{"bad config", []string{"measure", plan, "--config", filepath.Join(dir, "missing.yaml")}, "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

// ============================================================================
// history tests
// ============================================================================

func TestSaveAndHistory(t *testing.T) {
	_, plan, cfg := testEnv(t)

	out, _, err := run(t, "history", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No saved runs") {
		t.Errorf("history = %q", out)
	}

	_, stderr, err := run(t, "measure", plan, "--config", cfg, "--save")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(stderr, "Saved run") != 2 {
		t.Errorf("stderr = %q, want two saved runs", stderr)
	}

	out, _, err = run(t, "history", "--config", cfg, "--limit", "1")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "RUN") {
		t.Errorf("history = %q, want header and one run", out)
	}
}

// ============================================================================
// scale / rooms / render tests
// ============================================================================

func TestScale(t *testing.T) {
	_, plan, cfg := testEnv(t)
	out, _, err := run(t, "scale", plan, "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`candidate:   "SCALE: 1/4\"=1'-0\""`,
		`text:        1/4"=1'-0" (x48), high confidence`,
		"dimensions:  not found",
		"(assumed)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRooms(t *testing.T) {
	_, plan, cfg := testEnv(t)

	out, _, err := run(t, "rooms", plan, "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "LIVING ROOM") || !strings.Contains(out, "Page 2: no rooms") {
		t.Errorf("rooms = %s", out)
	}

	out, _, err = run(t, "rooms", plan, "--config", cfg, "--page", "1", "--geojson")
	if err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	if err := json.Unmarshal([]byte(out), &fc); err != nil || fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Errorf("geojson = %s (%v)", out, err)
	}
}

func TestRender(t *testing.T) {
	dir, plan, cfg := testEnv(t)
	png := filepath.Join(dir, "page.png")

	out, _, err := run(t, "render", plan, "--config", cfg, "-o", png, "--dpi", "72")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(792x612)") {
		t.Errorf("render = %q", out)
	}
	data, err := os.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
