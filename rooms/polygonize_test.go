package rooms

import (
	"math"
	"sort"
	"testing"

	"github.com/tsawler/takeoff/model"
)

func ln(x1, y1, x2, y2 float64) Line {
	return Line{A: model.Pt(x1, y1), B: model.Pt(x2, y2)}
}

func squareLines(x, y, size float64) []Line {
	return []Line{
		ln(x, y, x+size, y),
		ln(x+size, y, x+size, y+size),
		ln(x+size, y+size, x, y+size),
		ln(x, y+size, x, y),
	}
}

func faceAreas(faces []Face) []float64 {
	areas := make([]float64, len(faces))
	for i, f := range faces {
		areas[i] = f.Area()
	}
	sort.Float64s(areas)
	return areas
}

func sameAreas(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			return false
		}
	}
	return true
}

func TestPolygonize(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  []float64
	}{
		{
			name:  "square",
			lines: squareLines(0, 0, 100),
			want:  []float64{10000},
		},
		{
			name:  "plus sign splits square into four",
			lines: append(squareLines(0, 0, 100), ln(50, 0, 50, 100), ln(0, 50, 100, 50)),
			want:  []float64{2500, 2500, 2500, 2500},
		},
		{
			name:  "dangling line ignored",
			lines: append(squareLines(0, 0, 100), ln(100, 50, 150, 50)),
			want:  []float64{10000},
		},
		{
			name:  "overshooting corners",
			lines: []Line{ln(-5, 0, 105, 0), ln(100, -5, 100, 105), ln(105, 100, -5, 100), ln(0, 105, 0, -5)},
			want:  []float64{10000},
		},
		{
			name:  "bridge between two squares",
			lines: append(append(squareLines(0, 0, 100), squareLines(200, 0, 100)...), ln(100, 50, 200, 50)),
			want:  []float64{10000, 10000},
		},
		{
			name:  "island becomes a hole",
			lines: append(squareLines(0, 0, 100), squareLines(40, 40, 20)...),
			want:  []float64{400, 9600},
		},
		{
			name:  "collinear overlapping lines",
			lines: []Line{ln(0, 0, 60, 0), ln(40, 0, 100, 0), ln(100, 0, 100, 100), ln(100, 100, 0, 100), ln(0, 100, 0, 0)},
			want:  []float64{10000},
		},
		{
			name:  "T junction mid-edge",
			lines: append(squareLines(0, 0, 100), ln(50, 100, 50, 0)),
			want:  []float64{5000, 5000},
		},
		{
			name:  "open linework",
			lines: []Line{ln(0, 0, 100, 0), ln(100, 0, 100, 100)},
			want:  []float64{},
		},
		{
			name:  "empty",
			lines: nil,
			want:  []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := faceAreas(Polygonize(tt.lines))
			if !sameAreas(got, tt.want) {
				t.Errorf("Polygonize() areas = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonize_ClosedRings(t *testing.T) {
	for _, f := range Polygonize(squareLines(0, 0, 10)) {
		if f.Shell[0] != f.Shell[len(f.Shell)-1] {
			t.Errorf("shell %v is not closed", f.Shell)
		}
		if len(f.Shell) < 4 {
			t.Errorf("shell %v has fewer than 3 vertices", f.Shell)
		}
	}
}

func TestFace_ContainsWithHole(t *testing.T) {
	faces := Polygonize(append(squareLines(0, 0, 100), squareLines(40, 40, 20)...))
	var outer Face
	for _, f := range faces {
		if len(f.Holes) > 0 {
			outer = f
		}
	}
	if len(outer.Holes) != 1 {
		t.Fatalf("expected one face with a hole, got %+v", faces)
	}
	if outer.Contains(model.Pt(50, 50)) {
		t.Error("point inside the hole should not be contained")
	}
	if !outer.Contains(model.Pt(10, 10)) {
		t.Error("point in the ring should be contained")
	}
}
