package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestStore creates an in-memory store with a clock that advances one
// second per run.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := Open(":memory:", WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func sampleMeasurements(area float64) measure.PageMeasurements {
	sc, _ := scale.NewResult(0.25, 12, `1/4"=1'-0"`, model.ConfidenceHigh)
	return measure.PageMeasurements{
		PageNumber:  1,
		Scale:       &sc,
		GrossAreaSF: area,
		PerimeterLF: 96,
		WallCount:   4,
		Rooms: []rooms.Room{{
			Index:   0,
			Polygon: []model.Point{model.Pt(0, 0), model.Pt(576, 0), model.Pt(576, 288), model.Pt(0, 288), model.Pt(0, 0)},
			Label:   "KITCHEN",
			Type:    rooms.Kitchen,
			AreaSF:  area,
			Scaled:  true,
		}},
		RoomCount:  1,
		RoomMethod: rooms.Polygonized,
		Confidence: model.ConfidenceHigh,
		Warnings:   []string{"sample"},
	}
}

// ============================================================================
// Save / Latest tests
// ============================================================================

func TestSaveAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "abc", sampleMeasurements(500))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.ID == "" || first.ScaleFactor != 48 {
		t.Errorf("Save() = %+v", first)
	}

	second, err := s.Save(ctx, "abc", sampleMeasurements(512))
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest(ctx, "abc")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("Latest() = %s, want the second run %s", got.ID, second.ID)
	}
	if !got.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, second.CreatedAt)
	}

	m := got.Measurements
	if m.GrossAreaSF != 512 || m.RoomMethod != rooms.Polygonized || m.Scale == nil || m.Scale.Factor != 48 {
		t.Errorf("Measurements = %+v", m)
	}
	if len(m.Rooms) != 1 || m.Rooms[0].Label != "KITCHEN" || m.Rooms[0].Type != rooms.Kitchen || len(m.Rooms[0].Polygon) != 5 {
		t.Errorf("Rooms = %+v", m.Rooms)
	}
	if got.Confidence != model.ConfidenceHigh || got.RoomCount != 1 {
		t.Errorf("indexed columns = %+v", got)
	}
}

func TestLatest_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Latest(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestSave_NoScale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := measure.PageMeasurements{PageNumber: 2, Confidence: model.ConfidenceNone}
	if _, err := s.Save(ctx, "blank", m); err != nil {
		t.Fatal(err)
	}
	got, err := s.Latest(ctx, "blank")
	if err != nil {
		t.Fatal(err)
	}
	if got.ScaleFactor != 0 || got.Measurements.Scale != nil || got.PageNumber != 2 {
		t.Errorf("Latest() = %+v", got)
	}
}

func TestSave_EmptyFingerprint(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Save(context.Background(), "", sampleMeasurements(1)); err == nil {
		t.Error("Save() with empty fingerprint succeeded")
	}
}

// ============================================================================
// List / Delete tests
// ============================================================================

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, fp := range []string{"a", "b", "c"} {
		if _, err := s.Save(ctx, fp, sampleMeasurements(float64(100*(i+1)))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"c", "b", "a"}},
		{2, []string{"c", "b"}},
		{10, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		runs, err := s.List(ctx, tt.limit)
		if err != nil {
			t.Fatalf("List(%d) error = %v", tt.limit, err)
		}
		var got []string
		for _, r := range runs {
			got = append(got, r.Fingerprint)
		}
		if len(got) != len(tt.want) {
			t.Errorf("List(%d) = %v, want %v", tt.limit, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("List(%d) = %v, want %v", tt.limit, got, tt.want)
				break
			}
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for range 2 {
		if _, err := s.Save(ctx, "dup", sampleMeasurements(1)); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Delete(ctx, "dup")
	if err != nil || n != 2 {
		t.Errorf("Delete() = %d, %v, want 2, nil", n, err)
	}
	if _, err := s.Latest(ctx, "dup"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() after Delete error = %v", err)
	}
}
