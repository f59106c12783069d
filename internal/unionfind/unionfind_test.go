package unionfind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisjointSet_Singletons(t *testing.T) {
	ds := New(3)
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
	for i := 0; i < 3; i++ {
		if ds.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, ds.Find(i), i)
		}
	}
}

func TestDisjointSet_Union(t *testing.T) {
	ds := New(6)
	if !ds.Union(0, 2) {
		t.Error("Union(0, 2) = false, want true")
	}
	ds.Union(2, 4)
	if ds.Union(0, 4) {
		t.Error("Union(0, 4) = true for already joined elements")
	}
	ds.Union(1, 5)

	if !ds.Same(0, 4) {
		t.Error("0 and 4 should be in the same group")
	}
	if ds.Same(0, 1) {
		t.Error("0 and 1 should be in different groups")
	}

	want := [][]int{{0, 2, 4}, {1, 5}, {3}}
	if diff := cmp.Diff(want, ds.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
}

func TestDisjointSet_Empty(t *testing.T) {
	ds := New(0)
	if got := ds.Groups(); len(got) != 0 {
		t.Errorf("Groups() = %v, want empty", got)
	}
}

func TestDisjointSet_LongChain(t *testing.T) {
	ds := New(1000)
	for i := 1; i < 1000; i++ {
		ds.Union(i-1, i)
	}
	if len(ds.Groups()) != 1 {
		t.Errorf("Groups() = %d groups, want 1", len(ds.Groups()))
	}
}
