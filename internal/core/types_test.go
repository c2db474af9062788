package core

import "testing"

func TestNeighbors4Corners(t *testing.T) {
	n := Neighbors4(0, 0, 3, 3)
	if len(n) != 2 {
		t.Fatalf("expected 2 neighbors for corner, got %d: %v", len(n), n)
	}
}

func TestNeighbors4Interior(t *testing.T) {
	n := Neighbors4(1, 1, 3, 3)
	if len(n) != 4 {
		t.Fatalf("expected 4 neighbors for interior cell, got %d: %v", len(n), n)
	}
}

func TestSumsConsistent(t *testing.T) {
	if !SumsConsistent([]int{1, 2, 3}, []int{2, 2, 2}) {
		t.Error("expected matching totals to be consistent")
	}
	if SumsConsistent([]int{1, 2, 3}, []int{1, 2, 2}) {
		t.Error("expected mismatched totals to be inconsistent")
	}
}

func TestDedupOrdered(t *testing.T) {
	got := DedupOrdered([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSolutionAtPanicsOnMissingCell(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing cell")
		}
	}()
	sol := Solution{}
	sol.At(0, 0)
}

func TestGivenHasNumHasCol(t *testing.T) {
	n := 3
	g := Given{Num: &n}
	if !g.HasNum() {
		t.Error("expected HasNum true")
	}
	if g.HasCol() {
		t.Error("expected HasCol false")
	}
}

func TestBasePuzzleToPuzzle(t *testing.T) {
	b := BasePuzzle{Rows: 2, Cols: 2, Palette: []ColorCode{"R"}, Numbers: []int{1}, RowSums: []int{1, 1}, ColSums: []int{1, 1}}
	p := b.ToPuzzle(nil)
	if p.Rows != 2 || p.Cols != 2 {
		t.Fatalf("unexpected puzzle dims: %+v", p)
	}
	if len(p.Givens) != 0 {
		t.Errorf("expected no givens, got %d", len(p.Givens))
	}
}
