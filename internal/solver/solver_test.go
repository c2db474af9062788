package solver

import (
	"testing"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// A 1x2 row with a single allowed number (2) and two colors forces both
// cells into the same 2-cell block, so they must share a color.
func TestSolveSingleBlockRow(t *testing.T) {
	p := core.Puzzle{
		Rows:    1,
		Cols:    2,
		Palette: []core.ColorCode{"R", "G"},
		Numbers: []int{2},
		RowSums: []int{4},
		ColSums: []int{2, 2},
	}

	sol, ok := Solve(p, 1)
	if !ok {
		t.Fatal("expected a solution")
	}
	a, b := sol.At(0, 0), sol.At(0, 1)
	if a.Num != 2 || b.Num != 2 {
		t.Fatalf("expected both cells to carry num=2, got %v, %v", a, b)
	}
	if a.Col != b.Col {
		t.Fatalf("expected same color within one block, got %v != %v", a.Col, b.Col)
	}
}

// A 2x2 grid split into two same-colored dominoes must alternate color
// between the dominoes for the adjacency invariant to hold.
func TestSolveTwoDominoesDifferentColors(t *testing.T) {
	p := core.Puzzle{
		Rows:    2,
		Cols:    2,
		Palette: []core.ColorCode{"R", "G"},
		Numbers: []int{2},
		RowSums: []int{4, 4},
		ColSums: []int{4, 4},
		Givens: []core.Given{
			{Coord: core.Coord{R: 0, C: 0}, Col: colPtr("R")},
			{Coord: core.Coord{R: 1, C: 0}, Col: colPtr("G")},
		},
	}

	sol, ok := Solve(p, 3)
	if !ok {
		t.Fatal("expected a solution")
	}
	if sol.At(0, 0).Col != "R" || sol.At(1, 0).Col != "G" {
		t.Fatalf("givens not honored: %+v", sol)
	}
	if sol.At(0, 0).Col == sol.At(0, 1).Col && sol.At(0, 0).Num != sol.At(0, 1).Num {
		t.Fatalf("adjacent cells of different blocks share a color: %+v", sol)
	}
}

func TestSolveInfeasibleSums(t *testing.T) {
	p := core.Puzzle{
		Rows:    1,
		Cols:    2,
		Palette: []core.ColorCode{"R"},
		Numbers: []int{2},
		RowSums: []int{3}, // unreachable: only value available sums to 4
		ColSums: []int{2, 1},
	}
	if _, ok := Solve(p, 1); ok {
		t.Fatal("expected no solution for an infeasible sum")
	}
}

func TestCountSolutionsRespectsLimit(t *testing.T) {
	// Two colors, no givens, one number: both colorings of the domino are
	// valid solutions (RG vs GR), so a limit of 1 must stop early.
	p := core.Puzzle{
		Rows:    1,
		Cols:    2,
		Palette: []core.ColorCode{"R", "G"},
		Numbers: []int{1},
		RowSums: []int{2},
		ColSums: []int{1, 1},
	}
	n := CountSolutions(p, 1, 5)
	if n != 1 {
		t.Fatalf("expected count capped at 1, got %d", n)
	}
	n = CountSolutions(p, 5, 5)
	if n < 1 {
		t.Fatalf("expected at least one solution, got %d", n)
	}
}

func colPtr(s string) *core.ColorCode {
	c := core.ColorCode(s)
	return &c
}
