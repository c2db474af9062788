package deconstruct

import (
	"testing"

	"github.com/YeYo-KuVo/numino/internal/constructor"
	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/solver"
)

func buildSolved(t *testing.T, seed int64) (core.BasePuzzle, core.Solution) {
	t.Helper()
	sol, base, err := constructor.Construct(constructor.Config{
		Rows:    5,
		Cols:    5,
		Palette: []core.ColorCode{"R", "G", "B"},
		Numbers: []int{2, 3},
		Seed:    seed,
	})
	if err != nil {
		t.Fatalf("setup: Construct failed: %v", err)
	}
	return base, sol
}

func TestTargetRevealsMonotonicByDifficulty(t *testing.T) {
	easy, _ := TargetReveals(DifficultyEasy, 5, 5)
	medium, _ := TargetReveals(DifficultyMedium, 5, 5)
	hard, _ := TargetReveals(DifficultyHard, 5, 5)
	expert, _ := TargetReveals(DifficultyExpert, 5, 5)
	if !(easy > medium && medium > hard && hard > expert) {
		t.Fatalf("expected EASY > MEDIUM > HARD > EXPERT reveal targets, got %d, %d, %d, %d", easy, medium, hard, expert)
	}
}

func TestTargetRevealsUnknownDifficulty(t *testing.T) {
	if _, err := TargetReveals(Difficulty("NONSENSE"), 5, 5); err == nil {
		t.Fatal("expected an error for an unknown difficulty")
	}
}

func TestRunToTargetPreservesUniqueness(t *testing.T) {
	base, sol := buildSolved(t, 1)
	stepper, err := NewStepper(base, sol, Config{Seed: 1, Difficulty: DifficultyMedium})
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	puzzle := stepper.RunToTarget()
	if n := solver.CountSolutions(puzzle, 2, 1); n != 1 {
		t.Fatalf("expected the deconstructed puzzle to remain uniquely solvable, got count=%d", n)
	}
}

func TestRunToTargetNoFullyRevealedBlocks(t *testing.T) {
	base, sol := buildSolved(t, 2)
	stepper, err := NewStepper(base, sol, Config{Seed: 2, Difficulty: DifficultyExpert})
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	puzzle := stepper.RunToTarget()

	shown := map[core.Coord]struct{ num, col bool }{}
	for _, g := range puzzle.Givens {
		shown[g.Coord] = struct{ num, col bool }{g.HasNum(), g.HasCol()}
	}

	for _, b := range extractSolutionBlocks(sol, base.Rows, base.Cols) {
		allRevealed := true
		for _, rc := range b {
			s := shown[rc]
			if !s.num || !s.col {
				allRevealed = false
				break
			}
		}
		if allRevealed {
			t.Errorf("block %v left fully revealed after deconstruction", b)
		}
	}
}

// extractSolutionBlocks mirrors blocks.Extract's coordinate grouping without
// importing the package, to keep this test focused on deconstruct's own
// contract rather than blocks' internals.
func extractSolutionBlocks(sol core.Solution, rows, cols int) [][]core.Coord {
	visited := map[core.Coord]bool{}
	var out [][]core.Coord
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			start := core.Coord{R: r, C: c}
			if visited[start] {
				continue
			}
			v := sol.At(r, c)
			queue := []core.Coord{start}
			visited[start] = true
			var comp []core.Coord
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				comp = append(comp, cur)
				for _, nb := range core.Neighbors4(cur.R, cur.C, rows, cols) {
					if !visited[nb] && sol.At(nb.R, nb.C) == v {
						visited[nb] = true
						queue = append(queue, nb)
					}
				}
			}
			out = append(out, comp)
		}
	}
	return out
}

func TestParseDifficultyForgiving(t *testing.T) {
	if ParseDifficulty("  easy ") != DifficultyEasy {
		t.Errorf("expected lowercase/padded input to parse as EASY")
	}
	if ParseDifficulty("HARD") != DifficultyHard {
		t.Errorf("expected HARD to parse as-is")
	}
}
