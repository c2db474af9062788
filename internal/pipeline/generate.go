// Package pipeline wires the Constructor, Solver, and Deconstructor into the
// composite generate operation exposed to external collaborators (spec §6).
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YeYo-KuVo/numino/internal/constructor"
	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/deconstruct"
)

// CalibrationInput is the shape a UI/calibration collaborator hands to
// generate (spec §6). Balance is the free-form style name the calibration
// UI collects ("SMALL"/"BALANCED"/"BIG"/"UNIFORM", case-insensitive).
type CalibrationInput struct {
	Rows, Cols int
	Numbers    []int
	Colors     []core.ColorCode
	Balance    string
	Seed       int64
}

// defaultDifficulty is used by Generate because CalibrationInput (per spec
// §6) carries no difficulty field of its own — an Open Question this
// implementation resolves by always targeting MEDIUM; see DESIGN.md.
const defaultDifficulty = deconstruct.DifficultyMedium

const (
	constructorRetries   = 25
	deconstructorRetries = 10
)

// FormatPuzzleID renders the human-readable id format from spec §6:
// "<seed> | <rows>x<cols> | nums=… | cols=… | bias=…", matching the
// original Python generator's pipe-delimited layout.
func FormatPuzzleID(seed int64, rows, cols int, numbers []int, colors []core.ColorCode, style string) string {
	numStrs := make([]string, len(numbers))
	for i, n := range numbers {
		numStrs[i] = fmt.Sprintf("%d", n)
	}
	colStrs := make([]string, len(colors))
	for i, c := range colors {
		colStrs[i] = string(c)
	}
	return fmt.Sprintf("%d | %dx%d | nums=%s | cols=%s | bias=%s",
		seed, rows, cols,
		strings.Join(numStrs, ","),
		strings.Join(colStrs, ","),
		strings.ToUpper(style),
	)
}

// Generate is the composite pipeline: construct → deconstruct, retrying
// each stage with incrementing seeds before surfacing a failure (spec §4.3,
// §7). On success it returns the playable puzzle, its unique solution, the
// style actually used, a human-readable id, and the difficulty targeted.
func Generate(in CalibrationInput) (core.Puzzle, core.Solution, string, string, string, error) {
	style := constructor.Style(strings.ToUpper(strings.TrimSpace(in.Balance)))
	if style == "" {
		style = constructor.StyleBalanced
	}

	var (
		sol  core.Solution
		base core.BasePuzzle
		err  error
	)

	var lastErr error
	for i := 0; i < constructorRetries; i++ {
		cfg := constructor.Config{
			Rows:              in.Rows,
			Cols:              in.Cols,
			Palette:           in.Colors,
			Numbers:           in.Numbers,
			Seed:              in.Seed + int64(i),
			Style:             style,
			RequireAllNumbers: true,
			RequireAllColors:  true,
		}
		sol, base, err = constructor.Construct(cfg)
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if errors.Is(err, core.ErrConfigInfeasible) {
			// Deterministic, seed-independent: retrying cannot help.
			return core.Puzzle{}, nil, "", "", "", fmt.Errorf("%w: stage=construct: %v", core.ErrGenerationExhausted, err)
		}
	}
	if lastErr != nil {
		return core.Puzzle{}, nil, "", "", "", fmt.Errorf("%w: stage=construct: %v", core.ErrGenerationExhausted, lastErr)
	}

	var (
		puzzle  core.Puzzle
		best    core.Puzzle
		bestGap = 1 << 30
	)
	for i := 0; i < deconstructorRetries; i++ {
		stepper, derr := deconstruct.NewStepper(base, sol, deconstruct.Config{
			Seed:       in.Seed + int64(i),
			Difficulty: defaultDifficulty,
		})
		if derr != nil {
			return core.Puzzle{}, nil, "", "", "", fmt.Errorf("%w: stage=deconstruct: %v", core.ErrGenerationExhausted, derr)
		}
		puzzle = stepper.RunToTarget()

		target, _ := deconstruct.TargetReveals(defaultDifficulty, in.Rows, in.Cols)
		reveals := countReveals(puzzle)
		gap := reveals - target
		if gap < 0 {
			gap = -gap
		}
		if gap < bestGap {
			bestGap = gap
			best = puzzle
		}
		if reveals <= target {
			break
		}
	}

	id := FormatPuzzleID(in.Seed, in.Rows, in.Cols, in.Numbers, in.Colors, string(style))
	return best, sol, string(style), id, string(defaultDifficulty), nil
}

func countReveals(p core.Puzzle) int {
	cnt := 0
	for _, g := range p.Givens {
		if g.HasNum() {
			cnt++
		}
		if g.HasCol() {
			cnt++
		}
	}
	return cnt
}
