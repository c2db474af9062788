// Package constructor builds a fully determined Numino grid from a Config:
// a multiset of block sizes tiling the area, a connected partition into
// blocks of those sizes, and a proper coloring of adjacent blocks.
package constructor

import (
	"fmt"
	"strings"

	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/set"
)

// Config describes the shape of grid the Constructor should build.
type Config struct {
	Rows, Cols int
	Palette    []core.ColorCode
	Numbers    []int
	Seed       int64

	Style Style // SMALL | BALANCED | BIG | UNIFORM; zero value behaves as BALANCED

	RequireAllNumbers bool
	RequireAllColors  bool

	MaxAttempts int // restarts for partition+color; 0 defaults to 300
}

func (cfg Config) style() Style {
	if cfg.Style == "" {
		return StyleBalanced
	}
	return Style(strings.ToUpper(string(cfg.Style)))
}

func (cfg Config) maxAttempts() int {
	if cfg.MaxAttempts <= 0 {
		return 300
	}
	return cfg.MaxAttempts
}

func areaFeasible(rows, cols int, requiredNumbers []int) bool {
	sum := 0
	for _, n := range requiredNumbers {
		sum += n
	}
	return rows*cols >= sum
}

func computeSums(sol core.Solution, rows, cols int) ([]int, []int) {
	rowSums := make([]int, rows)
	colSums := make([]int, cols)
	for rc, v := range sol {
		rowSums[rc.R] += v.Num
		colSums[rc.C] += v.Num
	}
	return rowSums, colSums
}

// Construct runs Stages 1–4 of spec §4.2, retrying up to cfg.MaxAttempts
// times on any stage failure, and returns (solution, base puzzle) on
// success.
func Construct(cfg Config) (core.Solution, core.BasePuzzle, error) {
	rows, cols := cfg.Rows, cfg.Cols
	area := rows * cols
	palette := core.DedupOrdered(cfg.Palette)
	numbers := core.DedupOrdered(cfg.Numbers)

	if cfg.RequireAllNumbers && !areaFeasible(rows, cols, numbers) {
		sum := 0
		for _, n := range numbers {
			sum += n
		}
		return nil, core.BasePuzzle{}, fmt.Errorf("%w: grid too small to include all numbers at least once as blocks (need area >= %d, got %d)", core.ErrConfigInfeasible, sum, area)
	}

	rng := core.NewRNG(cfg.Seed)
	style := cfg.style()

	for attempt := 0; attempt < cfg.maxAttempts(); attempt++ {
		blockSizes := ChooseBlockSizes(rng, area, numbers, style, cfg.RequireAllNumbers, 2000)
		if blockSizes == nil {
			continue
		}

		cellToBlock, blockSize, ok := PartitionGrid(rng, rows, cols, blockSizes)
		if !ok {
			continue
		}

		if cfg.RequireAllNumbers {
			used := set.New[int]()
			for _, n := range blockSize {
				used.Add(n)
			}
			if !set.New(numbers...).IsSubset(used) {
				continue
			}
		}

		adj := BuildBlockAdjacency(cellToBlock, rows, cols)

		// require_all_colors is only feasible if blocks >= colors; the
		// spec's first Open Question preserves this silent relaxation.
		requireColors := cfg.RequireAllColors && len(blockSize) >= len(palette)

		colors, ok := ColorBlocks(rng, adj, palette, requireColors)
		if !ok {
			continue
		}
		if requireColors {
			used := set.New[core.ColorCode]()
			for _, col := range colors {
				used.Add(col)
			}
			if !set.New(palette...).IsSubset(used) {
				continue
			}
		}

		sol := make(core.Solution, len(cellToBlock))
		for rc, b := range cellToBlock {
			sol[rc] = core.CellValue{Num: blockSize[b], Col: colors[b]}
		}

		rowSums, colSums := computeSums(sol, rows, cols)
		base := core.BasePuzzle{
			Rows:    rows,
			Cols:    cols,
			Palette: palette,
			Numbers: numbers,
			RowSums: rowSums,
			ColSums: colSums,
		}
		return sol, base, nil
	}

	return nil, core.BasePuzzle{}, fmt.Errorf("%w: tried %d attempts", core.ErrConstructionExhausted, cfg.maxAttempts())
}
