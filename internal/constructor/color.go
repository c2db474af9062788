package constructor

import (
	"sort"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// BuildBlockAdjacency builds the block-adjacency graph from a cell-to-block
// map: two blocks are adjacent iff some pair of their cells are orthogonal
// neighbors.
func BuildBlockAdjacency(cellToBlock map[core.Coord]int, rows, cols int) map[int]map[int]bool {
	adj := map[int]map[int]bool{}
	ensure := func(b int) map[int]bool {
		if adj[b] == nil {
			adj[b] = map[int]bool{}
		}
		return adj[b]
	}
	for rc, b := range cellToBlock {
		ensure(b)
		for _, nb := range core.Neighbors4(rc.R, rc.C, rows, cols) {
			b2, ok := cellToBlock[nb]
			if !ok || b2 == b {
				continue
			}
			ensure(b)[b2] = true
			ensure(b2)[b] = true
		}
	}
	return adj
}

// ColorBlocks graph-colors the blocks so adjacent blocks differ in color,
// ordering blocks by degree descending and backtracking per color (spec
// §4.2 Stage 3). When requireAllColors holds, unused colors are tried
// before reused ones, and a coloring only succeeds if every palette entry
// appears at least once.
func ColorBlocks(rng *core.RNG, adj map[int]map[int]bool, palette []core.ColorCode, requireAllColors bool) (map[int]core.ColorCode, bool) {
	blocks := make([]int, 0, len(adj))
	for b := range adj {
		blocks = append(blocks, b)
	}
	sort.Ints(blocks)
	sort.SliceStable(blocks, func(i, j int) bool { return len(adj[blocks[i]]) > len(adj[blocks[j]]) })

	colorOf := map[int]core.ColorCode{}

	canUse := func(b int, col core.ColorCode) bool {
		for nb := range adj[b] {
			if colorOf[nb] == col {
				return false
			}
		}
		return true
	}

	var dfs func(idx int) bool
	dfs = func(idx int) bool {
		if idx == len(blocks) {
			if !requireAllColors {
				return true
			}
			used := map[core.ColorCode]bool{}
			for _, col := range colorOf {
				used[col] = true
			}
			for _, col := range palette {
				if !used[col] {
					return false
				}
			}
			return true
		}

		b := blocks[idx]
		cols := append([]core.ColorCode(nil), palette...)
		core.Shuffle(rng, cols)

		if requireAllColors {
			used := map[core.ColorCode]bool{}
			for _, col := range colorOf {
				used[col] = true
			}
			var unused, reused []core.ColorCode
			for _, col := range cols {
				if used[col] {
					reused = append(reused, col)
				} else {
					unused = append(unused, col)
				}
			}
			cols = append(unused, reused...)
		}

		for _, col := range cols {
			if canUse(b, col) {
				colorOf[b] = col
				if dfs(idx + 1) {
					return true
				}
				delete(colorOf, b)
			}
		}
		return false
	}

	if !dfs(0) {
		return nil, false
	}
	return colorOf, true
}
