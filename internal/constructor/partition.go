package constructor

import (
	"fmt"
	"sort"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// findShapes makes limit attempts to grow a connected shape of the given
// size, rooted at start, via randomized compact growth: at each step the
// frontier is scored by how many of its own neighbors already belong to the
// shape, and the top scorer is picked with probability 0.70, else a uniform
// random candidate (spec §4.2). It returns the distinct shapes found, so at
// most limit of them.
func findShapes(rng *core.RNG, start core.Coord, size int, free map[core.Coord]bool, rows, cols, limit int) [][]core.Coord {
	var shapes [][]core.Coord
	seenShapes := map[string]bool{}

	for i := 0; i < limit; i++ {
		shape := []core.Coord{start}
		used := map[core.Coord]bool{start: true}

		for len(shape) < size {
			seen := map[core.Coord]bool{}
			var cand []core.Coord
			for _, rc := range shape {
				for _, nb := range core.Neighbors4(rc.R, rc.C, rows, cols) {
					if seen[nb] {
						continue
					}
					seen[nb] = true
					if free[nb] && !used[nb] {
						cand = append(cand, nb)
					}
				}
			}
			if len(cand) == 0 {
				break
			}

			score := func(rc core.Coord) int {
				s := 0
				for _, nb := range core.Neighbors4(rc.R, rc.C, rows, cols) {
					if used[nb] {
						s++
					}
				}
				return s
			}
			sort.SliceStable(cand, func(a, b int) bool { return score(cand[a]) > score(cand[b]) })

			var pick core.Coord
			if rng.Float64() < 0.70 {
				pick = cand[0]
			} else {
				pick = core.Choice(rng, cand)
			}

			used[pick] = true
			shape = append(shape, pick)
		}

		if len(shape) == size {
			keyCells := append([]core.Coord(nil), shape...)
			sort.Slice(keyCells, func(a, b int) bool {
				if keyCells[a].R != keyCells[b].R {
					return keyCells[a].R < keyCells[b].R
				}
				return keyCells[a].C < keyCells[b].C
			})
			key := fmt.Sprint(keyCells)
			if !seenShapes[key] {
				seenShapes[key] = true
				shapes = append(shapes, shape)
			}
		}
	}

	return shapes
}

// PartitionGrid backtracks over sorted-descending block sizes, filling from
// the next unoccupied cell in row-major order, trying up to ~80 randomized
// shapes per size before backtracking (spec §4.2 Stage 2). It returns the
// cell-to-block map and each block's size, or false if no partition exists.
func PartitionGrid(rng *core.RNG, rows, cols int, blockSizes []int) (map[core.Coord]int, map[int]int, bool) {
	cellToBlock := map[core.Coord]int{}
	blockSize := map[int]int{}

	sizes := append([]int(nil), blockSizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	free := map[core.Coord]bool{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			free[core.Coord{R: r, C: c}] = true
		}
	}

	nextFreeCell := func() (core.Coord, bool) {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				rc := core.Coord{R: r, C: c}
				if free[rc] {
					return rc, true
				}
			}
		}
		return core.Coord{}, false
	}

	var dfs func(i int) bool
	dfs = func(i int) bool {
		if i == len(sizes) {
			return true
		}

		start, ok := nextFreeCell()
		if !ok {
			return false
		}

		size := sizes[i]
		freeCount := 0
		for _, v := range free {
			if v {
				freeCount++
			}
		}
		if size > freeCount {
			return false
		}

		shapes := findShapes(rng, start, size, free, rows, cols, 80)
		if len(shapes) == 0 {
			return false
		}
		core.Shuffle(rng, shapes)

		for _, shape := range shapes {
			blockID := i
			for _, rc := range shape {
				cellToBlock[rc] = blockID
				free[rc] = false
			}
			blockSize[blockID] = size

			if dfs(i + 1) {
				return true
			}

			for _, rc := range shape {
				delete(cellToBlock, rc)
				free[rc] = true
			}
			delete(blockSize, blockID)
		}

		return false
	}

	if !dfs(0) {
		return nil, nil, false
	}
	return cellToBlock, blockSize, true
}
