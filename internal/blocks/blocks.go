// Package blocks derives the block decomposition of a full Solution.
// A Block is never stored on a Solution (spec §3); the Deconstructor's
// "no fully-revealed block" cleanup pass gets it by calling Extract.
package blocks

import (
	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// Block is a maximal orthogonally connected set of cells sharing the same
// CellValue. Its Size always equals Value.Num for any Solution that
// satisfies the core invariants.
type Block struct {
	Value  core.CellValue
	Coords []core.Coord
}

func (b Block) Size() int { return len(b.Coords) }

// Extract decomposes a full Solution over a rows×cols grid into its blocks.
//
// Each CellValue is encoded to a dense non-negative integer id so the grid
// can be handed to gridgraph, which groups 4-connected cells of equal id
// into components; the ids are then decoded back into the original
// CellValue. Building a GridGraph is an O(rows·cols) allocation per call —
// fine for this whole-grid, amortized query, but too expensive to call from
// inside the Solver's per-node block-feasibility check (see
// internal/solver, which keeps its own hand-rolled BFS for that hot loop).
func Extract(sol core.Solution, rows, cols int) []Block {
	colorIndex := map[core.ColorCode]int{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			col := sol.At(r, c).Col
			if _, ok := colorIndex[col]; !ok {
				colorIndex[col] = len(colorIndex)
			}
		}
	}
	numColors := len(colorIndex)

	grid := make([][]int, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			v := sol.At(r, c)
			grid[r][c] = v.Num*numColors + colorIndex[v.Col]
		}
	}

	gg, err := gridgraph.NewGridGraph(grid, gridgraph.GridOptions{
		LandThreshold: 0,
		Conn:          gridgraph.Conn4,
	})
	if err != nil {
		// rows,cols >= 1 and the grid is always rectangular by construction.
		panic("blocks: unexpected gridgraph error: " + err.Error())
	}

	idToValue := make(map[int]core.CellValue, len(colorIndex)*4)
	for col, ci := range colorIndex {
		for n := 1; n <= 64; n++ {
			idToValue[n*numColors+ci] = core.CellValue{Num: n, Col: col}
		}
	}

	components := gg.ConnectedComponents()
	var out []Block
	for id, comps := range components {
		v, ok := idToValue[id]
		if !ok {
			continue
		}
		for _, comp := range comps {
			coords := make([]core.Coord, len(comp))
			for i, cell := range comp {
				coords[i] = core.Coord{R: cell.Y, C: cell.X}
			}
			out = append(out, Block{Value: v, Coords: coords})
		}
	}
	return out
}
