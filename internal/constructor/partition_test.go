package constructor

import (
	"testing"

	"github.com/YeYo-KuVo/numino/internal/core"
)

func TestPartitionGridCoversAllCells(t *testing.T) {
	rng := core.NewRNG(10)
	cellToBlock, blockSize, ok := PartitionGrid(rng, 4, 4, []int{4, 4, 4, 4})
	if !ok {
		t.Fatal("expected a partition to be found")
	}
	if len(cellToBlock) != 16 {
		t.Fatalf("expected 16 cells assigned, got %d", len(cellToBlock))
	}
	counts := map[int]int{}
	for _, b := range cellToBlock {
		counts[b]++
	}
	for b, size := range blockSize {
		if counts[b] != size {
			t.Errorf("block %d: expected %d cells, got %d", b, size, counts[b])
		}
	}
}

func TestPartitionGridBlocksAreConnected(t *testing.T) {
	rng := core.NewRNG(11)
	rows, cols := 3, 3
	cellToBlock, _, ok := PartitionGrid(rng, rows, cols, []int{3, 3, 3})
	if !ok {
		t.Fatal("expected a partition to be found")
	}

	byBlock := map[int][]core.Coord{}
	for rc, b := range cellToBlock {
		byBlock[b] = append(byBlock[b], rc)
	}

	for b, cells := range byBlock {
		cellSet := map[core.Coord]bool{}
		for _, rc := range cells {
			cellSet[rc] = true
		}
		visited := map[core.Coord]bool{cells[0]: true}
		queue := []core.Coord{cells[0]}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range core.Neighbors4(cur.R, cur.C, rows, cols) {
				if cellSet[nb] && !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		if len(visited) != len(cells) {
			t.Errorf("block %d is not connected: %v", b, cells)
		}
	}
}

func TestPartitionGridImpossibleSizes(t *testing.T) {
	rng := core.NewRNG(12)
	// Sizes sum to more than the grid area.
	_, _, ok := PartitionGrid(rng, 2, 2, []int{3, 3})
	if ok {
		t.Fatal("expected no partition when sizes exceed area")
	}
}
