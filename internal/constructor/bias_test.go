package constructor

import (
	"testing"

	"github.com/YeYo-KuVo/numino/internal/core"
)

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func TestChooseBlockSizesSumsToArea(t *testing.T) {
	rng := core.NewRNG(1)
	blocks := ChooseBlockSizes(rng, 20, []int{2, 3, 4}, StyleBalanced, false, 500)
	if blocks == nil {
		t.Fatal("expected a non-nil multiset")
	}
	if sum(blocks) != 20 {
		t.Fatalf("expected blocks to sum to 20, got %d (%v)", sum(blocks), blocks)
	}
}

func TestChooseBlockSizesRequireAllNumbers(t *testing.T) {
	rng := core.NewRNG(2)
	blocks := ChooseBlockSizes(rng, 9, []int{2, 3, 4}, StyleBalanced, true, 500)
	if blocks == nil {
		t.Fatal("expected a non-nil multiset")
	}
	seen := map[int]bool{}
	for _, b := range blocks {
		seen[b] = true
	}
	for _, n := range []int{2, 3, 4} {
		if !seen[n] {
			t.Errorf("expected block size %d to appear at least once, got %v", n, blocks)
		}
	}
	if sum(blocks) != 9 {
		t.Fatalf("expected blocks to sum to 9, got %d (%v)", sum(blocks), blocks)
	}
}

func TestChooseBlockSizesInfeasibleRequireAll(t *testing.T) {
	rng := core.NewRNG(3)
	// Three distinct required numbers summing to 9, but the area is smaller.
	blocks := ChooseBlockSizes(rng, 4, []int{2, 3, 4}, StyleBalanced, true, 50)
	if blocks != nil {
		t.Fatalf("expected nil for infeasible area, got %v", blocks)
	}
}

func TestChooseBlockSizesStylesDiffer(t *testing.T) {
	// SMALL should favor many small blocks, BIG should favor fewer big ones,
	// over a large-enough area for the skew to be measurable across seeds.
	area := 60
	nums := []int{2, 3, 6}

	var smallCounts, bigCounts []int
	for seed := int64(0); seed < 8; seed++ {
		sb := ChooseBlockSizes(core.NewRNG(seed), area, nums, StyleSmall, false, 500)
		bb := ChooseBlockSizes(core.NewRNG(seed), area, nums, StyleBig, false, 500)
		if sb == nil || bb == nil {
			t.Fatal("expected both styles to converge")
		}
		smallCounts = append(smallCounts, len(sb))
		bigCounts = append(bigCounts, len(bb))
	}

	avgSmall, avgBig := 0.0, 0.0
	for i := range smallCounts {
		avgSmall += float64(smallCounts[i])
		avgBig += float64(bigCounts[i])
	}
	avgSmall /= float64(len(smallCounts))
	avgBig /= float64(len(bigCounts))

	if avgSmall <= avgBig {
		t.Errorf("expected SMALL style to produce more blocks on average than BIG, got small=%.2f big=%.2f", avgSmall, avgBig)
	}
}
