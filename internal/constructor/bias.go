package constructor

import (
	"math"
	"sort"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// Style biases the multiset of block sizes the Constructor tiles the grid
// with, per spec §4.2.
type Style string

const (
	StyleSmall    Style = "SMALL"
	StyleBalanced Style = "BALANCED"
	StyleBig      Style = "BIG"
	StyleUniform  Style = "UNIFORM"
)

func weightedChoice(rng *core.RNG, items []int, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// baseWeights is the local preference curve for a style, mild by design —
// global behavior is steered separately via the target block count.
func baseWeights(fits []int, style Style) []float64 {
	w := make([]float64, len(fits))
	switch style {
	case StyleUniform:
		for i := range fits {
			w[i] = 1.0
		}
	case StyleSmall:
		for i, n := range fits {
			w[i] = 1.0 / math.Pow(float64(n), 1.1)
		}
	case StyleBig:
		for i, n := range fits {
			w[i] = math.Pow(float64(n), 1.6)
		}
	default: // BALANCED
		for i, n := range fits {
			w[i] = math.Pow(float64(n), 0.5)
		}
	}
	return w
}

// targetBlockCount is the soft target the steering factor nudges picks
// toward — the number the player actually perceives as bias.
func targetBlockCount(area int, nums []int, style Style) float64 {
	nMin, nMax, sum := nums[0], nums[0], 0
	for _, n := range nums {
		if n < nMin {
			nMin = n
		}
		if n > nMax {
			nMax = n
		}
		sum += n
	}
	nMean := float64(sum) / float64(len(nums))

	switch style {
	case StyleSmall:
		return float64(area) / float64(nMin)
	case StyleBig:
		return float64(area) / float64(nMax)
	default: // UNIFORM, BALANCED
		return float64(area) / nMean
	}
}

// ChooseBlockSizes returns a multiset of block sizes (drawn from
// allowedNumbers) summing exactly to area, biased per style, or nil if no
// attempt converged within maxTries. When requireAllNumbers is set, the
// multiset is seeded with one of each allowed number first.
func ChooseBlockSizes(rng *core.RNG, area int, allowedNumbers []int, style Style, requireAllNumbers bool, maxTries int) []int {
	nums := core.DedupOrdered(allowedNumbers)
	sort.Ints(nums)
	if len(nums) == 0 {
		return nil
	}

	sumNums := 0
	for _, n := range nums {
		sumNums += n
	}
	if requireAllNumbers && sumNums > area {
		return nil
	}

	nMin := nums[0]

	for try := 0; try < maxTries; try++ {
		remaining := area
		var blocks []int

		if requireAllNumbers {
			blocks = append(blocks, nums...)
			remaining -= sumNums
		}

		target := targetBlockCount(area, nums, style)

		guard := 10000
		for remaining > 0 && guard > 0 {
			guard--

			var fits []int
			for _, n := range nums {
				if n <= remaining {
					fits = append(fits, n)
				}
			}
			if len(fits) == 0 {
				break
			}

			w := baseWeights(fits, style)

			delta := target - float64(len(blocks))
			steer := make([]float64, len(fits))
			for i, n := range fits {
				var factor float64
				if delta > 0 {
					factor = math.Pow(float64(nums[len(nums)-1])/float64(n), 0.6)
				} else {
					factor = math.Pow(float64(n)/float64(nMin), 0.6)
				}
				steer[i] = w[i] * factor
			}

			pick := weightedChoice(rng, fits, steer)
			blocks = append(blocks, pick)
			remaining -= pick
		}

		if remaining == 0 {
			core.Shuffle(rng, blocks)
			return blocks
		}
	}

	return nil
}
