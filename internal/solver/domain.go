package solver

import (
	"math/bits"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// domainMask is a per-cell candidate set over the Cartesian product of a
// puzzle's numbers and palette. Per spec §9's Design Notes, |numbers|×|palette|
// is bounded (~9×6=54), so a 64-bit word holds any cell's full domain — this
// is the hot-loop allocation the Python original pays for with a Python set.
type domainMask uint64

// valueSpace indexes every (number, color) pair a puzzle allows into a dense
// bit position, and back.
type valueSpace struct {
	values []core.CellValue // bit index -> value
	index  map[core.CellValue]int
}

func newValueSpace(numbers []int, palette []core.ColorCode) *valueSpace {
	vs := &valueSpace{index: make(map[core.CellValue]int, len(numbers)*len(palette))}
	for _, n := range numbers {
		for _, col := range palette {
			v := core.CellValue{Num: n, Col: col}
			vs.index[v] = len(vs.values)
			vs.values = append(vs.values, v)
		}
	}
	return vs
}

func (vs *valueSpace) full() domainMask {
	if len(vs.values) == 64 {
		return ^domainMask(0)
	}
	return domainMask(1)<<uint(len(vs.values)) - 1
}

func (vs *valueSpace) bit(v core.CellValue) domainMask {
	idx, ok := vs.index[v]
	if !ok {
		return 0
	}
	return domainMask(1) << uint(idx)
}

func (vs *valueSpace) decode(mask domainMask) []core.CellValue {
	out := make([]core.CellValue, 0, bits.OnesCount64(uint64(mask)))
	m := mask
	for m != 0 {
		i := bits.TrailingZeros64(uint64(m))
		out = append(out, vs.values[i])
		m &^= domainMask(1) << uint(i)
	}
	return out
}

// minMaxNum returns the smallest and largest `num` among values still present
// in mask. ok is false for an empty mask.
func (vs *valueSpace) minMaxNum(mask domainMask) (min, max int, ok bool) {
	m := mask
	if m == 0 {
		return 0, 0, false
	}
	min, max = 1<<62, -(1 << 62)
	for m != 0 {
		i := bits.TrailingZeros64(uint64(m))
		n := vs.values[i].Num
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
		m &^= domainMask(1) << uint(i)
	}
	return min, max, true
}

func (vs *valueSpace) size(mask domainMask) int {
	return bits.OnesCount64(uint64(mask))
}
