// Package solver implements Numino's constraint-propagation backtracking
// engine: given a Puzzle, enumerate valid Solutions up to a limit.
package solver

import (
	"sort"

	"github.com/YeYo-KuVo/numino/internal/core"
)

// pruneEntry is one forward-check removal, recorded so a backtrack can undo
// it in reverse order.
type pruneEntry struct {
	rc  core.Coord
	bit domainMask
}

type engine struct {
	p   core.Puzzle
	vs  *valueSpace
	rng *core.RNG

	rows, cols int
	cells      []core.Coord

	dom      map[core.Coord]domainMask
	assigned map[core.Coord]core.CellValue

	rowSumNow []int
	colSumNow []int

	solutions []core.Solution
	limit     int
}

func newEngine(p core.Puzzle, seed int64, limit int) *engine {
	palette := core.DedupOrdered(p.Palette)
	numbers := core.DedupOrdered(p.Numbers)
	vs := newValueSpace(numbers, palette)

	e := &engine{
		p:         p,
		vs:        vs,
		rng:       core.NewRNG(seed),
		rows:      p.Rows,
		cols:      p.Cols,
		dom:       make(map[core.Coord]domainMask, p.Rows*p.Cols),
		assigned:  make(map[core.Coord]core.CellValue, p.Rows*p.Cols),
		rowSumNow: make([]int, p.Rows),
		colSumNow: make([]int, p.Cols),
		limit:     limit,
	}

	full := vs.full()
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			rc := core.Coord{R: r, C: c}
			e.cells = append(e.cells, rc)
			e.dom[rc] = full
		}
	}

	for _, g := range p.Givens {
		allowed := e.dom[g.Coord]
		if g.Num != nil {
			var m domainMask
			for _, col := range palette {
				m |= vs.bit(core.CellValue{Num: *g.Num, Col: col})
			}
			allowed &= m
		}
		if g.Col != nil {
			var m domainMask
			for _, n := range numbers {
				m |= vs.bit(core.CellValue{Num: n, Col: *g.Col})
			}
			allowed &= m
		}
		e.dom[g.Coord] = allowed
	}

	return e
}

func (e *engine) neighbors(rc core.Coord) []core.Coord {
	return core.Neighbors4(rc.R, rc.C, e.rows, e.cols)
}

func (e *engine) minMaxRemainingRow(r int) (int, int) {
	minAdd, maxAdd := 0, 0
	for c := 0; c < e.cols; c++ {
		rc := core.Coord{R: r, C: c}
		if _, ok := e.assigned[rc]; ok {
			continue
		}
		mn, mx, ok := e.vs.minMaxNum(e.dom[rc])
		if !ok {
			return 1 << 30, -(1 << 30)
		}
		minAdd += mn
		maxAdd += mx
	}
	return minAdd, maxAdd
}

func (e *engine) minMaxRemainingCol(c int) (int, int) {
	minAdd, maxAdd := 0, 0
	for r := 0; r < e.rows; r++ {
		rc := core.Coord{R: r, C: c}
		if _, ok := e.assigned[rc]; ok {
			continue
		}
		mn, mx, ok := e.vs.minMaxNum(e.dom[rc])
		if !ok {
			return 1 << 30, -(1 << 30)
		}
		minAdd += mn
		maxAdd += mx
	}
	return minAdd, maxAdd
}

func (e *engine) sumsOkLocal(rc core.Coord, v core.CellValue) bool {
	r, c := rc.R, rc.C
	n := v.Num

	rs := e.rowSumNow[r] + n
	cs := e.colSumNow[c] + n
	if rs > e.p.RowSums[r] || cs > e.p.ColSums[c] {
		return false
	}

	minAdd, maxAdd := 0, 0
	for cc := 0; cc < e.cols; cc++ {
		rc2 := core.Coord{R: r, C: cc}
		if rc2 == rc {
			continue
		}
		if _, ok := e.assigned[rc2]; ok {
			continue
		}
		mn, mx, ok := e.vs.minMaxNum(e.dom[rc2])
		if !ok {
			return false
		}
		minAdd += mn
		maxAdd += mx
	}
	if rs+minAdd > e.p.RowSums[r] || rs+maxAdd < e.p.RowSums[r] {
		return false
	}

	minAdd, maxAdd = 0, 0
	for rr := 0; rr < e.rows; rr++ {
		rc3 := core.Coord{R: rr, C: c}
		if rc3 == rc {
			continue
		}
		if _, ok := e.assigned[rc3]; ok {
			continue
		}
		mn, mx, ok := e.vs.minMaxNum(e.dom[rc3])
		if !ok {
			return false
		}
		minAdd += mn
		maxAdd += mx
	}
	if cs+minAdd > e.p.ColSums[c] || cs+maxAdd < e.p.ColSums[c] {
		return false
	}

	return true
}

func (e *engine) colorAdjacencyOk(rc core.Coord, v core.CellValue) bool {
	for _, nb := range e.neighbors(rc) {
		if v2, ok := e.assigned[nb]; ok {
			if v2.Num != v.Num && v2.Col == v.Col {
				return false
			}
		}
	}
	return true
}

// blockFeasible implements spec §4.1's two checks: the already-assigned
// same-value component touching rc must not exceed n, and the flood-fill
// capacity of cells that could still become v must reach at least n.
func (e *engine) blockFeasible(rc core.Coord, v core.CellValue) bool {
	n := v.Num

	assignedSame := map[core.Coord]bool{}
	queue := []core.Coord{}
	for _, nb := range e.neighbors(rc) {
		if val, ok := e.assigned[nb]; ok && val == v {
			if !assignedSame[nb] {
				assignedSame[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range e.neighbors(cur) {
			if assignedSame[nb] {
				continue
			}
			if val, ok := e.assigned[nb]; ok && val == v {
				assignedSame[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	if 1+len(assignedSame) > n {
		return false
	}

	allows := func(xy core.Coord) bool {
		if val, ok := e.assigned[xy]; ok {
			return val == v
		}
		return e.dom[xy]&e.vs.bit(v) != 0
	}

	visited := map[core.Coord]bool{rc: true}
	reachable := 1
	queue = []core.Coord{rc}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range e.neighbors(cur) {
			if visited[nb] {
				continue
			}
			if allows(nb) {
				visited[nb] = true
				reachable++
				queue = append(queue, nb)
			}
		}
	}

	return reachable >= n
}

func (e *engine) selectMRV() core.Coord {
	var best core.Coord
	bestLen := 1 << 30
	found := false
	for _, rc := range e.cells {
		if _, ok := e.assigned[rc]; ok {
			continue
		}
		dlen := e.vs.size(e.dom[rc])
		if dlen < bestLen {
			best = rc
			bestLen = dlen
			found = true
			if dlen == 1 {
				break
			}
		}
	}
	if !found {
		panic("solver: selectMRV called with no unassigned cells")
	}
	return best
}

// orderValues shuffles the candidate values once, then stably sorts them
// ascending by an LCV-style impact score (spec §4.1).
func (e *engine) orderValues(rc core.Coord) []core.CellValue {
	vals := e.vs.decode(e.dom[rc])
	core.Shuffle(e.rng, vals)

	impact := func(v core.CellValue) int {
		cnt := 0
		for _, nb := range e.neighbors(rc) {
			if _, ok := e.assigned[nb]; ok {
				continue
			}
			for _, w := range e.vs.decode(e.dom[nb]) {
				if w.Num != v.Num && w.Col == v.Col {
					cnt++
				}
			}
		}
		return cnt
	}

	scores := make([]int, len(vals))
	for i, v := range vals {
		scores[i] = impact(v)
	}
	sort.SliceStable(vals, func(i, j int) bool { return scores[i] < scores[j] })
	return vals
}

func (e *engine) assignVal(rc core.Coord, v core.CellValue) {
	e.assigned[rc] = v
	e.rowSumNow[rc.R] += v.Num
	e.colSumNow[rc.C] += v.Num
}

func (e *engine) unassignVal(rc core.Coord, v core.CellValue) {
	delete(e.assigned, rc)
	e.rowSumNow[rc.R] -= v.Num
	e.colSumNow[rc.C] -= v.Num
}

// forwardCheckPrune locks rc to v and removes, from unassigned orthogonal
// neighbors, every candidate with a different number but the same color.
func (e *engine) forwardCheckPrune(rc core.Coord, v core.CellValue) []pruneEntry {
	var removed []pruneEntry

	vbit := e.vs.bit(v)
	cur := e.dom[rc]
	if other := cur &^ vbit; other != 0 {
		for _, w := range e.vs.decode(other) {
			removed = append(removed, pruneEntry{rc, e.vs.bit(w)})
		}
		e.dom[rc] = vbit
	}

	for _, nb := range e.neighbors(rc) {
		if _, ok := e.assigned[nb]; ok {
			continue
		}
		mask := e.dom[nb]
		var toRemove domainMask
		for _, w := range e.vs.decode(mask) {
			if w.Num != v.Num && w.Col == v.Col {
				toRemove |= e.vs.bit(w)
			}
		}
		if toRemove != 0 {
			e.dom[nb] = mask &^ toRemove
			for _, w := range e.vs.decode(toRemove) {
				removed = append(removed, pruneEntry{nb, e.vs.bit(w)})
			}
		}
	}

	return removed
}

func (e *engine) undoPrune(removed []pruneEntry) {
	for i := len(removed) - 1; i >= 0; i-- {
		pe := removed[i]
		e.dom[pe.rc] |= pe.bit
	}
}

func (e *engine) isComplete() bool {
	return len(e.assigned) == e.rows*e.cols
}

func (e *engine) sumsExactOk() bool {
	for r := 0; r < e.rows; r++ {
		if e.rowSumNow[r] != e.p.RowSums[r] {
			return false
		}
	}
	for c := 0; c < e.cols; c++ {
		if e.colSumNow[c] != e.p.ColSums[c] {
			return false
		}
	}
	return true
}

func (e *engine) completeBlocksOk() bool {
	seen := map[core.Coord]bool{}
	for r := 0; r < e.rows; r++ {
		for c := 0; c < e.cols; c++ {
			rc := core.Coord{R: r, C: c}
			if seen[rc] {
				continue
			}
			v, ok := e.assigned[rc]
			if !ok {
				return false
			}
			queue := []core.Coord{rc}
			seen[rc] = true
			compSize := 1
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, nb := range e.neighbors(cur) {
					if seen[nb] {
						continue
					}
					if e.assigned[nb] == v {
						seen[nb] = true
						compSize++
						queue = append(queue, nb)
					}
				}
			}
			if compSize != v.Num {
				return false
			}
		}
	}
	return true
}

func (e *engine) globalBoundsOk() bool {
	for r := 0; r < e.rows; r++ {
		mn, mx := e.minMaxRemainingRow(r)
		if e.rowSumNow[r]+mn > e.p.RowSums[r] || e.rowSumNow[r]+mx < e.p.RowSums[r] {
			return false
		}
	}
	for c := 0; c < e.cols; c++ {
		mn, mx := e.minMaxRemainingCol(c)
		if e.colSumNow[c]+mn > e.p.ColSums[c] || e.colSumNow[c]+mx < e.p.ColSums[c] {
			return false
		}
	}
	return true
}

func (e *engine) dfs() bool {
	if !e.globalBoundsOk() {
		return false
	}

	if e.isComplete() {
		if e.sumsExactOk() && e.completeBlocksOk() {
			sol := make(core.Solution, len(e.assigned))
			for k, v := range e.assigned {
				sol[k] = v
			}
			e.solutions = append(e.solutions, sol)
			return true
		}
		return false
	}

	rc := e.selectMRV()
	for _, v := range e.orderValues(rc) {
		if !e.sumsOkLocal(rc, v) {
			continue
		}
		if !e.colorAdjacencyOk(rc, v) {
			continue
		}
		if !e.blockFeasible(rc, v) {
			continue
		}

		e.assignVal(rc, v)
		removed := e.forwardCheckPrune(rc, v)

		ok := e.dfs()

		e.undoPrune(removed)
		e.unassignVal(rc, v)

		if ok && e.limit <= 1 {
			return true
		}
		if e.limit > 1 && len(e.solutions) >= e.limit {
			return true
		}
	}

	return false
}

// Solve returns the first solution found, or false if the puzzle has none.
func Solve(p core.Puzzle, seed int64) (core.Solution, bool) {
	e := newEngine(p, seed, 1)
	e.dfs()
	if len(e.solutions) == 0 {
		return nil, false
	}
	return e.solutions[0], true
}

// CountSolutions enumerates up to limit solutions and returns how many were
// found — a value in [0, limit]. Searching stops as soon as limit solutions
// are found. limit=2 is the standard uniqueness check used by the
// Deconstructor.
func CountSolutions(p core.Puzzle, limit int, seed int64) int {
	if limit < 1 {
		limit = 1
	}
	e := newEngine(p, seed, limit)
	e.dfs()
	return len(e.solutions)
}
