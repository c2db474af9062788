// Package deconstruct iteratively erases clue parts from a full solution
// while preserving unique solvability, producing a playable Puzzle with
// minimal givens (spec §4.3).
package deconstruct

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YeYo-KuVo/numino/internal/blocks"
	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/solver"
)

// Difficulty selects the target fraction of hidden clue-parts.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

// Strategy biases which part (number/color) is preferred for removal.
type Strategy string

const (
	StrategyAny         Strategy = "any"
	StrategyNumberFirst Strategy = "number_first"
	StrategyColorFirst  Strategy = "color_first"
)

// Config configures a Stepper.
type Config struct {
	Seed       int64
	Difficulty Difficulty // defaults to MEDIUM
	MaxSteps   int        // defaults to 50000
	Strategy   Strategy   // defaults to "any"
}

func (cfg Config) difficulty() Difficulty {
	if cfg.Difficulty == "" {
		return DifficultyMedium
	}
	return cfg.Difficulty
}

func (cfg Config) maxSteps() int {
	if cfg.MaxSteps <= 0 {
		return 50_000
	}
	return cfg.MaxSteps
}

// TargetReveals converts a difficulty into the minimum number of visible
// clue-parts the Deconstructor must preserve (spec §4.3).
func TargetReveals(difficulty Difficulty, rows, cols int) (int, error) {
	cells := rows * cols
	var perCell float64
	switch difficulty {
	case DifficultyEasy:
		perCell = 1.30
	case DifficultyMedium:
		perCell = 1.05
	case DifficultyHard:
		perCell = 0.85
	case DifficultyExpert:
		perCell = 0.65
	default:
		return 0, fmt.Errorf("deconstruct: unknown difficulty %q (use EASY/MEDIUM/HARD/EXPERT)", difficulty)
	}
	target := int(float64(cells) * perCell)
	if target < 8 {
		target = 8
	}
	return target, nil
}

type part string

const (
	partNum part = "num"
	partCol part = "col"
)

type candidate struct {
	rc core.Coord
	pt part
}

type maskCell struct {
	showNum, showCol bool
}

// Stepper removes one clue part at a time while preserving uniqueness.
// It owns the mutable mask scratch state for exactly one deconstruction run
// (spec §3's lifecycle note).
type Stepper struct {
	base core.BasePuzzle
	sol  core.Solution
	cfg  Config
	rng  *core.RNG

	rows, cols    int
	targetReveals int

	mask       [][]maskCell
	candidates []candidate

	stepsDone int
}

// NewStepper creates a Stepper over base/sol with the fully-revealed mask
// and the shuffled, difficulty-biased candidate order from spec §4.3.
func NewStepper(base core.BasePuzzle, sol core.Solution, cfg Config) (*Stepper, error) {
	target, err := TargetReveals(cfg.difficulty(), base.Rows, base.Cols)
	if err != nil {
		return nil, err
	}

	s := &Stepper{
		base:          base,
		sol:           sol,
		cfg:           cfg,
		rng:           core.NewRNG(cfg.Seed),
		rows:          base.Rows,
		cols:          base.Cols,
		targetReveals: target,
	}

	s.mask = make([][]maskCell, s.rows)
	for r := range s.mask {
		s.mask[r] = make([]maskCell, s.cols)
		for c := range s.mask[r] {
			s.mask[r][c] = maskCell{true, true}
		}
	}

	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			rc := core.Coord{R: r, C: c}
			s.candidates = append(s.candidates, candidate{rc, partNum}, candidate{rc, partCol})
		}
	}

	core.Shuffle(s.rng, s.candidates)

	diff := cfg.difficulty()
	if diff == DifficultyExpert || diff == DifficultyHard {
		// Color-first: colors are typically less structural than numbers.
		sort.SliceStable(s.candidates, func(i, j int) bool {
			return s.candidates[i].pt == partCol && s.candidates[j].pt != partCol
		})
	}

	return s, nil
}

func (s *Stepper) revealsCount() int {
	cnt := 0
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if s.mask[r][c].showNum {
				cnt++
			}
			if s.mask[r][c].showCol {
				cnt++
			}
		}
	}
	return cnt
}

func (s *Stepper) buildGivens() []core.Given {
	var givens []core.Given
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			v := s.sol.At(r, c)
			mc := s.mask[r][c]
			if !mc.showNum && !mc.showCol {
				continue
			}
			g := core.Given{Coord: core.Coord{R: r, C: c}}
			if mc.showNum {
				n := v.Num
				g.Num = &n
			}
			if mc.showCol {
				col := v.Col
				g.Col = &col
			}
			givens = append(givens, g)
		}
	}
	return givens
}

// CurrentPuzzle rebuilds the Puzzle implied by the current mask.
func (s *Stepper) CurrentPuzzle() core.Puzzle {
	return s.base.ToPuzzle(s.buildGivens())
}

func triesLimit(diff Difficulty) int {
	switch diff {
	case DifficultyExpert:
		return 2000
	case DifficultyHard:
		return 800
	default:
		return 500
	}
}

// tryHide tentatively hides one part, verifies uniqueness, and either keeps
// or reverts it. Returns true if the hide was kept.
func (s *Stepper) tryHide(rc core.Coord, pt part) bool {
	mc := s.mask[rc.R][rc.C]
	prevNum, prevCol := mc.showNum, mc.showCol

	if pt == partNum {
		if !prevNum {
			return false
		}
		s.mask[rc.R][rc.C].showNum = false
	} else {
		if !prevCol {
			return false
		}
		s.mask[rc.R][rc.C].showCol = false
	}

	n := solver.CountSolutions(s.CurrentPuzzle(), 2, s.cfg.Seed)
	if n == 1 {
		return true
	}

	s.mask[rc.R][rc.C].showNum = prevNum
	s.mask[rc.R][rc.C].showCol = prevCol
	return false
}

func (s *Stepper) tryRemoveFromBlock(coords []core.Coord) bool {
	var cands []candidate
	for _, rc := range coords {
		cands = append(cands, candidate{rc, partNum}, candidate{rc, partCol})
	}
	core.Shuffle(s.rng, cands)

	for _, cand := range cands {
		if s.tryHide(cand.rc, cand.pt) {
			return true
		}
	}
	return false
}

func (s *Stepper) blockFullyRevealed(coords []core.Coord) bool {
	for _, rc := range coords {
		mc := s.mask[rc.R][rc.C]
		if !mc.showNum || !mc.showCol {
			return false
		}
	}
	return true
}

// ensureNoFullyRevealedBlocks is the "no fully-revealed block" beautifier
// from spec §4.3: after a step (or at termination), any block left fully
// revealed gets one part hidden from one of its cells, best-effort.
func (s *Stepper) ensureNoFullyRevealedBlocks() {
	for _, b := range blocks.Extract(s.sol, s.rows, s.cols) {
		if s.blockFullyRevealed(b.Coords) {
			s.tryRemoveFromBlock(b.Coords)
		}
	}
}

// pickNextCandidate pops the next candidate matching the configured
// strategy, falling back to any still-removable candidate.
func (s *Stepper) pickNextCandidate() (candidate, bool) {
	for i, cand := range s.candidates {
		mc := s.mask[cand.rc.R][cand.rc.C]
		if cand.pt == partNum && !mc.showNum {
			continue
		}
		if cand.pt == partCol && !mc.showCol {
			continue
		}
		if s.cfg.Strategy == StrategyNumberFirst && cand.pt != partNum {
			continue
		}
		if s.cfg.Strategy == StrategyColorFirst && cand.pt != partCol {
			continue
		}
		s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
		return cand, true
	}

	for i, cand := range s.candidates {
		mc := s.mask[cand.rc.R][cand.rc.C]
		if (cand.pt == partNum && mc.showNum) || (cand.pt == partCol && mc.showCol) {
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			return cand, true
		}
	}

	return candidate{}, false
}

// StepResult reports the outcome of one Step call.
type StepResult struct {
	OK      bool
	Removed *core.Coord // non-nil only when OK
	Part    string      // "num" or "col", valid only when OK
	Reveals int
	Reason  string
}

// Step removes one clue part, only if uniqueness remains, per spec §4.3's
// step loop. Every call then runs the "no fully-revealed block" cleanup
// pass, which may hide further parts.
func (s *Stepper) Step() StepResult {
	if s.stepsDone >= s.cfg.maxSteps() {
		s.ensureNoFullyRevealedBlocks()
		return StepResult{OK: false, Reveals: s.revealsCount(), Reason: "max_steps_reached"}
	}

	if s.revealsCount() <= s.targetReveals {
		s.ensureNoFullyRevealedBlocks()
		return StepResult{OK: false, Reveals: s.revealsCount(), Reason: "target_reached"}
	}

	s.stepsDone++

	limit := triesLimit(s.cfg.difficulty())

	tries := 0
	for tries < limit && len(s.candidates) > 0 {
		tries++
		cand, ok := s.pickNextCandidate()
		if !ok {
			break
		}

		if s.tryHide(cand.rc, cand.pt) {
			s.ensureNoFullyRevealedBlocks()
			rc := cand.rc
			return StepResult{OK: true, Removed: &rc, Part: string(cand.pt), Reveals: s.revealsCount(), Reason: "unique_kept"}
		}
	}

	s.ensureNoFullyRevealedBlocks()
	return StepResult{OK: false, Reveals: s.revealsCount(), Reason: "no_more_unique_removals"}
}

// RunToTarget auto-deconstructs until the target is reached or no more safe
// removals exist, and returns the resulting Puzzle. Per spec §7, exhaustion
// is never an error: the best-reached state is always returned.
func (s *Stepper) RunToTarget() core.Puzzle {
	for {
		res := s.Step()
		if !res.OK {
			break
		}
	}
	return s.CurrentPuzzle()
}

// ParseDifficulty upper-cases and trims a free-form difficulty string,
// matching the original's forgiving parsing.
func ParseDifficulty(s string) Difficulty {
	return Difficulty(strings.ToUpper(strings.TrimSpace(s)))
}
