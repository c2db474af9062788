// Package puzzles owns the on-disk persisted format from spec §6: the
// public puzzle file (which never carries a solution) and a private
// solutions file keyed by puzzle id, plus a Loader the HTTP
// transport layer can query.
package puzzles

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/deconstruct"
)

// difficultyTier maps the deconstructor's difficulty enum to the small
// integer the persisted-format schema (spec §6) calls "difficulty": int.
var difficultyTier = map[deconstruct.Difficulty]int{
	deconstruct.DifficultyEasy:   0,
	deconstruct.DifficultyMedium: 1,
	deconstruct.DifficultyHard:   2,
	deconstruct.DifficultyExpert: 3,
}

// GivenJSON is one entry of a puzzle's "givens" array.
type GivenJSON struct {
	R   int     `json:"r"`
	C   int     `json:"c"`
	Num *int    `json:"num,omitempty"`
	Col *string `json:"col,omitempty"`
}

// PuzzleJSON is one puzzle entry in the persisted format.
type PuzzleJSON struct {
	ID   string `json:"id"`
	Grid struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	} `json:"grid"`
	Allowed struct {
		Numbers []int    `json:"numbers"`
		Colors  []string `json:"colors"`
	} `json:"allowed"`
	Bias        string      `json:"bias"`
	Difficulty  int         `json:"difficulty"`
	Constraints struct {
		RowSums []int `json:"row_sums"`
		ColSums []int `json:"col_sums"`
	} `json:"constraints"`
	Givens []GivenJSON `json:"givens"`
}

// File is the top-level persisted-format document.
type File struct {
	Version int          `json:"version"`
	Puzzles []PuzzleJSON `json:"puzzles"`
}

// ToJSON converts a Puzzle plus its generation metadata into the persisted
// entry shape.
func ToJSON(id string, p core.Puzzle, bias string, difficulty deconstruct.Difficulty) PuzzleJSON {
	var pj PuzzleJSON
	pj.ID = id
	pj.Grid.Rows = p.Rows
	pj.Grid.Cols = p.Cols
	pj.Allowed.Numbers = append([]int(nil), p.Numbers...)
	for _, col := range p.Palette {
		pj.Allowed.Colors = append(pj.Allowed.Colors, string(col))
	}
	pj.Bias = bias
	pj.Difficulty = difficultyTier[difficulty]
	pj.Constraints.RowSums = append([]int(nil), p.RowSums...)
	pj.Constraints.ColSums = append([]int(nil), p.ColSums...)
	for _, g := range p.Givens {
		gj := GivenJSON{R: g.Coord.R, C: g.Coord.C, Num: g.Num}
		if g.Col != nil {
			s := string(*g.Col)
			gj.Col = &s
		}
		pj.Givens = append(pj.Givens, gj)
	}
	return pj
}

// ToPuzzle converts a persisted entry back into a core.Puzzle.
func (pj PuzzleJSON) ToPuzzle() core.Puzzle {
	palette := make([]core.ColorCode, len(pj.Allowed.Colors))
	for i, c := range pj.Allowed.Colors {
		palette[i] = core.ColorCode(c)
	}
	givens := make([]core.Given, len(pj.Givens))
	for i, gj := range pj.Givens {
		g := core.Given{Coord: core.Coord{R: gj.R, C: gj.C}, Num: gj.Num}
		if gj.Col != nil {
			col := core.ColorCode(*gj.Col)
			g.Col = &col
		}
		givens[i] = g
	}
	return core.Puzzle{
		Rows:    pj.Grid.Rows,
		Cols:    pj.Grid.Cols,
		Palette: palette,
		Numbers: append([]int(nil), pj.Allowed.Numbers...),
		RowSums: append([]int(nil), pj.Constraints.RowSums...),
		ColSums: append([]int(nil), pj.Constraints.ColSums...),
		Givens:  givens,
	}
}

// WriteFile appends puzzles to an existing File at path, creating it if
// absent, matching export_puzzle.py's append-don't-overwrite behavior.
func WriteFile(path string, entries ...PuzzleJSON) error {
	var f File
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("puzzles: parse existing %s: %w", path, err)
		}
	}
	f.Version = 1
	f.Puzzles = append(f.Puzzles, entries...)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("puzzles: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("puzzles: write %s: %w", path, err)
	}
	return nil
}

// SolutionEntry is one puzzle id's private solution, keyed "r,c" -> value.
type SolutionEntry map[string]struct {
	Num int    `json:"num"`
	Col string `json:"col"`
}

// SolutionFile is the private solutions document (spec §6: "Solutions may
// be stored separately keyed by puzzle id").
type SolutionFile map[string]SolutionEntry

// AppendSolution records sol under puzzleID in the private solutions file
// at path, matching generate_and_export.py's append_private_solution.
func AppendSolution(path, puzzleID string, sol core.Solution, rows, cols int) error {
	data, err := os.ReadFile(path)
	var f SolutionFile
	if err == nil {
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("puzzles: parse existing %s: %w", path, err)
		}
	} else {
		f = SolutionFile{}
	}

	entry := SolutionEntry{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := sol.At(r, c)
			key := fmt.Sprintf("%d,%d", r, c)
			entry[key] = struct {
				Num int    `json:"num"`
				Col string `json:"col"`
			}{Num: v.Num, Col: string(v.Col)}
		}
	}
	f[puzzleID] = entry

	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("puzzles: encode %s: %w", path, err)
	}
	return os.WriteFile(path, out, 0o644)
}

// Loader manages a read-only, in-memory view of a persisted puzzle file,
// queried by id by the HTTP transport layer.
type Loader struct {
	byID map[string]PuzzleJSON
	mu   sync.RWMutex
}

// Load reads puzzles from path.
func Load(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("puzzles: read %s: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("puzzles: parse %s: %w", path, err)
	}
	l := &Loader{byID: make(map[string]PuzzleJSON, len(f.Puzzles))}
	for _, p := range f.Puzzles {
		l.byID[p.ID] = p
	}
	return l, nil
}

// NewLoaderFromPuzzles builds a Loader directly from entries, for testing.
func NewLoaderFromPuzzles(entries []PuzzleJSON) *Loader {
	l := &Loader{byID: make(map[string]PuzzleJSON, len(entries))}
	for _, p := range entries {
		l.byID[p.ID] = p
	}
	return l
}

// Count returns the number of loaded puzzles.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

// ByID looks up a puzzle by id.
func (l *Loader) ByID(id string) (PuzzleJSON, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.byID[id]
	return p, ok
}

var (
	globalLoader *Loader
	loadOnce     sync.Once
	loadErr      error
)

// LoadGlobal loads puzzles into the global loader singleton, once.
func LoadGlobal(path string) error {
	loadOnce.Do(func() {
		globalLoader, loadErr = Load(path)
	})
	return loadErr
}

// Global returns the global loader instance, or nil if never loaded.
func Global() *Loader { return globalLoader }

// SetGlobal sets the global loader instance directly (for testing).
func SetGlobal(l *Loader) { globalLoader = l }
