package constants

import "time"

// Grid bounds enforced by the HTTP transport (validateGridShape).
const (
	MinGridDim = 2
	MaxGridDim = 20
)

// Palette bounds.
const (
	MinColors = 2
	MaxColors = 12
)

// Solver limits
const (
	SolutionCountLimit = 2
)

// Construction/deconstruction retry budgets (spec §4, §7).
const (
	ConstructorMaxAttempts = 300
	ConstructorRetries     = 25
	DeconstructorRetries   = 10
)

// Session
const (
	SessionTokenExpiry = time.Hour
)

// Difficulties
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
	DifficultyExpert = "EXPERT"
)

// TriesLimit is the probe budget per difficulty. Its values match the
// Deconstructor's own triesLimit table, which does not read this map.
var TriesLimit = map[string]int{
	DifficultyEasy:   500,
	DifficultyMedium: 500,
	DifficultyHard:   800,
	DifficultyExpert: 2000,
}

// API version
const APIVersion = "0.1.0"

// Default ports
const DefaultPort = "8080"

// Date layout in Go reference form. Puzzle ids (FormatPuzzleID) carry no date.
const DateFormat = "2006-01-02"
