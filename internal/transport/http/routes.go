package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/YeYo-KuVo/numino/internal/constructor"
	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/deconstruct"
	"github.com/YeYo-KuVo/numino/internal/pipeline"
	"github.com/YeYo-KuVo/numino/internal/puzzles"
	"github.com/YeYo-KuVo/numino/internal/solver"
	"github.com/YeYo-KuVo/numino/pkg/config"
	"github.com/YeYo-KuVo/numino/pkg/constants"
)

var cfg *config.Config

// RegisterRoutes wires the engine's external surface (spec §6) onto r.
func RegisterRoutes(r *gin.Engine, c *config.Config) {
	cfg = c

	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/construct", constructHandler)
		api.POST("/solve", solveHandler)
		api.POST("/count-solutions", countSolutionsHandler)
		api.POST("/deconstruct", deconstructHandler)
		api.POST("/generate", generateHandler)
		api.GET("/puzzle/:id", puzzleByIDHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

func givensFromJSON(in []givenJSON) []core.Given {
	out := make([]core.Given, 0, len(in))
	for _, g := range in {
		cg := core.Given{Coord: core.Coord{R: g.R, C: g.C}}
		if g.Num != nil {
			n := *g.Num
			cg.Num = &n
		}
		if g.Col != nil {
			col := core.ColorCode(*g.Col)
			cg.Col = &col
		}
		out = append(out, cg)
	}
	return out
}

type givenJSON struct {
	R   int     `json:"r"`
	C   int     `json:"c"`
	Num *int    `json:"num,omitempty"`
	Col *string `json:"col,omitempty"`
}

// validateGridShape rejects grid dimensions or palette sizes outside the
// bounds the Constructor and Deconstructor are tuned for (pkg/constants).
func validateGridShape(rows, cols, numColors int) error {
	if rows < constants.MinGridDim || rows > constants.MaxGridDim {
		return fmt.Errorf("rows must be between %d and %d, got %d", constants.MinGridDim, constants.MaxGridDim, rows)
	}
	if cols < constants.MinGridDim || cols > constants.MaxGridDim {
		return fmt.Errorf("cols must be between %d and %d, got %d", constants.MinGridDim, constants.MaxGridDim, cols)
	}
	if numColors < constants.MinColors || numColors > constants.MaxColors {
		return fmt.Errorf("colors must list between %d and %d distinct entries, got %d", constants.MinColors, constants.MaxColors, numColors)
	}
	return nil
}

func colorsFromStrings(in []string) []core.ColorCode {
	out := make([]core.ColorCode, len(in))
	for i, s := range in {
		out[i] = core.ColorCode(s)
	}
	return out
}

func puzzleJSONOf(p core.Puzzle) gin.H {
	givens := make([]gin.H, 0, len(p.Givens))
	for _, g := range p.Givens {
		gj := gin.H{"r": g.Coord.R, "c": g.Coord.C}
		if g.Num != nil {
			gj["num"] = *g.Num
		}
		if g.Col != nil {
			gj["col"] = string(*g.Col)
		}
		givens = append(givens, gj)
	}
	colors := make([]string, len(p.Palette))
	for i, c := range p.Palette {
		colors[i] = string(c)
	}
	return gin.H{
		"grid":        gin.H{"rows": p.Rows, "cols": p.Cols},
		"allowed":     gin.H{"numbers": p.Numbers, "colors": colors},
		"constraints": gin.H{"row_sums": p.RowSums, "col_sums": p.ColSums},
		"givens":      givens,
	}
}

func solutionJSONOf(sol core.Solution, rows, cols int) []gin.H {
	out := make([]gin.H, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := sol.At(r, c)
			out = append(out, gin.H{"r": r, "c": c, "num": v.Num, "col": string(v.Col)})
		}
	}
	return out
}

// ConstructRequest describes the grid the Constructor should build.
type ConstructRequest struct {
	Rows              int      `json:"rows" binding:"required"`
	Cols              int      `json:"cols" binding:"required"`
	Numbers           []int    `json:"numbers" binding:"required"`
	Colors            []string `json:"colors" binding:"required"`
	Seed              int64    `json:"seed"`
	Bias              string   `json:"bias"`
	RequireAllNumbers bool     `json:"require_all_numbers"`
	RequireAllColors  bool     `json:"require_all_colors"`
}

func constructHandler(c *gin.Context) {
	var req ConstructRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateGridShape(req.Rows, req.Cols, len(core.DedupOrdered(colorsFromStrings(req.Colors)))); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sol, base, err := constructor.Construct(constructor.Config{
		Rows:              req.Rows,
		Cols:              req.Cols,
		Palette:           colorsFromStrings(req.Colors),
		Numbers:           req.Numbers,
		Seed:              req.Seed,
		Style:             constructor.Style(req.Bias),
		RequireAllNumbers: req.RequireAllNumbers,
		RequireAllColors:  req.RequireAllColors,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	puzzle := base.ToPuzzle(nil)
	body := puzzleJSONOf(puzzle)
	body["solution"] = solutionJSONOf(sol, base.Rows, base.Cols)
	c.JSON(http.StatusOK, body)
}

// SolveRequest carries a Puzzle statement to solve.
type SolveRequest struct {
	Rows        int         `json:"rows" binding:"required"`
	Cols        int         `json:"cols" binding:"required"`
	Numbers     []int       `json:"numbers" binding:"required"`
	Colors      []string    `json:"colors" binding:"required"`
	RowSums     []int       `json:"row_sums" binding:"required"`
	ColSums     []int       `json:"col_sums" binding:"required"`
	Givens      []givenJSON `json:"givens"`
	Seed        int64       `json:"seed"`
}

func (req SolveRequest) toPuzzle() core.Puzzle {
	return core.Puzzle{
		Rows:    req.Rows,
		Cols:    req.Cols,
		Palette: colorsFromStrings(req.Colors),
		Numbers: req.Numbers,
		RowSums: req.RowSums,
		ColSums: req.ColSums,
		Givens:  givensFromJSON(req.Givens),
	}
}

func solveHandler(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sol, ok := solver.Solve(req.toPuzzle(), req.Seed)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"solvable": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"solvable": true,
		"solution": solutionJSONOf(sol, req.Rows, req.Cols),
	})
}

func countSolutionsHandler(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := constants.SolutionCountLimit
	if raw := c.Query("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}

	n := solver.CountSolutions(req.toPuzzle(), limit, req.Seed)
	c.JSON(http.StatusOK, gin.H{"count": n, "limit": limit})
}

// DeconstructRequest carries a fully-solved base puzzle to erase clues from.
type DeconstructRequest struct {
	Rows       int      `json:"rows" binding:"required"`
	Cols       int      `json:"cols" binding:"required"`
	Numbers    []int    `json:"numbers" binding:"required"`
	Colors     []string `json:"colors" binding:"required"`
	RowSums    []int    `json:"row_sums" binding:"required"`
	ColSums    []int    `json:"col_sums" binding:"required"`
	Solution   []gin.H  `json:"solution" binding:"required"`
	Seed       int64    `json:"seed"`
	Difficulty string   `json:"difficulty"`
	Strategy   string   `json:"strategy"`
}

func deconstructHandler(c *gin.Context) {
	var req DeconstructRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sol := core.Solution{}
	for _, cell := range req.Solution {
		r, _ := cell["r"].(float64)
		col, _ := cell["c"].(float64)
		num, _ := cell["num"].(float64)
		colorStr, _ := cell["col"].(string)
		sol[core.Coord{R: int(r), C: int(col)}] = core.CellValue{Num: int(num), Col: core.ColorCode(colorStr)}
	}

	base := core.BasePuzzle{
		Rows:    req.Rows,
		Cols:    req.Cols,
		Palette: colorsFromStrings(req.Colors),
		Numbers: req.Numbers,
		RowSums: req.RowSums,
		ColSums: req.ColSums,
	}

	stepper, err := deconstruct.NewStepper(base, sol, deconstruct.Config{
		Seed:       req.Seed,
		Difficulty: deconstruct.ParseDifficulty(req.Difficulty),
		Strategy:   deconstruct.Strategy(req.Strategy),
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	puzzle := stepper.RunToTarget()
	c.JSON(http.StatusOK, puzzleJSONOf(puzzle))
}

// GenerateRequest is the calibration input of spec §6.
type GenerateRequest struct {
	Rows    int      `json:"rows" binding:"required"`
	Cols    int      `json:"cols" binding:"required"`
	Numbers []int    `json:"numbers" binding:"required"`
	Colors  []string `json:"colors" binding:"required"`
	Balance string   `json:"balance"`
	Seed    int64    `json:"seed"`
}

func generateHandler(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateGridShape(req.Rows, req.Cols, len(core.DedupOrdered(colorsFromStrings(req.Colors)))); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	puzzle, sol, style, id, difficulty, err := pipeline.Generate(pipeline.CalibrationInput{
		Rows:    req.Rows,
		Cols:    req.Cols,
		Numbers: req.Numbers,
		Colors:  colorsFromStrings(req.Colors),
		Balance: req.Balance,
		Seed:    req.Seed,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	loader := puzzles.Global()
	if loader != nil {
		if _, exists := loader.ByID(id); !exists {
			entry := puzzles.ToJSON(id, puzzle, style, deconstruct.Difficulty(difficulty))
			_ = puzzles.WriteFile(cfg.PuzzlesFile, entry)
		}
	}

	token, terr := createToken(cfg.SessionSecret, CalibrationToken{
		PuzzleID:  id,
		Seed:      req.Seed,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(constants.SessionTokenExpiry),
	})
	if terr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	body := puzzleJSONOf(puzzle)
	body["id"] = id
	body["bias"] = style
	body["difficulty"] = difficulty
	body["token"] = token
	if c.Query("include_solution") == "true" {
		body["solution"] = solutionJSONOf(sol, req.Rows, req.Cols)
	}
	c.JSON(http.StatusOK, body)
}

func puzzleByIDHandler(c *gin.Context) {
	id := c.Param("id")

	if tok := c.Query("token"); tok != "" {
		session, err := verifyToken(cfg.SessionSecret, tok)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if session.PuzzleID != id {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token does not match requested puzzle"})
			return
		}
	}

	loader := puzzles.Global()
	if loader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "puzzles not loaded"})
		return
	}
	pj, ok := loader.ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found"})
		return
	}
	puzzle := pj.ToPuzzle()
	body := puzzleJSONOf(puzzle)
	body["id"] = pj.ID
	body["bias"] = pj.Bias
	body["difficulty"] = pj.Difficulty
	c.JSON(http.StatusOK, body)
}
