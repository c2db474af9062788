// Command preview renders a generated Numino puzzle to the terminal in
// color, one swatch per distinct color code in the palette.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/puzzles"
)

var palette = []*color.Color{
	color.New(color.FgHiRed),
	color.New(color.FgHiGreen),
	color.New(color.FgHiYellow),
	color.New(color.FgHiBlue),
	color.New(color.FgHiMagenta),
	color.New(color.FgHiCyan),
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

func main() {
	file := flag.String("f", "puzzles.json", "Path to a persisted puzzles file")
	id := flag.String("id", "", "Puzzle id to preview (default: first in file)")
	flag.Parse()

	loader, err := puzzles.Load(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", *file, err)
		os.Exit(1)
	}

	var pj puzzles.PuzzleJSON
	if *id != "" {
		found, ok := loader.ByID(*id)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no puzzle %q in %s\n", *id, *file)
			os.Exit(1)
		}
		pj = found
	} else {
		raw, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var f puzzles.File
		if err := json.Unmarshal(raw, &f); err != nil || len(f.Puzzles) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no puzzles in %s\n", *file)
			os.Exit(1)
		}
		pj = f.Puzzles[0]
	}

	puzzle := pj.ToPuzzle()
	colorOf := make(map[core.ColorCode]*color.Color, len(puzzle.Palette))
	for i, c := range puzzle.Palette {
		colorOf[c] = palette[i%len(palette)]
	}

	grid := make(map[core.Coord]core.Given, len(puzzle.Givens))
	for _, g := range puzzle.Givens {
		grid[g.Coord] = g
	}

	fmt.Printf("Puzzle %s  (%dx%d, difficulty=%d, bias=%s)\n\n", pj.ID, puzzle.Rows, puzzle.Cols, pj.Difficulty, pj.Bias)
	printGrid(puzzle, grid, colorOf)
	fmt.Println()
	printSums(puzzle)
}

func printGrid(p core.Puzzle, grid map[core.Coord]core.Given, colorOf map[core.ColorCode]*color.Color) {
	top := "┌" + repeat("───┬", p.Cols-1) + "───┐"
	mid := "├" + repeat("───┼", p.Cols-1) + "───┤"
	bot := "└" + repeat("───┴", p.Cols-1) + "───┘"

	color.HiWhite(top)
	for r := 0; r < p.Rows; r++ {
		if r != 0 {
			color.HiWhite(mid)
		}
		for c := 0; c < p.Cols; c++ {
			fmt.Print(color.HiWhiteString("│"))
			g, ok := grid[core.Coord{R: r, C: c}]
			printCell(g, ok, colorOf)
		}
		fmt.Println(color.HiWhiteString("│"))
	}
	color.HiWhite(bot)
}

func printCell(g core.Given, ok bool, colorOf map[core.ColorCode]*color.Color) {
	if !ok || (!g.HasNum() && !g.HasCol()) {
		fmt.Print("   ")
		return
	}
	numStr := " "
	if g.HasNum() {
		numStr = fmt.Sprintf("%d", *g.Num)
	}
	if g.HasCol() {
		col := colorOf[*g.Col]
		if col != nil {
			fmt.Print(col.Sprintf(" %s ", numStr))
			return
		}
	}
	fmt.Print(color.HiWhiteString(" %s ", numStr))
}

func printSums(p core.Puzzle) {
	fmt.Printf("row sums: %v\n", p.RowSums)
	fmt.Printf("col sums: %v\n", p.ColSums)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
