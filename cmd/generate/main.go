// Command generate bulk-produces Numino puzzles from a YAML batch job file,
// fanning construction+deconstruction across a worker pool and writing a
// persisted puzzles file plus a private solutions file.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YeYo-KuVo/numino/internal/core"
	"github.com/YeYo-KuVo/numino/internal/deconstruct"
	"github.com/YeYo-KuVo/numino/internal/pipeline"
	"github.com/YeYo-KuVo/numino/internal/puzzles"
)

// Job describes one batch of puzzles to generate with identical shape.
type Job struct {
	Name      string   `yaml:"name"`
	Count     int      `yaml:"count"`
	Rows      int      `yaml:"rows"`
	Cols      int      `yaml:"cols"`
	Numbers   []int    `yaml:"numbers"`
	Colors    []string `yaml:"colors"`
	Balance   string   `yaml:"balance"`
	StartSeed int64    `yaml:"start_seed"`
}

// BatchFile is the top-level YAML document read by -jobs.
type BatchFile struct {
	Jobs []Job `yaml:"jobs"`
}

func main() {
	jobsFile := flag.String("jobs", "", "Path to a YAML batch job file")
	output := flag.String("o", "puzzles.json", "Output puzzles file path")
	solutionsOut := flag.String("solutions", "solutions.json", "Output private solutions file path")
	workers := flag.Int("w", 0, "Number of worker goroutines (default: num CPUs)")
	flag.Parse()

	if *jobsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -jobs is required")
		os.Exit(1)
	}
	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	data, err := os.ReadFile(*jobsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading jobs file: %v\n", err)
		os.Exit(1)
	}

	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing jobs file: %v\n", err)
		os.Exit(1)
	}

	var total int
	for _, j := range batch.Jobs {
		total += j.Count
	}
	fmt.Printf("Generating %d puzzles across %d jobs with %d workers...\n", total, len(batch.Jobs), *workers)
	start := time.Now()

	type task struct {
		job Job
		idx int
	}

	work := make(chan task, total)
	for _, j := range batch.Jobs {
		for i := 0; i < j.Count; i++ {
			work <- task{job: j, idx: i}
		}
	}
	close(work)

	var generated int64
	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g := atomic.LoadInt64(&generated)
				elapsed := time.Since(start)
				rate := float64(g) / elapsed.Seconds()
				remaining := float64(total-int(g)) / rate
				fmt.Printf("  Progress: %d/%d (%.1f/sec, ~%.0fs remaining)\n", g, total, rate, remaining)
			case <-done:
				return
			}
		}
	}()

	type result struct {
		entry puzzles.PuzzleJSON
		sol   core.Solution
		rows  int
		cols  int
		id    string
	}

	var (
		mu       sync.Mutex
		results  []result
		failures int64
	)

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range work {
				seed := t.job.StartSeed + int64(t.idx)
				colors := make([]core.ColorCode, len(t.job.Colors))
				for i, c := range t.job.Colors {
					colors[i] = core.ColorCode(c)
				}

				puzzle, sol, bias, id, difficulty, err := pipeline.Generate(pipeline.CalibrationInput{
					Rows:    t.job.Rows,
					Cols:    t.job.Cols,
					Numbers: t.job.Numbers,
					Colors:  colors,
					Balance: t.job.Balance,
					Seed:    seed,
				})
				atomic.AddInt64(&generated, 1)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					fmt.Fprintf(os.Stderr, "job %q seed %d: %v\n", t.job.Name, seed, err)
					continue
				}

				entry := puzzles.ToJSON(id, puzzle, bias, deconstruct.Difficulty(difficulty))

				mu.Lock()
				results = append(results, result{entry: entry, sol: sol, rows: puzzle.Rows, cols: puzzle.Cols, id: id})
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	done <- true

	elapsed := time.Since(start)
	fmt.Printf("Generated %d puzzles (%d failed) in %v (%.1f puzzles/sec)\n",
		len(results), failures, elapsed, float64(len(results))/elapsed.Seconds())

	entries := make([]puzzles.PuzzleJSON, len(results))
	for i, r := range results {
		entries[i] = r.entry
	}
	if err := puzzles.WriteFile(*output, entries...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing puzzles file: %v\n", err)
		os.Exit(1)
	}
	for _, r := range results {
		if err := puzzles.AppendSolution(*solutionsOut, r.id, r.sol, r.rows, r.cols); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing solutions file: %v\n", err)
			os.Exit(1)
		}
	}

	info, _ := os.Stat(*output)
	sizeMB := float64(info.Size()) / 1024 / 1024
	fmt.Printf("Done! Puzzles file size: %.2f MB\n", sizeMB)
}
