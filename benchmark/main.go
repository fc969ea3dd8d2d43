// Package main provides a performance benchmarking tool for the gradestat CLI.
// It generates synthetic grade files of increasing size, times builds with and
// without run history, times queries over the built summaries, and writes the
// averages to CSV for performance analysis and documentation.
//
// Prerequisites:
// - gradestat binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated inputs, outputs and the run history database
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the average timings of one dataset.
type BenchmarkResult struct {
	Dataset    string
	Rows       int
	NoRunsTime string
	SQLiteTime string
	QueryTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Datasets map[string]int
	Order    []string
}

var (
	subjects    = []string{"ACCT", "BIOL", "CHEM", "CSCI", "ECON", "HIST", "MATH", "PHYS"}
	instructors = []string{"Adams", "Baker", "Chen", "Diaz", "Evans", "Garcia", "Kim", "Lee", "Patel", "Smith"}
	terms       = []string{"Spring", "Summer", "Fall"}
	gradeCols   = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F"}
)

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    3,
		Datasets: map[string]int{
			"small":  1_000,
			"medium": 20_000,
			"large":  200_000,
		},
		Order: []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the gradestat binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gradestat"); err != nil {
		return fmt.Errorf("gradestat binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset writes a grade file with the given number of section rows
func generateDataset(path string, rows int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	r := rand.New(rand.NewPCG(uint64(rows), 42))
	writer := csv.NewWriter(file)
	header := append([]string{"Subject", "Course Number", "Title", "Instructor", "CRN", "Term", "Year", "Total_Students"}, gradeCols...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := range rows {
		subject := subjects[r.IntN(len(subjects))]
		number := strconv.Itoa(100 + r.IntN(400))
		counts := make([]string, len(gradeCols))
		total := 0
		for j := range gradeCols {
			n := r.IntN(8)
			counts[j] = strconv.Itoa(n)
			total += n
		}
		record := append([]string{
			subject,
			number,
			subject + " " + number,
			instructors[r.IntN(len(instructors))],
			strconv.Itoa(10000 + i),
			terms[r.IntN(len(terms))],
			strconv.Itoa(2015 + r.IntN(10)),
			strconv.Itoa(total),
		}, counts...)
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks generates every dataset and times the commands over it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs each\n",
		len(config.Order), config.Timeout, config.Runs)

	for _, name := range config.Order {
		rows := config.Datasets[name]
		fmt.Printf("Benchmarking %s (%d rows)\n", name, rows)

		input := filepath.Join(config.WorkDir, name+".csv")
		if err := generateDataset(input, rows); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}
		data := filepath.Join(config.WorkDir, name+".json")
		dbPath := filepath.Join(config.WorkDir, name+".runs.db")
		_ = os.Remove(dbPath)

		noRuns := averageTime(runBenchmark(config, "Published", nil,
			"build", input, "--output-file", data))
		sqlite := averageTime(runBenchmark(config, "Published", []string{"GRADESTAT_RUNS_DB_CONNECT=" + dbPath},
			"build", input, "--output-file", data, "--runs-backend", "sqlite"))
		query := averageTime(runBenchmark(config, "Showing", nil,
			"query", "--data", data, "--search", "smith", "--sort", "totalStudents"))

		fmt.Printf("  No runs: %s, SQLite runs: %s, Query: %s\n", noRuns, sqlite, query)
		results = append(results, BenchmarkResult{
			Dataset:    name,
			Rows:       rows,
			NoRunsTime: noRuns,
			SQLiteTime: sqlite,
			QueryTime:  query,
		})
	}

	return results, nil
}

// runBenchmark executes a gradestat command several times and returns the successful durations
func runBenchmark(config BenchmarkConfig, successPhrase string, env []string, args ...string) []float64 {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("gradestat", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), successPhrase) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}
	return times
}

// averageTime formats the mean of the durations, or TIMEOUT when none succeeded
func averageTime(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("gradestat_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "rows", "build_no_runs_avg", "build_sqlite_avg", "query_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{result.Dataset, strconv.Itoa(result.Rows), result.NoRunsTime, result.SQLiteTime, result.QueryTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%7d rows): Build: %s, Build+SQLite: %s, Query: %s\n",
			result.Dataset, result.Rows, result.NoRunsTime, result.SQLiteTime, result.QueryTime)
	}
}
