// Package main provides a performance benchmarking tool for the finscore CLI.
// It measures execution times of report and compare across batches of companies,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - finscore binary installed and available in PATH
// - A statements CSV accepted by "finscore store import"
//
// Usage: go run benchmark/main.go [statements.csv] [fiscal-year] [tax-id...]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Batch       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Statements  string
	FiscalYear  int
	TaxIDs      []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	if len(os.Args) < 5 {
		fmt.Printf("Usage: %s [statements.csv] [fiscal-year] [tax-id] [tax-id...]\n", os.Args[0])
		os.Exit(1)
	}
	year, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid fiscal year %q: %v\n", os.Args[2], err)
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Statements:  os.Args[1],
		FiscalYear:  year,
		TaxIDs:      os.Args[3:],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importing statements...\n")
	if output, err := exec.Command("finscore", "store", "import", config.Statements).CombinedOutput(); err != nil {
		fmt.Printf("Failed to import statements: %v\nOutput: %s\n", err, string(output))
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("finscore", "store", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the finscore binary and the statements file exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("finscore"); err != nil {
		return errors.New("finscore binary not found in PATH")
	}
	if _, err := os.Stat(config.Statements); err != nil {
		return fmt.Errorf("statements file %s: %w", config.Statements, err)
	}
	return nil
}

// runBenchmarks scores growing batches of companies, then compares the first two
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d companies, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.TaxIDs), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, size := range batchSizes(len(config.TaxIDs)) {
		batch := fmt.Sprintf("%d companies", size)
		args := append([]string{"report"}, config.TaxIDs[:size]...)
		results = append(results, runBenchmarkSuite(config, batch, "report", args))
	}

	if len(config.TaxIDs) >= 2 {
		batch := config.TaxIDs[0] + " vs " + config.TaxIDs[1]
		args := []string{"compare", config.TaxIDs[0], config.TaxIDs[1]}
		results = append(results, runBenchmarkSuite(config, batch, "compare", args))
	}

	return results
}

// batchSizes returns 1, 10, 100... capped at n, always ending with n
func batchSizes(n int) []int {
	var sizes []int
	for s := 1; s < n; s *= 10 {
		sizes = append(sizes, s)
	}
	return append(sizes, n)
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, batch, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, batch)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Batch:       batch,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a finscore command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	fullArgs := append(append([]string(nil), args...),
		"--cache-backend", cacheBackend, "--year", strconv.Itoa(config.FiscalYear), "--color", "no")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "finscore", fullArgs...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && isSuccess(output, command) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	completionPhrase := "Scored "
	if command == "compare" {
		completionPhrase = "Comparison completed in"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/finscore_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"batch", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Batch, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "report", "Company Reports:")
	printCommandSummary(results, "compare", "Comparisons:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", result.Batch, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
