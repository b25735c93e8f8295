// Package main provides a performance benchmarking tool for the DepShield CLI.
// It scans a fixed set of npm packages with and without the registry cache,
// treating the first cached run as cold and averaging the rest as warm,
// and writes the timings to a CSV file.
//
// Prerequisites:
// - depshield binary installed and available in PATH
// - network access to registry.npmjs.org and api.npmjs.org
//
// Usage: go run benchmark/main.go [package...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Target      string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Concurrency int
	NoCacheRuns int
	CacheRuns   int
	Targets     []string
}

func main() {
	config := BenchmarkConfig{
		Timeout:     3 * time.Minute,
		Concurrency: 10,
		NoCacheRuns: 2,
		CacheRuns:   4,
		Targets:     []string{"left-pad", "express", "webpack", "@angular/core"},
	}
	if len(os.Args) > 1 {
		config.Targets = os.Args[1:]
	}

	if _, err := exec.LookPath("depshield"); err != nil {
		fmt.Printf("Prerequisites check failed: depshield binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("depshield", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	var results []BenchmarkResult
	for _, target := range config.Targets {
		results = append(results, runBenchmarkSuite(config, target))
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-16s: No-cache: %s, Cold: %s, Warm: %s\n", r.Target, r.NoCacheTime, r.ColdTime, r.WarmTime)
	}
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for one target
func runBenchmarkSuite(config BenchmarkConfig, target string) BenchmarkResult {
	fmt.Printf("Benchmarking %s\n", target)

	_, noCache := runBenchmark(config, target, "none", config.NoCacheRuns)
	cold, warm := runBenchmark(config, target, "sqlite", config.CacheRuns)

	result := BenchmarkResult{Target: target, NoCacheTime: average(noCache), ColdTime: "TIMEOUT", WarmTime: average(warm)}
	if cold > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cold)
	}
	return result
}

// runBenchmark scans target numRuns times and returns the first run time and the remaining run times
func runBenchmark(config BenchmarkConfig, target, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"scan", target,
		"--output", "json",
		"--cache-backend", cacheBackend,
		"--concurrency", fmt.Sprint(config.Concurrency),
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "depshield", args...).Output()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && strings.Contains(string(output), `"scanId"`) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(times []float64) string {
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
	filename := fmt.Sprintf("/tmp/depshield_benchmark_%s.csv", time.Now().Format("20060102_150405"))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"target", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Target, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}
