// Package main benchmarks the testid CLI against real repositories.
// Each command runs once per phase without the index cache and then several
// times with the SQLite cache, where the first cached run is cold and the
// rest are averaged as warm. Results are written as CSV.
//
// Prerequisites:
// - testid binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	RepoRefs    map[string][2]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		RepoRefs: map[string][2]string{
			"csv-parser": {"v1.0.0", "v1.1.0"},
			"fd":         {"v9.0.0", "v10.0.0"},
			"git":        {"v2.51.0", "v2.52.0-rc0"},
			"kubernetes": {"v1.34.0", "v1.35.0-alpha.0"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing index cache...\n")
	if output, err := exec.Command("testid", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)
	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// checkPrerequisites verifies that the binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("testid"); err != nil {
		return errors.New("testid binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks times analyze and check on every repository with refs.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		refs, ok := config.RepoRefs[repo]
		if !ok {
			continue
		}
		repoPath := filepath.Join(config.RepoBase, repo)
		refArgs := []string{"--base-ref", refs[0], "--target-ref", refs[1]}

		fmt.Printf("Benchmarking %s (%s...%s)\n", repo, refs[0], refs[1])
		results = append(results,
			runBenchmarkSuite(config, repo, repoPath, "analyze", append(refArgs, "--output", "paths")),
			runBenchmarkSuite(config, repo, repoPath, "check", refArgs),
		)
	}
	return results
}

// runBenchmarkSuite runs the no-cache and cache phases for a command.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, repo)

	_, noCache := runBenchmark(config, repoPath, command, extraArgs, "none", config.NoCacheRuns)
	cold, warm := runBenchmark(config, repoPath, command, extraArgs, "sqlite", config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		Command:     command,
		NoCacheTime: average(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    average(warm),
	}
	if cold > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cold)
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes a command numRuns times and returns the first
// successful duration and the durations after it.
func runBenchmark(config BenchmarkConfig, repoPath, command string, extraArgs []string, cacheBackend string, numRuns int) (float64, []float64) {
	args := append([]string{command, "--cache-backend", cacheBackend, "--color", "no"}, extraArgs...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "testid", args...)
		cmd.Dir = repoPath

		start := time.Now()
		err := cmd.Run()
		elapsed := time.Since(start).Seconds()
		cancel()

		// check exits non-zero on policy violations, which still counts as a completed run
		var exitErr *exec.ExitError
		if err == nil || (command == "check" && errors.As(err, &exitErr) && ctx.Err() == nil) {
			times = append(times, elapsed)
		}
	}

	if len(times) == 0 {
		return 0, nil
	}
	return times[0], times[1:]
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

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	filename := fmt.Sprintf("/tmp/testid_benchmark_%s.csv", time.Now().Format("20060102_150405"))

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
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by command.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"analyze", "check"} {
		fmt.Printf("%s:\n", command)
		for _, r := range results {
			if r.Command == command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.Repository, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
