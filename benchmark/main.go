// Package main provides a performance benchmarking tool for the Forecast CLI.
// It measures execution times across scenario files, window lengths and command types,
// running each test multiple times with history tracking disabled and then with the
// SQLite history backend (the first successful tracked run is cold, the rest are averaged as warm),
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - forecast binary installed and available in PATH
// - Scenario files present in the specified directory
//
// Usage: go run benchmark/main.go [scenario-dir]
//
//	scenario-dir: Directory containing scenario YAML files (e.g. examples)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold tracked run and average of warm tracked runs).
type BenchmarkResult struct {
	Scenario      string
	Command       string
	Window        string
	UntrackedTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ScenarioDir   string
	Timeout       time.Duration
	UntrackedRuns int
	TrackedRuns   int
	Scenarios     []string
	Windows       map[string][2]string
	Targets       map[string]string
	Schedules     []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [scenario-dir]\n", os.Args[0])
		os.Exit(1)
	}
	scenarioDir := os.Args[1]

	config := BenchmarkConfig{
		ScenarioDir:   scenarioDir,
		Timeout:       2 * time.Minute,
		UntrackedRuns: 3,
		TrackedRuns:   4,
		Scenarios:     []string{"budget.yaml"},
		Windows: map[string][2]string{
			"1y":   {"2025-01-01", "2026-01-01"},
			"10y":  {"2025-01-01", "2035-01-01"},
			"100y": {"2025-01-01", "2125-01-01"},
		},
		Targets: map[string]string{
			"budget.yaml": "--item savings --target 50000",
		},
		Schedules: []string{"1d", "2w|3w", "0 9 * * 1"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty history database
	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("forecast", "history", "clear", "--history-backend", "sqlite")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("History cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that forecast binary and scenario files exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("forecast"); err != nil {
		return fmt.Errorf("forecast binary not found in PATH")
	}

	for _, scenario := range config.Scenarios {
		path := filepath.Join(config.ScenarioDir, scenario)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("scenario %s not found at %s", scenario, path)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured scenarios
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %d windows, %v timeout, untracked: %d runs, tracked: %d runs\n",
		len(config.Scenarios), len(config.Windows), config.Timeout, config.UntrackedRuns, config.TrackedRuns)

	for _, scenario := range config.Scenarios {
		fmt.Printf("Benchmarking %s\n", scenario)
		path := filepath.Join(config.ScenarioDir, scenario)

		for _, window := range []string{"1y", "10y", "100y"} {
			bounds, ok := config.Windows[window]
			if !ok {
				continue
			}
			args := fmt.Sprintf("%s --start %s --end %s --output csv", path, bounds[0], bounds[1])
			desc := fmt.Sprintf("run over %s", window)
			results = append(results, runBenchmarkSuite(config, scenario, "run", window, desc, args))
		}

		// Time-to-target search
		if target, ok := config.Targets[scenario]; ok {
			args := fmt.Sprintf("%s %s --max-horizon 100y", path, target)
			results = append(results, runBenchmarkSuite(config, scenario, "until", "100y", "until "+target, args))
		}
	}

	// Schedule generation does not touch history, so only the untracked phase is meaningful
	for _, spec := range config.Schedules {
		bounds := config.Windows["100y"]
		args := fmt.Sprintf("--spec \"%s\" --start %s --end %s --output csv", spec, bounds[0], bounds[1])
		results = append(results, runBenchmarkSuite(config, spec, "schedule", "100y", "schedule "+spec, args))
	}

	return results
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, scenario, command, window, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, scenario)

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, extraArgs, historyBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: history disabled
	_, untrackedAvg := runPhase("none", config.UntrackedRuns, "Untracked")

	// Phase 2: history recorded to SQLite
	coldTime, warmAvg := runPhase("sqlite", config.TrackedRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackedAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Scenario:      scenario,
		Command:       command,
		Window:        window,
		UntrackedTime: untrackedAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a forecast command multiple times with the given history backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, extraArgs, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--history-backend", historyBackend}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("forecast", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output looks like a completed result.
// CSV output carries no footer, so any output without an error line counts,
// and until must also have written its header.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if strings.TrimSpace(outputStr) == "" || strings.Contains(outputStr, "Fatal ") {
		return false
	}
	if command == "until" {
		return strings.HasPrefix(outputStr, "item")
	}
	return true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/forecast_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"scenario", "cmd", "window", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Scenario, result.Command, result.Window, result.UntrackedTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "run", "Run:")
	printCommandSummary(results, "until", "Until:")
	printCommandSummary(results, "schedule", "Schedule:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-14s %-5s: Untracked: %s, Cold: %s, Warm: %s\n", result.Scenario, result.Window, result.UntrackedTime, result.ColdTime, result.WarmTime)
		}
	}
}
