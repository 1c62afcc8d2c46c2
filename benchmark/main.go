// Package main provides a performance benchmarking tool for the propmatch CLI.
// It generates synthetic listing files of increasing size and times searches
// against them, treating the first successful run as cold and averaging the
// rest as warm, generating CSV output for performance analysis.
//
// Prerequisites:
// - propmatch binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory the synthetic listing files are written to
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Scenario string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	Sizes     []int
	Scenarios map[string]string
}

var (
	cities     = []string{"Chennai", "Bengaluru", "Coimbatore", "Madurai"}
	localities = []string{"Velachery", "Guindy", "Adyar", "Whitefield", "RS Puram", "Anna Nagar"}
	types      = []string{"Apartment", "Villa", "Plot", "Independent House"}
	amenities  = []string{"Gym", "Pool", "Lift", "Power Backup", "Clubhouse", "Parking"}
)

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    5,
		Sizes:   []int{100, 1000, 10000, 50000},
		Scenarios: map[string]string{
			"browse":   "",
			"text":     "--query \"villa chennai\"",
			"filtered": "--mode buy --cities Chennai --bhk 2 --amenity Gym --sort priceLow",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the propmatch binary and the work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("propmatch"); err != nil {
		return fmt.Errorf("propmatch binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// writeDataset writes n synthetic listings as a JSON array and returns its path
func writeDataset(dir string, n int) (string, error) {
	records := make([]map[string]any, n)
	now := time.Now()
	for i := range n {
		price := 2_500_000 + (i%40)*250_000
		area := 600 + (i%30)*50
		records[i] = map[string]any{
			"id":         "bench-" + strconv.Itoa(i),
			"title":      fmt.Sprintf("%d BHK %s in %s", 1+i%4, types[i%len(types)], localities[i%len(localities)]),
			"category":   "buy",
			"type":       types[i%len(types)],
			"city":       cities[i%len(cities)],
			"locality":   localities[i%len(localities)],
			"bhk":        1 + i%4,
			"price_inr":  price,
			"sqft":       area,
			"amenities":  amenities[:1+i%len(amenities)],
			"listed_at":  now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("listings_%d.json", n))
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes every scenario against every dataset size
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d scenarios, %v timeout, %d runs\n",
		len(config.Sizes), len(config.Scenarios), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		path, err := writeDataset(config.WorkDir, size)
		if err != nil {
			fmt.Printf("Skipping %d listings: %v\n", size, err)
			continue
		}
		dataset := strconv.Itoa(size)
		fmt.Printf("Benchmarking %s listings\n", dataset)

		for _, scenario := range []string{"browse", "text", "filtered"} {
			results = append(results, runBenchmarkSuite(config, dataset, path, scenario, config.Scenarios[scenario]))
		}
	}

	return results
}

// runBenchmarkSuite times one scenario against one dataset
func runBenchmarkSuite(config BenchmarkConfig, dataset, path, scenario, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s listings\n", scenario, dataset)

	times := runBenchmark(config, path, extraArgs)

	coldTime, warmAvg := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTime, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Scenario: scenario,
		ColdTime: coldTime,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a propmatch search multiple times and returns the successful run times
func runBenchmark(config BenchmarkConfig, path, extraArgs string) []float64 {
	args := []string{
		"search", "--sources", "local", "--local", path,
		"--output", "json", "--store-backend", "none", "--db-backend", "none",
	}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("propmatch", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return times
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

// isSuccess checks that the command printed a result page
func isSuccess(output []byte) bool {
	var page struct {
		Total *int `json:"total"`
	}
	return json.Unmarshal(output, &page) == nil && page.Total != nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("propmatch_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"listings", "scenario", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Scenario, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, scenario := range []string{"browse", "text", "filtered"} {
		fmt.Printf("%s (%s):\n", scenario, strings.TrimSpace(config.Scenarios[scenario]))
		for _, result := range results {
			if result.Scenario == scenario {
				fmt.Printf("  %-6s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
			}
		}
	}
}
