package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/herofan/internal/arenabench"
)

// Default configuration constants.
const (
	defaultBattles      = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultBenchTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		battles    = flag.Int("battles", defaultBattles, "Number of battles to fire")
		signups    = flag.Int("signups", 0, "Number of newsletter signups to submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed       = flag.Int64("seed", 0, "Pair generator seed, 0 uses the clock")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the JSON report to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every failed battle")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		arenabench.ShowHelp()
		return
	}

	if err := arenabench.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultBenchTimeout)
	defer cancel()

	config := &arenabench.Config{
		BaseURL:    *baseURL,
		Battles:    *battles,
		Signups:    *signups,
		Workers:    *workers,
		Seed:       *seed,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := arenabench.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Bench failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
