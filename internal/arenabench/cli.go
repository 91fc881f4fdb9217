package arenabench

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/herofan/pkg/logger"
)

// SetupLogging initializes the logger on stdout, and also on logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWith(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the bench tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Herofan Arena Bench
===================

Fires random battles at a running herofan service, verifies every outcome
against the roster and reports per-hero win rates.

Usage:
  go run ./cmd/arena-bench [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -battles int
        Number of battles to fire (default 1000)
  -signups int
        Number of newsletter signups to submit (default 0)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed int
        Pair generator seed, 0 uses the clock
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the JSON report to this file
  -log string
        Also write logs to this file
  -verbose
        Log every failed battle
  -help
        Show this help message

Examples:
  go run ./cmd/arena-bench -battles 10000 -workers 16
  go run ./cmd/arena-bench -signups 500 -output bench.json
`)
}
