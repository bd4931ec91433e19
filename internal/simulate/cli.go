package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/glowup/beacon/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Beacon Browsing Simulator
=========================

Drives a running beacon instance through a synthetic browsing session and
verifies the accumulated preference profile.

Usage:
  go run cmd/beacon-sim/main.go [options]

Options:
  -url string
        Base URL of the tracking service (default "http://127.0.0.1:9180")
  -actions int
        Number of browsing actions to generate (default 200)
  -searches int
        Number of search submissions to mix in (default 20)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Log file for simulation output (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/beacon-sim/main.go

  # Longer session against a custom address
  go run cmd/beacon-sim/main.go -actions 1000 -searches 50 -url http://localhost:9999
`)
}
