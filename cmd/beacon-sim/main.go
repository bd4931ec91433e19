package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/glowup/beacon/internal/simulate"
)

// Default configuration constants.
const (
	defaultActions    = 200
	defaultSearches   = 20
	defaultTimeout    = 10 * time.Second
	defaultSimTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:9180", "Base URL of the tracking service")
		actions  = flag.Int("actions", defaultActions, "Number of browsing actions to generate")
		searches = flag.Int("searches", defaultSearches, "Number of search submissions to mix in")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for simulation output (default: sim_log_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulate.Config{
		BaseURL:  *baseURL,
		Actions:  *actions,
		Searches: *searches,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
