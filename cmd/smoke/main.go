package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/jakedibattista/Scout/internal/smoketest"
)

// Default configuration constants.
const (
	defaultNumScouts   = 5
	defaultNumAthletes = 500
	defaultNumQueries  = 200
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		seedFile    = flag.String("seed", "smoke_seed.json", "Seed fixture path")
		generate    = flag.Bool("gen", false, "Generate the seed fixture and exit")
		numScouts   = flag.Int("scouts", defaultNumScouts, "Number of scouts to generate into the fixture")
		numAthletes = flag.Int("athletes", defaultNumAthletes, "Number of athletes to generate into the fixture")
		numQueries  = flag.Int("queries", defaultNumQueries, "Number of search queries to submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Log file for test output (default: smoke_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	// Setup logging
	if err := smoketest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &smoketest.Config{
		BaseURL:     *baseURL,
		NumScouts:   *numScouts,
		NumAthletes: *numAthletes,
		NumQueries:  *numQueries,
		Workers:     *workers,
		Timeout:     *timeout,
		SeedFile:    *seedFile,
		Generate:    *generate,
		Verbose:     *verbose,
		LogFile:     *logFile,
	}

	// Run the smoke test
	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		return
	}
}
