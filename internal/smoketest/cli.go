package smoketest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jakedibattista/Scout/pkg/logger"
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
		logFile = "smoke_log_" + timestamp + ".log"
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

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Scout Search Smoke Tool
=======================

A concurrent tool for exercising the Scout search and ranking service.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -seed string
        Seed fixture path (default "smoke_seed.json")
  -gen
        Generate the seed fixture and exit
  -scouts int
        Number of scouts to generate into the fixture (default 5)
  -athletes int
        Number of athletes to generate into the fixture (default 500)
  -queries int
        Number of search queries to submit (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Workflow:
  # 1. Generate a seed fixture
  go run cmd/smoke/main.go -gen -seed smoke_seed.json -athletes 1000

  # 2. Start the service against the fixture
  SCOUT_SEED_FILE=smoke_seed.json go run cmd/main.go

  # 3. Run the smoke test against the running service
  go run cmd/smoke/main.go -seed smoke_seed.json -queries 500 -workers 16
`)
}
