package main

import (
	"fmt"
	"os"

	"tokenlint/internal/config"
	"tokenlint/internal/logging"
	"tokenlint/internal/storage"
)

// newLogger builds the command logger. JSON output format implies JSON
// logs so stderr stays machine-parseable alongside stdout.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == string(FormatJSON) {
		logFormat = logging.JSONFormat
	}
	level := logging.InfoLevel
	if verboseFlag {
		level = logging.DebugLevel
	}
	return logging.New(logging.Config{Format: logFormat, Level: level})
}

// mustProjectRoot resolves the project root from --project or the working
// directory.
func mustProjectRoot() string {
	if projectFlag != "" {
		return projectFlag
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving working directory: %v\n", err)
		os.Exit(1)
	}
	return cwd
}

// mustLoadSettings loads project settings or exits.
func mustLoadSettings(projectRoot string) *config.Settings {
	settings, err := config.Load(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return settings
}

// mustOpenIndex opens the project index or exits. Callers must Close the
// returned handle on every path; commands defer it immediately.
func mustOpenIndex(settings *config.Settings, logger *logging.Logger) *storage.DB {
	db, err := storage.Open(settings.ResolvedIndexPath(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return db
}

func exitErr(message string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", message, err)
	os.Exit(1)
}
