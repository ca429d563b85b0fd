package main

import (
	"os"

	"tokenlint/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.New(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel})
		logger.Error("Command execution failed", logging.Fields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
