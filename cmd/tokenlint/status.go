package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenlint/internal/guard"
	"tokenlint/internal/storage"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index freshness and statistics",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statusCmd)
}

// StatusResponse is the status command's output shape.
type StatusResponse struct {
	IndexPath     string                 `json:"indexPath"`
	SchemaVersion int                    `json:"schemaVersion"`
	CreatedAt     string                 `json:"createdAt,omitempty"`
	Freshness     guard.FreshnessResult  `json:"freshness"`
	Stats         storage.Stats          `json:"stats"`
}

func runStatus(cmd *cobra.Command, args []string) {
	logger := newLogger(statusFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	freshness, err := guard.CheckFresh(settings, db)
	if err != nil {
		exitErr("checking freshness", err)
	}
	stats, err := db.Stats()
	if err != nil {
		exitErr("reading stats", err)
	}
	createdAt, _, err := db.GetMeta(storage.MetaCreatedAt)
	if err != nil {
		exitErr("reading metadata", err)
	}

	resp := &StatusResponse{
		IndexPath:     db.Path(),
		SchemaVersion: db.SchemaVersion(),
		CreatedAt:     createdAt,
		Freshness:     *freshness,
		Stats:         *stats,
	}

	output, err := FormatResponse(resp, OutputFormat(statusFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
