package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenlint/internal/storage"
)

var componentsFormat string

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List component dependency edges",
	Run:   runComponents,
}

func init() {
	componentsCmd.Flags().StringVar(&componentsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(componentsCmd)
}

// ComponentsResponse is the components command's output shape.
type ComponentsResponse struct {
	Edges []storage.ComponentGraphEdge `json:"edges"`
}

func runComponents(cmd *cobra.Command, args []string) {
	logger := newLogger(componentsFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	// The component graph only exists in schema v2; this command cannot
	// degrade, so it fails fast with the version gap.
	if err := db.Require(storage.FeatureComponentGraph); err != nil {
		exitErr("querying component graph", err)
	}

	edges, err := db.ComponentEdges()
	if err != nil {
		exitErr("listing component edges", err)
	}

	output, err := FormatResponse(&ComponentsResponse{Edges: edges}, OutputFormat(componentsFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
