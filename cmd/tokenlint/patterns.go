package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenlint/internal/classify"
	"tokenlint/internal/storage"
)

var (
	patternsFormat   string
	patternsMinCount int
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List repeated class patterns",
	Long: `List deduplicated class patterns observed across the tree, most
frequent first. Patterns repeated often are candidates for promotion to a
named utility.`,
	Run: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVar(&patternsFormat, "format", "human", "Output format (json, human)")
	patternsCmd.Flags().IntVar(&patternsMinCount, "min-count", 2, "Only show patterns seen at least this often")
	rootCmd.AddCommand(patternsCmd)
}

// PatternEntry is one pattern in the listing, with its category.
type PatternEntry struct {
	storage.PatternRecord
	Category classify.Category `json:"category"`
}

// PatternsResponse is the patterns command's output shape.
type PatternsResponse struct {
	Patterns []PatternEntry `json:"patterns"`
}

func runPatterns(cmd *cobra.Command, args []string) {
	logger := newLogger(patternsFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	patterns, err := db.Patterns(patternsMinCount)
	if err != nil {
		exitErr("listing patterns", err)
	}

	resp := &PatternsResponse{}
	for _, p := range patterns {
		resp.Patterns = append(resp.Patterns, PatternEntry{
			PatternRecord: p,
			Category:      classify.CategorizePattern(p.Classes),
		})
	}

	output, err := FormatResponse(resp, OutputFormat(patternsFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
