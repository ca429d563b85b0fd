package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tokenlint/internal/indexer"
)

var buildFormat string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the token index",
	Long: `Scan the source tree, extract token definitions and class usages, and
write a fresh index. The existing index is replaced atomically; a failed
build leaves the previous index untouched.`,
	Run: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	logger := newLogger(buildFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	builder := indexer.NewBuilder(settings, nil, logger)
	result, err := builder.Build(context.Background())
	if err != nil {
		exitErr("building index", err)
	}

	output, err := FormatResponse(result, OutputFormat(buildFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
