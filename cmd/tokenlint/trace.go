package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokenlint/internal/cascade"
	"tokenlint/internal/guard"
)

var (
	traceFormat string
	traceLimit  int
)

var traceCmd = &cobra.Command{
	Use:   "trace <selector>",
	Short: "Trace a token or class through the cascade",
	Long: `Resolve a selector (a token name like --color-brand, or a class name
like bg-brand) and report what it depends on, what depends on it, its
theme variants, and where it is used. Every answer carries a confidence
envelope naming what could not be verified.`,
	Args: cobra.ExactArgs(1),
	Run:  runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceFormat, "format", "human", "Output format (json, human)")
	traceCmd.Flags().IntVar(&traceLimit, "limit", 25, "Maximum usages to list")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) {
	logger := newLogger(traceFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	freshness, err := guard.CheckFresh(settings, db)
	if err != nil {
		exitErr("checking freshness", err)
	}
	if !freshness.Fresh {
		fmt.Fprintf(os.Stderr, "warning: index is stale (%s); results may not match the tree\n",
			freshness.Reason)
	}

	result, err := cascade.Resolve(db, args[0], traceLimit)
	if err != nil {
		exitErr("resolving cascade", err)
	}

	output, err := FormatResponse(result, OutputFormat(traceFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
