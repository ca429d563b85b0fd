package main

import (
	"github.com/spf13/cobra"

	"tokenlint/internal/version"
)

var (
	projectFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "tokenlint",
	Short: "tokenlint - design token linter and refactoring tool",
	Long: `tokenlint scans a component source tree for utility-class usages, tracks
which design tokens they resolve to, and offers automated, auditable
rewrites: promote a repeated pattern to a utility, retarget a token value,
or apply a multi-step migration plan.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("tokenlint version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "",
		"Project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false,
		"Enable debug logging")
}
