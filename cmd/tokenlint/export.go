package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tokenlint/internal/export"
	"tokenlint/internal/paths"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index as compressed JSON",
	Long: `Dump tokens, patterns, and the component graph as a zstd-compressed
JSON document for external tools.`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: .tokenlint/index-export.json.zst)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	logger := newLogger("human")
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	outPath := exportOut
	if outPath == "" {
		outPath = filepath.Join(paths.StateDir(projectRoot), "index-export.json.zst")
	}

	dump, err := export.WriteDump(db, outPath)
	if err != nil {
		exitErr("writing export", err)
	}

	fmt.Printf("Exported %d tokens and %d patterns to %s\n",
		len(dump.Tokens), len(dump.Patterns), outPath)
}
