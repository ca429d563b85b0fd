package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokenlint/internal/migrate"
)

var (
	migrateFormat      string
	migrateApply       bool
	migrateContinue    bool
	migrateInteractive bool
	migrateNoBackup    bool
	migrateSteps       []string
	migrateSkip        []string
	migrateFile        string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <plan>",
	Short: "Apply a migration plan",
	Long: `Execute the steps of a migration plan in dependency order, with per-file
backups and a persisted checkpoint after every step. Without --apply the
run is a dry run: steps are validated but nothing is written.

Examples:
  tokenlint migrate plan.json
  tokenlint migrate plan.json --apply
  tokenlint migrate plan.json --apply --interactive
  tokenlint migrate plan.json --apply --continue
  tokenlint migrate plan.json --apply --steps step-1,step-2
  tokenlint migrate plan.json --apply --file src/Button.tsx`,
	Args: cobra.ExactArgs(1),
	Run:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFormat, "format", "human", "Output format (json, human)")
	migrateCmd.Flags().BoolVar(&migrateApply, "apply", false, "Write changes (default is a dry run)")
	migrateCmd.Flags().BoolVar(&migrateContinue, "continue", false, "Resume from the plan's checkpoint")
	migrateCmd.Flags().BoolVar(&migrateInteractive, "interactive", false, "Confirm each step (yes/no/quit/all)")
	migrateCmd.Flags().BoolVar(&migrateNoBackup, "no-backup", false, "Skip .bak backups of touched files")
	migrateCmd.Flags().StringSliceVar(&migrateSteps, "steps", nil, "Only run these step ids")
	migrateCmd.Flags().StringSliceVar(&migrateSkip, "skip", nil, "Skip these step ids")
	migrateCmd.Flags().StringVar(&migrateFile, "file", "", "Only run steps targeting this file")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	logger := newLogger(migrateFormat)
	projectRoot := mustProjectRoot()

	plan, err := migrate.LoadPlan(args[0])
	if err != nil {
		exitErr("loading plan", err)
	}

	engine := migrate.NewEngine(projectRoot, logger)
	summary, err := engine.Run(plan, migrate.Options{
		Apply:       migrateApply,
		Continue:    migrateContinue,
		Interactive: migrateInteractive,
		Backup:      !migrateNoBackup,
		Steps:       migrateSteps,
		Skip:        migrateSkip,
		File:        migrateFile,
		Input:       os.Stdin,
		Output:      os.Stdout,
	})
	if err != nil {
		exitErr("running migration", err)
	}

	output, err := FormatResponse(summary, OutputFormat(migrateFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
