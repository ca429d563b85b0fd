package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"tokenlint/internal/config"
	"tokenlint/internal/paths"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the state directory and a default config",
	Run:   runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

// configFile is the on-disk TOML shape written by init. It mirrors the
// keys config.Load reads.
type configFile struct {
	IndexPath  string              `toml:"indexPath,omitempty"`
	TokenFiles []string            `toml:"tokenFiles"`
	Include    []string            `toml:"include"`
	Ignore     []string            `toml:"ignore"`
	Context    config.ContextRules `toml:"context"`
}

func runInit(cmd *cobra.Command, args []string) {
	projectRoot := mustProjectRoot()

	stateDir, err := paths.EnsureStateDir(projectRoot)
	if err != nil {
		exitErr("creating state directory", err)
	}

	configPath := filepath.Join(stateDir, "config.toml")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Config already exists at %s (use --force to overwrite)\n", configPath)
		return
	}

	defaults := config.Default(projectRoot)
	data, err := toml.Marshal(configFile{
		TokenFiles: defaults.TokenFiles,
		Include:    defaults.Include,
		Ignore:     defaults.Ignore,
		Context:    defaults.Context,
	})
	if err != nil {
		exitErr("encoding config", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		exitErr("writing config", err)
	}

	fmt.Printf("Initialized %s\n", stateDir)
	fmt.Printf("  wrote %s\n", configPath)
	fmt.Println("  next: tokenlint build")
}
