// Package config loads tokenlint project settings.
//
// Settings live in .tokenlint/config.{toml,yaml,json}. A missing file is
// not an error; defaults cover a conventional component tree. The index
// and migration core only consume the resolved Settings value and never
// parse configuration syntax itself.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"tokenlint/internal/paths"
)

// Settings is the resolved project configuration.
type Settings struct {
	ProjectRoot string `mapstructure:"-" json:"projectRoot"`

	// IndexPath overrides the index database location. Empty means
	// .tokenlint/index.db under the project root.
	IndexPath string `mapstructure:"indexPath" json:"indexPath,omitempty"`

	// TokenFiles are globs selecting CSS files scanned for token definitions.
	TokenFiles []string `mapstructure:"tokenFiles" json:"tokenFiles"`

	// Include are globs selecting component source files to scan for usages.
	Include []string `mapstructure:"include" json:"include"`

	// Ignore are globs excluded from both scans.
	Ignore []string `mapstructure:"ignore" json:"ignore"`

	// Context classifies usages by path fragment unless an in-source
	// directive overrides it.
	Context ContextRules `mapstructure:"context" json:"context"`
}

// ContextRules maps path fragments to usage contexts. A file path
// containing any Primitive fragment is primitive, any Layout fragment is
// layout; everything else is composed.
type ContextRules struct {
	Primitive []string `mapstructure:"primitive" json:"primitive" toml:"primitive"`
	Layout    []string `mapstructure:"layout" json:"layout" toml:"layout"`
}

// Default returns the default settings for a project root.
func Default(projectRoot string) *Settings {
	return &Settings{
		ProjectRoot: projectRoot,
		TokenFiles:  []string{"**/tokens.css", "**/theme.css", "styles/**/*.css", "app/**/globals.css"},
		Include:     []string{"**/*.tsx", "**/*.jsx"},
		Ignore:      []string{"node_modules/**", paths.StateDirName + "/**", "dist/**", "build/**", ".next/**"},
		Context: ContextRules{
			Primitive: []string{"ui/", "primitives/"},
			Layout:    []string{"layouts/", "templates/"},
		},
	}
}

// Load reads settings from the project state directory, falling back to
// defaults when no config file exists.
func Load(projectRoot string) (*Settings, error) {
	defaults := Default(projectRoot)

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(paths.StateDir(projectRoot))
	v.SetDefault("tokenFiles", defaults.TokenFiles)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("context.primitive", defaults.Context.Primitive)
	v.SetDefault("context.layout", defaults.Context.Layout)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	settings.ProjectRoot = projectRoot
	return settings, nil
}

// ResolvedIndexPath returns the index database path for these settings.
func (s *Settings) ResolvedIndexPath() string {
	if s.IndexPath == "" {
		return paths.IndexPath(s.ProjectRoot)
	}
	if filepath.IsAbs(s.IndexPath) {
		return s.IndexPath
	}
	return filepath.Join(s.ProjectRoot, s.IndexPath)
}
