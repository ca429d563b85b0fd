package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokenlint/internal/storage"
)

var (
	tokensFormat string
	tokensTheme  string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List token definitions with usage counts",
	Run:   runTokens,
}

func init() {
	tokensCmd.Flags().StringVar(&tokensFormat, "format", "human", "Output format (json, human)")
	tokensCmd.Flags().StringVar(&tokensTheme, "theme", "", "Show values for a theme (light, dark)")
	rootCmd.AddCommand(tokensCmd)
}

// TokenEntry is one token in the tokens listing.
type TokenEntry struct {
	storage.TokenDefinition
	UsageCount int    `json:"usageCount"`
	ThemeValue string `json:"themeValue,omitempty"`
}

// TokensResponse is the tokens command's output shape.
type TokensResponse struct {
	Theme  string       `json:"theme,omitempty"`
	Tokens []TokenEntry `json:"tokens"`
}

func runTokens(cmd *cobra.Command, args []string) {
	logger := newLogger(tokensFormat)
	projectRoot := mustProjectRoot()
	settings := mustLoadSettings(projectRoot)

	db := mustOpenIndex(settings, logger)
	defer db.Close()

	if tokensTheme != "" {
		if tokensTheme != storage.ThemeLight && tokensTheme != storage.ThemeDark {
			fmt.Fprintf(os.Stderr, "Error: unknown theme %q (want light or dark)\n", tokensTheme)
			os.Exit(1)
		}
		if err := db.Require(storage.FeatureTokenThemes); err != nil {
			exitErr("querying theme variants", err)
		}
	}

	tokens, err := db.Tokens()
	if err != nil {
		exitErr("listing tokens", err)
	}

	resp := &TokensResponse{Theme: tokensTheme}
	for _, t := range tokens {
		count, err := db.UsageCountForToken(t.Name)
		if err != nil {
			exitErr("counting usages", err)
		}
		entry := TokenEntry{TokenDefinition: t, UsageCount: count}
		if tokensTheme != "" {
			variants, err := db.ThemeVariants(t.Name)
			if err != nil {
				exitErr("reading theme variants", err)
			}
			for _, v := range variants {
				if v.Theme == tokensTheme {
					entry.ThemeValue = v.Value
				}
			}
		}
		resp.Tokens = append(resp.Tokens, entry)
	}

	output, err := FormatResponse(resp, OutputFormat(tokensFormat))
	if err != nil {
		exitErr("formatting output", err)
	}
	fmt.Println(output)
}
