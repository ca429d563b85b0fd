package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"tokenlint/internal/cascade"
	"tokenlint/internal/indexer"
	"tokenlint/internal/migrate"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format.
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *indexer.BuildResult:
		return formatBuildHuman(v), nil
	case *StatusResponse:
		return formatStatusHuman(v), nil
	case *cascade.Result:
		return formatCascadeHuman(v), nil
	case *TokensResponse:
		return formatTokensHuman(v), nil
	case *PatternsResponse:
		return formatPatternsHuman(v), nil
	case *ComponentsResponse:
		return formatComponentsHuman(v), nil
	case *migrate.Summary:
		return formatMigrateHuman(v), nil
	default:
		return formatJSON(resp)
	}
}

func formatBuildHuman(r *indexer.BuildResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Index built at %s\n", r.IndexPath)
	fmt.Fprintf(&b, "  Source hash: %s\n", shortHash(r.SourceHash))
	fmt.Fprintf(&b, "  Files scanned: %d (%s)\n", r.FileCount, r.Duration)
	fmt.Fprintf(&b, "  Tokens: %d (themes: %d)\n", r.Stats.Tokens, r.Stats.ThemeVariants)
	fmt.Fprintf(&b, "  Usages: %d, patterns: %d\n", r.Stats.Usages, r.Stats.Patterns)
	fmt.Fprintf(&b, "  Graph edges: %d token, %d component\n", r.Stats.TokenEdges, r.Stats.ComponentEdges)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStatusHuman(r *StatusResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Index: %s (schema v%d)\n", r.IndexPath, r.SchemaVersion)
	if r.Freshness.Fresh {
		b.WriteString("Freshness: fresh\n")
	} else {
		fmt.Fprintf(&b, "Freshness: STALE (%s)\n", r.Freshness.Reason)
		b.WriteString("  run 'tokenlint build' to rebuild\n")
	}
	if r.CreatedAt != "" {
		fmt.Fprintf(&b, "Built: %s\n", r.CreatedAt)
	}
	fmt.Fprintf(&b, "Tokens: %d, usages: %d, patterns: %d\n",
		r.Stats.Tokens, r.Stats.Usages, r.Stats.Patterns)
	return strings.TrimRight(b.String(), "\n")
}

func formatCascadeHuman(r *cascade.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selector: %s\n", r.Selector)
	if r.ResolvedToken != "" {
		fmt.Fprintf(&b, "Token: %s\n", r.ResolvedToken)
	}
	if r.Definition != nil {
		fmt.Fprintf(&b, "Defined: %s = %s (%s:%d, layer %d)\n",
			r.Definition.Name, r.Definition.Value, r.Definition.File, r.Definition.Line, r.Definition.Layer)
		if r.Definition.ComputedValue != "" && r.Definition.ComputedValue != r.Definition.Value {
			fmt.Fprintf(&b, "  computes to %s\n", r.Definition.ComputedValue)
		}
	}
	if len(r.Ancestors) > 0 {
		b.WriteString("Depends on:\n")
		for _, edge := range r.Ancestors {
			fmt.Fprintf(&b, "  %s (depth %d: %s)\n", edge.Ancestor, edge.Depth, strings.Join(edge.Path, " -> "))
		}
	}
	if r.Themes != nil {
		b.WriteString("Themes:\n")
		if r.Themes.Light != nil {
			fmt.Fprintf(&b, "  light: %s (%s)\n", r.Themes.Light.Value, r.Themes.Light.Source)
		}
		if r.Themes.Dark != nil {
			fmt.Fprintf(&b, "  dark: %s (%s)\n", r.Themes.Dark.Value, r.Themes.Dark.Source)
		}
	}
	if len(r.Dependents) > 0 {
		fmt.Fprintf(&b, "Dependents (%d): %s\n", len(r.Dependents), strings.Join(r.Dependents, ", "))
	}
	if len(r.Usages) > 0 {
		fmt.Fprintf(&b, "Usages (%d):\n", len(r.Usages))
		for _, u := range r.Usages {
			fmt.Fprintf(&b, "  %s:%d:%d %s [%s]\n", u.File, u.Line, u.Column, u.ClassName, u.Context)
		}
	}
	fmt.Fprintf(&b, "Confidence: %s\n", r.Limits.Confidence)
	if len(r.Limits.Missing) > 0 {
		fmt.Fprintf(&b, "  missing: %s\n", strings.Join(r.Limits.Missing, ", "))
	}
	for _, note := range r.Limits.Notes {
		fmt.Fprintf(&b, "  note: %s\n", note)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTokensHuman(r *TokensResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d tokens\n", len(r.Tokens))
	for _, t := range r.Tokens {
		value := t.Value
		if r.Theme != "" && t.ThemeValue != "" {
			value = fmt.Sprintf("%s (%s)", t.ThemeValue, r.Theme)
		}
		fmt.Fprintf(&b, "  %s = %s (%s:%d, %d usages)\n",
			t.Name, value, t.File, t.Line, t.UsageCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPatternsHuman(r *PatternsResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d repeated patterns\n", len(r.Patterns))
	for _, p := range r.Patterns {
		fmt.Fprintf(&b, "  x%d [%s] %s\n", p.Count, p.Category, strings.Join(p.Classes, " "))
		for _, loc := range p.Locations {
			fmt.Fprintf(&b, "      %s:%d\n", loc.File, loc.Line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatComponentsHuman(r *ComponentsResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d component edges\n", len(r.Edges))
	for _, e := range r.Edges {
		fmt.Fprintf(&b, "  %s -> %s (%s)\n", e.Component, e.DependsOn, e.File)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMigrateHuman(s *migrate.Summary) string {
	var b strings.Builder
	mode := "apply"
	if s.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(&b, "Migration %s (%s)\n", shortHash(s.PlanHash), mode)
	for _, r := range s.Results {
		fmt.Fprintf(&b, "  [%s] %s %s: %s", r.Status, r.StepID, r.File, r.ActionDescription)
		if r.Error != "" {
			fmt.Fprintf(&b, " (%s)", r.Error)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total %d: %d applied, %d skipped, %d failed, %d pending\n",
		s.Total, s.Applied, s.Skipped, s.Failed, s.Pending)
	if len(s.FilesTouched) > 0 {
		fmt.Fprintf(&b, "Files touched: %s (-%d/+%d chars)\n",
			strings.Join(s.FilesTouched, ", "), s.Diff.Removed, s.Diff.Added)
	}
	if s.ArtifactPath != "" {
		fmt.Fprintf(&b, "Artifacts appended to %s\n", s.ArtifactPath)
	}
	for _, next := range s.NextSteps {
		fmt.Fprintf(&b, "Next: %s\n", next)
	}
	return strings.TrimRight(b.String(), "\n")
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
