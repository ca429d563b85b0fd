// Package cascade answers "what does this selector depend on, and what
// depends on it" over the token graph. Every answer carries a confidence
// envelope naming exactly what could not be verified, so partial data is
// never presented as complete.
package cascade

import (
	"fmt"
	"strings"

	"tokenlint/internal/classify"
	"tokenlint/internal/storage"
)

// Confidence levels for a cascade answer.
const (
	ConfidenceFull    = "full"
	ConfidencePartial = "partial"
)

// Missing-data identifiers reported in Limits.Missing.
const (
	MissingTokenDefinition   = "token_definition"
	MissingThemeVariants     = "theme_variants"
	MissingTokenDependencies = "token_dependencies"
)

// Limits is the confidence envelope attached to every cascade answer.
type Limits struct {
	Confidence string   `json:"confidence"`
	Missing    []string `json:"missing,omitempty"`
	Notes      []string `json:"notes,omitempty"`
}

// Themes splits a token's variants by theme.
type Themes struct {
	Light *storage.ThemeVariant `json:"light,omitempty"`
	Dark  *storage.ThemeVariant `json:"dark,omitempty"`
}

// Result is a resolved cascade trace for one selector.
type Result struct {
	Selector      string                    `json:"selector"`
	ResolvedToken string                    `json:"resolvedToken,omitempty"`
	Definition    *storage.TokenDefinition  `json:"definition,omitempty"`
	Ancestors     []storage.TokenGraphEdge  `json:"ancestors,omitempty"`
	Usages        []storage.UsageRecord     `json:"usages,omitempty"`
	Themes        *Themes                   `json:"themes,omitempty"`
	Dependents    []string                  `json:"dependents,omitempty"`
	Limits        Limits                    `json:"limits"`
}

// Resolve traces a selector through the index. The selector is either a
// literal token name (--x) or a class name; class resolution here is the
// permissive unvalidated form, since a trace is a diagnostic view rather
// than a mutation.
func Resolve(db *storage.DB, selector string, limit int) (*Result, error) {
	result := &Result{Selector: selector}

	token := selector
	if !strings.HasPrefix(selector, "--") {
		token = classify.ResolveClassToToken(selector)
	}
	result.ResolvedToken = token

	var missing []string
	var notes []string

	if token != "" {
		def, err := db.Token(token)
		if err != nil {
			return nil, err
		}
		if def == nil {
			// Definition absence is a data limitation, not an error: the
			// selector may reference a token the index never saw defined.
			missing = append(missing, MissingTokenDefinition)
			result.ResolvedToken = ""
		}
		result.Definition = def
	} else {
		missing = append(missing, MissingTokenDefinition)
	}

	if token != "" {
		ancestors, err := db.AncestorsOf(token)
		if err != nil {
			return nil, err
		}
		result.Ancestors = ancestors
	}

	usages, err := db.UsagesForClass(selector, limit)
	if err != nil {
		return nil, err
	}
	if len(usages) == 0 && token != "" {
		usages, err = db.UsagesForToken(token, limit)
		if err != nil {
			return nil, err
		}
	}
	result.Usages = usages

	themesSupported := db.Available(storage.FeatureTokenThemes)
	if themesSupported && token != "" {
		variants, err := db.ThemeVariants(token)
		if err != nil {
			return nil, err
		}
		if len(variants) > 0 {
			themes := &Themes{}
			for i := range variants {
				v := variants[i]
				switch v.Theme {
				case storage.ThemeLight:
					themes.Light = &v
				case storage.ThemeDark:
					themes.Dark = &v
				}
			}
			result.Themes = themes
		}
	} else if !themesSupported {
		notes = append(notes, fmt.Sprintf(
			"token_themes requires index schema >= %d (have %d): rebuild the index",
			storage.MinSchemaVersion(storage.FeatureTokenThemes), db.SchemaVersion()))
	}

	if token != "" {
		dependents, err := db.DependentsOf(token)
		if err != nil {
			return nil, err
		}
		result.Dependents = dependents
	}

	// Confidence is full only when a definition was found, theme variants
	// are present or unsupported by the schema, and downstream dependents
	// were found.
	if result.Definition != nil && themesSupported && result.Themes == nil {
		missing = append(missing, MissingThemeVariants)
	}
	if result.Definition != nil && len(result.Dependents) == 0 {
		missing = append(missing, MissingTokenDependencies)
	}

	result.Limits = Limits{Confidence: ConfidenceFull, Missing: missing, Notes: notes}
	if len(missing) > 0 {
		result.Limits.Confidence = ConfidencePartial
	}
	return result, nil
}
