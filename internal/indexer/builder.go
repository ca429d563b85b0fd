// Package indexer builds the token index: it scans the source tree,
// extracts token definitions and class usages, groups repeated patterns,
// computes the token dependency graph, and persists everything to a fresh
// index database in one pass.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tokenlint/internal/classify"
	"tokenlint/internal/config"
	"tokenlint/internal/errors"
	"tokenlint/internal/extract"
	"tokenlint/internal/hashing"
	"tokenlint/internal/logging"
	"tokenlint/internal/storage"
)

// contextDirective overrides path-based context classification when it
// appears anywhere in a source file, e.g. /* tokenlint-context: layout */.
const contextDirective = "tokenlint-context:"

// BuildResult summarizes a completed build.
type BuildResult struct {
	IndexPath  string        `json:"indexPath"`
	SourceHash string        `json:"sourceHash"`
	FileCount  int           `json:"fileCount"`
	Stats      storage.Stats `json:"stats"`
	Warnings   []string      `json:"warnings,omitempty"`
	Duration   string        `json:"duration"`
}

// Builder orchestrates a full index rebuild.
type Builder struct {
	settings  *config.Settings
	extractor extract.Extractor
	logger    *logging.Logger
}

// NewBuilder creates a builder. extractor may be nil, in which case the
// default tree-sitter extractor is used.
func NewBuilder(settings *config.Settings, extractor extract.Extractor, logger *logging.Logger) *Builder {
	if extractor == nil {
		extractor = extract.NewTreeSitterExtractor()
	}
	return &Builder{settings: settings, extractor: extractor, logger: logger}
}

// Build performs a full rebuild. The index is written to a temporary file
// and renamed over the live index only after every relation is populated,
// so a failed build never leaves a partial index behind. Any unreadable
// source file aborts the whole build.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	root := b.settings.ProjectRoot

	sourceFiles, err := EnumerateFiles(root, b.settings.Include, b.settings.Ignore)
	if err != nil {
		return nil, errors.New(errors.SourceUnreadable, "enumerating source files", err, nil)
	}
	tokenFiles, err := EnumerateFiles(root, b.settings.TokenFiles, b.settings.Ignore)
	if err != nil {
		return nil, errors.New(errors.SourceUnreadable, "enumerating token files", err, nil)
	}

	// Read every scanned file exactly once: contents feed both the source
	// hash and extraction.
	contents := make(map[string][]byte, len(sourceFiles)+len(tokenFiles))
	manifest := make([]hashing.ManifestEntry, 0, len(sourceFiles)+len(tokenFiles))
	for _, rel := range dedupe(append(append([]string{}, tokenFiles...), sourceFiles...)) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, errors.New(errors.SourceUnreadable,
				fmt.Sprintf("reading %s", rel), err, nil)
		}
		contents[rel] = data
		manifest = append(manifest, hashing.ManifestEntry{Path: rel, Content: data})
	}
	sourceHash := hashing.HashManifest(manifest)

	defs, variants, declWarnings := b.collectTokens(tokenFiles, contents)

	indexPath := b.settings.ResolvedIndexPath()
	tmpPath := indexPath + ".tmp"
	db, err := storage.Create(tmpPath, b.logger)
	if err != nil {
		return nil, err
	}

	result, err := b.populate(ctx, db, sourceFiles, contents, defs, variants, sourceHash)
	closeErr := db.Close()
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing index: %w", closeErr)
	}
	if err := os.Rename(tmpPath, indexPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("replacing index: %w", err)
	}

	result.IndexPath = indexPath
	result.SourceHash = sourceHash
	result.FileCount = len(contents)
	result.Warnings = append(declWarnings, result.Warnings...)
	result.Duration = time.Since(start).Round(time.Millisecond).String()

	b.logger.Info("Index built", logging.Fields{
		"files":    result.FileCount,
		"tokens":   result.Stats.Tokens,
		"usages":   result.Stats.Usages,
		"patterns": result.Stats.Patterns,
		"duration": result.Duration,
	})
	return result, nil
}

// collectTokens merges per-file declarations into definitions and theme
// variants. Within the cascade (file order, then layer order), a later
// base declaration overrides an earlier one; dark-block declarations
// become dark variants, paired with a light variant from the base value.
func (b *Builder) collectTokens(tokenFiles []string, contents map[string][]byte) (map[string]storage.TokenDefinition, []storage.ThemeVariant, []string) {
	defs := make(map[string]storage.TokenDefinition)
	darkDecls := make(map[string]tokenDecl)
	var warnings []string

	for _, file := range tokenFiles {
		for _, decl := range scanTokenCSS(file, contents[file]) {
			if decl.Dark {
				darkDecls[decl.Name] = decl
				continue
			}
			defs[decl.Name] = storage.TokenDefinition{
				Name:  decl.Name,
				Value: decl.Value,
				File:  decl.File,
				Line:  decl.Line,
				Layer: decl.Layer,
			}
		}
	}

	rawValues := make(map[string]string, len(defs))
	for name, def := range defs {
		rawValues[name] = def.Value
	}
	for name, def := range defs {
		def.ComputedValue = computeValue(def.Value, rawValues)
		defs[name] = def
	}

	var variants []storage.ThemeVariant
	for name, decl := range darkDecls {
		base, ok := defs[name]
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"dark variant of %s at %s:%d has no base definition", name, decl.File, decl.Line))
			continue
		}
		variants = append(variants,
			storage.ThemeVariant{
				TokenName: name,
				Theme:     storage.ThemeLight,
				Value:     base.Value,
				Source:    fmt.Sprintf("%s:%d", base.File, base.Line),
			},
			storage.ThemeVariant{
				TokenName: name,
				Theme:     storage.ThemeDark,
				Value:     decl.Value,
				Source:    fmt.Sprintf("%s:%d", decl.File, decl.Line),
			},
		)
	}
	sort.Slice(variants, func(i, j int) bool {
		if variants[i].TokenName != variants[j].TokenName {
			return variants[i].TokenName < variants[j].TokenName
		}
		return variants[i].Theme < variants[j].Theme
	})
	return defs, variants, warnings
}

// populate writes all relations inside one transaction.
func (b *Builder) populate(ctx context.Context, db *storage.DB, sourceFiles []string, contents map[string][]byte, defs map[string]storage.TokenDefinition, variants []storage.ThemeVariant, sourceHash string) (*BuildResult, error) {
	result := &BuildResult{}

	knownTokens := make(map[string]bool, len(defs))
	rawValues := make(map[string]string, len(defs))
	for name, def := range defs {
		knownTokens[name] = true
		rawValues[name] = def.Value
	}
	edges, graphWarnings := BuildTokenGraph(rawValues)
	result.Warnings = append(result.Warnings, graphWarnings...)
	for _, w := range graphWarnings {
		b.logger.Warn(w, nil)
	}

	err := db.WithTx(func(tx *sql.Tx) error {
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := storage.InsertToken(tx, defs[name]); err != nil {
				return err
			}
		}
		for _, v := range variants {
			if err := storage.InsertThemeVariant(tx, v); err != nil {
				return err
			}
		}

		for _, file := range sourceFiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.indexSourceFile(ctx, tx, file, contents[file], knownTokens); err != nil {
				return err
			}
		}

		for _, e := range edges {
			if err := storage.InsertTokenEdge(tx, e); err != nil {
				return err
			}
		}

		if err := storage.SetMeta(tx, storage.MetaSourceTreeHash, sourceHash); err != nil {
			return err
		}
		if err := storage.SetMeta(tx, storage.MetaCreatedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
		return storage.SetMeta(tx, storage.MetaFileCount, fmt.Sprintf("%d", len(contents)))
	})
	if err != nil {
		return nil, err
	}

	stats, err := db.Stats()
	if err != nil {
		return nil, err
	}
	result.Stats = *stats
	return result, nil
}

// indexSourceFile extracts one file's usages, resolves them against the
// token set, groups line-level patterns, and records component edges.
func (b *Builder) indexSourceFile(ctx context.Context, tx *sql.Tx, file string, source []byte, knownTokens map[string]bool) error {
	extracted, err := b.extractor.ExtractFile(ctx, file, source)
	if err != nil {
		return errors.New(errors.SourceUnreadable, fmt.Sprintf("extracting %s", file), err, nil)
	}

	usageContext := b.contextFor(file, source)

	type lineKey struct {
		line      int
		component string
	}
	patternClasses := make(map[lineKey][]string)
	var patternOrder []lineKey

	for _, raw := range extracted.Usages {
		usage := storage.UsageRecord{
			File:          file,
			Line:          raw.Line,
			Column:        raw.Column,
			ClassName:     raw.ClassName,
			ResolvedToken: classify.ResolveClassToTokenValidated(raw.ClassName, knownTokens),
			Context:       usageContext,
			Component:     raw.Component,
		}
		if err := storage.InsertUsage(tx, usage); err != nil {
			return err
		}

		key := lineKey{line: raw.Line, component: raw.Component}
		if _, seen := patternClasses[key]; !seen {
			patternOrder = append(patternOrder, key)
		}
		patternClasses[key] = append(patternClasses[key], raw.ClassName)
	}

	for _, key := range patternOrder {
		classes := patternClasses[key]
		if len(classes) < 2 {
			continue
		}
		hash := hashing.HashClassSet(classes)
		loc := storage.Location{File: file, Line: key.line, Component: key.component}
		if err := storage.UpsertPattern(tx, hash, classes, loc); err != nil {
			return err
		}
	}

	self := componentOf(extracted)
	for _, ref := range extracted.ComponentRefs {
		if ref == self || self == "" {
			continue
		}
		edge := storage.ComponentGraphEdge{Component: self, DependsOn: ref, File: file}
		if err := storage.InsertComponentEdge(tx, edge); err != nil {
			return err
		}
	}
	return nil
}

// contextFor classifies a file's usage context from its path, unless an
// in-source directive overrides it.
func (b *Builder) contextFor(file string, source []byte) string {
	if idx := strings.Index(string(source), contextDirective); idx >= 0 {
		rest := strings.TrimSpace(string(source)[idx+len(contextDirective):])
		for _, candidate := range []string{storage.ContextPrimitive, storage.ContextComposed, storage.ContextLayout} {
			if strings.HasPrefix(rest, candidate) {
				return candidate
			}
		}
	}
	for _, fragment := range b.settings.Context.Primitive {
		if strings.Contains(file, fragment) {
			return storage.ContextPrimitive
		}
	}
	for _, fragment := range b.settings.Context.Layout {
		if strings.Contains(file, fragment) {
			return storage.ContextLayout
		}
	}
	return storage.ContextComposed
}

func componentOf(extracted *extract.FileResult) string {
	for _, u := range extracted.Usages {
		if u.Component != "" {
			return u.Component
		}
	}
	return ""
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
