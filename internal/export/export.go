// Package export dumps the index relations as a compressed JSON document
// for consumption by external tools (dashboards, design-system audits).
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"tokenlint/internal/storage"
	"tokenlint/internal/version"
)

// Dump is the exported document shape.
type Dump struct {
	Version        string                       `json:"version"`
	SchemaVersion  int                          `json:"schemaVersion"`
	SourceHash     string                       `json:"sourceHash,omitempty"`
	CreatedAt      string                       `json:"createdAt,omitempty"`
	Tokens         []storage.TokenDefinition    `json:"tokens"`
	Patterns       []storage.PatternRecord      `json:"patterns"`
	ComponentEdges []storage.ComponentGraphEdge `json:"componentEdges,omitempty"`
	Stats          storage.Stats                `json:"stats"`
}

// WriteDump collects the exportable relations and writes them as
// zstd-compressed JSON to outPath. Version-gated relations are omitted
// from older indexes rather than failing the export.
func WriteDump(db *storage.DB, outPath string) (*Dump, error) {
	dump := &Dump{
		Version:       version.Version,
		SchemaVersion: db.SchemaVersion(),
	}

	if hash, ok, err := db.GetMeta(storage.MetaSourceTreeHash); err != nil {
		return nil, err
	} else if ok {
		dump.SourceHash = hash
	}
	if createdAt, ok, err := db.GetMeta(storage.MetaCreatedAt); err != nil {
		return nil, err
	} else if ok {
		dump.CreatedAt = createdAt
	}

	tokens, err := db.Tokens()
	if err != nil {
		return nil, err
	}
	dump.Tokens = tokens

	patterns, err := db.Patterns(1)
	if err != nil {
		return nil, err
	}
	dump.Patterns = patterns

	if db.Available(storage.FeatureComponentGraph) {
		edges, err := db.ComponentEdges()
		if err != nil {
			return nil, err
		}
		dump.ComponentEdges = edges
	}

	stats, err := db.Stats()
	if err != nil {
		return nil, err
	}
	dump.Stats = *stats

	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	encoder, err := zstd.NewWriter(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(encoder).Encode(dump); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("flushing export: %w", err)
	}
	return dump, nil
}

// ReadDump decompresses and decodes an exported dump, for round-trip
// verification and tooling.
func ReadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer decoder.Close()

	var dump Dump
	if err := json.NewDecoder(decoder).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return &dump, nil
}
