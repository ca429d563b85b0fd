// Package extract defines the syntax-extraction boundary: the producer of
// raw class-usage candidates consumed by the index builder. The builder
// treats extractor output as untrusted and re-validates every token
// resolution against the token set it builds itself.
package extract

import (
	"context"
)

// RawUsage is one observed class-site candidate: a class name at an exact
// position in a source file. Component is the extractor's best attribution
// of which component the site belongs to, and may be empty.
type RawUsage struct {
	File      string
	Line      int // 1-based
	Column    int // 1-based
	ClassName string
	Component string
}

// FileResult is everything extracted from a single source file.
type FileResult struct {
	Usages []RawUsage

	// ComponentRefs are capitalized JSX element names referenced by the
	// file, feeding the component dependency graph.
	ComponentRefs []string
}

// Extractor yields raw usage candidates from component source. file is the
// project-relative path recorded in results; source is the file content.
type Extractor interface {
	ExtractFile(ctx context.Context, file string, source []byte) (*FileResult, error)
}
