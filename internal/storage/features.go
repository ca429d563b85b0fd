package storage

import (
	"fmt"

	"tokenlint/internal/errors"
)

// Feature names one version-gated capability of the index. Callers must
// check availability before querying a gated relation; queries against an
// older index degrade to "feature unavailable" rather than erroring.
type Feature string

const (
	FeatureTokens         Feature = "tokens"
	FeatureUsages         Feature = "usages"
	FeaturePatterns       Feature = "patterns"
	FeatureTokenGraph     Feature = "tokenGraph"
	FeatureTokenThemes    Feature = "tokenThemes"
	FeatureComponentGraph Feature = "componentGraph"
)

// featureMinVersion is the static feature→minimum-schema-version table.
// Version 0 (no metadata) supports nothing.
var featureMinVersion = map[Feature]int{
	FeatureTokens:         1,
	FeatureUsages:         1,
	FeaturePatterns:       1,
	FeatureTokenGraph:     1,
	FeatureTokenThemes:    2,
	FeatureComponentGraph: 2,
}

// MinSchemaVersion returns the minimum schema version supporting a feature,
// or 0 for an unknown feature name.
func MinSchemaVersion(f Feature) int {
	return featureMinVersion[f]
}

// FeatureAvailable reports whether a schema version supports a feature.
func FeatureAvailable(schemaVersion int, f Feature) bool {
	min, ok := featureMinVersion[f]
	if !ok || schemaVersion < 1 {
		return false
	}
	return schemaVersion >= min
}

// Available reports whether this index's schema supports a feature.
func (db *DB) Available(f Feature) bool {
	return FeatureAvailable(db.schemaVersion, f)
}

// Require fails fast when a feature is below its minimum schema version,
// naming the current and required versions. Used by callers that cannot
// degrade gracefully.
func (db *DB) Require(f Feature) error {
	if db.Available(f) {
		return nil
	}
	return errors.New(errors.SchemaUnsupported,
		fmt.Sprintf("%s requires index schema >= %d, have %d", f, MinSchemaVersion(f), db.schemaVersion),
		nil, nil)
}
