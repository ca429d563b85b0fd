// Package guard decides whether a persisted index can be trusted: it
// recomputes the live source-tree hash and compares it against the hash
// recorded at build time. Schema-version feature gating lives in the
// storage feature table; this package covers content freshness.
package guard

import (
	"tokenlint/internal/config"
	"tokenlint/internal/hashing"
	"tokenlint/internal/indexer"
	"tokenlint/internal/storage"
)

// FreshnessResult reports whether the index matches the current tree.
type FreshnessResult struct {
	Fresh    bool   `json:"fresh"`
	Expected string `json:"expected,omitempty"` // hash recorded at build time
	Actual   string `json:"actual,omitempty"`   // hash of the live tree
	Reason   string `json:"reason,omitempty"`
}

// CheckFresh recomputes the source hash over the exact file set the build
// would scan and compares it to the stored hash. Missing metadata means
// not fresh.
func CheckFresh(settings *config.Settings, db *storage.DB) (*FreshnessResult, error) {
	stored, ok, err := db.GetMeta(storage.MetaSourceTreeHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &FreshnessResult{Fresh: false, Reason: "no source hash recorded in index"}, nil
	}

	root := settings.ProjectRoot
	sourceFiles, err := indexer.EnumerateFiles(root, settings.Include, settings.Ignore)
	if err != nil {
		return nil, err
	}
	tokenFiles, err := indexer.EnumerateFiles(root, settings.TokenFiles, settings.Ignore)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(sourceFiles)+len(tokenFiles))
	all := make([]string, 0, len(sourceFiles)+len(tokenFiles))
	for _, f := range append(append([]string{}, tokenFiles...), sourceFiles...) {
		if !seen[f] {
			seen[f] = true
			all = append(all, f)
		}
	}

	actual, err := hashing.HashFiles(root, all)
	if err != nil {
		return nil, err
	}

	result := &FreshnessResult{Expected: stored, Actual: actual}
	if stored == actual {
		result.Fresh = true
	} else {
		result.Reason = "source tree changed since the index was built"
	}
	return result, nil
}
