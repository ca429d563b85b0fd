// Package hashing computes the content digests used for index freshness
// detection, pattern identity, and migration-plan pinning.
//
// Digests are BLAKE2b-256 hex strings. All multi-input hashes sort their
// inputs first, so a digest never depends on enumeration order, and paths
// are normalized to forward slashes so digests are stable across platforms.
package hashing

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// EmptyHash is the digest of zero input, used as a sentinel for "nothing".
var EmptyHash = HashBytes(nil)

// ManifestEntry is one file in a hashed manifest.
type ManifestEntry struct {
	Path    string
	Content []byte
}

// HashBytes returns the BLAKE2b-256 digest of raw bytes as a hex string.
func HashBytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString returns the digest of a string.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// HashManifest computes a digest over a file manifest that is independent
// of the order entries were collected in. Each entry contributes its
// normalized path and its content digest to the composite.
func HashManifest(entries []ManifestEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.ToSlash(e.Path)
		lines = append(lines, fmt.Sprintf("%s:%s", path, HashBytes(e.Content)))
	}
	sort.Strings(lines)
	return HashString(strings.Join(lines, "\n"))
}

// HashFiles reads each path relative to root and hashes the resulting
// manifest. Any unreadable file fails the whole computation; callers treat
// that as an integrity error rather than hashing a partial tree.
func HashFiles(root string, relPaths []string) (string, error) {
	entries := make([]ManifestEntry, 0, len(relPaths))
	for _, rel := range relPaths {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", rel, err)
		}
		entries = append(entries, ManifestEntry{Path: rel, Content: content})
	}
	return HashManifest(entries), nil
}

// HashClassSet computes the identity hash of a class pattern: the digest of
// the sorted, deduplicated class set. Two usage sites with the same classes
// in any order, with or without duplicates, share one hash.
func HashClassSet(classes []string) string {
	seen := make(map[string]bool, len(classes))
	set := make([]string, 0, len(classes))
	for _, c := range classes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		set = append(set, c)
	}
	sort.Strings(set)
	return HashString(strings.Join(set, " "))
}
