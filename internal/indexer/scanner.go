package indexer

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// EnumerateFiles walks root and returns the project-relative, slash-
// normalized paths matching any include glob and no ignore glob, sorted so
// downstream hashing is independent of filesystem iteration order.
func EnumerateFiles(root string, include, ignore []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if matchesAny(rel+"/", ignore) || matchesAny(rel, ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(rel, ignore) {
			return nil
		}
		if matchesAny(rel, include) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return true
		}
		// A directory ignore like "node_modules/**" must also prune the
		// directory entry itself.
		if ok, err := doublestar.PathMatch(pattern, rel+"/"); err == nil && ok {
			return true
		}
	}
	return false
}
