// Package paths resolves project-relative paths and the tokenlint state directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the project-local state directory holding the index,
// checkpoints, and generated artifacts.
const StateDirName = ".tokenlint"

// StateDir returns the state directory path for a project root.
func StateDir(projectRoot string) string {
	return filepath.Join(projectRoot, StateDirName)
}

// IndexPath returns the default index database path for a project root.
func IndexPath(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), "index.db")
}

// CheckpointDir returns the directory holding migration checkpoints.
func CheckpointDir(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), "checkpoints")
}

// ArtifactPath returns the file collecting CSS side artifacts emitted by
// migrations (new @utility blocks and token definitions).
func ArtifactPath(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), "generated.css")
}

// EnsureStateDir creates the state directory if it does not exist.
func EnsureStateDir(projectRoot string) (string, error) {
	dir := StateDir(projectRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Canonicalize converts an absolute path to a project-relative path with
// forward slashes, so recorded locations are stable across platforms.
func Canonicalize(absolutePath string, projectRoot string) (string, error) {
	rel, err := filepath.Rel(projectRoot, absolutePath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Normalize converts backslashes to forward slashes in an already-relative path.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// IsWithinProject reports whether a path resolves inside the project root.
func IsWithinProject(path string, projectRoot string) bool {
	rel, err := Canonicalize(path, projectRoot)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// JoinProject joins a project root with a canonical forward-slash path.
func JoinProject(projectRoot string, canonicalPath string) string {
	parts := strings.Split(Normalize(canonicalPath), "/")
	return filepath.Join(append([]string{projectRoot}, parts...)...)
}
