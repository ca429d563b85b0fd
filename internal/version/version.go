// Package version holds the tokenlint version string.
package version

// Version is the current tokenlint version.
// Overridden at build time via -ldflags "-X tokenlint/internal/version.Version=...".
var Version = "0.4.0"
