// Package errors defines the stable error taxonomy for tokenlint.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes.
type ErrorCode string

const (
	// IndexMissing indicates no index database exists yet
	IndexMissing ErrorCode = "INDEX_MISSING"
	// IndexStale indicates the index no longer matches the source tree
	IndexStale ErrorCode = "INDEX_STALE"
	// SchemaUnsupported indicates the index schema is below a required version
	SchemaUnsupported ErrorCode = "SCHEMA_UNSUPPORTED"
	// SourceUnreadable indicates a source file could not be read during build
	SourceUnreadable ErrorCode = "SOURCE_UNREADABLE"
	// PlanInvalid indicates a migration plan failed validation
	PlanInvalid ErrorCode = "PLAN_INVALID"
	// CheckpointMismatch indicates a checkpoint is pinned to a different plan revision
	CheckpointMismatch ErrorCode = "CHECKPOINT_MISMATCH"
	// TokenNotFound indicates a selector did not resolve to a known token
	TokenNotFound ErrorCode = "TOKEN_NOT_FOUND"
	// StepFailed indicates a migration step could not be applied
	StepFailed ErrorCode = "STEP_FAILED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action.
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file by hand
	EditFile FixActionType = "edit-file"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error.
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// LintError represents a tokenlint error with a stable code and suggestions.
type LintError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new LintError. Suggested fixes default from the code's
// entry in ErrorActions when fixes is nil.
func New(code ErrorCode, message string, cause error, fixes []FixAction) *LintError {
	if fixes == nil {
		fixes = ErrorActions[code]
	}
	return &LintError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Error implements the error interface.
func (e *LintError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *LintError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error.
func (e *LintError) WithDetails(details interface{}) *LintError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to default suggested fix actions.
var ErrorActions = map[ErrorCode][]FixAction{
	IndexMissing: {
		{
			Type:        RunCommand,
			Command:     "tokenlint build",
			Safe:        true,
			Description: "Build the token index for this project",
		},
	},
	IndexStale: {
		{
			Type:        RunCommand,
			Command:     "tokenlint build",
			Safe:        true,
			Description: "Rebuild the index to match the current source tree",
		},
	},
	SchemaUnsupported: {
		{
			Type:        RunCommand,
			Command:     "tokenlint build",
			Safe:        true,
			Description: "Rebuild the index at the current schema version",
		},
	},
	CheckpointMismatch: {
		{
			Type:        RunCommand,
			Command:     "tokenlint migrate <plan> --apply",
			Safe:        false,
			Description: "Start a fresh run against the revised plan (drops prior progress)",
		},
	},
}
