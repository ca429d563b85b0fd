package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tokenlint/internal/hashing"
	"tokenlint/internal/paths"
)

// Checkpoint is the persisted record of migration progress. It is updated
// after every step, survives process crashes, and is the sole source of
// truth for --continue: the filesystem may be mid-mutation after a crash,
// the checkpoint says exactly which steps completed.
type Checkpoint struct {
	PlanPath       string   `json:"planPath"`
	PlanHash       string   `json:"planHash"`
	CompletedSteps []string `json:"completedSteps"`
	FailedSteps    []string `json:"failedSteps"`
	SkippedSteps   []string `json:"skippedSteps"`
	LastUpdated    string   `json:"lastUpdated"`
}

// NewCheckpoint starts an empty checkpoint pinned to a plan revision.
func NewCheckpoint(plan *Plan) *Checkpoint {
	return &Checkpoint{PlanPath: plan.Path, PlanHash: plan.Hash}
}

// checkpointFile keys the checkpoint by plan identity (its path), so two
// plans never share progress.
func checkpointFile(projectRoot, planPath string) string {
	key := hashing.HashString(filepath.ToSlash(planPath))[:12]
	return filepath.Join(paths.CheckpointDir(projectRoot), fmt.Sprintf("plan-%s.json", key))
}

// LoadCheckpoint reads the checkpoint for a plan path. Returns nil without
// error when no checkpoint exists yet.
func LoadCheckpoint(projectRoot, planPath string) (*Checkpoint, error) {
	data, err := os.ReadFile(checkpointFile(projectRoot, planPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint: %w", err)
	}
	return &cp, nil
}

// Save persists the checkpoint. Written via a temp file and rename so a
// crash mid-save leaves the previous checkpoint intact.
func (c *Checkpoint) Save(projectRoot string) error {
	c.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	path := checkpointFile(projectRoot, c.PlanPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing checkpoint: %w", err)
	}
	return nil
}

// Record appends a step id to the set for its terminal status.
func (c *Checkpoint) Record(stepID, status string) {
	switch status {
	case StatusApplied:
		c.CompletedSteps = appendUnique(c.CompletedSteps, stepID)
	case StatusFailed:
		c.FailedSteps = appendUnique(c.FailedSteps, stepID)
	case StatusSkipped:
		c.SkippedSteps = appendUnique(c.SkippedSteps, stepID)
	}
}

// Completed reports whether a step completed in this or a prior run.
func (c *Checkpoint) Completed(stepID string) bool {
	for _, id := range c.CompletedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
