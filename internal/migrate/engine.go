// Package migrate executes migration plans: dependency-ordered, resumable
// batch edits over many files, with per-file backup, per-step checkpointing,
// and failure isolation — a failed step never corrupts sibling edits.
package migrate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tokenlint/internal/errors"
	"tokenlint/internal/logging"
	"tokenlint/internal/paths"
)

// Step statuses. A step is terminal after one attempt; a fresh run is the
// only retry mechanism.
const (
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// Diff counts characters removed and added by a step.
type Diff struct {
	Removed int `json:"removed"`
	Added   int `json:"added"`
}

// StepResult is the outcome of one step in one run.
type StepResult struct {
	StepID            string `json:"stepId"`
	Status            string `json:"status"`
	File              string `json:"file"`
	ActionDescription string `json:"actionDescription"`
	Error             string `json:"error,omitempty"`
	Diff              Diff   `json:"diff"`
}

// Options control one migration run.
type Options struct {
	Apply       bool     // false = dry run, nothing written
	Continue    bool     // resume from the plan's checkpoint
	Interactive bool     // prompt before each step
	Backup      bool     // copy each touched file to <file>.bak once per run
	Steps       []string // explicit include set of step ids
	Skip        []string // exclude set of step ids
	File        string   // restrict to steps targeting this file
	Input       io.Reader
	Output      io.Writer
}

// Summary aggregates one run.
type Summary struct {
	RunID        string       `json:"runId"`
	PlanPath     string       `json:"planPath"`
	PlanHash     string       `json:"planHash"`
	DryRun       bool         `json:"dryRun"`
	Total        int          `json:"total"`
	Applied      int          `json:"applied"`
	Skipped      int          `json:"skipped"`
	Failed       int          `json:"failed"`
	Pending      int          `json:"pending"`
	FilesTouched []string     `json:"filesTouched,omitempty"`
	Diff         Diff         `json:"diff"`
	Results      []StepResult `json:"results"`
	Artifacts    []string     `json:"artifacts,omitempty"`
	ArtifactPath string       `json:"artifactPath,omitempty"`
	NextSteps    []string     `json:"nextSteps,omitempty"`
}

// Engine applies migration plans under a project root.
type Engine struct {
	projectRoot string
	logger      *logging.Logger
}

// NewEngine creates a migration engine for a project root.
func NewEngine(projectRoot string, logger *logging.Logger) *Engine {
	return &Engine{projectRoot: projectRoot, logger: logger}
}

// Run executes a plan. Steps are applied strictly in dependency order and
// the checkpoint is persisted after every terminal step, so the run is
// safely resumable after a crash between any two steps.
func (e *Engine) Run(plan *Plan, opts Options) (*Summary, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	checkpoint, err := e.loadOrStartCheckpoint(plan, opts)
	if err != nil {
		return nil, err
	}

	steps := filterSteps(plan.Steps, opts, checkpoint)
	ordered, err := orderSteps(steps)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:    uuid.New().String(),
		PlanPath: plan.Path,
		PlanHash: plan.Hash,
		DryRun:   !opts.Apply,
		Total:    len(ordered),
	}

	run := &runState{
		engine:     e,
		opts:       opts,
		checkpoint: checkpoint,
		fileCache:  make(map[string]string),
		backedUp:   make(map[string]bool),
		failed:     make(map[string]bool),
		reader:     bufio.NewReader(opts.Input),
	}

	halted := false
	for _, step := range ordered {
		if halted {
			summary.Pending++
			summary.Results = append(summary.Results, StepResult{
				StepID: step.ID, Status: StatusPending, File: step.File,
				ActionDescription: step.Action.Describe(),
			})
			continue
		}

		result, quit := run.execute(step, summary)
		summary.Results = append(summary.Results, result)
		if quit {
			halted = true
		}
	}

	if opts.Apply && len(summary.Artifacts) > 0 {
		artifactPath, err := e.writeArtifacts(summary.Artifacts)
		if err != nil {
			return nil, err
		}
		summary.ArtifactPath = artifactPath
	}

	e.summarize(summary, run)
	return summary, nil
}

func (e *Engine) loadOrStartCheckpoint(plan *Plan, opts Options) (*Checkpoint, error) {
	if !opts.Continue {
		return NewCheckpoint(plan), nil
	}
	checkpoint, err := LoadCheckpoint(e.projectRoot, plan.Path)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, errors.New(errors.CheckpointMismatch,
			fmt.Sprintf("no checkpoint exists for plan %s", plan.Path), nil, nil)
	}
	// A changed plan invalidates resumption: the recorded step ids and
	// anchors no longer describe this plan revision.
	if checkpoint.PlanHash != plan.Hash {
		return nil, errors.New(errors.CheckpointMismatch,
			fmt.Sprintf("plan %s changed since the checkpoint was written (checkpoint %s, plan %s)",
				plan.Path, short(checkpoint.PlanHash), short(plan.Hash)), nil, nil)
	}
	return checkpoint, nil
}

// filterSteps applies the include/skip/file filters and, under --continue,
// drops steps already completed in a prior run.
func filterSteps(steps []Step, opts Options, checkpoint *Checkpoint) []Step {
	include := toSet(opts.Steps)
	skip := toSet(opts.Skip)

	var filtered []Step
	for _, step := range steps {
		if len(include) > 0 && !include[step.ID] {
			continue
		}
		if skip[step.ID] {
			continue
		}
		if opts.File != "" && step.File != opts.File {
			continue
		}
		if opts.Continue && checkpoint.Completed(step.ID) {
			continue
		}
		filtered = append(filtered, step)
	}
	return filtered
}

// orderSteps topologically sorts steps by their dependency edges. The sort
// is stable: steps without ordering constraints keep their plan order.
// Dependencies outside the current run impose no ordering.
func orderSteps(steps []Step) ([]Step, error) {
	inRun := make(map[string]int, len(steps))
	for i, step := range steps {
		inRun[step.ID] = i
	}

	done := make(map[string]bool, len(steps))
	used := make([]bool, len(steps))
	ordered := make([]Step, 0, len(steps))

	for len(ordered) < len(steps) {
		progressed := false
		for i, step := range steps {
			if used[i] {
				continue
			}
			ready := true
			for _, dep := range step.Dependencies {
				if _, ok := inRun[dep]; ok && !done[dep] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			used[i] = true
			done[step.ID] = true
			ordered = append(ordered, step)
			progressed = true
		}
		if !progressed {
			var stuck []string
			for i, step := range steps {
				if !used[i] {
					stuck = append(stuck, step.ID)
				}
			}
			return nil, errors.New(errors.PlanInvalid,
				fmt.Sprintf("dependency cycle among steps: %s", strings.Join(stuck, ", ")), nil, nil)
		}
	}
	return ordered, nil
}

// runState is the mutable state of one run.
type runState struct {
	engine     *Engine
	opts       Options
	checkpoint *Checkpoint
	fileCache  map[string]string
	backedUp   map[string]bool
	failed     map[string]bool // step ids failed in this run
	applyAll   bool
	reader     *bufio.Reader
}

// execute runs a single step to a terminal status. quit is true when an
// interactive "quit" halts the run.
func (r *runState) execute(step Step, summary *Summary) (StepResult, bool) {
	result := StepResult{
		StepID:            step.ID,
		File:              step.File,
		ActionDescription: step.Action.Describe(),
	}

	// Cascading-failure avoidance: a dependent of a failed step is skipped
	// without being attempted.
	for _, dep := range step.Dependencies {
		if r.failed[dep] {
			result.Status = StatusSkipped
			result.Error = fmt.Sprintf("dependency %s failed", dep)
			r.finish(step.ID, &result, summary)
			return result, false
		}
	}

	if r.opts.Interactive && !r.applyAll {
		switch r.prompt(step) {
		case "no":
			result.Status = StatusSkipped
			r.finish(step.ID, &result, summary)
			return result, false
		case "quit":
			result.Status = StatusPending
			summary.Pending++
			return result, true
		case "all":
			r.applyAll = true
		}
	}

	content, err := r.loadFile(step.File)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		r.failed[step.ID] = true
		r.finish(step.ID, &result, summary)
		return result, false
	}

	out, err := applyStep(content, &step)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		r.failed[step.ID] = true
		r.finish(step.ID, &result, summary)
		return result, false
	}

	result.Diff = Diff{Removed: out.removed, Added: out.added}

	if r.opts.Apply {
		path := paths.JoinProject(r.engine.projectRoot, step.File)
		if err := os.WriteFile(path, []byte(out.content), 0644); err != nil {
			result.Status = StatusFailed
			result.Error = fmt.Sprintf("writing %s: %v", step.File, err)
			r.failed[step.ID] = true
			r.finish(step.ID, &result, summary)
			return result, false
		}
		r.fileCache[step.File] = out.content
		summary.Artifacts = append(summary.Artifacts, out.artifacts...)
		result.Status = StatusApplied
	} else {
		// Dry run: the step validated and would apply, but nothing is
		// written and no checkpoint advances.
		result.Status = StatusPending
		summary.Pending++
		return result, false
	}

	r.finish(step.ID, &result, summary)
	return result, false
}

// finish records a terminal step result in the checkpoint and counters.
// Checkpoint persistence happens after every step so an abrupt crash loses
// at most the in-flight step.
func (r *runState) finish(stepID string, result *StepResult, summary *Summary) {
	switch result.Status {
	case StatusApplied:
		summary.Applied++
	case StatusSkipped:
		summary.Skipped++
	case StatusFailed:
		summary.Failed++
	}
	if !r.opts.Apply {
		return
	}
	r.checkpoint.Record(stepID, result.Status)
	if err := r.checkpoint.Save(r.engine.projectRoot); err != nil {
		r.engine.logger.Error("failed to persist checkpoint", logging.Fields{
			"stepId": stepID,
			"error":  err.Error(),
		})
	}
}

// loadFile returns the current content of a target file, reading it once
// per run and backing it up before its first mutation.
func (r *runState) loadFile(file string) (string, error) {
	if content, ok := r.fileCache[file]; ok {
		return content, nil
	}
	path := paths.JoinProject(r.engine.projectRoot, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	content := string(data)
	r.fileCache[file] = content

	if r.opts.Apply && r.opts.Backup && !r.backedUp[file] {
		if err := os.WriteFile(path+".bak", data, 0644); err != nil {
			return "", fmt.Errorf("backing up %s: %w", file, err)
		}
		r.backedUp[file] = true
	}
	return content, nil
}

// prompt asks for confirmation before a step. Responses normalize
// case-insensitively to yes/no/quit/all; anything unrecognized re-prompts.
func (r *runState) prompt(step Step) string {
	for {
		fmt.Fprintf(r.opts.Output, "\nStep %s (%s): %s\n", step.ID, step.File, step.Action.Describe())
		if step.Preview.Before != "" || step.Preview.After != "" {
			fmt.Fprintf(r.opts.Output, "  - %s\n  + %s\n", step.Preview.Before, step.Preview.After)
		}
		fmt.Fprint(r.opts.Output, "Apply? [y]es/[n]o/[q]uit/[a]ll: ")

		line, err := r.reader.ReadString('\n')
		if err != nil && line == "" {
			return "quit"
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return "yes"
		case "n", "no":
			return "no"
		case "q", "quit":
			return "quit"
		case "a", "all":
			return "all"
		}
		fmt.Fprintln(r.opts.Output, "Please answer yes, no, quit, or all.")
	}
}

// writeArtifacts appends emitted CSS artifacts to the state-directory
// artifact file, creating it on first use.
func (e *Engine) writeArtifacts(artifacts []string) (string, error) {
	if _, err := paths.EnsureStateDir(e.projectRoot); err != nil {
		return "", err
	}
	path := paths.ArtifactPath(e.projectRoot)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("opening artifact file: %w", err)
	}
	defer f.Close()
	for _, artifact := range artifacts {
		if _, err := fmt.Fprintln(f, artifact); err != nil {
			return "", fmt.Errorf("writing artifact: %w", err)
		}
	}
	return path, nil
}

// summarize fills run aggregates and next-step guidance.
func (e *Engine) summarize(summary *Summary, run *runState) {
	files := make(map[string]bool)
	for _, result := range summary.Results {
		if result.Status == StatusApplied {
			files[result.File] = true
			summary.Diff.Removed += result.Diff.Removed
			summary.Diff.Added += result.Diff.Added
		}
	}
	for file := range files {
		summary.FilesTouched = append(summary.FilesTouched, file)
	}
	sort.Strings(summary.FilesTouched)

	switch {
	case summary.Total == 0:
		summary.NextSteps = append(summary.NextSteps,
			"no steps to run (already completed or filtered out)")
	case summary.DryRun:
		summary.NextSteps = append(summary.NextSteps,
			"re-run with --apply to write these changes")
	default:
		if summary.Failed > 0 {
			summary.NextSteps = append(summary.NextSteps,
				"some steps failed: inspect the errors, then re-run with --continue --apply")
		}
		if summary.Applied > 0 {
			summary.NextSteps = append(summary.NextSteps,
				"run 'tokenlint build' to refresh the index against the rewritten sources")
			if run.opts.Backup {
				summary.NextSteps = append(summary.NextSteps,
					"backups written as <file>.bak; remove them once the changes are verified")
			}
		}
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
