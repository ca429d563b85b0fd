package migrate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tokenlint/internal/logging"
	"tokenlint/internal/paths"
)

const buttonSource = `<div className="bg-red-500 p-4 shadow-md">` + "\n"

// enginePlan lists the dependent step first so runs also exercise the
// topological ordering.
const enginePlan = `{
  "steps": [
    {
      "id": "s2",
      "file": "src/Button.tsx",
      "line": 1,
      "column": 32,
      "action": {"type": "remove", "className": "shadow-md"},
      "dependencies": ["s1"]
    },
    {
      "id": "s1",
      "file": "src/Button.tsx",
      "line": 1,
      "column": 17,
      "action": {"type": "replace", "from": "bg-red-500", "to": "bg-(--color-danger)"},
      "preview": {"before": "bg-red-500", "after": "bg-(--color-danger)"}
    }
  ]
}`

const wantMigrated = `<div className="bg-(--color-danger) p-4">` + "\n"

func engineLogger() *logging.Logger {
	return logging.New(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel})
}

// setupRun creates a project with the Button source and a plan file, and
// returns the root, the loaded plan, and the engine.
func setupRun(t *testing.T, planContent string) (string, *Plan, *Engine) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "Button.tsx"), []byte(buttonSource), 0644); err != nil {
		t.Fatal(err)
	}
	planPath := filepath.Join(root, "plan.json")
	if err := os.WriteFile(planPath, []byte(planContent), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(planPath)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	return root, plan, NewEngine(root, engineLogger())
}

func readSource(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "src", "Button.tsx"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunDryRun(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	summary, err := engine.Run(plan, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !summary.DryRun || summary.Pending != 2 || summary.Applied != 0 {
		t.Errorf("summary = %+v, want a 2-step dry run", summary)
	}
	if readSource(t, root) != buttonSource {
		t.Error("dry run mutated the source file")
	}
	cp, err := LoadCheckpoint(root, plan.Path)
	if err != nil {
		t.Fatal(err)
	}
	if cp != nil {
		t.Error("dry run wrote a checkpoint")
	}
}

func TestRunApply(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	summary, err := engine.Run(plan, Options{Apply: true, Backup: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Applied != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want both steps applied", summary)
	}
	// Dependency order: the replace runs before the remove despite plan order.
	if summary.Results[0].StepID != "s1" || summary.Results[1].StepID != "s2" {
		t.Errorf("execution order = [%s %s], want [s1 s2]",
			summary.Results[0].StepID, summary.Results[1].StepID)
	}
	if got := readSource(t, root); got != wantMigrated {
		t.Errorf("source = %q, want %q", got, wantMigrated)
	}

	backup, err := os.ReadFile(filepath.Join(root, "src", "Button.tsx.bak"))
	if err != nil {
		t.Fatalf("missing backup: %v", err)
	}
	if string(backup) != buttonSource {
		t.Error("backup does not preserve the pre-run content")
	}

	if len(summary.FilesTouched) != 1 || summary.FilesTouched[0] != "src/Button.tsx" {
		t.Errorf("FilesTouched = %v", summary.FilesTouched)
	}

	cp, err := LoadCheckpoint(root, plan.Path)
	if err != nil {
		t.Fatal(err)
	}
	if cp == nil || !cp.Completed("s1") || !cp.Completed("s2") {
		t.Errorf("checkpoint = %+v, want both steps completed", cp)
	}
}

func TestRunDependencyFailureSkipsDependents(t *testing.T) {
	brokenPlan := strings.Replace(enginePlan, `"from": "bg-red-500"`, `"from": "bg-not-present"`, 1)
	root, plan, engine := setupRun(t, brokenPlan)

	summary, err := engine.Run(plan, Options{Apply: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Failed != 1 || summary.Skipped != 1 || summary.Applied != 0 {
		t.Fatalf("summary = %+v, want 1 failed and 1 skipped", summary)
	}
	var skipped *StepResult
	for i := range summary.Results {
		if summary.Results[i].StepID == "s2" {
			skipped = &summary.Results[i]
		}
	}
	if skipped == nil || skipped.Status != StatusSkipped || !strings.Contains(skipped.Error, "s1") {
		t.Errorf("dependent result = %+v, want skipped naming the failed dependency", skipped)
	}
	if readSource(t, root) != buttonSource {
		t.Error("failed run mutated the source file")
	}
}

func TestRunContinueResumesRemaining(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	first, err := engine.Run(plan, Options{Apply: true, Steps: []string{"s1"}})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Applied != 1 {
		t.Fatalf("first run summary = %+v", first)
	}

	second, err := engine.Run(plan, Options{Apply: true, Continue: true})
	if err != nil {
		t.Fatalf("continue run failed: %v", err)
	}
	if second.Total != 1 || second.Applied != 1 || second.Results[0].StepID != "s2" {
		t.Errorf("continue summary = %+v, want only s2", second)
	}
	if got := readSource(t, root); got != wantMigrated {
		t.Errorf("source = %q, want %q", got, wantMigrated)
	}

	// A second continue finds nothing left to do.
	third, err := engine.Run(plan, Options{Apply: true, Continue: true})
	if err != nil {
		t.Fatalf("idempotent continue failed: %v", err)
	}
	if third.Total != 0 {
		t.Errorf("third run total = %d, want 0", third.Total)
	}
}

func TestRunContinueWithoutCheckpoint(t *testing.T) {
	_, plan, engine := setupRun(t, enginePlan)

	if _, err := engine.Run(plan, Options{Apply: true, Continue: true}); err == nil {
		t.Error("expected continue without a checkpoint to fail")
	}
}

func TestRunContinueRejectsChangedPlan(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	if _, err := engine.Run(plan, Options{Apply: true, Steps: []string{"s1"}}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// Rewrite the plan in place: same path, different bytes.
	if err := os.WriteFile(plan.Path, []byte(enginePlan+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changed, err := LoadPlan(plan.Path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Run(changed, Options{Apply: true, Continue: true}); err == nil {
		t.Error("expected continue against a changed plan to fail")
	}
	if readSource(t, root) == wantMigrated {
		t.Error("rejected continue still applied steps")
	}
}

func TestRunInteractive(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	// Decline the replace, accept the remove.
	input := strings.NewReader("n\ny\n")
	var output bytes.Buffer
	summary, err := engine.Run(plan, Options{
		Apply: true, Interactive: true, Input: input, Output: &output,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Skipped != 1 || summary.Applied != 1 {
		t.Fatalf("summary = %+v, want s1 skipped and s2 applied", summary)
	}
	want := `<div className="bg-red-500 p-4">` + "\n"
	if got := readSource(t, root); got != want {
		t.Errorf("source = %q, want %q", got, want)
	}
	if !strings.Contains(output.String(), "Apply?") {
		t.Error("prompt not written to output")
	}
}

func TestRunInteractiveQuit(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	summary, err := engine.Run(plan, Options{
		Apply: true, Interactive: true,
		Input:  strings.NewReader("q\n"),
		Output: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Pending != 2 || summary.Applied != 0 {
		t.Errorf("summary = %+v, want everything pending after quit", summary)
	}
	if readSource(t, root) != buttonSource {
		t.Error("quit run mutated the source file")
	}
}

func TestRunInteractiveAll(t *testing.T) {
	root, plan, engine := setupRun(t, enginePlan)

	var output bytes.Buffer
	summary, err := engine.Run(plan, Options{
		Apply: true, Interactive: true,
		Input:  strings.NewReader("a\n"),
		Output: &output,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Applied != 2 {
		t.Errorf("summary = %+v, want both applied after 'all'", summary)
	}
	if got := readSource(t, root); got != wantMigrated {
		t.Errorf("source = %q, want %q", got, wantMigrated)
	}
	if strings.Count(output.String(), "Apply?") != 1 {
		t.Errorf("'all' should prompt exactly once, output:\n%s", output.String())
	}
}

func TestRunTokenizeThenReplace(t *testing.T) {
	source := "export function Button() {\n" +
		`  return <button className="bg-[#ff0000] text-white" />;` + "\n" +
		"}\n"
	plan := `{
  "steps": [
    {
      "id": "step-1",
      "file": "src/Button.tsx",
      "line": 2,
      "column": 29,
      "action": {"type": "tokenize", "value": "#ff0000", "tokenName": "--color-brand"}
    },
    {
      "id": "step-2",
      "file": "src/Button.tsx",
      "line": 2,
      "column": 42,
      "action": {"type": "replace", "from": "text-white", "to": "text-(--color-on-brand)"},
      "dependencies": ["step-1"]
    }
  ]
}`
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "Button.tsx"), []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	planPath := filepath.Join(root, "plan.json")
	if err := os.WriteFile(planPath, []byte(plan), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadPlan(planPath)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := NewEngine(root, engineLogger()).Run(loaded, Options{Apply: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Applied != 2 {
		t.Fatalf("summary = %+v, want both steps applied", summary)
	}
	got := readSource(t, root)
	want := "export function Button() {\n" +
		`  return <button className="bg-(--color-brand) text-(--color-on-brand)" />;` + "\n" +
		"}\n"
	if got != want {
		t.Errorf("source = %q, want %q", got, want)
	}

	generated, err := os.ReadFile(summary.ArtifactPath)
	if err != nil {
		t.Fatalf("reading artifacts: %v", err)
	}
	if !strings.Contains(string(generated), "--color-brand: #ff0000;") {
		t.Errorf("generated.css = %q, want the emitted token definition", generated)
	}

	// The same plan against a file missing the tokenize target fails the
	// first step, skips its dependent, and leaves the file untouched.
	broken := strings.Replace(source, "#ff0000", "#123456", 1)
	if err := os.WriteFile(filepath.Join(root, "src", "Button.tsx"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}
	retry, err := NewEngine(root, engineLogger()).Run(loaded, Options{Apply: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if retry.Failed != 1 || retry.Skipped != 1 || retry.Applied != 0 {
		t.Errorf("retry summary = %+v, want 1 failed and 1 skipped", retry)
	}
	if readSource(t, root) != broken {
		t.Error("failed run mutated the source file")
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	tokenizePlan := `{
  "steps": [
    {
      "id": "t1",
      "file": "src/Button.tsx",
      "line": 1,
      "column": 17,
      "action": {"type": "tokenize", "value": "#ff0000", "tokenName": "--color-danger"}
    }
  ]
}`
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	source := `<div className="bg-[#ff0000] p-4">` + "\n"
	if err := os.WriteFile(filepath.Join(root, "src", "Button.tsx"), []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	planPath := filepath.Join(root, "plan.json")
	if err := os.WriteFile(planPath, []byte(tokenizePlan), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(planPath)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := NewEngine(root, engineLogger()).Run(plan, Options{Apply: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.ArtifactPath != paths.ArtifactPath(root) {
		t.Errorf("ArtifactPath = %q, want %q", summary.ArtifactPath, paths.ArtifactPath(root))
	}
	generated, err := os.ReadFile(summary.ArtifactPath)
	if err != nil {
		t.Fatalf("reading artifacts: %v", err)
	}
	if !strings.Contains(string(generated), "--color-danger: #ff0000;") {
		t.Errorf("generated.css = %q, want the token definition", generated)
	}
}
