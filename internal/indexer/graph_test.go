package indexer

import (
	"strings"
	"testing"

	"tokenlint/internal/storage"
)

func edgeSet(edges []storage.TokenGraphEdge) map[string]storage.TokenGraphEdge {
	set := make(map[string]storage.TokenGraphEdge, len(edges))
	for _, e := range edges {
		set[e.Ancestor+">"+e.Descendant] = e
	}
	return set
}

func TestBuildTokenGraphClosure(t *testing.T) {
	defs := map[string]string{
		"--base": "#ff0000",
		"--mid":  "var(--base)",
		"--leaf": "var(--mid)",
	}

	edges, warnings := BuildTokenGraph(defs)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(edges) != 3 {
		t.Fatalf("got %d edges, want 3: %+v", len(edges), edges)
	}

	set := edgeSet(edges)
	direct, ok := set["--mid>--leaf"]
	if !ok || direct.Depth != 1 {
		t.Errorf("missing direct edge --mid>--leaf depth 1: %+v", set)
	}
	transitive, ok := set["--base>--leaf"]
	if !ok {
		t.Fatalf("missing transitive edge --base>--leaf: %+v", set)
	}
	if transitive.Depth != 2 {
		t.Errorf("transitive depth = %d, want 2", transitive.Depth)
	}
	wantPath := []string{"--base", "--mid", "--leaf"}
	if len(transitive.Path) != 3 {
		t.Fatalf("transitive path = %v, want %v", transitive.Path, wantPath)
	}
	for i, name := range wantPath {
		if transitive.Path[i] != name {
			t.Errorf("path[%d] = %s, want %s", i, transitive.Path[i], name)
		}
	}
}

func TestBuildTokenGraphMultipleReferences(t *testing.T) {
	defs := map[string]string{
		"--gap":     "4px",
		"--pad":     "8px",
		"--spacing": "var(--gap) var(--pad)",
	}

	edges, warnings := BuildTokenGraph(defs)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	set := edgeSet(edges)
	if len(set) != 2 {
		t.Fatalf("got %d edges, want 2: %+v", len(set), set)
	}
	for _, key := range []string{"--gap>--spacing", "--pad>--spacing"} {
		if _, ok := set[key]; !ok {
			t.Errorf("missing edge %s", key)
		}
	}
}

func TestBuildTokenGraphCycleWarnsAndTruncates(t *testing.T) {
	defs := map[string]string{
		"--a": "var(--b)",
		"--b": "var(--a)",
	}

	edges, warnings := BuildTokenGraph(defs)

	// Both direct edges survive; only the closing hop is dropped.
	set := edgeSet(edges)
	if len(set) != 2 {
		t.Errorf("got %d edges, want 2 direct edges: %+v", len(set), set)
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "cycle truncated") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a cycle warning, got %v", warnings)
	}
}

func TestBuildTokenGraphSelfReference(t *testing.T) {
	defs := map[string]string{"--loop": "var(--loop)"}

	edges, warnings := BuildTokenGraph(defs)
	if len(edges) != 0 {
		t.Errorf("self reference produced edges: %+v", edges)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "references itself") {
		t.Errorf("warnings = %v, want one self-reference warning", warnings)
	}
}

func TestBuildTokenGraphDanglingReference(t *testing.T) {
	defs := map[string]string{"--fg": "var(--undefined-base)"}

	edges, warnings := BuildTokenGraph(defs)

	// The edge is kept so cascade lookups can surface the broken link.
	if len(edges) != 1 || edges[0].Ancestor != "--undefined-base" || edges[0].Descendant != "--fg" {
		t.Fatalf("edges = %+v, want one dangling edge", edges)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "undefined token") {
		t.Errorf("warnings = %v, want one undefined-token warning", warnings)
	}
}
