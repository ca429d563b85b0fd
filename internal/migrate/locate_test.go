package migrate

import "testing"

func TestLocateCandidatesExactColumn(t *testing.T) {
	content := "line one\n<div className=\"bg-red-500 p-4\">\n"
	// bg-red-500 starts at column 17 (1-based) on line 2.
	offsets := locateCandidates(content, "bg-red-500", 2, 17)
	if len(offsets) == 0 {
		t.Fatal("no candidates found")
	}
	if content[offsets[0]:offsets[0]+len("bg-red-500")] != "bg-red-500" {
		t.Errorf("first offset does not point at the needle")
	}
}

func TestLocateCandidatesWindowFallback(t *testing.T) {
	content := "x bg-red-500 y\n"
	// Anchor drifted a few characters from the real position.
	offsets := locateCandidates(content, "bg-red-500", 1, 8)
	if len(offsets) == 0 {
		t.Fatal("window fallback found nothing")
	}
	if offsets[0] != 2 {
		t.Errorf("offset = %d, want 2", offsets[0])
	}
}

func TestLocateCandidatesWholeLineFallback(t *testing.T) {
	// The needle sits far outside the ±window of the stale anchor.
	pad := make([]byte, 80)
	for i := range pad {
		pad[i] = 'x'
	}
	content := string(pad) + " bg-red-500\n"
	offsets := locateCandidates(content, "bg-red-500", 1, 1)
	if len(offsets) != 1 || offsets[0] != 81 {
		t.Errorf("offsets = %v, want [81]", offsets)
	}
}

func TestLocateCandidatesOrderAndDedup(t *testing.T) {
	content := "p-4 m-2 p-4 g-1 p-4\n"
	// Anchor on the middle occurrence (column 9): it must come first, and
	// each occurrence appears once.
	offsets := locateCandidates(content, "p-4", 1, 9)
	if len(offsets) != 3 {
		t.Fatalf("offsets = %v, want 3 distinct occurrences", offsets)
	}
	if offsets[0] != 8 {
		t.Errorf("first offset = %d, want the anchored occurrence at 8", offsets[0])
	}
	seen := map[int]bool{}
	for _, off := range offsets {
		if seen[off] {
			t.Errorf("duplicate offset %d", off)
		}
		seen[off] = true
	}
}

func TestLocateCandidatesMisses(t *testing.T) {
	tests := []struct {
		name    string
		content string
		needle  string
		line    int
		column  int
	}{
		{"needle absent", "a b c\n", "missing", 1, 1},
		{"wrong line", "a b c\nneedle here\n", "needle", 1, 1},
		{"line out of range", "only one line\n", "only", 5, 1},
		{"empty needle", "a b c\n", "", 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := locateCandidates(tc.content, tc.needle, tc.line, tc.column); len(got) != 0 {
				t.Errorf("locateCandidates = %v, want none", got)
			}
		})
	}
}

func TestLineBounds(t *testing.T) {
	content := "first\nsecond\nthird"

	start, end, ok := lineBounds(content, 2)
	if !ok || content[start:end] != "second" {
		t.Errorf("line 2 = %q, want second", content[start:end])
	}

	start, end, ok = lineBounds(content, 3)
	if !ok || content[start:end] != "third" {
		t.Errorf("line 3 = %q, want third (no trailing newline)", content[start:end])
	}

	if _, _, ok := lineBounds(content, 4); ok {
		t.Error("line 4 should be out of range")
	}
}
