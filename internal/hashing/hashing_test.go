package hashing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashManifestOrderIndependent(t *testing.T) {
	a := []ManifestEntry{
		{Path: "src/a.tsx", Content: []byte("alpha")},
		{Path: "src/b.tsx", Content: []byte("beta")},
	}
	b := []ManifestEntry{
		{Path: "src/b.tsx", Content: []byte("beta")},
		{Path: "src/a.tsx", Content: []byte("alpha")},
	}

	if HashManifest(a) != HashManifest(b) {
		t.Error("manifest hash depends on entry order")
	}
}

func TestHashManifestContentSensitive(t *testing.T) {
	base := []ManifestEntry{{Path: "a.css", Content: []byte("one")}}
	changed := []ManifestEntry{{Path: "a.css", Content: []byte("two")}}
	renamed := []ManifestEntry{{Path: "b.css", Content: []byte("one")}}

	if HashManifest(base) == HashManifest(changed) {
		t.Error("content change did not change the hash")
	}
	if HashManifest(base) == HashManifest(renamed) {
		t.Error("path change did not change the hash")
	}
}

func TestHashManifestNormalizesSeparators(t *testing.T) {
	fwd := []ManifestEntry{{Path: "src/ui/Button.tsx", Content: []byte("x")}}
	back := []ManifestEntry{{Path: `src\ui\Button.tsx`, Content: []byte("x")}}

	if HashManifest(fwd) != HashManifest(back) {
		t.Error("hash differs across path separator styles")
	}
}

func TestHashFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.css"), []byte("--x: 1;"), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := HashFiles(dir, []string{"a.css"})
	if err != nil {
		t.Fatalf("HashFiles failed: %v", err)
	}
	second, err := HashFiles(dir, []string{"a.css"})
	if err != nil {
		t.Fatalf("HashFiles failed: %v", err)
	}
	if first != second {
		t.Error("hash not deterministic across calls")
	}

	if _, err := HashFiles(dir, []string{"missing.css"}); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestHashClassSet(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		same bool
	}{
		{
			name: "order insensitive",
			a:    []string{"flex", "gap-2", "p-4"},
			b:    []string{"p-4", "flex", "gap-2"},
			same: true,
		},
		{
			name: "duplicates collapse",
			a:    []string{"flex", "flex", "p-4"},
			b:    []string{"flex", "p-4"},
			same: true,
		},
		{
			name: "different sets differ",
			a:    []string{"flex", "p-4"},
			b:    []string{"flex", "p-2"},
			same: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HashClassSet(tc.a) == HashClassSet(tc.b)
			if got != tc.same {
				t.Errorf("HashClassSet(%v) == HashClassSet(%v): got %v, want %v",
					tc.a, tc.b, got, tc.same)
			}
		})
	}
}
