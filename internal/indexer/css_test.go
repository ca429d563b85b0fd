package indexer

import "testing"

const sampleTokenCSS = `:root {
  --color-base: #ffffff;
  --color-brand: var(--color-base);
  --spacing-md: 1rem;
}

.dark {
  --color-base: #111111;
}

@media (prefers-color-scheme: dark) {
  :root {
    --color-brand: var(--color-base);
  }
}
`

func TestScanTokenCSS(t *testing.T) {
	decls := scanTokenCSS("styles/tokens.css", []byte(sampleTokenCSS))
	if len(decls) != 5 {
		t.Fatalf("got %d declarations, want 5: %+v", len(decls), decls)
	}

	byLine := make(map[int]tokenDecl)
	for _, d := range decls {
		byLine[d.Line] = d
	}

	base := byLine[2]
	if base.Name != "--color-base" || base.Value != "#ffffff" || base.Dark {
		t.Errorf("line 2 decl = %+v, want light --color-base #ffffff", base)
	}
	if base.Layer != 1 {
		t.Errorf("line 2 layer = %d, want 1", base.Layer)
	}

	darkBase := byLine[8]
	if darkBase.Name != "--color-base" || darkBase.Value != "#111111" || !darkBase.Dark {
		t.Errorf("line 8 decl = %+v, want dark --color-base #111111", darkBase)
	}
	if darkBase.Layer != 2 {
		t.Errorf("line 8 layer = %d, want 2", darkBase.Layer)
	}

	mediaDark := byLine[13]
	if !mediaDark.Dark {
		t.Errorf("declaration inside prefers-color-scheme: dark not marked dark: %+v", mediaDark)
	}
}

func TestScanTokenCSSIgnoresTopLevelDeclarations(t *testing.T) {
	content := "--stray: 1px;\n:root {\n  --kept: 2px;\n}\n"
	decls := scanTokenCSS("a.css", []byte(content))
	if len(decls) != 1 || decls[0].Name != "--kept" {
		t.Errorf("decls = %+v, want only --kept", decls)
	}
}

func TestTokenRefs(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"#fff", nil},
		{"var(--color-base)", []string{"--color-base"}},
		{"var(--a) solid var(--b)", []string{"--a", "--b"}},
		{"var( --padded )", []string{"--padded"}},
		{"var(--with-fallback, 4px)", []string{"--with-fallback"}},
	}

	for _, tc := range tests {
		got := tokenRefs(tc.value)
		if len(got) != len(tc.want) {
			t.Errorf("tokenRefs(%q) = %v, want %v", tc.value, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("tokenRefs(%q)[%d] = %s, want %s", tc.value, i, got[i], tc.want[i])
			}
		}
	}
}

func TestComputeValue(t *testing.T) {
	defs := map[string]string{
		"--base":  "#ff0000",
		"--mid":   "var(--base)",
		"--leaf":  "var(--mid)",
		"--cyc-a": "var(--cyc-b)",
		"--cyc-b": "var(--cyc-a)",
	}

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"literal", "#00ff00", "#00ff00"},
		{"single hop", "var(--base)", "#ff0000"},
		{"two hops", "var(--mid)", "#ff0000"},
		{"deep chain", "var(--leaf)", "#ff0000"},
		{"embedded", "1px solid var(--base)", "1px solid #ff0000"},
		{"dangling", "var(--missing)", ""},
		{"cycle exhausts", "var(--cyc-a)", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := computeValue(tc.value, defs); got != tc.want {
				t.Errorf("computeValue(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}
