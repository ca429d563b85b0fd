package classify

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		className string
		category  Category
		arbitrary bool
		tokenized bool
	}{
		// Color wins over typography for literal color payloads.
		{"text-[#fff]", CategoryColor, true, false},
		{"text-[rgb(255,0,0)]", CategoryColor, true, false},
		{"text-lg", CategoryTypography, false, false},
		{"text-[14px]", CategoryTypography, true, false},
		{"text-primary", CategoryColor, false, false},
		{"text-(--color-fg)", CategoryColor, false, true},
		{"bg-blue-500", CategoryColor, false, false},
		{"bg-[#ff0000]", CategoryColor, true, false},
		{"bg-(--color-brand)", CategoryColor, false, true},
		{"border-muted", CategoryColor, false, false},
		{"p-4", CategorySpacing, false, false},
		{"gap-x-2", CategorySpacing, false, false},
		{"mx-auto", CategorySpacing, false, false},
		{"font-bold", CategoryTypography, false, false},
		{"leading-tight", CategoryTypography, false, false},
		{"tracking-wide", CategoryTypography, false, false},
		{"flex", CategoryOther, false, false},
		{"items-center", CategoryOther, false, false},
		{"", CategoryOther, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.className, func(t *testing.T) {
			got := Classify(tc.className)
			if got.Category != tc.category {
				t.Errorf("Classify(%q).Category = %s, want %s", tc.className, got.Category, tc.category)
			}
			if got.IsArbitrary != tc.arbitrary {
				t.Errorf("Classify(%q).IsArbitrary = %v, want %v", tc.className, got.IsArbitrary, tc.arbitrary)
			}
			if got.IsTokenized != tc.tokenized {
				t.Errorf("Classify(%q).IsTokenized = %v, want %v", tc.className, got.IsTokenized, tc.tokenized)
			}
		})
	}
}

func TestClassifyParsed(t *testing.T) {
	got := Classify("bg-[#ff0000]")
	if !got.Parsed || got.Prefix != "bg" || got.Value != "#ff0000" {
		t.Errorf("Classify(bg-[#ff0000]) parsed = (%q, %q), want (bg, #ff0000)", got.Prefix, got.Value)
	}

	got = Classify("gap-x-2")
	if !got.Parsed || got.Prefix != "gap-x" || got.Value != "2" {
		t.Errorf("Classify(gap-x-2) parsed = (%q, %q), want (gap-x, 2)", got.Prefix, got.Value)
	}

	if Classify("flex").Parsed {
		t.Error("Classify(flex) should not parse a prefix/value")
	}
}

func TestResolveClassToToken(t *testing.T) {
	tests := []struct {
		className string
		want      string
	}{
		// Explicit shorthand always resolves, unvalidated.
		{"bg-(--color-brand)", "--color-brand"},
		{"text-(--made-up-token)", "--made-up-token"},
		// Semantic inference for color prefixes.
		{"bg-primary", "--color-primary"},
		{"text-muted", "--color-muted"},
		{"border-surface-raised", "--color-surface-raised"},
		// Palette, scale, numeric, and arbitrary values never infer.
		{"bg-blue-500", ""},
		{"text-lg", ""},
		{"bg-[#ff0000]", ""},
		{"p-4", ""},
		{"flex", ""},
	}

	for _, tc := range tests {
		t.Run(tc.className, func(t *testing.T) {
			if got := ResolveClassToToken(tc.className); got != tc.want {
				t.Errorf("ResolveClassToToken(%q) = %q, want %q", tc.className, got, tc.want)
			}
		})
	}
}

func TestResolveClassToTokenValidated(t *testing.T) {
	known := map[string]bool{"--color-primary": true}

	tests := []struct {
		className string
		want      string
	}{
		// Shorthand is never validated: an author declaration stands.
		{"bg-(--color-unknown)", "--color-unknown"},
		// Inference requires the candidate to exist.
		{"bg-primary", "--color-primary"},
		{"bg-secondary", ""},
	}

	for _, tc := range tests {
		t.Run(tc.className, func(t *testing.T) {
			if got := ResolveClassToTokenValidated(tc.className, known); got != tc.want {
				t.Errorf("ResolveClassToTokenValidated(%q) = %q, want %q", tc.className, got, tc.want)
			}
		})
	}
}

func TestCategorizePattern(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
		want    Category
	}{
		{"pure color", []string{"bg-primary", "text-[#fff]"}, CategoryColor},
		{"pure spacing", []string{"p-4", "gap-2", "mx-auto"}, CategorySpacing},
		{"pure typography", []string{"text-lg", "font-bold"}, CategoryTypography},
		{"mixed", []string{"bg-primary", "p-4"}, CategoryMixed},
		{"unrecognized only", []string{"flex", "items-center"}, CategoryMixed},
		{"empty", nil, CategoryMixed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategorizePattern(tc.classes); got != tc.want {
				t.Errorf("CategorizePattern(%v) = %s, want %s", tc.classes, got, tc.want)
			}
		})
	}
}
