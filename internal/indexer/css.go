package indexer

import (
	"regexp"
	"strings"
)

// tokenDecl is one custom-property declaration observed in a token CSS
// file, before merging into definitions and theme variants.
type tokenDecl struct {
	Name  string
	Value string
	File  string
	Line  int
	Layer int
	Dark  bool
}

var (
	declPattern   = regexp.MustCompile(`^\s*(--[A-Za-z][A-Za-z0-9-]*)\s*:\s*([^;]+);`)
	varRefPattern = regexp.MustCompile(`var\(\s*(--[A-Za-z][A-Za-z0-9-]*)`)
)

// darkSelectors mark a block whose declarations are dark-theme overrides.
var darkSelectors = []string{
	".dark",
	`[data-theme="dark"]`,
	"prefers-color-scheme: dark",
}

// scanTokenCSS extracts custom-property declarations from one CSS file.
// The scan is line-oriented: it tracks block nesting to know the current
// selector stack (for dark-theme detection) and assigns a cascade layer
// that increments with each top-level block, so declaration order across
// the file is preserved as cascade order.
func scanTokenCSS(file string, content []byte) []tokenDecl {
	var decls []tokenDecl
	var selectorStack []string
	layer := 0

	for i, line := range strings.Split(string(content), "\n") {
		if m := declPattern.FindStringSubmatch(line); m != nil && len(selectorStack) > 0 {
			decls = append(decls, tokenDecl{
				Name:  m[1],
				Value: strings.TrimSpace(m[2]),
				File:  file,
				Line:  i + 1,
				Layer: layer,
				Dark:  isDarkContext(selectorStack),
			})
		}
		// Track nesting after extracting: a declaration never opens a block.
		for _, r := range line {
			switch r {
			case '{':
				selector := strings.TrimSpace(strings.SplitN(line, "{", 2)[0])
				if len(selectorStack) == 0 {
					layer++
				}
				selectorStack = append(selectorStack, selector)
			case '}':
				if len(selectorStack) > 0 {
					selectorStack = selectorStack[:len(selectorStack)-1]
				}
			}
		}
	}
	return decls
}

func isDarkContext(selectorStack []string) bool {
	for _, selector := range selectorStack {
		for _, dark := range darkSelectors {
			if strings.Contains(selector, dark) {
				return true
			}
		}
	}
	return false
}

// tokenRefs returns the token names a raw value references via var().
func tokenRefs(value string) []string {
	matches := varRefPattern.FindAllStringSubmatch(value, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// computeValue resolves a token's raw value to a literal by substituting
// var() references from defs. Resolution stops after maxResolveDepth
// substitutions so a reference cycle cannot loop; an unresolvable value
// returns "".
func computeValue(value string, defs map[string]string) string {
	const maxResolveDepth = 16
	current := value
	for depth := 0; depth < maxResolveDepth; depth++ {
		refs := tokenRefs(current)
		if len(refs) == 0 {
			return strings.TrimSpace(current)
		}
		replaced := false
		for _, ref := range refs {
			target, ok := defs[ref]
			if !ok {
				return ""
			}
			current = replaceVarRef(current, ref, target)
			replaced = true
		}
		if !replaced {
			return ""
		}
	}
	return ""
}

// replaceVarRef substitutes one var(--x) or var(--x, fallback) occurrence
// with the replacement value.
func replaceVarRef(value, name, replacement string) string {
	idx := strings.Index(value, "var(")
	for idx >= 0 {
		end := strings.Index(value[idx:], ")")
		if end < 0 {
			break
		}
		call := value[idx : idx+end+1]
		if strings.Contains(call, name) {
			return value[:idx] + replacement + value[idx+end+1:]
		}
		next := strings.Index(value[idx+4:], "var(")
		if next < 0 {
			break
		}
		idx = idx + 4 + next
	}
	return value
}
