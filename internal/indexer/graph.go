package indexer

import (
	"fmt"
	"sort"

	"tokenlint/internal/storage"
)

// BuildTokenGraph computes the transitive closure of "descendant's value
// references ancestor" over the token definitions. Each edge carries the
// full reference path ancestor→descendant; depth is the hop count.
//
// Cycle policy: a reference that would close a cycle is reported as a
// warning and contributes no edge, and traversal truncates there — the
// build never aborts for a cycle. Dangling references to undefined tokens
// still produce an edge (the cascade view should surface them) plus a
// warning.
func BuildTokenGraph(defs map[string]string) (edges []storage.TokenGraphEdge, warnings []string) {
	// parents[d] lists the tokens d's value directly references.
	parents := make(map[string][]string, len(defs))
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		refs := tokenRefs(defs[name])
		for _, ref := range refs {
			if ref == name {
				warnings = append(warnings, fmt.Sprintf("token %s references itself", name))
				continue
			}
			if _, ok := defs[ref]; !ok {
				warnings = append(warnings, fmt.Sprintf("token %s references undefined token %s", name, ref))
			}
			parents[name] = append(parents[name], ref)
		}
	}

	seen := make(map[string]bool)
	for _, descendant := range names {
		onPath := map[string]bool{descendant: true}
		var climb func(node string, path []string)
		climb = func(node string, path []string) {
			for _, ancestor := range parents[node] {
				if onPath[ancestor] {
					warnings = append(warnings, fmt.Sprintf(
						"token reference cycle truncated at %s (via %s)", ancestor, node))
					continue
				}
				fullPath := append([]string{ancestor}, path...)
				key := ancestor + "\x00" + descendant
				if !seen[key] {
					seen[key] = true
					edges = append(edges, storage.TokenGraphEdge{
						Ancestor:   ancestor,
						Descendant: descendant,
						Depth:      len(fullPath) - 1,
						Path:       fullPath,
					})
				}
				onPath[ancestor] = true
				climb(ancestor, fullPath)
				delete(onPath, ancestor)
			}
		}
		climb(descendant, []string{descendant})
	}
	return edges, warnings
}
