package migrate

import (
	"strings"
)

// anchorWindow is the half-width in characters of the near-column search.
// Planner anchors can drift a little when earlier steps already rewrote
// the same line; the window absorbs small drifts before falling back to a
// whole-line search.
const anchorWindow = 20

// locateCandidates returns the byte offsets at which needle occurs in
// content near the (line, column) anchor, in fallback order: the exact
// column first, then occurrences inside a ±anchorWindow span around the
// column, then anywhere on the line. line and column are 1-based. An empty
// result means the anchor text was not found.
func locateCandidates(content, needle string, line, column int) []int {
	if needle == "" || line < 1 {
		return nil
	}
	lineStart, lineEnd, ok := lineBounds(content, line)
	if !ok {
		return nil
	}
	lineText := content[lineStart:lineEnd]

	var offsets []int
	seen := map[int]bool{}
	add := func(off int) {
		if off >= 0 && !seen[off] {
			seen[off] = true
			offsets = append(offsets, off)
		}
	}

	col := column - 1
	if col >= 0 && col <= len(lineText)-len(needle) && strings.HasPrefix(lineText[col:], needle) {
		add(lineStart + col)
	}

	windowStart := col - anchorWindow
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := col + anchorWindow + len(needle)
	if windowEnd > len(lineText) {
		windowEnd = len(lineText)
	}
	if windowStart < windowEnd {
		for rel := windowStart; ; {
			idx := strings.Index(lineText[rel:windowEnd], needle)
			if idx < 0 {
				break
			}
			add(lineStart + rel + idx)
			rel += idx + 1
		}
	}

	for rel := 0; ; {
		idx := strings.Index(lineText[rel:], needle)
		if idx < 0 {
			break
		}
		add(lineStart + rel + idx)
		rel += idx + 1
	}
	return offsets
}

// lineBounds returns the byte range of a 1-based line within content,
// excluding the trailing newline.
func lineBounds(content string, line int) (start, end int, ok bool) {
	current := 1
	start = 0
	for current < line {
		idx := strings.IndexByte(content[start:], '\n')
		if idx < 0 {
			return 0, 0, false
		}
		start += idx + 1
		current++
	}
	end = len(content)
	if idx := strings.IndexByte(content[start:], '\n'); idx >= 0 {
		end = start + idx
	}
	return start, end, true
}
