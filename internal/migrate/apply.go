package migrate

import (
	"fmt"
	"strings"
)

// outcome is the in-memory result of applying one step: the rewritten
// content, the character diff, and any CSS side artifacts to emit. The
// file itself is only written after the whole step succeeded, so a locate
// failure never partially mutates a file.
type outcome struct {
	content   string
	removed   int
	added     int
	artifacts []string
}

// applyStep applies a step's action to file content anchored at the step's
// (line, column). The dispatch is exhaustive over the closed action set.
func applyStep(content string, step *Step) (*outcome, error) {
	switch action := step.Action.(type) {
	case ReplaceAction:
		return applyReplace(content, step, action)
	case ExtractAction:
		return applyExtract(content, step, action)
	case TokenizeAction:
		return applyTokenize(content, step, action)
	case RemoveAction:
		return applyRemove(content, step, action)
	default:
		return nil, fmt.Errorf("unhandled action type %T", step.Action)
	}
}

func applyReplace(content string, step *Step, action ReplaceAction) (*outcome, error) {
	offsets := locateCandidates(content, action.From, step.Line, step.Column)
	if len(offsets) == 0 {
		return nil, notFound(action.From, step)
	}
	off := offsets[0]
	return &outcome{
		content: content[:off] + action.To + content[off+len(action.From):],
		removed: len(action.From),
		added:   len(action.To),
	}, nil
}

func applyExtract(content string, step *Step, action ExtractAction) (*outcome, error) {
	offsets := locateCandidates(content, action.Pattern, step.Line, step.Column)
	if len(offsets) == 0 {
		return nil, notFound(action.Pattern, step)
	}
	off := offsets[0]
	return &outcome{
		content:   content[:off] + action.UtilityName + content[off+len(action.Pattern):],
		removed:   len(action.Pattern),
		added:     len(action.UtilityName),
		artifacts: []string{fmt.Sprintf("@utility %s { @apply %s; }", action.UtilityName, action.Pattern)},
	}, nil
}

// applyTokenize rewrites prefix-[value] to prefix-(tokenName) and emits
// the token definition line. The bracketed payload is located first; the
// utility prefix is recovered by walking left to the class boundary.
// Value may be given as the bare payload ("#ff0000") or as the full class
// ("bg-[#ff0000]"); both normalize to the payload.
func applyTokenize(content string, step *Step, action TokenizeAction) (*outcome, error) {
	value := action.Value
	if i := strings.Index(value, "-["); i > 0 && strings.HasSuffix(value, "]") {
		value = value[i+2 : len(value)-1]
	}
	payload := "[" + value + "]"
	for _, off := range locateCandidates(content, payload, step.Line, step.Column) {
		classStart := classStartBefore(content, off)
		if classStart == off || !strings.HasSuffix(content[classStart:off], "-") {
			continue
		}
		prefix := content[classStart : off-1] // without the trailing hyphen
		oldClass := content[classStart : off+len(payload)]
		newClass := prefix + "-(" + action.TokenName + ")"
		return &outcome{
			content:   content[:classStart] + newClass + content[classStart+len(oldClass):],
			removed:   len(oldClass),
			added:     len(newClass),
			artifacts: []string{fmt.Sprintf("%s: %s;", action.TokenName, value)},
		}, nil
	}
	return nil, notFound(payload, step)
}

// applyRemove deletes a class from a class list together with exactly one
// separating space, preferring the trailing one, so the list keeps single
// spacing with no dangling whitespace.
func applyRemove(content string, step *Step, action RemoveAction) (*outcome, error) {
	for _, off := range locateCandidates(content, action.ClassName, step.Line, step.Column) {
		end := off + len(action.ClassName)
		if !isClassBoundary(content, off-1) || !isClassBoundary(content, end) {
			continue
		}
		start := off
		switch {
		case end < len(content) && content[end] == ' ':
			end++
		case start > 0 && content[start-1] == ' ':
			start--
		}
		return &outcome{
			content: content[:start] + content[end:],
			removed: end - start,
		}, nil
	}
	return nil, notFound(action.ClassName, step)
}

func notFound(needle string, step *Step) error {
	return fmt.Errorf("%q not found at %s:%d:%d (searched exact column, ±%d window, and whole line)",
		needle, step.File, step.Line, step.Column, anchorWindow)
}

// classStartBefore walks left from off to the start of the utility class
// containing it.
func classStartBefore(content string, off int) int {
	start := off
	for start > 0 && !isSeparator(content[start-1]) {
		start--
	}
	return start
}

// isClassBoundary reports whether the byte at idx (or the string edge)
// separates classes inside a class-list string.
func isClassBoundary(content string, idx int) bool {
	if idx < 0 || idx >= len(content) {
		return true
	}
	return isSeparator(content[idx])
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '"', '\'', '`', '{', '}', '\n':
		return true
	}
	return false
}
