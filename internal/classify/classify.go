// Package classify maps utility class names to design-token semantics.
//
// All functions are pure and total: any string input yields a result, never
// an error. The classifier is consumed by the index builder (to resolve
// usages against the token set) and by the cascade resolver (to turn a
// class selector into a token name).
package classify

import (
	"strings"
)

// Category is the design concern a utility class belongs to.
type Category string

const (
	CategoryColor      Category = "color"
	CategorySpacing    Category = "spacing"
	CategoryTypography Category = "typography"
	CategoryOther      Category = "other"
	// CategoryMixed is only produced by CategorizePattern, never by Classify.
	CategoryMixed Category = "mixed"
)

// Classification is the result of classifying a single utility class.
type Classification struct {
	Category    Category `json:"category"`
	Parsed      bool     `json:"parsed"`
	Prefix      string   `json:"prefix,omitempty"`
	Value       string   `json:"value,omitempty"`
	IsArbitrary bool     `json:"isArbitrary"`
	IsTokenized bool     `json:"isTokenized"`
}

// colorPrefixes are utility prefixes whose values are color-valued.
// "text" is special-cased: it carries colors and typography sizes both.
var colorPrefixes = map[string]bool{
	"bg": true, "text": true, "border": true, "ring": true,
	"fill": true, "stroke": true, "accent": true, "caret": true,
	"outline": true, "decoration": true, "divide": true, "shadow": true,
	"from": true, "via": true, "to": true,
}

// spacingPrefixes, longest first where one is a prefix of another.
var spacingPrefixes = []string{
	"space-x", "space-y", "gap-x", "gap-y", "gap",
	"px", "py", "pt", "pr", "pb", "pl", "p",
	"mx", "my", "mt", "mr", "mb", "ml", "m",
	"inset-x", "inset-y", "inset", "w", "h", "size",
}

var typographyPrefixes = map[string]bool{
	"font": true, "leading": true, "tracking": true,
}

// typeScaleWords are the typography size-scale values of the "text" prefix.
var typeScaleWords = map[string]bool{
	"xs": true, "sm": true, "base": true, "lg": true, "xl": true,
	"2xl": true, "3xl": true, "4xl": true, "5xl": true,
	"6xl": true, "7xl": true, "8xl": true, "9xl": true,
}

// Classify maps a class name to its category and parsed shape.
//
// Color is checked before Typography: a bracketed literal color under the
// "text" prefix is always a color, never a size, while "text-lg" stays
// typography. Unparseable classes ("flex", "items-center") are Other.
func Classify(className string) Classification {
	prefix, value, arbitrary, tokenized, ok := splitClass(className)
	if !ok {
		return Classification{Category: CategoryOther}
	}

	c := Classification{
		Parsed:      true,
		Prefix:      prefix,
		Value:       value,
		IsArbitrary: arbitrary,
		IsTokenized: tokenized,
	}

	switch {
	case prefix == "text":
		// Literal color values win over size-scale values.
		switch {
		case arbitrary && isColorLiteral(value):
			c.Category = CategoryColor
		case tokenized && strings.Contains(value, "color"):
			c.Category = CategoryColor
		case arbitrary || tokenized || typeScaleWords[value]:
			c.Category = CategoryTypography
		default:
			c.Category = CategoryColor
		}
	case colorPrefixes[prefix]:
		c.Category = CategoryColor
	case isSpacingPrefix(prefix):
		c.Category = CategorySpacing
	case typographyPrefixes[prefix]:
		c.Category = CategoryTypography
	default:
		c.Category = CategoryOther
	}
	return c
}

// ResolveClassToToken resolves a class name to a candidate token name, or
// "" when the class is not derivable from a token. Two syntaxes resolve:
//
//   - explicit shorthand "prefix-(--token-name)", which always resolves
//     because it is an author declaration;
//   - semantic inference "prefix-word" for color prefixes, mapping to
//     "--color-word". Palette values ("blue-500"), typography scale words
//     ("lg"), and numeric values never infer a token.
func ResolveClassToToken(className string) string {
	prefix, value, arbitrary, tokenized, ok := splitClass(className)
	if !ok || arbitrary {
		return ""
	}
	if tokenized {
		return value
	}
	if !colorPrefixes[prefix] {
		return ""
	}
	if !isSemanticWord(value) {
		return ""
	}
	return "--color-" + value
}

// ResolveClassToTokenValidated resolves a class to a token name, accepting
// the semantic-inference branch only when the candidate exists in
// knownTokens. The shorthand branch is never validated.
func ResolveClassToTokenValidated(className string, knownTokens map[string]bool) string {
	prefix, value, arbitrary, tokenized, ok := splitClass(className)
	if !ok || arbitrary {
		return ""
	}
	if tokenized {
		return value
	}
	if !colorPrefixes[prefix] || !isSemanticWord(value) {
		return ""
	}
	candidate := "--color-" + value
	if !knownTokens[candidate] {
		return ""
	}
	return candidate
}

// CategorizePattern reduces a class set to one category. The result is a
// pure category only when every class classifies identically; any mix,
// an empty set, or a set of unrecognized classes is Mixed.
func CategorizePattern(classes []string) Category {
	if len(classes) == 0 {
		return CategoryMixed
	}
	first := Classify(classes[0]).Category
	for _, cls := range classes[1:] {
		if Classify(cls).Category != first {
			return CategoryMixed
		}
	}
	if first == CategoryOther {
		return CategoryMixed
	}
	return first
}

// splitClass splits a class into prefix and value, detecting arbitrary
// "prefix-[value]" and tokenized "prefix-(--token)" payloads. ok is false
// when the class has no recognizable prefix-value shape.
func splitClass(className string) (prefix, value string, arbitrary, tokenized, ok bool) {
	if className == "" {
		return "", "", false, false, false
	}
	if i := strings.Index(className, "-["); i > 0 && strings.HasSuffix(className, "]") {
		return className[:i], className[i+2 : len(className)-1], true, false, true
	}
	if i := strings.Index(className, "-("); i > 0 && strings.HasSuffix(className, ")") {
		payload := className[i+2 : len(className)-1]
		if strings.HasPrefix(payload, "--") {
			return className[:i], payload, false, true, true
		}
		return "", "", false, false, false
	}
	for _, p := range spacingPrefixes {
		if strings.HasPrefix(className, p+"-") {
			return p, className[len(p)+1:], false, false, true
		}
	}
	i := strings.Index(className, "-")
	if i <= 0 || i == len(className)-1 {
		return "", "", false, false, false
	}
	return className[:i], className[i+1:], false, false, true
}

func isSpacingPrefix(prefix string) bool {
	for _, p := range spacingPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// isColorLiteral reports whether an arbitrary payload is a literal color
// expression rather than a dimension or keyword.
func isColorLiteral(value string) bool {
	v := strings.ToLower(value)
	return strings.HasPrefix(v, "#") ||
		strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba(") ||
		strings.HasPrefix(v, "hsl(") || strings.HasPrefix(v, "hsla(") ||
		strings.HasPrefix(v, "oklch(") || strings.HasPrefix(v, "oklab(") ||
		strings.HasPrefix(v, "color(")
}

// isSemanticWord reports whether a value is a semantic color name eligible
// for token inference. Palette shades ("blue-500"), scale words ("lg"),
// and numeric values are rejected.
func isSemanticWord(value string) bool {
	if value == "" || typeScaleWords[value] {
		return false
	}
	segments := strings.Split(value, "-")
	for _, seg := range segments {
		if seg == "" || isNumeric(seg) {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return len(s) > 0
}
