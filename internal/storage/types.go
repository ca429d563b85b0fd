package storage

// TokenDefinition is one design-token definition extracted from a token
// CSS file. Value is the raw expression and may reference other tokens via
// var(--x); ComputedValue is the resolved literal when known.
type TokenDefinition struct {
	Name          string `json:"name"`
	Value         string `json:"value"`
	File          string `json:"file"`
	Line          int    `json:"line"`
	Layer         int    `json:"layer"`
	ComputedValue string `json:"computedValue,omitempty"`
}

// ThemeVariant is a per-theme override of a token value. Schema v2 only.
type ThemeVariant struct {
	TokenName string `json:"tokenName"`
	Theme     string `json:"theme"` // "light" or "dark"
	Value     string `json:"value"`
	Source    string `json:"source"` // file:line
}

// Theme names for ThemeVariant.Theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UsageRecord is one observed class-site in source. ResolvedToken is empty
// when the class is not derivable from any known token.
type UsageRecord struct {
	File          string `json:"file"`
	Line          int    `json:"line"`
	Column        int    `json:"column"`
	ClassName     string `json:"className"`
	ResolvedToken string `json:"resolvedToken,omitempty"`
	Context       string `json:"context"` // primitive, composed, layout
	Component     string `json:"component,omitempty"`
}

// Usage context values.
const (
	ContextPrimitive = "primitive"
	ContextComposed  = "composed"
	ContextLayout    = "layout"
)

// Location is one site where a pattern was observed.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Component string `json:"component,omitempty"`
}

// PatternRecord is a deduplicated co-occurring class set. Hash is the
// content hash of the sorted, deduplicated set and is the pattern's
// identity; Classes preserves the original order for display.
type PatternRecord struct {
	Hash      string     `json:"hash"`
	Classes   []string   `json:"classes"`
	Count     int        `json:"count"`
	Locations []Location `json:"locations"`
}

// TokenGraphEdge is one row of the transitive closure of "descendant's
// value references ancestor". Path lists token names ancestor→descendant;
// Depth is the path length (≥1). No self-edges are stored.
type TokenGraphEdge struct {
	Ancestor   string   `json:"ancestor"`
	Descendant string   `json:"descendant"`
	Depth      int      `json:"depth"`
	Path       []string `json:"path"`
}

// ComponentGraphEdge records that a component's file references another
// component. Schema v2 only.
type ComponentGraphEdge struct {
	Component string `json:"component"`
	DependsOn string `json:"dependsOn"`
	File      string `json:"file"`
}

// Stats summarizes relation sizes for status output.
type Stats struct {
	Tokens         int `json:"tokens"`
	ThemeVariants  int `json:"themeVariants"`
	Usages         int `json:"usages"`
	Patterns       int `json:"patterns"`
	TokenEdges     int `json:"tokenEdges"`
	ComponentEdges int `json:"componentEdges"`
}

// Meta keys stored in the index_meta key/value relation.
const (
	MetaSourceTreeHash = "source_tree_hash"
	MetaCreatedAt      = "created_at"
	MetaBuildDuration  = "build_duration"
	MetaFileCount      = "file_count"
)
