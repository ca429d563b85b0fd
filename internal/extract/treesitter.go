package extract

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// TreeSitterExtractor is the default extractor: it parses TSX/JSX source
// with tree-sitter and collects className/class string attributes plus
// referenced component names.
type TreeSitterExtractor struct {
	parser *sitter.Parser
}

// NewTreeSitterExtractor creates an extractor using the TSX grammar, which
// parses both .tsx and .jsx component files.
func NewTreeSitterExtractor() *TreeSitterExtractor {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())
	return &TreeSitterExtractor{parser: parser}
}

// classAttributeNames are the JSX attributes carrying utility class lists.
var classAttributeNames = map[string]bool{
	"className": true,
	"class":     true,
}

// ExtractFile parses one source file and yields its usage candidates.
func (e *TreeSitterExtractor) ExtractFile(ctx context.Context, file string, source []byte) (*FileResult, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &FileResult{}
	component := componentNameFromPath(file)
	seenRefs := map[string]bool{}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "jsx_attribute":
			e.collectClassAttribute(n, source, file, component, result)
		case "jsx_opening_element", "jsx_self_closing_element":
			if name := elementName(n, source); name != "" && isComponentName(name) && !seenRefs[name] {
				seenRefs[name] = true
				result.ComponentRefs = append(result.ComponentRefs, name)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())

	return result, nil
}

// collectClassAttribute records one usage per class in a string-valued
// className attribute. Expression-valued attributes (cva calls, template
// literals) are skipped; those sites are not statically attributable.
func (e *TreeSitterExtractor) collectClassAttribute(n *sitter.Node, source []byte, file, component string, result *FileResult) {
	if n.NamedChildCount() < 2 {
		return
	}
	nameNode := n.NamedChild(0)
	if !classAttributeNames[nameNode.Content(source)] {
		return
	}
	valueNode := n.NamedChild(1)
	if valueNode.Type() != "string" {
		return
	}

	raw := valueNode.Content(source)
	if len(raw) < 2 {
		return
	}
	value := raw[1 : len(raw)-1] // strip quotes
	start := valueNode.StartPoint()

	offset := 0
	for _, cls := range strings.Split(value, " ") {
		if cls != "" {
			result.Usages = append(result.Usages, RawUsage{
				File:      file,
				Line:      int(start.Row) + 1,
				Column:    int(start.Column) + 2 + offset, // +1 for 1-based, +1 for the quote
				ClassName: cls,
				Component: component,
			})
		}
		offset += len(cls) + 1
	}
}

func elementName(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			return child.Content(source)
		}
	}
	return ""
}

// isComponentName reports whether a JSX element name refers to a component
// rather than an intrinsic element (components are capitalized).
func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// componentNameFromPath attributes usages to the component named by the
// file, e.g. components/ui/Button.tsx -> Button. Index-style barrel files
// fall back to their directory name.
func componentNameFromPath(file string) string {
	base := filepath.Base(file)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "index" {
		name = filepath.Base(filepath.Dir(file))
	}
	if name == "" || name == "." {
		return ""
	}
	return name
}
