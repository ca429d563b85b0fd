package migrate

import (
	"fmt"
)

// Action is the closed set of transformation kinds a migration step can
// carry. The apply dispatch switches over the concrete types and treats
// any other implementation as a plan error, so adding a kind without
// handling it fails loudly.
type Action interface {
	isAction()
	// Describe returns a one-line human description of the transformation.
	Describe() string
}

// ReplaceAction substitutes literal text at the step's anchor.
type ReplaceAction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ExtractAction replaces a repeated class-list pattern with a named
// utility class and emits the utility's CSS block as a side artifact.
type ExtractAction struct {
	Pattern     string `json:"pattern"`
	UtilityName string `json:"utilityName"`
}

// TokenizeAction rewrites an arbitrary-value utility (bg-[#ff0000]) to its
// token shorthand (bg-(--color-brand)) and emits the token definition as a
// side artifact.
type TokenizeAction struct {
	Value     string `json:"value"`
	TokenName string `json:"tokenName"`
}

// RemoveAction deletes a class from a class list, along with exactly one
// adjacent separating space.
type RemoveAction struct {
	ClassName string `json:"className"`
}

func (ReplaceAction) isAction()  {}
func (ExtractAction) isAction()  {}
func (TokenizeAction) isAction() {}
func (RemoveAction) isAction()   {}

func (a ReplaceAction) Describe() string {
	return fmt.Sprintf("replace %q with %q", a.From, a.To)
}

func (a ExtractAction) Describe() string {
	return fmt.Sprintf("extract %q to utility %q", a.Pattern, a.UtilityName)
}

func (a TokenizeAction) Describe() string {
	return fmt.Sprintf("tokenize value %q as %s", a.Value, a.TokenName)
}

func (a RemoveAction) Describe() string {
	return fmt.Sprintf("remove class %q", a.ClassName)
}

// Action type discriminators used in plan files.
const (
	actionReplace  = "replace"
	actionExtract  = "extract"
	actionTokenize = "tokenize"
	actionRemove   = "remove"
)
