package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tokenlint/internal/errors"
	"tokenlint/internal/hashing"
)

// Preview carries the planner's before/after snippet for a step.
type Preview struct {
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// Step is one planned transformation.
type Step struct {
	ID           string
	File         string
	Line         int
	Column       int
	RuleID       string
	Severity     string
	Action       Action
	Confidence   float64
	Preview      Preview
	Dependencies []string
}

// Plan is an ordered list of steps pinned to the exact file revision it
// was loaded from: Hash is the digest of the raw plan bytes, and a
// checkpoint recorded against a different hash refuses to resume.
type Plan struct {
	Path  string
	Hash  string
	Steps []Step
}

// wireStep is the on-disk shape of a step, shared by JSON and YAML plans.
type wireStep struct {
	ID           string     `json:"id" yaml:"id"`
	File         string     `json:"file" yaml:"file"`
	Line         int        `json:"line" yaml:"line"`
	Column       int        `json:"column" yaml:"column"`
	RuleID       string     `json:"ruleId" yaml:"ruleId"`
	Severity     string     `json:"severity" yaml:"severity"`
	Action       wireAction `json:"action" yaml:"action"`
	Confidence   float64    `json:"confidence" yaml:"confidence"`
	Preview      Preview    `json:"preview" yaml:"preview"`
	Dependencies []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

type wireAction struct {
	Type        string `json:"type" yaml:"type"`
	From        string `json:"from,omitempty" yaml:"from,omitempty"`
	To          string `json:"to,omitempty" yaml:"to,omitempty"`
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	UtilityName string `json:"utilityName,omitempty" yaml:"utilityName,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	TokenName   string `json:"tokenName,omitempty" yaml:"tokenName,omitempty"`
	ClassName   string `json:"className,omitempty" yaml:"className,omitempty"`
}

type wirePlan struct {
	Steps []wireStep `json:"steps" yaml:"steps"`
}

// LoadPlan reads and validates a migration plan. The format follows the
// file extension: .yaml/.yml plans decode as YAML, everything else as
// JSON. The plan is consumed read-only.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PlanInvalid, fmt.Sprintf("reading plan %s", path), err, nil)
	}

	var wire wirePlan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &wire)
	default:
		err = json.Unmarshal(data, &wire)
	}
	if err != nil {
		return nil, errors.New(errors.PlanInvalid, fmt.Sprintf("parsing plan %s", path), err, nil)
	}

	plan := &Plan{Path: path, Hash: hashing.HashBytes(data)}
	ids := make(map[string]bool, len(wire.Steps))
	for _, ws := range wire.Steps {
		if ws.ID == "" {
			return nil, errors.New(errors.PlanInvalid, "plan contains a step without an id", nil, nil)
		}
		if ids[ws.ID] {
			return nil, errors.New(errors.PlanInvalid,
				fmt.Sprintf("duplicate step id %q", ws.ID), nil, nil)
		}
		ids[ws.ID] = true

		action, err := decodeAction(ws.Action)
		if err != nil {
			return nil, errors.New(errors.PlanInvalid,
				fmt.Sprintf("step %s: %v", ws.ID, err), nil, nil)
		}

		plan.Steps = append(plan.Steps, Step{
			ID:           ws.ID,
			File:         ws.File,
			Line:         ws.Line,
			Column:       ws.Column,
			RuleID:       ws.RuleID,
			Severity:     ws.Severity,
			Action:       action,
			Confidence:   ws.Confidence,
			Preview:      ws.Preview,
			Dependencies: ws.Dependencies,
		})
	}

	// Dependencies must reference ids present in the same plan.
	for _, step := range plan.Steps {
		for _, dep := range step.Dependencies {
			if !ids[dep] {
				return nil, errors.New(errors.PlanInvalid,
					fmt.Sprintf("step %s depends on unknown step %q", step.ID, dep), nil, nil)
			}
		}
	}
	return plan, nil
}

func decodeAction(w wireAction) (Action, error) {
	switch w.Type {
	case actionReplace:
		if w.From == "" {
			return nil, fmt.Errorf("replace action requires 'from'")
		}
		return ReplaceAction{From: w.From, To: w.To}, nil
	case actionExtract:
		if w.Pattern == "" || w.UtilityName == "" {
			return nil, fmt.Errorf("extract action requires 'pattern' and 'utilityName'")
		}
		return ExtractAction{Pattern: w.Pattern, UtilityName: w.UtilityName}, nil
	case actionTokenize:
		if w.Value == "" || w.TokenName == "" {
			return nil, fmt.Errorf("tokenize action requires 'value' and 'tokenName'")
		}
		return TokenizeAction{Value: w.Value, TokenName: w.TokenName}, nil
	case actionRemove:
		if w.ClassName == "" {
			return nil, fmt.Errorf("remove action requires 'className'")
		}
		return RemoveAction{ClassName: w.ClassName}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", w.Type)
	}
}
