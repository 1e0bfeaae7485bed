package schema

import (
	"fmt"

	"github.com/kaptinlin/go-i18n"
)

// EvaluationError is one reason an instance failed to satisfy a schema
// keyword, pointing at both the offending part of the instance and the part
// of the schema that rejected it. Follows the package's own error
// shape, trimmed to draft-04's keyword set.
type EvaluationError struct {
	InstancePath string
	SchemaPath   string
	Code         string
	Message      string
	Params       map[string]any
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s", e.InstancePath, substitute(e.Message, e.Params))
}

// Localize renders the error using an i18n bundle, falling back to Error()
// if localizer is nil.
func (e *EvaluationError) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.Error()
	}
	return fmt.Sprintf("%s: %s", e.InstancePath, localizer.Get(e.Code, i18n.Vars(e.Params)))
}

// EvaluationResult is one node of the evaluation reason tree: every
// keyword contributes a node, composite keywords
// (properties, items, allOf, anyOf, oneOf, not, $ref) nest their children's
// results under Sub so a caller can see exactly which branch failed and why.
type EvaluationResult struct {
	InstancePath string
	SchemaPath   string
	Valid        bool
	Errors       []*EvaluationError
	Sub          []*EvaluationResult
}

// Valid builds a passing result with no errors.
func Valid(instancePath, schemaPath string) *EvaluationResult {
	return &EvaluationResult{InstancePath: instancePath, SchemaPath: schemaPath, Valid: true}
}

// Invalid builds a failing result carrying one error.
func Invalid(instancePath, schemaPath, code, message string, params map[string]any) *EvaluationResult {
	return &EvaluationResult{
		InstancePath: instancePath,
		SchemaPath:   schemaPath,
		Valid:        false,
		Errors: []*EvaluationError{{
			InstancePath: instancePath,
			SchemaPath:   schemaPath,
			Code:         code,
			Message:      message,
			Params:       params,
		}},
	}
}

// And combines results, producing a conjoined result that is valid iff
// every argument is valid; each argument is kept as a Sub node so the reason
// tree records exactly which keyword(s) failed.
func And(instancePath, schemaPath string, results ...*EvaluationResult) *EvaluationResult {
	combined := &EvaluationResult{InstancePath: instancePath, SchemaPath: schemaPath, Valid: true}
	for _, r := range results {
		if r == nil {
			continue
		}
		combined.Sub = append(combined.Sub, r)
		if !r.Valid {
			combined.Valid = false
		}
	}
	return combined
}

// AllErrors flattens the reason tree into the list of leaf errors, in
// depth-first encounter order.
func (r *EvaluationResult) AllErrors() []*EvaluationError {
	if r == nil {
		return nil
	}
	var out []*EvaluationError
	out = append(out, r.Errors...)
	for _, sub := range r.Sub {
		out = append(out, sub.AllErrors()...)
	}
	return out
}
