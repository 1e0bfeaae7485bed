package schema

import "github.com/pwithnall/walbottle/jsonvalue"

func (s *Schema) evaluateAllOf(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if len(s.AllOf) == 0 {
		return Valid(instancePath, schemaPath)
	}
	var results []*EvaluationResult
	for i, sub := range s.AllOf {
		results = append(results, sub.apply(instance, instancePath, pathAt(schemaPath, "allOf", itoa(i)), refDepth))
	}
	return And(instancePath, pathAt(schemaPath, "allOf"), results...)
}

func (s *Schema) evaluateAnyOf(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if len(s.AnyOf) == 0 {
		return Valid(instancePath, schemaPath)
	}
	var subResults []*EvaluationResult
	for i, sub := range s.AnyOf {
		r := sub.apply(instance, instancePath, pathAt(schemaPath, "anyOf", itoa(i)), refDepth)
		subResults = append(subResults, r)
		if r.Valid {
			return &EvaluationResult{InstancePath: instancePath, SchemaPath: pathAt(schemaPath, "anyOf"), Valid: true, Sub: subResults}
		}
	}
	combined := Invalid(instancePath, pathAt(schemaPath, "anyOf"), "any_of_none_matched",
		"value does not satisfy any of the anyOf branches", nil)
	combined.Sub = subResults
	return combined
}

func (s *Schema) evaluateOneOf(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if len(s.OneOf) == 0 {
		return Valid(instancePath, schemaPath)
	}
	var subResults []*EvaluationResult
	matches := 0
	for i, sub := range s.OneOf {
		r := sub.apply(instance, instancePath, pathAt(schemaPath, "oneOf", itoa(i)), refDepth)
		subResults = append(subResults, r)
		if r.Valid {
			matches++
		}
	}
	sp := pathAt(schemaPath, "oneOf")
	if matches == 1 {
		return &EvaluationResult{InstancePath: instancePath, SchemaPath: sp, Valid: true, Sub: subResults}
	}
	code, msg := "one_of_none_matched", "value does not satisfy any of the oneOf branches"
	if matches > 1 {
		code, msg = "one_of_multiple_matched", "value satisfies more than one of the oneOf branches"
	}
	combined := Invalid(instancePath, sp, code, msg, map[string]any{"matches": matches})
	combined.Sub = subResults
	return combined
}

func (s *Schema) evaluateNot(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if s.Not == nil {
		return Valid(instancePath, schemaPath)
	}
	r := s.Not.apply(instance, instancePath, pathAt(schemaPath, "not"), refDepth)
	if r.Valid {
		return Invalid(instancePath, pathAt(schemaPath, "not"), "not_matched",
			"value satisfies the schema negated by \"not\"", nil)
	}
	return &EvaluationResult{InstancePath: instancePath, SchemaPath: pathAt(schemaPath, "not"), Valid: true, Sub: []*EvaluationResult{r}}
}
