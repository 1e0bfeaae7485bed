package schema

import "github.com/pwithnall/walbottle/jsonvalue"

// maxRefDepth bounds $ref-following recursion. A well-formed document never
// needs anywhere near this many hops; it exists purely to turn a schema that
// refs itself in a cycle into a bounded-but-wrong answer instead of a stack
// overflow.
const maxRefDepth = 64

// Apply evaluates instance against s, producing the full reason tree. This
// is the entry point CLI front-ends and the composition engine's
// validity-labelling step both use.
func (s *Schema) Apply(instance jsonvalue.Value) *EvaluationResult {
	return s.apply(instance, "", "#", 0)
}

func (s *Schema) apply(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if s == nil {
		return Valid(instancePath, schemaPath)
	}
	if s.Boolean != nil {
		if *s.Boolean {
			return Valid(instancePath, schemaPath)
		}
		return Invalid(instancePath, schemaPath, "false_schema", "the boolean schema \"false\" never matches", nil)
	}

	// Draft-04 "$ref" semantics: when present, it is the *only* keyword
	// applied at this node. Every sibling keyword (type, properties,
	// allOf, ...) is ignored, even if it was also parsed onto s.
	if s.Ref != "" {
		return s.evaluateRef(instance, instancePath, schemaPath, refDepth)
	}

	results := []*EvaluationResult{
		s.evaluateType(instance, instancePath, schemaPath),
		s.evaluateEnum(instance, instancePath, schemaPath),
		s.evaluateMultipleOf(instance, instancePath, schemaPath),
		s.evaluateMaximum(instance, instancePath, schemaPath),
		s.evaluateMinimum(instance, instancePath, schemaPath),
		s.evaluateLength(instance, instancePath, schemaPath),
		s.evaluatePattern(instance, instancePath, schemaPath),
		s.evaluateItems(instance, instancePath, schemaPath, refDepth),
		s.evaluateArraySize(instance, instancePath, schemaPath),
		s.evaluateUniqueItems(instance, instancePath, schemaPath),
		s.evaluateObjectSize(instance, instancePath, schemaPath),
		s.evaluateRequired(instance, instancePath, schemaPath),
		s.evaluateProperties(instance, instancePath, schemaPath, refDepth),
		s.evaluateDependencies(instance, instancePath, schemaPath, refDepth),
		s.evaluateAllOf(instance, instancePath, schemaPath, refDepth),
		s.evaluateAnyOf(instance, instancePath, schemaPath, refDepth),
		s.evaluateOneOf(instance, instancePath, schemaPath, refDepth),
		s.evaluateNot(instance, instancePath, schemaPath, refDepth),
	}

	return And(instancePath, schemaPath, results...)
}

func (s *Schema) evaluateRef(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if s.ResolvedRef == nil {
		// Permissive fallback: an unresolvable absolute $ref does not
		// constrain the instance.
		return Valid(instancePath, pathAt(schemaPath, "$ref"))
	}
	if refDepth >= maxRefDepth {
		return Valid(instancePath, pathAt(schemaPath, "$ref"))
	}
	return s.ResolvedRef.apply(instance, instancePath, pathAt(schemaPath, "$ref"), refDepth+1)
}
