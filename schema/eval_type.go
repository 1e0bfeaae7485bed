package schema

import "github.com/pwithnall/walbottle/jsonvalue"

// allTypeNames lists the seven draft-04 type tags in a fixed order, used
// whenever a generator needs "one of every type" as a starting point.
var allTypeNames = []string{"null", "boolean", "integer", "number", "string", "array", "object"}

func matchesType(v jsonvalue.Value, typeName string) bool {
	switch typeName {
	case "null":
		return v.IsNull()
	case "boolean":
		return v.Kind() == jsonvalue.KindBool
	case "object":
		return v.Kind() == jsonvalue.KindObject
	case "array":
		return v.Kind() == jsonvalue.KindArray
	case "string":
		return v.Kind() == jsonvalue.KindString
	case "number":
		return v.Kind() == jsonvalue.KindInt || v.Kind() == jsonvalue.KindNum
	case "integer":
		return v.IsInteger()
	default:
		return false
	}
}

func (s *Schema) evaluateType(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if len(s.Type) == 0 {
		return Valid(instancePath, schemaPath)
	}
	for _, t := range s.Type {
		if matchesType(instance, t) {
			return Valid(instancePath, pathAt(schemaPath, "type"))
		}
	}
	return Invalid(instancePath, pathAt(schemaPath, "type"), "type_mismatch",
		"value does not have any of the required types: {types}", map[string]any{"types": s.Type})
}

// sampleOfType returns one small representative instance of the given
// draft-04 type tag, used both as a probe value and as filler when the
// composition engine needs a type-correct placeholder for an unconstrained
// position.
func sampleOfType(typeName string) jsonvalue.Value {
	switch typeName {
	case "null":
		return jsonvalue.Null()
	case "boolean":
		return jsonvalue.Bool(true)
	case "integer":
		return jsonvalue.Int(0)
	case "number":
		return jsonvalue.Num(0.5)
	case "string":
		return jsonvalue.Str("")
	case "array":
		return jsonvalue.Arr()
	case "object":
		return jsonvalue.Obj(jsonvalue.NewObject())
	default:
		return jsonvalue.Null()
	}
}

// generateType produces one valid-shaped probe per allowed type (or, with no
// type constraint, one of every type), plus one value of a disallowed type
// so the composition engine can exercise the negative case too: generators
// must probe both sides of every boundary.
func (s *Schema) generateType() []jsonvalue.Value {
	if len(s.Type) == 0 {
		out := make([]jsonvalue.Value, len(allTypeNames))
		for i, t := range allTypeNames {
			out[i] = sampleOfType(t)
		}
		return out
	}

	allowed := map[string]bool{}
	for _, t := range s.Type {
		allowed[t] = true
	}

	var out []jsonvalue.Value
	for _, t := range s.Type {
		out = append(out, sampleOfType(t))
	}
	for _, t := range allTypeNames {
		if !allowed[t] {
			out = append(out, sampleOfType(t))
			break
		}
	}
	return out
}
