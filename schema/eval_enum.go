package schema

import "github.com/pwithnall/walbottle/jsonvalue"

func (s *Schema) evaluateEnum(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if len(s.Enum) == 0 {
		return Valid(instancePath, schemaPath)
	}
	for _, candidate := range s.Enum {
		if jsonvalue.Equal(instance, candidate) {
			return Valid(instancePath, pathAt(schemaPath, "enum"))
		}
	}
	return Invalid(instancePath, pathAt(schemaPath, "enum"), "enum_mismatch",
		"value is not one of the enumerated values", nil)
}

// generateEnum probes every declared enum member (all necessarily valid) and
// one value guaranteed not to appear in the enum (invalid): an array whose
// elements are all the enum members, which can never equal any single member
// since that member would have to contain itself.
func (s *Schema) generateEnum() []jsonvalue.Value {
	if len(s.Enum) == 0 {
		return nil
	}
	out := make([]jsonvalue.Value, 0, len(s.Enum)+1)
	out = append(out, s.Enum...)
	out = append(out, jsonvalue.Arr(s.Enum...))
	return out
}
