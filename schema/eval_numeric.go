package schema

import (
	"math/big"

	"github.com/pwithnall/walbottle/jsonvalue"
)

func numericValue(v jsonvalue.Value) (*big.Rat, bool) {
	return v.AsNum()
}

func (s *Schema) evaluateMultipleOf(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.MultipleOf == nil {
		return Valid(instancePath, schemaPath)
	}
	n, ok := numericValue(instance)
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "multipleOf"))
	}
	quotient := new(big.Rat).Quo(n, s.MultipleOf.Rat)
	if !quotient.IsInt() {
		return Invalid(instancePath, pathAt(schemaPath, "multipleOf"), "multiple_of_mismatch",
			"value is not a multiple of {divisor}", map[string]any{"divisor": FormatRat(s.MultipleOf)})
	}
	return Valid(instancePath, pathAt(schemaPath, "multipleOf"))
}

func (s *Schema) evaluateMaximum(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.Maximum == nil {
		return Valid(instancePath, schemaPath)
	}
	n, ok := numericValue(instance)
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "maximum"))
	}
	cmp := n.Cmp(s.Maximum.Rat)
	exclusive := s.ExclusiveMaximum != nil && *s.ExclusiveMaximum
	if cmp > 0 || (exclusive && cmp == 0) {
		return Invalid(instancePath, pathAt(schemaPath, "maximum"), "maximum_exceeded",
			"value exceeds maximum of {max}", map[string]any{"max": FormatRat(s.Maximum), "exclusive": exclusive})
	}
	return Valid(instancePath, pathAt(schemaPath, "maximum"))
}

func (s *Schema) evaluateMinimum(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.Minimum == nil {
		return Valid(instancePath, schemaPath)
	}
	n, ok := numericValue(instance)
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "minimum"))
	}
	cmp := n.Cmp(s.Minimum.Rat)
	exclusive := s.ExclusiveMinimum != nil && *s.ExclusiveMinimum
	if cmp < 0 || (exclusive && cmp == 0) {
		return Invalid(instancePath, pathAt(schemaPath, "minimum"), "minimum_exceeded",
			"value is below minimum of {min}", map[string]any{"min": FormatRat(s.Minimum), "exclusive": exclusive})
	}
	return Valid(instancePath, pathAt(schemaPath, "minimum"))
}

// generateMultipleOf probes both zero forms (0 is a multiple of anything
// nonzero), the divisor itself, a higher multiple, and an adjacent value one
// above the divisor, which is a non-multiple for any divisor greater than 1.
func (s *Schema) generateMultipleOf() []jsonvalue.Value {
	n := s.MultipleOf
	if n == nil {
		return nil
	}
	double := new(big.Rat).Add(n.Rat, n.Rat)
	adjacent := new(big.Rat).Add(n.Rat, big.NewRat(1, 1))
	return []jsonvalue.Value{
		jsonvalue.Int(0),
		jsonvalue.NumFromRat(new(big.Rat), "0.0"),
		ratValue(n.Rat),
		ratValue(double),
		ratValue(adjacent),
	}
}

// generateMaximum probes the boundary itself (in both integer and float
// lexical form when it is a whole number), one step below it, and one step
// above it, so both inclusive and exclusive maxima are exercised on each
// side.
func (s *Schema) generateMaximum() []jsonvalue.Value {
	if s.Maximum == nil {
		return nil
	}
	return boundaryProbes(s.Maximum.Rat)
}

// generateMinimum mirrors generateMaximum for the lower bound.
func (s *Schema) generateMinimum() []jsonvalue.Value {
	if s.Minimum == nil {
		return nil
	}
	return boundaryProbes(s.Minimum.Rat)
}

func boundaryProbes(bound *big.Rat) []jsonvalue.Value {
	one := big.NewRat(1, 1)
	below := new(big.Rat).Sub(bound, one)
	above := new(big.Rat).Add(bound, one)
	out := []jsonvalue.Value{
		ratValue(bound),
		ratValue(below),
		ratValue(above),
	}
	if bound.IsInt() {
		// The same boundary value in real-typed form ("5.0" alongside "5"):
		// distinct canonical texts, identical numeric behaviour.
		out = append(out, jsonvalue.NumFromRat(bound, bound.Num().String()+".0"))
	}
	return out
}

// ratValue renders an exact rational as the natural jsonvalue kind: Int when
// whole, Num otherwise.
func ratValue(r *big.Rat) jsonvalue.Value {
	if r.IsInt() {
		return jsonvalue.IntFromBig(r.Num())
	}
	return jsonvalue.NumFromRat(new(big.Rat).Set(r), "")
}
