package schema

import (
	"strings"
	"unicode/utf8"

	"github.com/pwithnall/walbottle/jsonvalue"
)

func (s *Schema) evaluateLength(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.MaxLength == nil && s.MinLength == nil {
		return Valid(instancePath, schemaPath)
	}
	str, ok := instance.AsString()
	if !ok {
		return Valid(instancePath, schemaPath)
	}
	n := utf8.RuneCountInString(str)
	if s.MaxLength != nil && n > *s.MaxLength {
		return Invalid(instancePath, pathAt(schemaPath, "maxLength"), "max_length_exceeded",
			"string has {n} code points, more than the maximum of {max}", map[string]any{"n": n, "max": *s.MaxLength})
	}
	if s.MinLength != nil && n < *s.MinLength {
		return Invalid(instancePath, pathAt(schemaPath, "minLength"), "min_length_exceeded",
			"string has {n} code points, fewer than the minimum of {min}", map[string]any{"n": n, "min": *s.MinLength})
	}
	return Valid(instancePath, schemaPath)
}

func (s *Schema) evaluatePattern(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.compiledPattern == nil {
		return Valid(instancePath, schemaPath)
	}
	str, ok := instance.AsString()
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "pattern"))
	}
	if !s.compiledPattern.MatchString(str) {
		return Invalid(instancePath, pathAt(schemaPath, "pattern"), "pattern_mismatch",
			"string does not match pattern {pattern}", map[string]any{"pattern": *s.Pattern})
	}
	return Valid(instancePath, pathAt(schemaPath, "pattern"))
}

// generateLength probes strings at and one above maxLength, and at and one
// below minLength, in both an ASCII filler and a multi-byte-glyph filler: code-point
// counting means "ééé" has length 3 even though it is 6 UTF-8 bytes, and a
// byte-counting bug only shows up on the multi-byte variant.
func (s *Schema) generateLength() []jsonvalue.Value {
	var out []jsonvalue.Value
	atLength := func(n int) {
		out = append(out, jsonvalue.Str(strings.Repeat("a", n)))
		out = append(out, jsonvalue.Str(strings.Repeat("é", n)))
	}
	if s.MaxLength != nil {
		atLength(*s.MaxLength)
		atLength(*s.MaxLength + 1)
	}
	if s.MinLength != nil {
		atLength(*s.MinLength)
		if *s.MinLength > 0 {
			atLength(*s.MinLength - 1)
		}
	}
	return out
}

// generatePattern probes one string that matches (the first match the
// pattern finds in a fixed seed, which may be empty for patterns that accept
// the empty string), the empty string, and a fixed literal that no
// schema-authored pattern should match. Patterns the seed cannot satisfy get
// their positive coverage from the type/enum generators instead.
func (s *Schema) generatePattern() []jsonvalue.Value {
	if s.Pattern == nil {
		return nil
	}
	return []jsonvalue.Value{
		jsonvalue.Str(s.compiledPattern.FindString(patternSeed)),
		jsonvalue.Str(""),
		jsonvalue.Str("\x00non-matching\x00"),
	}
}

// patternSeed is scanned for the first pattern match when synthesizing a
// positive probe; its mix of letters, digits and punctuation makes it a
// reasonable seed for most ECMA-262-ish patterns a schema author would
// actually write.
const patternSeed = "aA0 zZ9-_.@:/aA0zZ9"
