package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/jsonvalue"
	"github.com/pwithnall/walbottle/schema"
)

func TestGenerateLabelsValidityViaEvaluator(t *testing.T) {
	s := mustLoad(t, `{"type": "integer", "minimum": 0}`)
	instances := s.Generate(schema.GenerateOptions{})
	require.NotEmpty(t, instances)

	var sawValid, sawInvalid bool
	for _, inst := range instances {
		want := s.Apply(inst.Value).Valid
		require.Equal(t, want, inst.Valid, "label must match an independent Apply call for %v", inst.Value)
		if inst.Valid {
			sawValid = true
		} else {
			sawInvalid = true
		}
	}
	assert.True(t, sawValid, "boundary probes should include at least one valid instance")
	assert.True(t, sawInvalid, "boundary probes should include at least one invalid instance")
}

func TestGenerateIgnoreValidAndIgnoreInvalid(t *testing.T) {
	s := mustLoad(t, `{"type": "integer", "minimum": 0}`)

	onlyInvalid := s.Generate(schema.GenerateOptions{IgnoreValid: true})
	require.NotEmpty(t, onlyInvalid)
	for _, inst := range onlyInvalid {
		assert.False(t, inst.Valid)
	}

	onlyValid := s.Generate(schema.GenerateOptions{IgnoreInvalid: true})
	require.NotEmpty(t, onlyValid)
	for _, inst := range onlyValid {
		assert.True(t, inst.Valid)
	}
}

func TestGenerateDeduplicatesCandidates(t *testing.T) {
	// The "integer" type probe and the minimum boundary probe both produce
	// 0, so the raw candidate pool collides before deduplication.
	s := mustLoad(t, `{"type": "integer", "minimum": 0}`)
	instances := s.Generate(schema.GenerateOptions{})

	seen := map[string]int{}
	for _, inst := range instances {
		seen[jsonvalue.Canonical(inst.Value)]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "canonical form %s must appear at most once", c)
	}
}

func TestGenerateRespectsMaxCandidates(t *testing.T) {
	s := mustLoad(t, `{
		"properties": {
			"a": {"enum": [1, 2, 3, 4]},
			"b": {"enum": [1, 2, 3, 4]},
			"c": {"enum": [1, 2, 3, 4]}
		}
	}`)
	instances := s.Generate(schema.GenerateOptions{MaxCandidates: 5})
	assert.LessOrEqual(t, len(instances), 5)
}

func TestGeneratePropertiesCrossProductVariesMultipleKeysAtOnce(t *testing.T) {
	s := mustLoad(t, `{
		"properties": {
			"a": {"enum": [1, 2]},
			"b": {"enum": ["x", "y"]}
		}
	}`)
	instances := s.Generate(schema.GenerateOptions{MaxCandidates: 100})

	sawBothSet := false
	for _, inst := range instances {
		obj, ok := inst.Value.AsObject()
		if !ok {
			continue
		}
		if obj.Has("a") && obj.Has("b") {
			sawBothSet = true
			break
		}
	}
	assert.True(t, sawBothSet, "cross product must produce at least one instance with both properties present")
}

func TestGenerateArrayTupleCrossProduct(t *testing.T) {
	s := mustLoad(t, `{"items": [{"enum": [1, 2]}, {"enum": ["x", "y"]}], "additionalItems": false}`)
	instances := s.Generate(schema.GenerateOptions{MaxCandidates: 100})

	combos := map[string]bool{}
	for _, inst := range instances {
		arr, ok := inst.Value.AsArray()
		if !ok || len(arr) != 2 {
			continue
		}
		combos[jsonvalue.Canonical(inst.Value)] = true
	}
	assert.GreaterOrEqual(t, len(combos), 2, "tuple cross product should vary more than one position")
}

func generatedByCanonical(instances []schema.GeneratedInstance) map[string]bool {
	out := make(map[string]bool, len(instances))
	for _, inst := range instances {
		out[jsonvalue.Canonical(inst.Value)] = inst.Valid
	}
	return out
}

func TestGenerateMultipleOfBoundaryProbes(t *testing.T) {
	s := mustLoad(t, `{"multipleOf": 5}`)
	got := generatedByCanonical(s.Generate(schema.GenerateOptions{}))

	valid, ok := got["0"]
	require.True(t, ok, "0 must be emitted")
	assert.True(t, valid)

	valid, ok = got["5"]
	require.True(t, ok, "the divisor itself must be emitted")
	assert.True(t, valid)

	valid, ok = got["6"]
	require.True(t, ok, "the adjacent non-multiple must be emitted")
	assert.False(t, valid)
}

func TestGenerateEmitsBothZeroForms(t *testing.T) {
	s := mustLoad(t, `{"multipleOf": 5}`)
	got := generatedByCanonical(s.Generate(schema.GenerateOptions{}))

	require.Contains(t, got, "0")
	require.Contains(t, got, "0.0")
	assert.True(t, got["0"])
	assert.True(t, got["0.0"])
}

func TestGenerateEnumEmitsEveryElementAsValid(t *testing.T) {
	s := mustLoad(t, `{"enum": [1, "hi", {"a": 0}]}`)
	got := generatedByCanonical(s.Generate(schema.GenerateOptions{}))

	for _, want := range []string{`1`, `"hi"`, `{"a":0}`} {
		valid, ok := got[want]
		require.True(t, ok, "enum element %s must be emitted", want)
		assert.True(t, valid, "enum element %s must be labelled valid", want)
	}
}

func TestGenerateInjectsAdditionalPropertiesSentinelKey(t *testing.T) {
	s := mustLoad(t, `{"additionalProperties": false}`)
	instances := s.Generate(schema.GenerateOptions{})

	found := false
	for _, inst := range instances {
		obj, ok := inst.Value.AsObject()
		if !ok || !obj.Has("additionalProperties-test-unique") {
			continue
		}
		found = true
		assert.False(t, inst.Valid, "an extra key must be rejected when additionalProperties is false")
	}
	assert.True(t, found, "a probe object carrying the reserved extra key must be emitted")
}

func TestGenerateInjectsPatternPropertiesKey(t *testing.T) {
	s := mustLoad(t, `{"patternProperties": {"^x-": {"type": "string"}}}`)
	instances := s.Generate(schema.GenerateOptions{MaxCandidates: 200})

	found := false
	for _, inst := range instances {
		obj, ok := inst.Value.AsObject()
		if !ok {
			continue
		}
		for _, k := range obj.Keys() {
			if len(k) >= 2 && k[:2] == "x-" {
				found = true
			}
		}
	}
	assert.True(t, found, "a probe object with a key matching the pattern must be emitted")
}

func TestGenerateUnconstrainedSchemaFallsBackToAnyType(t *testing.T) {
	s := mustLoad(t, `{}`)
	instances := s.Generate(schema.GenerateOptions{})
	assert.NotEmpty(t, instances)
	for _, inst := range instances {
		assert.True(t, inst.Valid, "an unconstrained schema matches everything")
	}
}

func TestGenerateFalseSchemaHasNoValidInstances(t *testing.T) {
	s := mustLoad(t, `false`)
	instances := s.Generate(schema.GenerateOptions{})
	require.NotEmpty(t, instances)
	for _, inst := range instances {
		assert.False(t, inst.Valid)
	}
}
