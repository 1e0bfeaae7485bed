package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/jsonvalue"
	"github.com/pwithnall/walbottle/schema"
)

func mustLoad(t *testing.T, text string) *schema.Schema {
	t.Helper()
	s, _, err := schema.Load([]byte(text))
	require.NoError(t, err)
	return s
}

func TestApplyType(t *testing.T) {
	s := mustLoad(t, `{"type": "integer"}`)
	assert.True(t, s.Apply(jsonvalue.Int(3)).Valid)
	assert.False(t, s.Apply(jsonvalue.Str("3")).Valid)
	assert.False(t, s.Apply(jsonvalue.Num(3.5)).Valid)
}

func TestApplyIntegerAcceptsWholeNumber(t *testing.T) {
	s := mustLoad(t, `{"type": "integer"}`)
	assert.True(t, s.Apply(jsonvalue.Num(3.0)).Valid)
}

func TestApplyEnum(t *testing.T) {
	s := mustLoad(t, `{"enum": [1, "two", null]}`)
	assert.True(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.True(t, s.Apply(jsonvalue.Str("two")).Valid)
	assert.True(t, s.Apply(jsonvalue.Null()).Valid)
	assert.False(t, s.Apply(jsonvalue.Str("three")).Valid)
}

func TestApplyMultipleOfExactRational(t *testing.T) {
	s := mustLoad(t, `{"multipleOf": 0.1}`)
	assert.True(t, s.Apply(jsonvalue.Num(0.3)).Valid)
	assert.False(t, s.Apply(jsonvalue.Num(0.25)).Valid)
}

func TestApplyExclusiveMaximum(t *testing.T) {
	s := mustLoad(t, `{"maximum": 10, "exclusiveMaximum": true}`)
	assert.False(t, s.Apply(jsonvalue.Int(10)).Valid)
	assert.True(t, s.Apply(jsonvalue.Int(9)).Valid)
}

func TestApplyInclusiveMaximum(t *testing.T) {
	s := mustLoad(t, `{"maximum": 10}`)
	assert.True(t, s.Apply(jsonvalue.Int(10)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(11)).Valid)
}

func TestApplyStringLengthCountsCodePointsNotBytes(t *testing.T) {
	s := mustLoad(t, `{"maxLength": 1}`)
	// A single multi-byte code point ("é") must count as length 1, not 2.
	assert.True(t, s.Apply(jsonvalue.Str("é")).Valid)
	assert.False(t, s.Apply(jsonvalue.Str("ab")).Valid)
}

func TestApplyPattern(t *testing.T) {
	s := mustLoad(t, `{"pattern": "^a+$"}`)
	assert.True(t, s.Apply(jsonvalue.Str("aaa")).Valid)
	assert.False(t, s.Apply(jsonvalue.Str("aab")).Valid)
}

func TestApplyItemsTuple(t *testing.T) {
	s := mustLoad(t, `{"items": [{"type": "integer"}, {"type": "string"}], "additionalItems": false}`)
	assert.True(t, s.Apply(jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Str("x"))).Valid)
	assert.False(t, s.Apply(jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Str("x"), jsonvalue.Null())).Valid)
	assert.False(t, s.Apply(jsonvalue.Arr(jsonvalue.Str("x"), jsonvalue.Int(1))).Valid)
}

func TestApplyUniqueItems(t *testing.T) {
	s := mustLoad(t, `{"uniqueItems": true}`)
	assert.True(t, s.Apply(jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Int(2))).Valid)
	assert.False(t, s.Apply(jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Num(1.0))).Valid)
}

func TestApplyRequiredAndProperties(t *testing.T) {
	s := mustLoad(t, `{
		"required": ["a"],
		"properties": {"a": {"type": "integer"}},
		"additionalProperties": false
	}`)

	o := jsonvalue.NewObject()
	o.Set("a", jsonvalue.Int(1))
	assert.True(t, s.Apply(jsonvalue.Obj(o)).Valid)

	missing := jsonvalue.NewObject()
	assert.False(t, s.Apply(jsonvalue.Obj(missing)).Valid)

	extra := jsonvalue.NewObject()
	extra.Set("a", jsonvalue.Int(1))
	extra.Set("b", jsonvalue.Int(2))
	assert.False(t, s.Apply(jsonvalue.Obj(extra)).Valid)
}

func TestApplyPatternProperties(t *testing.T) {
	s := mustLoad(t, `{"patternProperties": {"^x-": {"type": "string"}}}`)
	o := jsonvalue.NewObject()
	o.Set("x-foo", jsonvalue.Str("ok"))
	assert.True(t, s.Apply(jsonvalue.Obj(o)).Valid)

	bad := jsonvalue.NewObject()
	bad.Set("x-foo", jsonvalue.Int(1))
	assert.False(t, s.Apply(jsonvalue.Obj(bad)).Valid)
}

func TestApplyDependenciesSchema(t *testing.T) {
	s := mustLoad(t, `{"dependencies": {"credit_card": {"required": ["billing_address"]}}}`)

	withCardOnly := jsonvalue.NewObject()
	withCardOnly.Set("credit_card", jsonvalue.Int(1))
	assert.False(t, s.Apply(jsonvalue.Obj(withCardOnly)).Valid)

	withBoth := jsonvalue.NewObject()
	withBoth.Set("credit_card", jsonvalue.Int(1))
	withBoth.Set("billing_address", jsonvalue.Str("x"))
	assert.True(t, s.Apply(jsonvalue.Obj(withBoth)).Valid)
}

func TestApplyDependenciesPropertyList(t *testing.T) {
	s := mustLoad(t, `{"dependencies": {"a": ["b", "c"]}}`)

	partial := jsonvalue.NewObject()
	partial.Set("a", jsonvalue.Int(1))
	partial.Set("b", jsonvalue.Int(1))
	assert.False(t, s.Apply(jsonvalue.Obj(partial)).Valid)

	full := jsonvalue.NewObject()
	full.Set("a", jsonvalue.Int(1))
	full.Set("b", jsonvalue.Int(1))
	full.Set("c", jsonvalue.Int(1))
	assert.True(t, s.Apply(jsonvalue.Obj(full)).Valid)
}

func TestApplyAllOf(t *testing.T) {
	s := mustLoad(t, `{"allOf": [{"type": "integer"}, {"minimum": 0}]}`)
	assert.True(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(-1)).Valid)
	assert.False(t, s.Apply(jsonvalue.Num(1.5)).Valid)
}

func TestApplyAnyOf(t *testing.T) {
	s := mustLoad(t, `{"anyOf": [{"type": "string"}, {"type": "integer"}]}`)
	assert.True(t, s.Apply(jsonvalue.Str("x")).Valid)
	assert.True(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.False(t, s.Apply(jsonvalue.Bool(true)).Valid)
}

func TestApplyOneOfExactlyOne(t *testing.T) {
	s := mustLoad(t, `{"oneOf": [{"maximum": 5}, {"minimum": 0}]}`)
	// 10 matches only "minimum": 0 -> exactly one.
	assert.True(t, s.Apply(jsonvalue.Int(10)).Valid)
	// 3 matches both branches -> oneOf fails.
	assert.False(t, s.Apply(jsonvalue.Int(3)).Valid)
	// -10 matches only "maximum": 5 -> exactly one.
	assert.True(t, s.Apply(jsonvalue.Int(-10)).Valid)
}

func TestApplyNot(t *testing.T) {
	s := mustLoad(t, `{"not": {"type": "string"}}`)
	assert.True(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.False(t, s.Apply(jsonvalue.Str("x")).Valid)
}

func TestApplyRefWithinDocument(t *testing.T) {
	s := mustLoad(t, `{
		"definitions": {"pos": {"type": "integer", "minimum": 0}},
		"$ref": "#/definitions/pos"
	}`)
	assert.True(t, s.Apply(jsonvalue.Int(3)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(-3)).Valid)
}

func TestApplyFalseBooleanSchemaNeverMatches(t *testing.T) {
	s := mustLoad(t, `false`)
	assert.False(t, s.Apply(jsonvalue.Null()).Valid)
}

func TestApplyTrueBooleanSchemaAlwaysMatches(t *testing.T) {
	s := mustLoad(t, `true`)
	assert.True(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.True(t, s.Apply(jsonvalue.Null()).Valid)
}

func mustParseValue(t *testing.T, text string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(text))
	require.NoError(t, err)
	return v
}

func TestApplyMultipleOfInteger(t *testing.T) {
	s := mustLoad(t, `{"multipleOf": 5}`)
	assert.True(t, s.Apply(jsonvalue.Int(0)).Valid)
	assert.True(t, s.Apply(jsonvalue.Int(5)).Valid)
	assert.True(t, s.Apply(mustParseValue(t, `10.0`)).Valid)
	assert.True(t, s.Apply(jsonvalue.Str("no")).Valid, "multipleOf does not apply to strings")
	assert.False(t, s.Apply(jsonvalue.Int(1)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(6)).Valid)
}

func TestApplyMultipleOfDecimal(t *testing.T) {
	s := mustLoad(t, `{"multipleOf": 1.1}`)
	assert.True(t, s.Apply(jsonvalue.Int(0)).Valid)
	assert.True(t, s.Apply(mustParseValue(t, `1.1`)).Valid)
	assert.True(t, s.Apply(mustParseValue(t, `2.2`)).Valid)
	// An integer-typed mixed multiple: 11 / 1.1 == 10 exactly.
	assert.True(t, s.Apply(jsonvalue.Int(11)).Valid)
	assert.False(t, s.Apply(mustParseValue(t, `1.2`)).Valid)
}

func TestApplyExclusiveMaximumInapplicableOnStrings(t *testing.T) {
	s := mustLoad(t, `{"maximum": 5, "exclusiveMaximum": true}`)
	assert.True(t, s.Apply(jsonvalue.Int(4)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(5)).Valid)
	assert.False(t, s.Apply(jsonvalue.Int(6)).Valid)
	assert.True(t, s.Apply(jsonvalue.Str("no")).Valid)
}

func TestApplyPatternIsUnanchored(t *testing.T) {
	s := mustLoad(t, `{"pattern": "[a-zA-Z0-9]+"}`)
	assert.True(t, s.Apply(jsonvalue.Str("hello")).Valid)
	assert.True(t, s.Apply(jsonvalue.Str("!hello")).Valid, "patterns match any substring")
	assert.False(t, s.Apply(jsonvalue.Str("")).Valid)
	assert.True(t, s.Apply(jsonvalue.Int(0)).Valid, "pattern does not apply to numbers")
}

func TestApplyTupleItemsWithEmptySchemas(t *testing.T) {
	s := mustLoad(t, `{"items": [{}, {}, {}], "additionalItems": false}`)
	assert.True(t, s.Apply(mustParseValue(t, `[]`)).Valid)
	assert.True(t, s.Apply(mustParseValue(t, `[1, 2, 3]`)).Valid)
	assert.True(t, s.Apply(mustParseValue(t, `[[1, 2, 3, 4], [5, 6, 7, 8]]`)).Valid)
	assert.False(t, s.Apply(mustParseValue(t, `[1, 2, 3, 4]`)).Valid)
}

func TestAllErrorsFlattensReasonTree(t *testing.T) {
	s := mustLoad(t, `{"allOf": [{"type": "string"}, {"minLength": 5}]}`)
	result := s.Apply(jsonvalue.Int(1))
	require.False(t, result.Valid)
	assert.NotEmpty(t, result.AllErrors())
}
