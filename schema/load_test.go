package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/jsonvalue"
	"github.com/pwithnall/walbottle/schema"
)

func TestLoadAcceptsBooleanSchemas(t *testing.T) {
	s, _, err := schema.Load([]byte(`true`))
	require.NoError(t, err)
	require.NotNil(t, s)

	s, _, err = schema.Load([]byte(`false`))
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestLoadRejectsNonSchemaPosition(t *testing.T) {
	_, _, err := schema.Load([]byte(`"not a schema"`))
	require.Error(t, err)
	var malformed *schema.SchemaMalformed
	require.ErrorAs(t, err, &malformed)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, _, err := schema.Load([]byte(`{`))
	require.Error(t, err)
}

func TestLoadRejectsEmptyEnum(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"enum": []}`))
	require.Error(t, err)
}

func TestLoadRejectsDuplicateEnum(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"enum": [1, 1.0]}`))
	require.Error(t, err)
}

func TestLoadRejectsUnknownType(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"type": "weird"}`))
	require.Error(t, err)
}

func TestLoadRejectsDuplicateRequired(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"required": ["a", "a"]}`))
	require.Error(t, err)
}

func TestLoadRejectsEmptyRequired(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"required": []}`))
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveMultipleOf(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"multipleOf": 0}`))
	require.Error(t, err)

	_, _, err = schema.Load([]byte(`{"multipleOf": -2}`))
	require.Error(t, err)
}

func TestLoadRejectsNegativeMaxLength(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"maxLength": -1}`))
	require.Error(t, err)
}

func TestLoadRejectsInvalidPattern(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"pattern": "("}`))
	require.Error(t, err)

	_, _, err = schema.Load([]byte(`{"pattern": "++"}`))
	require.Error(t, err)
}

func TestLoadRejectsDuplicateNullEnum(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"enum": [null, null]}`))
	require.Error(t, err)
}

func TestLoadRejectsFancifulTypeName(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"type": "promise"}`))
	require.Error(t, err)
}

func TestLoadAttachesSpecSectionToMessages(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"enum": []}`))
	require.Error(t, err)
	var malformed *schema.SchemaMalformed
	require.ErrorAs(t, err, &malformed)
	require.NotEmpty(t, malformed.Messages)
	assert.Equal(t, "5.5.1", malformed.Messages[0].SpecSection)
}

func TestLoadParsesDefinitionsAsRealSchemaNodes(t *testing.T) {
	s, _, err := schema.Load([]byte(`{
		"definitions": {"pos": {"type": "integer", "minimum": 0}},
		"properties": {"x": {"$ref": "#/definitions/pos"}}
	}`))
	require.NoError(t, err)

	x, ok := s.Properties["x"]
	require.True(t, ok)
	require.NotNil(t, x.ResolvedRef)
	assert.Equal(t, schema.SchemaType{"integer"}, x.ResolvedRef.Type)
}

func TestLoadUnresolvableAbsoluteRefIsAWarningNotAFailure(t *testing.T) {
	s, warnings, err := schema.Load([]byte(`{"properties": {"x": {"$ref": "https://example.com/nope.json"}}}`))
	require.NoError(t, err)
	require.NotEmpty(t, warnings)

	x := s.Properties["x"]
	require.Nil(t, x.ResolvedRef)

	// Permissive fallback: evaluation of the unresolved ref never rejects,
	// whatever instance it's handed.
	result := x.Apply(jsonvalue.Str("anything"))
	assert.True(t, result.Valid)
}

func TestLoadRejectsExclusiveWithoutBound(t *testing.T) {
	_, _, err := schema.Load([]byte(`{"exclusiveMaximum": true}`))
	require.Error(t, err)
}

func TestLoadIsDeterministic(t *testing.T) {
	text := []byte(`{"type": "object", "properties": {"b": {}, "a": {}}}`)
	s1, _, err := schema.Load(text)
	require.NoError(t, err)
	s2, _, err := schema.Load(text)
	require.NoError(t, err)
	assert.Equal(t,
		jsonvalue.Canonical(jsonvalue.Obj(s1.Raw())),
		jsonvalue.Canonical(jsonvalue.Obj(s2.Raw())))
}

func TestLoadMetaSchemaBundledResources(t *testing.T) {
	core, err := schema.LoadMetaSchema(schema.MetaSchemaCore)
	require.NoError(t, err)
	require.NotNil(t, core)

	hyper, err := schema.LoadMetaSchema(schema.MetaSchemaHyper)
	require.NoError(t, err)
	require.NotNil(t, hyper)

	_, err = schema.LoadMetaSchema("nonsense")
	require.Error(t, err)
}
