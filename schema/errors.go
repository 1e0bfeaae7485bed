package schema

import "errors"

// Sentinel errors returned directly (not wrapped in a SchemaMalformed
// message tree) by LoadMetaSchema, which has no per-keyword path to attach
// a Message to. Every other loader failure mode is reported as a
// SchemaMalformed carrying a []*Message (see messages.go); match those by
// Message.Code via SchemaMalformed.HasOnly rather than by sentinel, since a
// single malformed document can fail several keywords' checks at once.
var (
	// ErrNotSchemaPosition is returned by LoadMetaSchema when its argument
	// names neither MetaSchemaCore nor MetaSchemaHyper.
	ErrNotSchemaPosition = errors.New("walbottle: value is not a valid schema position (must be an object or boolean)")

	// ErrUnresolvableRef is returned by LoadMetaSchema when the requested
	// bundled meta-schema did not load. Load never returns it: a $ref in a
	// document to an absolute URI that is not a bundled meta-schema is
	// recorded as a warning Message (code "ref_unresolved") and the schema
	// node evaluates permissively.
	ErrUnresolvableRef = errors.New("walbottle: $ref does not resolve to a bundled or in-document schema")
)
