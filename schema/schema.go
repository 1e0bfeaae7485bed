package schema

import (
	"regexp"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// SchemaType holds the set of type tags a "type" keyword allows, preserving
// the order they were written in (used only for deterministic messages; the
// evaluator treats it as a set).
type SchemaType []string

// recognisedTypes are the seven draft-04 type tags.
var recognisedTypes = map[string]bool{
	"null": true, "boolean": true, "object": true, "array": true,
	"number": true, "string": true, "integer": true,
}

// ItemsConstraint is the draft-04 "items" shape: either a single schema
// applied to every array element, or an ordered tuple of schemas applied
// positionally.
type ItemsConstraint struct {
	Single *Schema
	Tuple  []*Schema
}

// IsTuple reports whether this is the tuple (list-of-schemas) form.
func (i *ItemsConstraint) IsTuple() bool { return i != nil && i.Tuple != nil }

// SchemaOrBool is the draft-04 shape shared by "additionalItems" and
// "additionalProperties": either a boolean or a schema.
type SchemaOrBool struct {
	Bool   *bool
	Schema *Schema
}

// Allows reports whether the constraint permits anything at all (true, or a
// schema that might match — the caller still has to apply Schema to know
// for sure).
func (s *SchemaOrBool) Allows() bool {
	if s == nil {
		return true
	}
	if s.Bool != nil {
		return *s.Bool
	}
	return true
}

// Dependency is one value of the draft-04 "dependencies" map: either a
// schema that must match the whole object (schema dependency), or a list of
// sibling property names that must also be present (property dependency).
type Dependency struct {
	Schema     *Schema
	Properties []string
}

// SchemaMap is a plain name -> Schema mapping (used for "properties" and
// "patternProperties"). Unlike jsonvalue.Object, key order here carries no
// semantic weight per JSON Schema itself; the composition engine imposes its
// own deterministic iteration order (sorted keys) when it needs one, so a
// plain map is enough.
type SchemaMap map[string]*Schema

// Schema is a parsed, validated draft-04 JSON Schema node. A
// node that is a bare boolean ("true"/"false" as top-level schema, which
// the loader accepts at the document root) has
// Boolean set and every other field zero.
type Schema struct {
	parent *Schema // enclosing schema node; nil for the document root.
	root   *Schema // the document root, set on every node during load.

	// raw is the original JSON object this node was parsed from, kept for
	// title/description/default access, extension passthrough and
	// self-hosting round-trips. Nil when Boolean is set.
	raw *jsonvalue.Object

	Boolean *bool

	ID     string
	Schema string

	Title       *string
	Description *string
	Default     *jsonvalue.Value

	Ref         string
	ResolvedRef *Schema
	refWarning  *Message // set when Ref could not be resolved (permissive fallback)

	Type SchemaType
	Enum []jsonvalue.Value

	MultipleOf       *Rat
	Maximum          *Rat
	ExclusiveMaximum *bool
	Minimum          *Rat
	ExclusiveMinimum *bool

	MaxLength *int
	MinLength *int
	Pattern   *string
	compiledPattern *regexp.Regexp

	Items           *ItemsConstraint
	AdditionalItems *SchemaOrBool
	MaxItems        *int
	MinItems        *int
	UniqueItems     *bool

	Properties           SchemaMap
	PatternProperties    SchemaMap
	compiledPatternProps map[string]*regexp.Regexp
	AdditionalProperties *SchemaOrBool
	MaxProperties        *int
	MinProperties        *int
	Required             []string
	Dependencies         map[string]*Dependency

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	// Definitions holds the conventional "definitions" map of reusable
	// subschemas. Draft-04 gives this keyword no validation behaviour of its
	// own, but $ref targets routinely point into it, so the loader must
	// still build and index real Schema nodes for it.
	Definitions SchemaMap
}

// Raw returns the original JSON object this schema node was parsed from, or
// nil for a boolean schema node.
func (s *Schema) Raw() *jsonvalue.Object { return s.raw }

// Root returns the document root schema node.
func (s *Schema) Root() *Schema {
	if s.root != nil {
		return s.root
	}
	return s
}
