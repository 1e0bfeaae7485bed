package schema

import (
	"regexp"
	"strconv"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// Load parses text as a draft-04 JSON Schema document, recognises and
// type-checks every recognised keyword, and returns the resulting
// AST plus any non-fatal warnings (currently: unresolvable absolute $ref
// targets). A SchemaMalformed error is returned, carrying the
// full message tree, on the first invariant violation that would prevent
// construction.
func Load(text []byte) (*Schema, []*Message, error) {
	val, err := jsonvalue.Parse(text)
	if err != nil {
		return nil, nil, &SchemaMalformed{Messages: []*Message{
			NewMessage("#", SeverityError, "parse_error", "document is not valid JSON: {err}", map[string]any{"err": err.Error()}),
		}}
	}

	if val.Kind() != jsonvalue.KindObject && val.Kind() != jsonvalue.KindBool {
		return nil, nil, &SchemaMalformed{Messages: []*Message{
			NewMessage("#", SeverityError, "not_schema_position", "top-level value must be a JSON object or boolean", nil),
		}}
	}

	c := &messageCollector{}
	root := buildSchema(val, c, "#", nil)
	if root != nil {
		root.root = root
		fixupRoot(root, root)
	}

	if c.hasErrors() || root == nil {
		return nil, nil, &SchemaMalformed{Messages: c.errorMessages()}
	}

	resolveReferences(root, c)

	return root, c.warningMessages(), nil
}

// fixupRoot walks the tree setting the root pointer on every node (buildSchema
// cannot know the root while still constructing it top-down through
// recursive calls that return values before the parent exists).
func fixupRoot(s, root *Schema) {
	if s == nil || s.Boolean != nil {
		return
	}
	s.root = root
	walkChildren(s, func(child *Schema) { fixupRoot(child, root) })
}

// buildSchema recursively parses a schema position (an object or boolean)
// into a Schema node, validating each recognised keyword's invariants
// in-line and recording any violation on c. Returns nil if val itself is not
// a valid schema position.
func buildSchema(val jsonvalue.Value, c *messageCollector, path string, parent *Schema) *Schema {
	if val.Kind() == jsonvalue.KindBool {
		b, _ := val.AsBool()
		return &Schema{Boolean: &b, parent: parent}
	}

	obj, ok := val.AsObject()
	if !ok {
		c.add(NewMessage(path, SeverityError, "not_schema_position", "value at {path} must be a JSON object or boolean", map[string]any{"path": path}))
		return nil
	}

	s := &Schema{raw: obj, parent: parent}

	if v, ok := obj.Get("id"); ok {
		if str, ok := v.AsString(); ok {
			s.ID = str
		}
	}
	if v, ok := obj.Get("$schema"); ok {
		if str, ok := v.AsString(); ok {
			s.Schema = str
		}
	}
	if v, ok := obj.Get("title"); ok {
		if str, ok := v.AsString(); ok {
			s.Title = &str
		}
	}
	if v, ok := obj.Get("description"); ok {
		if str, ok := v.AsString(); ok {
			s.Description = &str
		}
	}
	if v, ok := obj.Get("default"); ok {
		s.Default = &v
	}
	if v, ok := obj.Get("$ref"); ok {
		if str, ok := v.AsString(); ok {
			s.Ref = str
		}
	}

	loadType(s, obj, c, path)
	loadEnum(s, obj, c, path)
	loadNumericKeywords(s, obj, c, path)
	loadStringKeywords(s, obj, c, path)
	loadArrayKeywords(s, obj, c, path, parent)
	loadObjectKeywords(s, obj, c, path)
	loadDependencies(s, obj, c, path)
	loadComposition(s, obj, c, path)
	loadDefinitions(s, obj, c, path)

	return s
}

// loadDefinitions builds Schema nodes for the conventional "definitions" map.
// The keyword has no validation behaviour in draft-04; it exists purely so
// $ref has somewhere stable to point.
func loadDefinitions(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	v, ok := obj.Get("definitions")
	if !ok {
		return
	}
	defsObj, ok := v.AsObject()
	if !ok {
		c.add(NewMessage(pathAt(path, "definitions"), SeverityError, "definitions_invalid", "definitions must be an object", nil))
		return
	}
	s.Definitions = make(SchemaMap, defsObj.Len())
	for _, k := range defsObj.Keys() {
		dv, _ := defsObj.Get(k)
		child := buildSchema(dv, c, pathAt(path, "definitions", k), s)
		if child != nil {
			s.Definitions[k] = child
		}
	}
}

func loadType(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	v, ok := obj.Get("type")
	if !ok {
		return
	}
	var names []string
	switch v.Kind() {
	case jsonvalue.KindString:
		str, _ := v.AsString()
		names = []string{str}
	case jsonvalue.KindArray:
		arr, _ := v.AsArray()
		if len(arr) == 0 {
			c.add(NewMessage(pathAt(path, "type"), SeverityError, "type_empty", "type array must have at least one element", nil))
			return
		}
		seen := map[string]bool{}
		for _, item := range arr {
			str, ok := item.AsString()
			if !ok {
				c.add(NewMessage(pathAt(path, "type"), SeverityError, "type_invalid", "type array entries must be strings", nil))
				return
			}
			if seen[str] {
				c.add(NewMessage(pathAt(path, "type"), SeverityError, "type_duplicate", "type array entries must be pairwise distinct: {name}", map[string]any{"name": str}))
				return
			}
			seen[str] = true
			names = append(names, str)
		}
	default:
		c.add(NewMessage(pathAt(path, "type"), SeverityError, "type_invalid", "type must be a string or array of strings", nil))
		return
	}
	for _, name := range names {
		if !recognisedTypes[name] {
			c.add(NewMessage(pathAt(path, "type"), SeverityError, "type_unknown", "unrecognised type name {name}", map[string]any{"name": name}))
			return
		}
	}
	s.Type = names
}

func loadEnum(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	v, ok := obj.Get("enum")
	if !ok {
		return
	}
	arr, ok := v.AsArray()
	if !ok {
		c.add(NewMessage(pathAt(path, "enum"), SeverityError, "enum_invalid", "enum must be an array", nil))
		return
	}
	if len(arr) == 0 {
		c.add(NewMessage(pathAt(path, "enum"), SeverityError, "enum_empty", "enum must have at least one element", nil))
		return
	}
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if jsonvalue.Equal(arr[i], arr[j]) {
				c.add(NewMessage(pathAt(path, "enum"), SeverityError, "enum_duplicate", "enum elements at index {i} and {j} are equal", map[string]any{"i": i, "j": j}))
				return
			}
		}
	}
	s.Enum = arr
}

func loadNumericKeywords(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	if v, ok := obj.Get("multipleOf"); ok {
		r, ok := NewRatFromValue(v)
		if !ok {
			c.add(NewMessage(pathAt(path, "multipleOf"), SeverityError, "multiple_of_invalid", "multipleOf must be a number", nil))
		} else if r.Sign() <= 0 {
			c.add(NewMessage(pathAt(path, "multipleOf"), SeverityError, "multiple_of_non_positive", "multipleOf must be strictly greater than 0", nil))
		} else {
			s.MultipleOf = r
		}
	}

	if v, ok := obj.Get("maximum"); ok {
		if r, ok := NewRatFromValue(v); ok {
			s.Maximum = r
		} else {
			c.add(NewMessage(pathAt(path, "maximum"), SeverityError, "maximum_invalid", "maximum must be a number", nil))
		}
	}
	if v, ok := obj.Get("exclusiveMaximum"); ok {
		b, ok := v.AsBool()
		if !ok {
			c.add(NewMessage(pathAt(path, "exclusiveMaximum"), SeverityError, "exclusive_maximum_invalid", "exclusiveMaximum must be a boolean", nil))
		} else if s.Maximum == nil {
			c.add(NewMessage(pathAt(path, "exclusiveMaximum"), SeverityError, "exclusive_without_bound", "exclusiveMaximum present without maximum", nil))
		} else {
			s.ExclusiveMaximum = &b
		}
	}

	if v, ok := obj.Get("minimum"); ok {
		if r, ok := NewRatFromValue(v); ok {
			s.Minimum = r
		} else {
			c.add(NewMessage(pathAt(path, "minimum"), SeverityError, "minimum_invalid", "minimum must be a number", nil))
		}
	}
	if v, ok := obj.Get("exclusiveMinimum"); ok {
		b, ok := v.AsBool()
		if !ok {
			c.add(NewMessage(pathAt(path, "exclusiveMinimum"), SeverityError, "exclusive_minimum_invalid", "exclusiveMinimum must be a boolean", nil))
		} else if s.Minimum == nil {
			c.add(NewMessage(pathAt(path, "exclusiveMinimum"), SeverityError, "exclusive_without_bound", "exclusiveMinimum present without minimum", nil))
		} else {
			s.ExclusiveMinimum = &b
		}
	}
}

func loadNonNegativeInt(obj *jsonvalue.Object, key string, c *messageCollector, path string, out **int) {
	v, ok := obj.Get(key)
	if !ok {
		return
	}
	if !v.IsInteger() {
		c.add(NewMessage(pathAt(path, key), SeverityError, key+"_invalid", key+" must be a non-negative integer", nil))
		return
	}
	r, _ := v.AsNum()
	n := int(r.Num().Int64())
	if n < 0 {
		c.add(NewMessage(pathAt(path, key), SeverityError, key+"_negative", key+" must be non-negative", nil))
		return
	}
	*out = &n
}

func loadStringKeywords(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	loadNonNegativeInt(obj, "maxLength", c, path, &s.MaxLength)
	loadNonNegativeInt(obj, "minLength", c, path, &s.MinLength)

	if v, ok := obj.Get("pattern"); ok {
		str, ok := v.AsString()
		if !ok {
			c.add(NewMessage(pathAt(path, "pattern"), SeverityError, "pattern_invalid", "pattern must be a string", nil))
			return
		}
		re, err := regexp.Compile(str)
		if err != nil {
			c.add(NewMessage(pathAt(path, "pattern"), SeverityError, "pattern_compile_error", "pattern {pattern} failed to compile: {err}", map[string]any{"pattern": str, "err": err.Error()}))
			return
		}
		s.Pattern = &str
		s.compiledPattern = re
	}
}

func loadArrayKeywords(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string, parent *Schema) {
	loadNonNegativeInt(obj, "maxItems", c, path, &s.MaxItems)
	loadNonNegativeInt(obj, "minItems", c, path, &s.MinItems)

	if v, ok := obj.Get("uniqueItems"); ok {
		b, ok := v.AsBool()
		if !ok {
			c.add(NewMessage(pathAt(path, "uniqueItems"), SeverityError, "unique_items_invalid", "uniqueItems must be a boolean", nil))
		} else {
			s.UniqueItems = &b
		}
	}

	if v, ok := obj.Get("items"); ok {
		switch v.Kind() {
		case jsonvalue.KindArray:
			arr, _ := v.AsArray()
			tuple := make([]*Schema, 0, len(arr))
			for i, item := range arr {
				child := buildSchema(item, c, pathAt(path, "items", itoa(i)), s)
				if child != nil {
					tuple = append(tuple, child)
				}
			}
			s.Items = &ItemsConstraint{Tuple: tuple}
		default:
			child := buildSchema(v, c, pathAt(path, "items"), s)
			s.Items = &ItemsConstraint{Single: child}
		}
	}

	if v, ok := obj.Get("additionalItems"); ok {
		s.AdditionalItems = loadSchemaOrBool(v, c, pathAt(path, "additionalItems"), s)
	}
}

func loadSchemaOrBool(v jsonvalue.Value, c *messageCollector, path string, parent *Schema) *SchemaOrBool {
	if v.Kind() == jsonvalue.KindBool {
		b, _ := v.AsBool()
		return &SchemaOrBool{Bool: &b}
	}
	child := buildSchema(v, c, path, parent)
	return &SchemaOrBool{Schema: child}
}

func loadObjectKeywords(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	loadNonNegativeInt(obj, "maxProperties", c, path, &s.MaxProperties)
	loadNonNegativeInt(obj, "minProperties", c, path, &s.MinProperties)

	if v, ok := obj.Get("required"); ok {
		arr, ok := v.AsArray()
		if !ok {
			c.add(NewMessage(pathAt(path, "required"), SeverityError, "required_invalid", "required must be an array of strings", nil))
			return
		}
		if len(arr) == 0 {
			c.add(NewMessage(pathAt(path, "required"), SeverityError, "required_empty", "required must have at least one element", nil))
			return
		}
		seen := map[string]bool{}
		names := make([]string, 0, len(arr))
		for _, item := range arr {
			str, ok := item.AsString()
			if !ok {
				c.add(NewMessage(pathAt(path, "required"), SeverityError, "required_invalid", "required entries must be strings", nil))
				return
			}
			if seen[str] {
				c.add(NewMessage(pathAt(path, "required"), SeverityError, "required_duplicate", "required entry {name} is duplicated", map[string]any{"name": str}))
				return
			}
			seen[str] = true
			names = append(names, str)
		}
		s.Required = names
	}

	if v, ok := obj.Get("properties"); ok {
		propsObj, ok := v.AsObject()
		if !ok {
			c.add(NewMessage(pathAt(path, "properties"), SeverityError, "properties_invalid", "properties must be an object", nil))
			return
		}
		s.Properties = make(SchemaMap, propsObj.Len())
		for _, k := range propsObj.Keys() {
			pv, _ := propsObj.Get(k)
			child := buildSchema(pv, c, pathAt(path, "properties", k), s)
			if child != nil {
				s.Properties[k] = child
			}
		}
	}

	if v, ok := obj.Get("patternProperties"); ok {
		propsObj, ok := v.AsObject()
		if !ok {
			c.add(NewMessage(pathAt(path, "patternProperties"), SeverityError, "pattern_properties_invalid", "patternProperties must be an object", nil))
			return
		}
		s.PatternProperties = make(SchemaMap, propsObj.Len())
		s.compiledPatternProps = make(map[string]*regexp.Regexp, propsObj.Len())
		for _, k := range propsObj.Keys() {
			re, err := regexp.Compile(k)
			if err != nil {
				c.add(NewMessage(pathAt(path, "patternProperties"), SeverityError, "pattern_compile_error", "patternProperties key {pattern} failed to compile: {err}", map[string]any{"pattern": k, "err": err.Error()}))
				continue
			}
			pv, _ := propsObj.Get(k)
			child := buildSchema(pv, c, pathAt(path, "patternProperties", k), s)
			if child != nil {
				s.PatternProperties[k] = child
				s.compiledPatternProps[k] = re
			}
		}
	}

	if v, ok := obj.Get("additionalProperties"); ok {
		s.AdditionalProperties = loadSchemaOrBool(v, c, pathAt(path, "additionalProperties"), s)
	}
}

func loadDependencies(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	v, ok := obj.Get("dependencies")
	if !ok {
		return
	}
	depsObj, ok := v.AsObject()
	if !ok {
		c.add(NewMessage(pathAt(path, "dependencies"), SeverityError, "dependencies_invalid", "dependencies must be an object", nil))
		return
	}
	s.Dependencies = make(map[string]*Dependency, depsObj.Len())
	for _, k := range depsObj.Keys() {
		dv, _ := depsObj.Get(k)
		switch dv.Kind() {
		case jsonvalue.KindArray:
			arr, _ := dv.AsArray()
			if len(arr) == 0 {
				c.add(NewMessage(pathAt(path, "dependencies", k), SeverityError, "dependencies_empty", "property dependency list must have at least one element", nil))
				continue
			}
			seen := map[string]bool{}
			names := make([]string, 0, len(arr))
			ok := true
			for _, item := range arr {
				str, isStr := item.AsString()
				if !isStr || seen[str] {
					c.add(NewMessage(pathAt(path, "dependencies", k), SeverityError, "dependencies_invalid", "property dependency list entries must be unique strings", nil))
					ok = false
					break
				}
				seen[str] = true
				names = append(names, str)
			}
			if ok {
				s.Dependencies[k] = &Dependency{Properties: names}
			}
		case jsonvalue.KindObject, jsonvalue.KindBool:
			child := buildSchema(dv, c, pathAt(path, "dependencies", k), s)
			if child != nil {
				s.Dependencies[k] = &Dependency{Schema: child}
			}
		default:
			c.add(NewMessage(pathAt(path, "dependencies", k), SeverityError, "dependencies_invalid", "dependency must be a schema or a list of property names", nil))
		}
	}
}

func loadComposition(s *Schema, obj *jsonvalue.Object, c *messageCollector, path string) {
	loadSchemaArray := func(key string) []*Schema {
		v, ok := obj.Get(key)
		if !ok {
			return nil
		}
		arr, ok := v.AsArray()
		if !ok || len(arr) == 0 {
			c.add(NewMessage(pathAt(path, key), SeverityError, key+"_invalid", key+" must be a non-empty array of schemas", nil))
			return nil
		}
		out := make([]*Schema, 0, len(arr))
		for i, item := range arr {
			child := buildSchema(item, c, pathAt(path, key, itoa(i)), s)
			if child != nil {
				out = append(out, child)
			}
		}
		return out
	}
	s.AllOf = loadSchemaArray("allOf")
	s.AnyOf = loadSchemaArray("anyOf")
	s.OneOf = loadSchemaArray("oneOf")

	if v, ok := obj.Get("not"); ok {
		s.Not = buildSchema(v, c, pathAt(path, "not"), s)
	}
}

func itoa(i int) string { return strconv.Itoa(i) }

// walkChildren invokes fn on every direct Schema child of s (skipping nils),
// used by both fixupRoot and resolveReferences to avoid repeating the same
// traversal shape.
func walkChildren(s *Schema, fn func(*Schema)) {
	if s == nil || s.Boolean != nil {
		return
	}
	if s.Items != nil {
		if s.Items.Single != nil {
			fn(s.Items.Single)
		}
		for _, t := range s.Items.Tuple {
			fn(t)
		}
	}
	if s.AdditionalItems != nil && s.AdditionalItems.Schema != nil {
		fn(s.AdditionalItems.Schema)
	}
	for _, p := range s.Properties {
		fn(p)
	}
	for _, p := range s.PatternProperties {
		fn(p)
	}
	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		fn(s.AdditionalProperties.Schema)
	}
	for _, d := range s.Dependencies {
		if d.Schema != nil {
			fn(d.Schema)
		}
	}
	for _, sub := range s.AllOf {
		fn(sub)
	}
	for _, sub := range s.AnyOf {
		fn(sub)
	}
	for _, sub := range s.OneOf {
		fn(sub)
	}
	if s.Not != nil {
		fn(s.Not)
	}
	for _, d := range s.Definitions {
		fn(d)
	}
}
