package schema

import (
	"strings"
	"sync"

	"github.com/pwithnall/walbottle/metaschema"
)

// Bundled meta-schema base URIs. A $ref is resolved against
// these, or against the in-document JSON-pointer index, before falling back
// to the permissive "unresolvable absolute ref" path.
const (
	CoreMetaSchemaURL  = "http://json-schema.org/schema"
	HyperMetaSchemaURL = "http://json-schema.org/hyper-schema"

	MetaSchemaCore  = "core"
	MetaSchemaHyper = "hyper"
)

var (
	bundledOnce       sync.Once
	bundledLoading    bool
	bundledCoreRoot   *Schema
	bundledCoreIndex  map[string]*Schema
	bundledHyperRoot  *Schema
	bundledHyperIndex map[string]*Schema
)

// loadBundled parses the two embedded meta-schemas exactly once. Failures are
// swallowed here; any $ref into a meta-schema that failed to parse simply
// falls through to the permissive-fallback path below, same as any other
// unresolvable absolute ref.
//
// Loading the bundled documents re-enters this function: the hyper-schema's
// allOf refs the core schema by absolute URL, and resolveOne routes every
// non-"#" ref through here. sync.Once is not reentrant, so the nested call
// must not touch the Once again — bundledLoading marks the load in
// progress, and the nested resolveOne looks the ref up directly against
// bundledCoreIndex, which is already populated because core loads first.
// Only the loading goroutine's own nested calls observe the flag; the
// library is single-threaded by contract.
func loadBundled() {
	if bundledLoading {
		return
	}
	bundledOnce.Do(func() {
		bundledLoading = true
		defer func() { bundledLoading = false }()
		if s, _, err := Load(metaschema.Core()); err == nil {
			bundledCoreRoot = s
			bundledCoreIndex = indexByPath(s)
		}
		if s, _, err := Load(metaschema.Hyper()); err == nil {
			bundledHyperRoot = s
			bundledHyperIndex = indexByPath(s)
		}
	})
}

// LoadMetaSchema returns the parsed AST of one of the two bundled draft-04
// meta-schemas; which is MetaSchemaCore or MetaSchemaHyper.
func LoadMetaSchema(which string) (*Schema, error) {
	loadBundled()
	switch which {
	case MetaSchemaCore:
		if bundledCoreRoot == nil {
			return nil, ErrUnresolvableRef
		}
		return bundledCoreRoot, nil
	case MetaSchemaHyper:
		if bundledHyperRoot == nil {
			return nil, ErrUnresolvableRef
		}
		return bundledHyperRoot, nil
	default:
		return nil, ErrNotSchemaPosition
	}
}

// indexByPath walks a freshly built (but not yet ref-resolved) Schema tree,
// reconstructing the same JSON-pointer paths loadXKeywords assigned while
// building it, so that "#/..." refs can be looked up by simple map access.
func indexByPath(root *Schema) map[string]*Schema {
	idx := make(map[string]*Schema)
	var walk func(s *Schema, path string)
	walk = func(s *Schema, path string) {
		if s == nil {
			return
		}
		idx[path] = s
		if s.Boolean != nil {
			return
		}
		if s.Items != nil {
			if s.Items.Single != nil {
				walk(s.Items.Single, pathAt(path, "items"))
			}
			for i, t := range s.Items.Tuple {
				walk(t, pathAt(path, "items", itoa(i)))
			}
		}
		if s.AdditionalItems != nil && s.AdditionalItems.Schema != nil {
			walk(s.AdditionalItems.Schema, pathAt(path, "additionalItems"))
		}
		for k, p := range s.Properties {
			walk(p, pathAt(path, "properties", k))
		}
		for k, p := range s.PatternProperties {
			walk(p, pathAt(path, "patternProperties", k))
		}
		if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
			walk(s.AdditionalProperties.Schema, pathAt(path, "additionalProperties"))
		}
		for k, d := range s.Dependencies {
			if d.Schema != nil {
				walk(d.Schema, pathAt(path, "dependencies", k))
			}
		}
		for i, sub := range s.AllOf {
			walk(sub, pathAt(path, "allOf", itoa(i)))
		}
		for i, sub := range s.AnyOf {
			walk(sub, pathAt(path, "anyOf", itoa(i)))
		}
		for i, sub := range s.OneOf {
			walk(sub, pathAt(path, "oneOf", itoa(i)))
		}
		if s.Not != nil {
			walk(s.Not, pathAt(path, "not"))
		}
		for k, d := range s.Definitions {
			walk(d, pathAt(path, "definitions", k))
		}
	}
	walk(root, "#")
	return idx
}

// resolveReferences walks the whole tree resolving every node's Ref. Only
// in-document JSON-pointer fragments and the two bundled meta-schema URLs
// resolve to real Schema nodes; any other absolute URI resolves
// permissively, with a recorded warning, since network fetching of
// non-bundled $ref targets is out of scope.
func resolveReferences(root *Schema, c *messageCollector) {
	idx := indexByPath(root)
	byNode := make(map[*Schema]string, len(idx))
	for path, n := range idx {
		byNode[n] = path
	}

	seen := map[*Schema]bool{}
	var walk func(s *Schema)
	walk = func(s *Schema) {
		if s == nil || s.Boolean != nil || seen[s] {
			return
		}
		seen[s] = true
		if s.Ref != "" {
			resolveOne(s, byNode[s], idx, c)
		}
		walkChildren(s, walk)
	}
	walk(root)
}

func resolveOne(s *Schema, path string, idx map[string]*Schema, c *messageCollector) {
	ref := s.Ref

	if strings.HasPrefix(ref, "#") {
		if target, ok := idx[ref]; ok {
			s.ResolvedRef = target
			return
		}
		s.refWarning = NewMessage(pathAt(path, "$ref"), SeverityWarning, "ref_unresolved", "$ref {ref} does not resolve within the document", map[string]any{"ref": ref})
		return
	}

	loadBundled()
	for _, base := range []struct {
		url   string
		index map[string]*Schema
	}{
		{CoreMetaSchemaURL, bundledCoreIndex},
		{HyperMetaSchemaURL, bundledHyperIndex},
	} {
		rest, ok := stripBase(ref, base.url)
		if !ok {
			continue
		}
		if rest == "" {
			rest = "#"
		}
		if target, found := base.index[rest]; found {
			s.ResolvedRef = target
			return
		}
	}

	// Any other absolute URI: permissive fallback. The
	// schema still loads with a recorded warning; evaluation of this node
	// treats $ref as always satisfied and generation falls back to the
	// one-per-type samples.
	s.refWarning = NewMessage(pathAt(path, "$ref"), SeverityWarning, "ref_unresolved", "$ref {ref} is not a bundled meta-schema and was not fetched", map[string]any{"ref": ref})
	c.add(s.refWarning)
}

// stripBase reports whether ref targets base (with or without a trailing
// "#"), and returns the remaining in-document fragment (including its
// leading "#", or "" if there is none).
func stripBase(ref, base string) (string, bool) {
	if !strings.HasPrefix(ref, base) {
		return "", false
	}
	rest := ref[len(base):]
	rest = strings.TrimPrefix(rest, "#")
	if rest == "" {
		return "", true
	}
	if !strings.HasPrefix(rest, "/") {
		return "", false
	}
	return "#" + rest, true
}
