package schema

import (
	"sort"
	"time"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// defaultMaxCandidates bounds the size of a single Generate call when the
// caller doesn't set GenerateOptions.MaxCandidates.
const defaultMaxCandidates = 500

// GenerateOptions controls Schema.Generate, mirroring the generator CLI's
// flag surface: IgnoreValid/IgnoreInvalid filter the output by
// the evaluator's own verdict, MaxCandidates caps how many deduplicated
// instances a single call may produce. InvalidJSON is recorded here for
// parity with the CLI flag surface but is a no-op in the core: a malformed
// JSON *text* has no jsonvalue.Value representation, so emitting it is
// cmd/generate's job, not this package's (CLI concerns stay out of the core's
// boundary).
type GenerateOptions struct {
	IgnoreValid   bool
	IgnoreInvalid bool
	InvalidJSON   bool
	MaxCandidates int
	Telemetry     *Telemetry
}

// GeneratedInstance is one test vector produced by Generate, paired with the
// evaluator's verdict on it.
type GeneratedInstance struct {
	Value  jsonvalue.Value
	Valid  bool
	Result *EvaluationResult
}

// JSON returns the canonical JSON text of the instance — the byte-stable
// form callers compare, dedup and store as test vectors.
func (g GeneratedInstance) JSON() string { return jsonvalue.Canonical(g.Value) }

// Flags reports which of "valid"/"invalid" this instance carries; a small
// fluent accessor for callers (e.g. the generate CLI) that want to label
// output without reaching into Result themselves.
func (g GeneratedInstance) Flags() []string {
	if g.Valid {
		return []string{"valid"}
	}
	return []string{"invalid"}
}

// Generate produces the composition engine's bounded, deduplicated set of
// test-vector instances for s, each labelled valid or
// invalid by running the evaluator (Apply) over it.
func (s *Schema) Generate(opts GenerateOptions) []GeneratedInstance {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = defaultMaxCandidates
	}

	candidates := dedupCap(s.candidateValues(opts.MaxCandidates, "#", opts.Telemetry, 0), opts.MaxCandidates)

	out := make([]GeneratedInstance, 0, len(candidates))
	for _, v := range candidates {
		result := s.Apply(v)
		if result.Valid && opts.IgnoreValid {
			continue
		}
		if !result.Valid && opts.IgnoreInvalid {
			continue
		}
		out = append(out, GeneratedInstance{Value: v, Valid: result.Valid, Result: result})
	}
	return out
}

// maxGenerateRefDepth caps how many $ref hops generation follows. The
// bundled meta-schemas (and any schema with a recursive "definitions" entry)
// contain "$ref": "#" cycles; following a cycle past a couple of hops only
// re-derives values already in the pool, so deeper hops short-circuit to the
// unconstrained samples instead of recursing.
const maxGenerateRefDepth = 2

// candidateValues recursively gathers this schema node's probe values: every
// scalar keyword contributes its boundary candidates to one pooled set
// while object/array structural keywords build composite
// container values via a genuine bounded cross product over their
// sub-schemas' own candidate sets — that cross product is
// what lets a generated object or array actually satisfy more than one
// property/item constraint at once, instead of only ever varying one
// keyword at a time.
func (s *Schema) candidateValues(budget int, schemaPath string, tel *Telemetry, refDepth int) []jsonvalue.Value {
	start := time.Now()
	pool := s.candidateValuesUntimed(budget, schemaPath, tel, refDepth)
	if tel != nil {
		tel.record(schemaPath, time.Since(start), len(pool))
	}
	return pool
}

func (s *Schema) candidateValuesUntimed(budget int, schemaPath string, tel *Telemetry, refDepth int) []jsonvalue.Value {
	if s == nil {
		return []jsonvalue.Value{jsonvalue.Null()}
	}
	if s.Boolean != nil {
		if *s.Boolean {
			return anyTypeSamples()
		}
		return []jsonvalue.Value{jsonvalue.Null()}
	}

	// Mirrors Apply's "$ref" semantics: when present, the referent is the
	// only source of candidates, even if sibling keywords were also parsed
	// onto s.
	if s.Ref != "" {
		if s.ResolvedRef != nil && refDepth < maxGenerateRefDepth {
			return dedupCap(s.ResolvedRef.candidateValues(budget, pathAt(schemaPath, "$ref"), tel, refDepth+1), budget)
		}
		return anyTypeSamples()
	}

	var pool []jsonvalue.Value
	add := func(vs []jsonvalue.Value) { pool = append(pool, vs...) }

	add(s.generateType())
	add(s.generateEnum())
	add(s.generateMultipleOf())
	add(s.generateMaximum())
	add(s.generateMinimum())
	add(s.generateLength())
	add(s.generatePattern())
	add(s.generateUniqueItems())
	add(s.generateArraySize())
	add(s.generateObjectSize())
	add(s.generateRequired())
	add(s.generateDependencies())
	add(s.generateItems())
	add(s.generateProperties(budget, schemaPath, tel, refDepth))
	add(s.generateArrayItems(budget, schemaPath, tel, refDepth))

	childBudget := func(n int) int {
		if n <= 0 {
			return budget
		}
		if b := budget / n; b > 0 {
			return b
		}
		return 1
	}
	for i, sub := range s.AllOf {
		add(sub.candidateValues(childBudget(len(s.AllOf)), pathAt(schemaPath, "allOf", itoa(i)), tel, refDepth))
	}
	for i, sub := range s.AnyOf {
		add(sub.candidateValues(childBudget(len(s.AnyOf)), pathAt(schemaPath, "anyOf", itoa(i)), tel, refDepth))
	}
	for i, sub := range s.OneOf {
		add(sub.candidateValues(childBudget(len(s.OneOf)), pathAt(schemaPath, "oneOf", itoa(i)), tel, refDepth))
	}
	if s.Not != nil {
		add(s.Not.candidateValues(budget, pathAt(schemaPath, "not"), tel, refDepth))
	}

	if len(pool) == 0 {
		pool = anyTypeSamples()
	}

	return dedupCap(pool, budget)
}

func anyTypeSamples() []jsonvalue.Value {
	out := make([]jsonvalue.Value, len(allTypeNames))
	for i, t := range allTypeNames {
		out[i] = sampleOfType(t)
	}
	return out
}

// dedupCap removes canonical-form duplicates and truncates to at most cap
// elements, preserving encounter order.
func dedupCap(vs []jsonvalue.Value, cap int) []jsonvalue.Value {
	if cap <= 0 {
		cap = defaultMaxCandidates
	}
	seen := make(map[string]bool, len(vs))
	out := make([]jsonvalue.Value, 0, min(len(vs), cap))
	for _, v := range vs {
		c := jsonvalue.Canonical(v)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, v)
		if len(out) >= cap {
			break
		}
	}
	return out
}

// slotOption is one possible value (or, for object properties, deliberate
// absence) at one position of a cross-product build.
type slotOption struct {
	present bool
	value   jsonvalue.Value
}

// slot is one position (object property name, or array tuple index) being
// cross-multiplied against every other slot.
type slot struct {
	name    string
	options []slotOption
}

// generateProperties cross-multiplies each declared property's own
// candidate set (plus the option of leaving the property out entirely) into
// composite object instances, bounded by budget. Beyond the declared
// properties, two more slot families are injected: one synthesized key per
// patternProperties pattern (so pattern-governed keys actually occur in
// probes), and the reserved additionalPropertiesSentinel key whenever
// additionalProperties is present (a guaranteed-extra key, rejected when the
// keyword is false and schema-checked when it is a schema).
func (s *Schema) generateProperties(budget int, schemaPath string, tel *Telemetry, refDepth int) []jsonvalue.Value {
	if len(s.Properties) == 0 && len(s.PatternProperties) == 0 && s.AdditionalProperties == nil {
		return nil
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	patterns := make([]string, 0, len(s.PatternProperties))
	for p := range s.PatternProperties {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	slotCount := len(keys) + len(patterns)
	if s.AdditionalProperties != nil {
		slotCount++
	}
	perSlot := perSlotBudget(budget, slotCount)

	optionsFor := func(sub *Schema, path string) []slotOption {
		vals := dedupCap(sub.candidateValues(perSlot, path, tel, refDepth), perSlot)
		opts := make([]slotOption, 0, len(vals)+1)
		for _, v := range vals {
			opts = append(opts, slotOption{present: true, value: v})
		}
		return append(opts, slotOption{present: false})
	}

	slots := make([]slot, 0, slotCount)
	used := make(map[string]bool, slotCount)
	for _, k := range keys {
		used[k] = true
		slots = append(slots, slot{name: k, options: optionsFor(s.Properties[k], pathAt(schemaPath, "properties", k))})
	}
	for _, p := range patterns {
		key, ok := synthesizePatternKey(s.compiledPatternProps[p], p)
		if !ok || used[key] {
			continue
		}
		used[key] = true
		slots = append(slots, slot{name: key, options: optionsFor(s.PatternProperties[p], pathAt(schemaPath, "patternProperties", p))})
	}
	if s.AdditionalProperties != nil {
		var opts []slotOption
		if s.AdditionalProperties.Schema != nil {
			opts = optionsFor(s.AdditionalProperties.Schema, pathAt(schemaPath, "additionalProperties"))
		} else {
			opts = []slotOption{{present: true, value: jsonvalue.Null()}, {present: false}}
		}
		slots = append(slots, slot{name: additionalPropertiesSentinel, options: opts})
	}
	return crossObjects(slots, budget)
}

func crossObjects(slots []slot, budget int) []jsonvalue.Value {
	total := 1
	for _, sl := range slots {
		total *= max(len(sl.options), 1)
		if total > budget {
			total = budget
			break
		}
	}
	if total <= 0 {
		return nil
	}

	out := make([]jsonvalue.Value, 0, total)
	indices := make([]int, len(slots))
	for count := 0; count < total; count++ {
		o := jsonvalue.NewObject()
		for i, sl := range slots {
			if len(sl.options) == 0 {
				continue
			}
			opt := sl.options[indices[i]]
			if opt.present {
				o.Set(sl.name, opt.value)
			}
		}
		out = append(out, jsonvalue.Obj(o))

		for i := len(slots) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(slots[i].options) {
				break
			}
			indices[i] = 0
		}
	}
	return out
}

// perSlotBudget divides a node's candidate budget across its cross-product
// slots, never below 1 so every slot still gets at least one probe.
func perSlotBudget(budget, slots int) int {
	if slots <= 0 {
		return budget
	}
	if b := budget / slots; b > 0 {
		return b
	}
	return 1
}

// generateArrayItems cross-multiplies tuple-form items positionally, or
// builds a handful of varying-length arrays for single-schema items.
func (s *Schema) generateArrayItems(budget int, schemaPath string, tel *Telemetry, refDepth int) []jsonvalue.Value {
	if s.Items == nil {
		return nil
	}

	if s.Items.IsTuple() {
		n := len(s.Items.Tuple)
		perSlot := perSlotBudget(budget, n)
		slots := make([]slot, 0, n)
		for i, sub := range s.Items.Tuple {
			vals := dedupCap(sub.candidateValues(perSlot, pathAt(schemaPath, "items", itoa(i)), tel, refDepth), perSlot)
			if len(vals) == 0 {
				vals = []jsonvalue.Value{jsonvalue.Null()}
			}
			opts := make([]slotOption, len(vals))
			for j, v := range vals {
				opts[j] = slotOption{present: true, value: v}
			}
			slots = append(slots, slot{name: itoa(i), options: opts})
		}
		return crossArrays(slots, budget)
	}

	if s.Items.Single != nil {
		vals := dedupCap(s.Items.Single.candidateValues(budget, pathAt(schemaPath, "items"), tel, refDepth), budget)
		out := []jsonvalue.Value{jsonvalue.Arr()}
		for _, v := range vals {
			out = append(out, jsonvalue.Arr(v))
		}
		if len(vals) >= 2 {
			out = append(out, jsonvalue.Arr(vals[0], vals[1]))
		}
		return out
	}

	return nil
}

func crossArrays(slots []slot, budget int) []jsonvalue.Value {
	total := 1
	for _, sl := range slots {
		total *= max(len(sl.options), 1)
		if total > budget {
			total = budget
			break
		}
	}
	if total <= 0 {
		return nil
	}

	out := make([]jsonvalue.Value, 0, total)
	indices := make([]int, len(slots))
	for count := 0; count < total; count++ {
		items := make([]jsonvalue.Value, len(slots))
		for i, sl := range slots {
			if len(sl.options) == 0 {
				items[i] = jsonvalue.Null()
				continue
			}
			items[i] = sl.options[indices[i]].value
		}
		out = append(out, jsonvalue.Arr(items...))

		for i := len(slots) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(slots[i].options) {
				break
			}
			indices[i] = 0
		}
	}
	return out
}
