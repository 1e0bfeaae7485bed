package schema

import (
	"regexp"
	"strings"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// additionalPropertiesSentinel is a reserved, generator-only property name,
// injected into probe objects to exercise "additionalProperties". It is
// deliberately unlike anything a real schema would declare under
// "properties" or match with a patternProperties pattern, so its presence in
// a probe normally routes through the additionalProperties keyword (a
// patternProperties pattern that does match the name takes it instead).
// Consumers of generated vectors must treat the name as reserved.
const additionalPropertiesSentinel = "additionalProperties-test-unique"

func (s *Schema) evaluateObjectSize(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.MaxProperties == nil && s.MinProperties == nil {
		return Valid(instancePath, schemaPath)
	}
	obj, ok := instance.AsObject()
	if !ok {
		return Valid(instancePath, schemaPath)
	}
	n := obj.Len()
	if s.MaxProperties != nil && n > *s.MaxProperties {
		return Invalid(instancePath, pathAt(schemaPath, "maxProperties"), "max_properties_exceeded",
			"object has {n} properties, more than the maximum of {max}", map[string]any{"n": n, "max": *s.MaxProperties})
	}
	if s.MinProperties != nil && n < *s.MinProperties {
		return Invalid(instancePath, pathAt(schemaPath, "minProperties"), "min_properties_exceeded",
			"object has {n} properties, fewer than the minimum of {min}", map[string]any{"n": n, "min": *s.MinProperties})
	}
	return Valid(instancePath, schemaPath)
}

func (s *Schema) evaluateRequired(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if len(s.Required) == 0 {
		return Valid(instancePath, schemaPath)
	}
	obj, ok := instance.AsObject()
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "required"))
	}
	for _, name := range s.Required {
		if !obj.Has(name) {
			return Invalid(instancePath, pathAt(schemaPath, "required"), "required_property_missing",
				"object is missing required property {name}", map[string]any{"name": name})
		}
	}
	return Valid(instancePath, pathAt(schemaPath, "required"))
}

// matchingPatternProperties returns the sub-schemas of s.PatternProperties
// whose compiled key regexp matches name.
func (s *Schema) matchingPatternProperties(name string) []*Schema {
	var out []*Schema
	for k, sub := range s.PatternProperties {
		if re := s.compiledPatternProps[k]; re != nil && re.MatchString(name) {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Schema) evaluateProperties(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if len(s.Properties) == 0 && len(s.PatternProperties) == 0 && s.AdditionalProperties == nil {
		return Valid(instancePath, schemaPath)
	}
	obj, ok := instance.AsObject()
	if !ok {
		return Valid(instancePath, schemaPath)
	}

	var results []*EvaluationResult
	for _, name := range obj.Keys() {
		value, _ := obj.Get(name)
		ip := instancePathAt(instancePath, name)

		matchedSomething := false
		if sub, ok := s.Properties[name]; ok {
			matchedSomething = true
			results = append(results, sub.apply(value, ip, pathAt(schemaPath, "properties", name), refDepth))
		}
		for _, sub := range s.matchingPatternProperties(name) {
			matchedSomething = true
			results = append(results, sub.apply(value, ip, pathAt(schemaPath, "patternProperties"), refDepth))
		}
		if matchedSomething || s.AdditionalProperties == nil {
			continue
		}
		if s.AdditionalProperties.Schema != nil {
			results = append(results, s.AdditionalProperties.Schema.apply(value, ip, pathAt(schemaPath, "additionalProperties"), refDepth))
		} else if !s.AdditionalProperties.Allows() {
			results = append(results, Invalid(ip, pathAt(schemaPath, "additionalProperties"), "additional_properties_forbidden",
				"property {name} is not permitted by properties/patternProperties and additionalProperties is false", map[string]any{"name": name}))
		}
	}
	return And(instancePath, schemaPath, results...)
}

func (s *Schema) evaluateDependencies(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if len(s.Dependencies) == 0 {
		return Valid(instancePath, schemaPath)
	}
	obj, ok := instance.AsObject()
	if !ok {
		return Valid(instancePath, schemaPath)
	}

	var results []*EvaluationResult
	for name, dep := range s.Dependencies {
		if !obj.Has(name) {
			continue
		}
		sp := pathAt(schemaPath, "dependencies", name)
		if dep.Schema != nil {
			results = append(results, dep.Schema.apply(instance, instancePath, sp, refDepth))
			continue
		}
		for _, required := range dep.Properties {
			if !obj.Has(required) {
				results = append(results, Invalid(instancePath, sp, "dependency_property_missing",
					"property {trigger} requires property {required} to also be present",
					map[string]any{"trigger": name, "required": required}))
			}
		}
	}
	return And(instancePath, schemaPath, results...)
}

func (s *Schema) generateObjectSize() []jsonvalue.Value {
	var out []jsonvalue.Value
	fill := func(n int) jsonvalue.Value {
		o := jsonvalue.NewObject()
		for i := 0; i < n; i++ {
			o.Set(itoa(i), jsonvalue.Null())
		}
		return jsonvalue.Obj(o)
	}
	if s.MaxProperties != nil {
		out = append(out, fill(*s.MaxProperties), fill(*s.MaxProperties+1))
	}
	if s.MinProperties != nil {
		out = append(out, fill(*s.MinProperties))
		if *s.MinProperties > 0 {
			out = append(out, fill(*s.MinProperties-1))
		}
	}
	return out
}

// generateRequired probes an object with every required property present
// and one with each, in turn, missing.
func (s *Schema) generateRequired() []jsonvalue.Value {
	if len(s.Required) == 0 {
		return nil
	}
	full := jsonvalue.NewObject()
	for _, name := range s.Required {
		full.Set(name, jsonvalue.Null())
	}
	out := []jsonvalue.Value{jsonvalue.Obj(full)}
	for _, missing := range s.Required {
		o := jsonvalue.NewObject()
		for _, name := range s.Required {
			if name != missing {
				o.Set(name, jsonvalue.Null())
			}
		}
		out = append(out, jsonvalue.Obj(o))
	}
	return out
}

// synthesizePatternKey derives a concrete property name matching re, for
// injecting a patternProperties-governed key into probe objects: first the
// leftmost match within the generator's fixed seed, then the pattern text
// itself with any outer anchors stripped (which covers anchored
// literal-prefix patterns like "^x-" that the seed cannot satisfy). ok is
// false for patterns neither strategy can satisfy; those get no injected
// key.
func synthesizePatternKey(re *regexp.Regexp, pattern string) (string, bool) {
	if m := re.FindString(patternSeed); m != "" {
		return m, true
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")
	for _, candidate := range []string{trimmed, trimmed + "a", "a" + trimmed} {
		if candidate != "" && re.MatchString(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// generateDependencies probes, for each dependency trigger, an object
// carrying just the trigger (dependency unmet unless the required
// properties/schema allow an empty remainder) and one carrying the trigger
// plus its declared property dependencies.
func (s *Schema) generateDependencies() []jsonvalue.Value {
	var out []jsonvalue.Value
	for trigger, dep := range s.Dependencies {
		onlyTrigger := jsonvalue.NewObject()
		onlyTrigger.Set(trigger, jsonvalue.Null())
		out = append(out, jsonvalue.Obj(onlyTrigger))

		if len(dep.Properties) == 0 {
			continue
		}
		satisfied := jsonvalue.NewObject()
		satisfied.Set(trigger, jsonvalue.Null())
		for _, p := range dep.Properties {
			satisfied.Set(p, jsonvalue.Null())
		}
		out = append(out, jsonvalue.Obj(satisfied))
	}
	return out
}
