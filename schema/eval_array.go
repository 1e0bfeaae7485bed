package schema

import "github.com/pwithnall/walbottle/jsonvalue"

func (s *Schema) evaluateItems(instance jsonvalue.Value, instancePath, schemaPath string, refDepth int) *EvaluationResult {
	if s.Items == nil {
		return Valid(instancePath, schemaPath)
	}
	arr, ok := instance.AsArray()
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "items"))
	}

	if !s.Items.IsTuple() {
		var results []*EvaluationResult
		for i, item := range arr {
			ip := instancePathAt(instancePath, itoa(i))
			results = append(results, s.Items.Single.apply(item, ip, pathAt(schemaPath, "items"), refDepth))
		}
		return And(instancePath, pathAt(schemaPath, "items"), results...)
	}

	var results []*EvaluationResult
	for i, item := range arr {
		ip := instancePathAt(instancePath, itoa(i))
		if i < len(s.Items.Tuple) {
			results = append(results, s.Items.Tuple[i].apply(item, ip, pathAt(schemaPath, "items", itoa(i)), refDepth))
			continue
		}
		sp := pathAt(schemaPath, "additionalItems")
		if s.AdditionalItems == nil {
			continue
		}
		if s.AdditionalItems.Schema != nil {
			results = append(results, s.AdditionalItems.Schema.apply(item, ip, sp, refDepth))
		} else if !s.AdditionalItems.Allows() {
			results = append(results, Invalid(ip, sp, "additional_items_forbidden",
				"array has more items than the tuple schema permits", nil))
		}
	}
	return And(instancePath, pathAt(schemaPath, "items"), results...)
}

func (s *Schema) evaluateArraySize(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.MaxItems == nil && s.MinItems == nil {
		return Valid(instancePath, schemaPath)
	}
	arr, ok := instance.AsArray()
	if !ok {
		return Valid(instancePath, schemaPath)
	}
	n := len(arr)
	if s.MaxItems != nil && n > *s.MaxItems {
		return Invalid(instancePath, pathAt(schemaPath, "maxItems"), "max_items_exceeded",
			"array has {n} items, more than the maximum of {max}", map[string]any{"n": n, "max": *s.MaxItems})
	}
	if s.MinItems != nil && n < *s.MinItems {
		return Invalid(instancePath, pathAt(schemaPath, "minItems"), "min_items_exceeded",
			"array has {n} items, fewer than the minimum of {min}", map[string]any{"n": n, "min": *s.MinItems})
	}
	return Valid(instancePath, schemaPath)
}

func (s *Schema) evaluateUniqueItems(instance jsonvalue.Value, instancePath, schemaPath string) *EvaluationResult {
	if s.UniqueItems == nil || !*s.UniqueItems {
		return Valid(instancePath, schemaPath)
	}
	arr, ok := instance.AsArray()
	if !ok {
		return Valid(instancePath, pathAt(schemaPath, "uniqueItems"))
	}
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if jsonvalue.Equal(arr[i], arr[j]) {
				return Invalid(instancePath, pathAt(schemaPath, "uniqueItems"), "items_not_unique",
					"array contains duplicate items", nil)
			}
		}
	}
	return Valid(instancePath, schemaPath)
}

// generateItems probes a tuple schema with two null-filled arrays, one
// element shorter and one element longer than the tuple. Single-schema items
// get no probes here; arrays built from the item schemas' own candidates come
// from generateArrayItems in the composition engine (compose.go).
func (s *Schema) generateItems() []jsonvalue.Value {
	if s.Items == nil || !s.Items.IsTuple() {
		return nil
	}
	// An array one element shorter than the tuple (additionalItems never
	// triggers) and one element longer (additionalItems does trigger).
	short := make([]jsonvalue.Value, 0, len(s.Items.Tuple))
	for i := 0; i < len(s.Items.Tuple)-1 && i >= 0; i++ {
		short = append(short, jsonvalue.Null())
	}
	long := make([]jsonvalue.Value, 0, len(s.Items.Tuple)+1)
	for i := 0; i < len(s.Items.Tuple)+1; i++ {
		long = append(long, jsonvalue.Null())
	}
	return []jsonvalue.Value{jsonvalue.Arr(short...), jsonvalue.Arr(long...)}
}

func (s *Schema) generateArraySize() []jsonvalue.Value {
	var out []jsonvalue.Value
	fill := func(n int) jsonvalue.Value {
		items := make([]jsonvalue.Value, n)
		for i := range items {
			items[i] = jsonvalue.Int(int64(i))
		}
		return jsonvalue.Arr(items...)
	}
	if s.MaxItems != nil {
		out = append(out, fill(*s.MaxItems), fill(*s.MaxItems+1))
	}
	if s.MinItems != nil {
		out = append(out, fill(*s.MinItems))
		if *s.MinItems > 0 {
			out = append(out, fill(*s.MinItems-1))
		}
	}
	return out
}

func (s *Schema) generateUniqueItems() []jsonvalue.Value {
	if s.UniqueItems == nil || !*s.UniqueItems {
		return nil
	}
	return []jsonvalue.Value{
		jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Int(2), jsonvalue.Int(3)),
		jsonvalue.Arr(jsonvalue.Int(1), jsonvalue.Int(1)),
	}
}
