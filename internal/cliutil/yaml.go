package cliutil

import (
	"fmt"
	"math/big"

	"github.com/goccy/go-yaml"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// DecodeYAML parses YAML source directly into a jsonvalue.Value, so schema
// and instance files can be authored in YAML without the core ever seeing
// anything but its own value model. yaml.UseOrderedMap keeps mapping keys in
// document order (goccy/go-yaml otherwise decodes into plain
// map[string]interface{}, which loses the order jsonvalue.Object requires),
// so this bypasses the lossy JSON-bytes round trip a generic YAML-to-JSON
// transcoder would need.
func DecodeYAML(data []byte) (jsonvalue.Value, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return jsonvalue.Null(), fmt.Errorf("parse yaml: %w", err)
	}
	return fromYAML(v)
}

func fromYAML(v any) (jsonvalue.Value, error) {
	switch val := v.(type) {
	case nil:
		return jsonvalue.Null(), nil
	case bool:
		return jsonvalue.Bool(val), nil
	case string:
		return jsonvalue.Str(val), nil
	case int:
		return jsonvalue.Int(int64(val)), nil
	case int64:
		return jsonvalue.Int(val), nil
	case uint64:
		return jsonvalue.IntFromBig(new(big.Int).SetUint64(val)), nil
	case float64:
		return jsonvalue.Num(val), nil
	case []any:
		items := make([]jsonvalue.Value, len(val))
		for i, item := range val {
			cv, err := fromYAML(item)
			if err != nil {
				return jsonvalue.Null(), err
			}
			items[i] = cv
		}
		return jsonvalue.Arr(items...), nil
	case yaml.MapSlice:
		obj := jsonvalue.NewObject()
		for _, item := range val {
			key, ok := item.Key.(string)
			if !ok {
				return jsonvalue.Null(), fmt.Errorf("yaml: non-string mapping key %v", item.Key)
			}
			cv, err := fromYAML(item.Value)
			if err != nil {
				return jsonvalue.Null(), err
			}
			obj.Set(key, cv)
		}
		return jsonvalue.Obj(obj), nil
	default:
		return jsonvalue.Null(), fmt.Errorf("yaml: unsupported value type %T", v)
	}
}
