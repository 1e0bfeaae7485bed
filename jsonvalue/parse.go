package jsonvalue

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// Parse decodes JSON text into a Value tree. Object key order is preserved
// exactly as encountered on the wire — this is the one property
// encoding/json's map[string]any decoding cannot give us, and the reason
// jsontext's streaming decoder is used instead of stdlib for this step (see
// DESIGN.md).
func Parse(data []byte) (Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.ReadToken(); err == nil {
		return Value{}, fmt.Errorf("jsonvalue: trailing data after top-level value")
	}
	return v, nil
}

func parseValue(dec *jsontext.Decoder) (Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return Value{}, err
	}
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case 't', 'f':
		return Bool(tok.Bool()), nil
	case '"':
		return Str(tok.String()), nil
	case '0':
		return parseNumberToken(tok.String()), nil
	case '[':
		var items []Value
		for {
			peek := dec.PeekKind()
			if peek == ']' {
				_, _ = dec.ReadToken()
				break
			}
			item, err := parseValue(dec)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, a: items}, nil
	case '{':
		obj := NewObject()
		for {
			peek := dec.PeekKind()
			if peek == '}' {
				_, _ = dec.ReadToken()
				break
			}
			keyTok, err := dec.ReadToken()
			if err != nil {
				return Value{}, err
			}
			key := keyTok.String()
			val, err := parseValue(dec)
			if err != nil {
				return Value{}, err
			}
			obj.Set(key, val)
		}
		return Obj(obj), nil
	default:
		return Value{}, fmt.Errorf("jsonvalue: unexpected token kind %q", tok.Kind())
	}
}

// parseNumberToken decides Int vs Num from the literal lexical form: a
// number with no '.' and no exponent is Int; anything else is Num, with its
// exact value kept as a big.Rat and its original text preserved for
// canonical serialization.
func parseNumberToken(lexical string) Value {
	if !strings.ContainsAny(lexical, ".eE") {
		if i, ok := new(big.Int).SetString(lexical, 10); ok {
			return Value{kind: KindInt, i: i, lexical: lexical}
		}
	}
	r := new(big.Rat)
	if _, ok := r.SetString(lexical); !ok {
		// jsontext has already vetted the token as a JSON number, so this
		// only triggers for forms big.Rat cannot represent exactly; fall
		// back to the nearest float value.
		f, _ := strconv.ParseFloat(lexical, 64)
		return Num(f)
	}
	return Value{kind: KindNum, n: r, lexical: lexical}
}
