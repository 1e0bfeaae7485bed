// Package jsonvalue implements the canonical in-memory JSON value model used
// throughout walbottle: a tagged variant over null, bool, integer, float,
// string, array and ordered object, with structural equality and a
// byte-stable canonical serialization used as a dedup key by the instance
// generator.
package jsonvalue

import (
	"math/big"
	"strconv"
)

// Kind identifies which alternative of the JSON value variant is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindNum
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindNum:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged JSON value. The zero Value is JSON null.
//
// Int and Num are kept distinct per the JSON-Schema type system: a value
// parsed from source text without a fractional part or exponent is Int, and
// one is not forced into Num merely because it happens to be mathematically
// whole. Num additionally stores the literal lexical form read from source
// text (when parsed), since the canonical serializer round-trips it rather
// than reformatting, which is what gives "0" and "0.0" their distinct
// canonical identities (see jsonvalue/canonical.go).
type Value struct {
	kind Kind

	b bool
	i *big.Int
	n *big.Rat
	s string
	a []Value
	o *Object

	// lexical preserves the literal numeric text as read from source JSON,
	// when known. Empty if the Value was constructed programmatically.
	lexical string
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a JSON integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: big.NewInt(i)}
}

// IntFromBig returns a JSON integer value from an arbitrary-precision integer.
func IntFromBig(i *big.Int) Value {
	return Value{kind: KindInt, i: new(big.Int).Set(i)}
}

// Num returns a JSON real-typed number value holding the shortest decimal
// that round-trips f, so Num(0.3) is exactly 3/10 rather than the nearest
// binary fraction. Non-finite f yields zero.
func Num(f float64) Value {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		r = new(big.Rat)
	}
	return Value{kind: KindNum, n: r}
}

// NumFromRat returns a JSON real-typed number value from an exact rational,
// optionally preserving the literal lexical form it was parsed from.
func NumFromRat(r *big.Rat, lexical string) Value {
	return Value{kind: KindNum, n: new(big.Rat).Set(r), lexical: lexical}
}

// Str returns a JSON string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Arr returns a JSON array value.
func Arr(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, a: cp}
}

// Obj returns a JSON object value from an already-ordered Object.
func Obj(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, o: o}
}

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null (including the zero Value).
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; ok is false if v is not a boolean.
func (v Value) AsBool() (b, ok bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns the integer payload as a *big.Int; ok is false if v is not
// an integer.
func (v Value) AsInt() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return v.i, true
}

// AsNum returns the numeric payload as an exact *big.Rat, for Num and Int
// alike; ok is false for any other Kind.
func (v Value) AsNum() (*big.Rat, bool) {
	switch v.kind {
	case KindInt:
		return new(big.Rat).SetInt(v.i), true
	case KindNum:
		return v.n, true
	default:
		return nil, false
	}
}

// AsString returns the string payload; ok is false if v is not a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns the array payload; ok is false if v is not an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.a, true
}

// AsObject returns the object payload; ok is false if v is not an object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.o, true
}

// IsInteger reports whether v is mathematically integral: true for Int
// always, and for Num when its rational value has no fractional part. This
// backs the "integer" type tag, which draft-04 treats as a refinement of
// "number" rather than a disjoint type.
func (v Value) IsInteger() bool {
	switch v.kind {
	case KindInt:
		return true
	case KindNum:
		return v.n.IsInt()
	default:
		return false
	}
}

// Equal reports structural equality per JSON-Schema semantics: numbers
// compare by mathematical value (so Int(1) == Num(1.0)), objects compare by
// key/value pairs irrespective of insertion order, arrays compare
// positionally, and all other kinds compare by payload.
func Equal(a, b Value) bool {
	an, aIsNum := a.AsNum()
	bn, bIsNum := b.AsNum()
	if aIsNum && bIsNum {
		return an.Cmp(bn) == 0
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.o.Len() != b.o.Len() {
			return false
		}
		for _, k := range a.o.Keys() {
			av, _ := a.o.Get(k)
			bv, ok := b.o.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Object is an insertion-ordered mapping from string keys to Values. Keys
// are unique; re-setting an existing key updates its value in place without
// moving it to the end, matching how JSON object literals are normally
// parsed and re-serialized.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set inserts or updates a key's value, preserving original insertion
// position on update.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes a key, if present.
func (o *Object) Delete(key string) {
	if _, exists := o.vals[key]; !exists {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Get looks up a key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether a key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Keys returns keys in insertion order. The caller must not mutate the
// returned slice.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Clone returns a new Object with the same keys and values, preserving key
// order. The values themselves are not copied: nested arrays and objects are
// shared with o.
func (o *Object) Clone() *Object {
	cp := NewObject()
	for _, k := range o.keys {
		cp.Set(k, o.vals[k])
	}
	return cp
}

// WithSet returns a shallow clone of o with key set to v, leaving o
// unmodified. Used by the composition engine, which must not mutate a
// candidate object shared by other branches of the cross product.
func (o *Object) WithSet(key string, v Value) *Object {
	cp := o.Clone()
	cp.Set(key, v)
	return cp
}

// WithDeleted returns a shallow clone of o with key removed, leaving o
// unmodified.
func (o *Object) WithDeleted(key string) *Object {
	cp := o.Clone()
	cp.Delete(key)
	return cp
}
