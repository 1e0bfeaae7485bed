package jsonvalue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/jsonvalue"
)

func TestEqualNumericCrossType(t *testing.T) {
	assert.True(t, jsonvalue.Equal(jsonvalue.Int(1), jsonvalue.Num(1.0)))
	assert.False(t, jsonvalue.Equal(jsonvalue.Int(1), jsonvalue.Num(1.5)))
}

func TestEqualObjectIgnoresOrder(t *testing.T) {
	a := jsonvalue.NewObject()
	a.Set("x", jsonvalue.Int(1))
	a.Set("y", jsonvalue.Int(2))

	b := jsonvalue.NewObject()
	b.Set("y", jsonvalue.Int(2))
	b.Set("x", jsonvalue.Int(1))

	assert.True(t, jsonvalue.Equal(jsonvalue.Obj(a), jsonvalue.Obj(b)))
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := jsonvalue.NewObject()
	o.Set("b", jsonvalue.Int(1))
	o.Set("a", jsonvalue.Int(2))
	o.Set("b", jsonvalue.Int(3)) // update in place, must not reorder

	require.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(3), mustInt(t, v))
}

func TestCanonicalPreservesObjectOrder(t *testing.T) {
	o1 := jsonvalue.NewObject()
	o1.Set("b", jsonvalue.Int(1))
	o1.Set("a", jsonvalue.Int(2))

	o2 := jsonvalue.NewObject()
	o2.Set("a", jsonvalue.Int(2))
	o2.Set("b", jsonvalue.Int(1))

	assert.NotEqual(t, jsonvalue.Canonical(jsonvalue.Obj(o1)), jsonvalue.Canonical(jsonvalue.Obj(o2)))
}

func TestCanonicalDistinguishesZeroAndZeroPointZero(t *testing.T) {
	zero := jsonvalue.Int(0)
	zeroFloat := jsonvalue.Num(0.0)

	assert.True(t, jsonvalue.Equal(zero, zeroFloat))
	assert.NotEqual(t, jsonvalue.Canonical(zero), jsonvalue.Canonical(zeroFloat))
}

func TestParseRoundTripsObjectOrderAndNumberLexical(t *testing.T) {
	v, err := jsonvalue.Parse([]byte(`{"z": 1, "a": 5.000000}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a"}, obj.Keys())

	a, _ := obj.Get("a")
	assert.Equal(t, "5.000000", jsonvalue.Canonical(a))
}

func TestIsInteger(t *testing.T) {
	assert.True(t, jsonvalue.Int(5).IsInteger())
	assert.True(t, jsonvalue.Num(5.0).IsInteger())
	assert.False(t, jsonvalue.Num(5.5).IsInteger())
}

func mustInt(t *testing.T, v jsonvalue.Value) int64 {
	t.Helper()
	i, ok := v.AsInt()
	require.True(t, ok)
	return i.Int64()
}
