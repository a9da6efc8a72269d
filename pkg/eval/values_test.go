package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{Undefined, "undefined"},
		{"x", "x"},
		{true, "true"},
		{3, "3"},
		{3.5, "3.5"},
		{1e21, "1e+21"},
		{math.Inf(1), "Infinity"},
		{[]any{1, "a", nil}, "1,a,"},
		{map[string]any{"a": 1}, "[object Object]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(tt.value))
	}
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.Equal(t, 1.0, ToNumber(true))
	assert.Equal(t, 0.0, ToNumber(" "))
	assert.Equal(t, 12.0, ToNumber(" 12 "))
	assert.Equal(t, 7.0, ToNumber(uint8(7)))
	assert.True(t, math.IsNaN(ToNumber("abc")))
	assert.True(t, math.IsNaN(ToNumber("NaN")))
	assert.True(t, math.IsNaN(ToNumber("inf")))
	assert.True(t, math.IsNaN(ToNumber(Undefined)))
	assert.True(t, math.IsNaN(ToNumber([]any{})))
}

func TestLooseEqual(t *testing.T) {
	assert.True(t, LooseEqual(nil, Undefined))
	assert.True(t, LooseEqual(1, 1.0))
	assert.True(t, LooseEqual("1", 1))
	assert.True(t, LooseEqual(false, 0))
	assert.True(t, LooseEqual([]any{1}, []any{1}))
	assert.False(t, LooseEqual("a", "b"))
	assert.False(t, LooseEqual(nil, false))
	assert.False(t, LooseEqual("x", math.NaN()))
}

func TestStrictEqual(t *testing.T) {
	assert.True(t, StrictEqual(int64(2), 2.0))
	assert.False(t, StrictEqual("2", 2))
	assert.True(t, StrictEqual(Undefined, Undefined))
	assert.False(t, StrictEqual(nil, Undefined))
	assert.True(t, StrictEqual("a", "a"))
}

func TestContains(t *testing.T) {
	found, err := Contains("abc", "b")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Contains("a1", 1)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Contains([]int{1, 2}, 2.0)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = Contains(map[string]any{"a": 1}, "a")
	var kindErr *TypeKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "mapping", kindErr.Kind)

	_, err = Contains(Undefined, "a")
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "undefined", kindErr.Kind)
}

func TestSequence(t *testing.T) {
	elems, ok := Sequence([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, elems)

	_, ok = Sequence("ab")
	assert.False(t, ok)
	_, ok = Sequence(map[string]any{})
	assert.False(t, ok)
	_, ok = Sequence(nil)
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	got, err := ToJSON(map[string]any{"b": 1, "a": []any{true, nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null],"b":1}`, got)

	_, err = ToJSON(func() {})
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "null", KindOf(nil))
	assert.Equal(t, "number", KindOf(uint(1)))
	assert.Equal(t, "sequence", KindOf([2]int{}))
	assert.Equal(t, "mapping", KindOf(map[string]int{}))
	assert.Equal(t, "function", KindOf(func() {}))
	assert.Equal(t, "chan int", KindOf(make(chan int)))
}
