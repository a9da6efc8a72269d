package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"undefined", Undefined, true},
		{"empty string", "", true},
		{"empty sequence", []any{}, true},
		{"empty typed sequence", []string{}, true},
		{"empty mapping", map[string]any{}, true},
		{"null", nil, false},
		{"zero", 0, false},
		{"false", false, false},
		{"text", "x", false},
		{"sequence", []any{nil}, false},
		{"mapping", map[string]any{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmpty(tt.value))
		})
	}
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"empty", "undefined"}, r.Names())

	p, ok := r.Lookup(PredicateUndefined)
	require.True(t, ok)
	assert.True(t, p(Undefined))
	assert.False(t, p(nil))
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("empty", func(any) bool { return false }))

	p, ok := r.Lookup("empty")
	require.True(t, ok)
	assert.False(t, p(""))
}

func TestRegistry_RegisterRejectsNonCallable(t *testing.T) {
	r := NewRegistry()

	err := r.Register("nil", nil)
	var kindErr *TypeKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "null", kindErr.Kind)

	err = r.RegisterFunc("text", "not a function")
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "string", kindErr.Kind)
	assert.Contains(t, err.Error(), "cannot add test text")

	err = r.RegisterFunc("wrong", func(int) bool { return true })
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "function", kindErr.Kind)

	require.NoError(t, r.RegisterFunc("positive", func(v any) bool { return ToNumber(v) > 0 }))
	_, ok := r.Lookup("positive")
	assert.True(t, ok)
}

func TestRegistry_Clone(t *testing.T) {
	r := NewRegistry()
	c := r.Clone()
	require.NoError(t, c.Register("extra", func(any) bool { return true }))

	_, ok := r.Lookup("extra")
	assert.False(t, ok)
	_, ok = c.Lookup("extra")
	assert.True(t, ok)
}

func TestRegistry_RegisterCEL(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterCEL("adult", "value >= 18"))

	e := NewEvaluator(r)
	s := NewScope(map[string]any{"age": 20, "kid": 4})

	got, err := e.EvaluateTest("age is adult", s)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = e.EvaluateTest("kid is adult", s)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = e.EvaluateTest("$missing is adult", s)
	require.NoError(t, err)
	assert.False(t, got)

	assert.Error(t, r.RegisterCEL("broken", "value >="))
}

func TestCELPredicate_NonBooleanIsFalse(t *testing.T) {
	p, err := CELPredicate("value")
	require.NoError(t, err)
	assert.True(t, p(true))
	assert.False(t, p("text"))
}
