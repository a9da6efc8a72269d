package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBool(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name       string
		expression string
		value      interface{}
		want       bool
	}{
		{"number comparison", "value >= 18", 21, true},
		{"number comparison false", "value >= 18", 12, false},
		{"string method", "value.startsWith('adm')", "admin", true},
		{"list size", "size(value) == 2", []interface{}{"a", "b"}, true},
		{"map field", "value.role == 'editor'", map[string]interface{}{"role": "editor"}, true},
		{"null", "value == null", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EvaluateBool(tt.expression, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateBool_NonBoolean(t *testing.T) {
	e := NewEvaluator()

	_, err := e.EvaluateBool("value + 1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected bool")
}

func TestEvaluate_CompileError(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate("value >=", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile expression")
}

func TestProgramCache(t *testing.T) {
	e := NewEvaluator()

	_, err := e.EvaluateBool("value == 1", 1)
	require.NoError(t, err)
	_, err = e.EvaluateBool("value == 1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, e.CacheSize())

	e.ClearCache()
	assert.Equal(t, 0, e.CacheSize())
}

func TestValidateExpression(t *testing.T) {
	e := NewEvaluator()

	assert.NoError(t, e.ValidateExpression("value > 3"))
	assert.NoError(t, e.ValidateExpression("value"))
	assert.Error(t, e.ValidateExpression("'text'"))
	assert.Error(t, e.ValidateExpression("value >"))
}
