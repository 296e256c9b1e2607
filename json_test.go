package goroots_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots"
)

func TestToJSON(t *testing.T) {
	s, err := goroots.ToJSON(goroots.F(1, 2))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"num","value":"1/2"}`, s)

	s, err = goroots.ToJSON(goroots.MustParse("x^2").Tree())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","value":"2"}}`, s)
}

func TestFromJSON_RoundTrip(t *testing.T) {
	for _, text := range []string{"x^2 - 2", "sin(x)/2 + pi", "exp(-x) - ln(x)", "abs(t - 1/3)"} {
		t.Run(text, func(t *testing.T) {
			f := goroots.MustParse(text)
			s, err := goroots.ToJSON(f.Tree())
			require.NoError(t, err)

			var data map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(s), &data))
			back, err := goroots.ExpressionFromJSON(data)
			require.NoError(t, err)

			assert.True(t, f.Tree().Equal(back.Tree()), "%s != %s", f, back)
			assert.Equal(t, f.Variable(), back.Variable())
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing type", `{"value":"1"}`},
		{"unknown type", `{"type":"matrix"}`},
		{"bad number", `{"type":"num","value":"one"}`},
		{"unknown constant", `{"type":"const","name":"tau"}`},
		{"unknown function", `{"type":"func","name":"gamma","arg":{"type":"sym","name":"x"}}`},
		{"terms not array", `{"type":"add","terms":{"type":"sym","name":"x"}}`},
		{"bad child", `{"type":"mul","factors":[{"type":"num","value":"2"},{"type":"sym"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.data), &data))
			_, err := goroots.FromJSON(data)
			assert.ErrorIs(t, err, goroots.ErrParse)
		})
	}
}

func TestExpressionFromJSON_TwoVariables(t *testing.T) {
	data := map[string]interface{}{
		"type": "add",
		"terms": []interface{}{
			map[string]interface{}{"type": "sym", "name": "x"},
			map[string]interface{}{"type": "sym", "name": "y"},
		},
	}
	_, err := goroots.ExpressionFromJSON(data)
	assert.ErrorIs(t, err, goroots.ErrParse)
	assert.Contains(t, err.Error(), "more than one variable")
}
