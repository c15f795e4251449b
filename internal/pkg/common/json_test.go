package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"name\": \"Soup\"}\n```",
			expected: `{"name": "Soup"}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"name\": \"Soup\"}\n```",
			expected: `{"name": "Soup"}`,
		},
		{
			name:     "fence with surrounding prose",
			input:    "Here is your recipe:\n```json\n{\"name\": \"Soup\"}\n```\nEnjoy!",
			expected: `{"name": "Soup"}`,
		},
		{
			name:     "no fence",
			input:    "  {\"name\": \"Soup\"}  ",
			expected: `{"name": "Soup"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := ExtractJSONObject(`Sure! {"a": {"b": 1}} hope that helps`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, obj)

	_, ok = ExtractJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject(`{"unterminated": {`)
	assert.False(t, ok)
}

func TestQuoteFractions(t *testing.T) {
	assert.Equal(t, `{"quantity": "1/2"}`, QuoteFractions(`{"quantity": 1/2}`))
	assert.Equal(t, `{"quantity": "1/2", "x": 1}`, QuoteFractions(`{"quantity": 1/2, "x": 1}`))
	// 字串內的日期樣式不在值位置文法內，不動
	assert.Equal(t, `{"quantity": 0.5}`, QuoteFractions(`{"quantity": 0.5}`))
}

func TestInlineFractions(t *testing.T) {
	assert.Equal(t, `{"quantity": 0.5}`, InlineFractions(`{"quantity": 1/2}`))
	assert.Equal(t, `{"quantity": 0.25}`, InlineFractions(`{"quantity": 1/4}`))
	// 除以零退回 0 而不是產生非法字面值
	assert.Equal(t, `{"quantity": 0}`, InlineFractions(`{"quantity": 1/0}`))
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"name": "Soup", "servings": 2}`, QuoteJSONKeys(`{name: "Soup", servings: 2}`))
	// 已加引號的鍵不受影響
	assert.Equal(t, `{"name": "Soup"}`, QuoteJSONKeys(`{"name": "Soup"}`))
}

func TestStripTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"items": [1, 2]}`, StripTrailingCommas(`{"items": [1, 2,]}`))
	assert.Equal(t, `{"a": 1}`, StripTrailingCommas(`{"a": 1,}`))
}

func TestNormalizeQuotes(t *testing.T) {
	assert.Equal(t, `{"name": "Soup"}`, NormalizeQuotes(`{'name': 'Soup'}`))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var m map[string]interface{}
	err := ParseJSON(`{"a": 1} {"b": 2}`, &m)
	assert.Error(t, err)
}

func TestParseJSONStrictRejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	err := ParseJSONStrict(`{"name": "Soup", "extra": true}`, &v)
	assert.Error(t, err)

	err = ParseJSONStrict(`{"name": "Soup"}`, &v)
	require.NoError(t, err)
	assert.Equal(t, "Soup", v.Name)
}

func TestToJSONIndent(t *testing.T) {
	out, err := ToJSONIndent(map[string]string{"name": "Soup"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Soup\"\n}", out)
}
