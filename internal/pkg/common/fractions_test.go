package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFraction(t *testing.T) {
	v, ok := ParseFraction("1/2")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	v, ok = ParseFraction("3/4")
	require.True(t, ok)
	assert.InDelta(t, 0.75, v, 1e-9)

	_, ok = ParseFraction("1/0")
	assert.False(t, ok)

	_, ok = ParseFraction("abc")
	assert.False(t, ok)

	// 混合分數不在文法內
	_, ok = ParseFraction("1 1/2")
	assert.False(t, ok)
}

func TestCoerceQuantity(t *testing.T) {
	assert.InDelta(t, 2.5, CoerceQuantity(2.5), 1e-9)
	assert.InDelta(t, 3, CoerceQuantity(3), 1e-9)
	assert.InDelta(t, 0.5, CoerceQuantity("1/2"), 1e-9)
	assert.InDelta(t, 1.25, CoerceQuantity("1.25"), 1e-9)
	assert.InDelta(t, 2, CoerceQuantity(json.Number("2")), 1e-9)
	assert.InDelta(t, 0, CoerceQuantity("a pinch"), 1e-9)
	assert.InDelta(t, 0, CoerceQuantity(nil), 1e-9)
	assert.InDelta(t, 0, CoerceQuantity("x/y"), 1e-9)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "½", FormatQuantity(0.5))
	assert.Equal(t, "¼", FormatQuantity(0.25))
	assert.Equal(t, "1 ½", FormatQuantity(1.5))
	assert.Equal(t, "⅓", FormatQuantity(0.33))
	assert.Equal(t, "0.3", FormatQuantity(0.3))
}
