package recipe

import (
	"testing"

	"recipe-forge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverRecipeJSONDirect(t *testing.T) {
	data, err := recoverRecipeJSON(`{"name": "Tomato Soup", "recipeCuisine": "Italian"}`)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", data["name"])
	assert.Equal(t, "Italian", data["recipeCuisine"])
}

func TestRecoverRecipeJSONStripsFenceAndProse(t *testing.T) {
	content := "Here is your recipe:\n```json\n{\"name\": \"Tomato Soup\"}\n```\nEnjoy your meal!"
	data, err := recoverRecipeJSON(content)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", data["name"])
}

func TestRecoverRecipeJSONHandlesBareFractions(t *testing.T) {
	content := "```json\n" + `{
  "name": "Pancakes",
  "ingredients": {
    "used": [
      { "name": "flour", "quantity": 1/2, "unit": "cup" }
    ]
  }
}` + "\n```"

	data, err := recoverRecipeJSON(content)
	require.NoError(t, err)

	groups, ok := data["ingredients"].(map[string]interface{})
	require.True(t, ok)
	used, ok := groups["used"].([]interface{})
	require.True(t, ok)
	require.Len(t, used, 1)

	ing, ok := used[0].(map[string]interface{})
	require.True(t, ok)
	// 分數先被引號化成字串，之後 reconcile 階段才轉數值
	assert.Equal(t, "1/2", ing["quantity"])
}

func TestRecoverRecipeJSONRepairsSyntax(t *testing.T) {
	// 未加引號的鍵、單引號字串與結尾逗號一次全上
	content := `{name: 'Omelette', recipeCuisine: 'French',}`

	data, err := recoverRecipeJSON(content)
	require.NoError(t, err)
	assert.Equal(t, "Omelette", data["name"])
	assert.Equal(t, "French", data["recipeCuisine"])
}

func TestRecoverRecipeJSONFailsOnGarbage(t *testing.T) {
	_, err := recoverRecipeJSON("I'm sorry, I can't generate a recipe right now.")
	require.Error(t, err)
	assert.True(t, common.IsGenerationError(err))
}

func TestRecoverRecipeJSONValidInputRoundTrips(t *testing.T) {
	// 已合法的輸入不該被任何修補規則改動
	raw := `{"name": "Salad", "recipeIngredient": ["lettuce", "tomato"], "servings": 2}`
	data, err := recoverRecipeJSON(raw)
	require.NoError(t, err)

	assert.Equal(t, "Salad", data["name"])
	assert.Equal(t, []interface{}{"lettuce", "tomato"}, data["recipeIngredient"])
	assert.Equal(t, float64(2), data["servings"])
}

func TestSkeletonParseMergesDefaults(t *testing.T) {
	// 只有名稱的殘缺輸出也要補齊集合欄位
	data, err := skeletonParse(`{"name": "Stew"}`)
	require.NoError(t, err)

	assert.Equal(t, "Stew", data["name"])
	assert.Equal(t, []interface{}{}, data["recipeIngredient"])
	assert.Equal(t, []interface{}{}, data["recipeInstructions"])

	groups, ok := data["ingredients"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{}, groups["used"])

	shopping, ok := data["shoppingList"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), shopping["totalItems"])
}

func TestSkeletonParseInlinesFractions(t *testing.T) {
	data, err := skeletonParse(`{"name": "Dough", "hydration": 3/4}`)
	require.NoError(t, err)
	assert.Equal(t, float64(0.75), data["hydration"])
}
