package recipe

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-forge/internal/pkg/common"
)

// reconcile 是唯一的「不信任資料」邊界：在鬆散物件上做一次正規化，
// 之後才建構嚴格型別的 Recipe。重複執行結果不變。
func reconcile(data map[string]interface{}, req *GenerationRequest) map[string]interface{} {
	// 先鋪骨架，再覆蓋模型給的值
	out := recipeSkeleton()
	for k, v := range data {
		out[k] = v
	}

	// 伺服端欄位一律以請求為準，不信任模型自己的算術。
	// totalTime 直接取 maxTime，不用 prep+cook 回加，避免取整飄移。
	out["@context"] = SchemaContext
	out["@type"] = TypeRecipe
	out["recipeYield"] = req.Servings
	out["prepTime"] = fmt.Sprintf("PT%dM", int(math.Floor(float64(req.MaxTimeMinutes)*0.4)))
	out["cookTime"] = fmt.Sprintf("PT%dM", int(math.Floor(float64(req.MaxTimeMinutes)*0.6)))
	out["totalTime"] = fmt.Sprintf("PT%dM", req.MaxTimeMinutes)

	groups := asMap(out["ingredients"])
	if groups == nil {
		groups = map[string]interface{}{"used": []interface{}{}}
	}
	out["ingredients"] = groups

	used := asSlice(groups["used"])
	display := asSlice(out["recipeIngredient"])

	// 有結構化食材但沒有顯示清單：由 quantity+unit+name 組出來
	if len(used) > 0 && len(display) == 0 {
		derived := make([]interface{}, 0, len(used))
		for _, item := range used {
			ing := asMap(item)
			if ing == nil {
				continue
			}
			derived = append(derived, joinIngredientDisplay(ing))
		}
		out["recipeIngredient"] = derived
		display = derived
	}

	// 有顯示清單但沒有結構化食材：天真地拆字串
	if len(display) > 0 && len(used) == 0 {
		parsed := make([]interface{}, 0, len(display))
		for _, item := range display {
			s, ok := item.(string)
			if !ok {
				continue
			}
			parsed = append(parsed, splitIngredientDisplay(s))
		}
		groups["used"] = parsed
		used = parsed
	}

	// 三個食材分組統一做數值與單位矯正
	for _, key := range []string{"used", "missing", "suggested"} {
		list := asSlice(groups[key])
		if list == nil {
			continue
		}
		for _, item := range list {
			if ing := asMap(item); ing != nil {
				coerceIngredient(ing)
			}
		}
	}

	shopping := asMap(out["shoppingList"])
	if shopping == nil {
		shopping = map[string]interface{}{}
	}
	out["shoppingList"] = shopping

	items := asSlice(shopping["items"])
	if len(items) > 0 {
		fixed := make([]interface{}, 0, len(items))
		for _, item := range items {
			fixed = append(fixed, coerceShoppingItem(item, used))
		}
		shopping["items"] = fixed
		shopping["totalItems"] = float64(len(fixed))
	} else if len(used) > 0 {
		// 完全沒有購物清單時由 used 合成
		synthesized := make([]interface{}, 0, len(used))
		for _, item := range used {
			ing := asMap(item)
			if ing == nil {
				continue
			}
			synthesized = append(synthesized, shoppingItemFromIngredient(ing))
		}
		shopping["items"] = synthesized
		shopping["totalItems"] = float64(len(synthesized))
	} else {
		shopping["items"] = []interface{}{}
		shopping["totalItems"] = float64(0)
	}

	return out
}

// buildRecipe 把正規化後的物件轉成嚴格型別的 Recipe
func buildRecipe(data map[string]interface{}) (*Recipe, error) {
	raw, err := common.ToJSON(data)
	if err != nil {
		return nil, err
	}
	var rec Recipe
	if err := common.ParseJSON(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// coerceIngredient 就地矯正單一食材：字串數量轉數值、null 單位轉空字串
func coerceIngredient(ing map[string]interface{}) {
	if q, ok := ing["quantity"].(string); ok {
		ing["quantity"] = common.CoerceQuantity(q)
	}
	if ing["unit"] == nil {
		ing["unit"] = ""
	}
}

// joinIngredientDisplay 組出顯示字串，例如 "2 cups flour"
func joinIngredientDisplay(ing map[string]interface{}) string {
	parts := make([]string, 0, 3)
	if q := common.CoerceQuantity(ing["quantity"]); q > 0 {
		parts = append(parts, common.FormatQuantity(q))
	}
	if unit, ok := ing["unit"].(string); ok && unit != "" {
		parts = append(parts, unit)
	}
	if name, ok := ing["name"].(string); ok && name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

// splitIngredientDisplay 天真拆解顯示字串：開頭數值當數量，
// 次一個 token 當單位（若數值 token 不是整個字串），其餘是名稱
func splitIngredientDisplay(s string) map[string]interface{} {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return map[string]interface{}{"name": s, "quantity": float64(1), "unit": ""}
	}

	quantity, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return map[string]interface{}{"name": s, "quantity": float64(1), "unit": ""}
	}

	unit := ""
	nameParts := parts[1:]
	if len(parts) > 1 {
		unit = parts[1]
		nameParts = parts[2:]
	}
	return map[string]interface{}{
		"name":     strings.Join(nameParts, " "),
		"quantity": quantity,
		"unit":     unit,
	}
}

// coerceShoppingItem 矯正購物清單項目：純字串項目合成完整物件，
// 盡量從已矯正的 used 食材借數量與單位
func coerceShoppingItem(item interface{}, used []interface{}) interface{} {
	if name, ok := item.(string); ok {
		if match := findMatchingIngredient(name, used); match != nil {
			return shoppingItemFromMatch(name, match)
		}
		return map[string]interface{}{
			"name": name,
			"requiredQuantity": map[string]interface{}{
				"amount": float64(1),
				"unit":   "item",
			},
			"purchaseQuantity": float64(1),
			"purchaseUnit":     "item",
		}
	}

	m := asMap(item)
	if m == nil {
		return item
	}

	if rq := asMap(m["requiredQuantity"]); rq != nil {
		if amount, ok := rq["amount"].(string); ok {
			rq["amount"] = common.CoerceQuantity(amount)
		}
		if rq["unit"] == nil {
			rq["unit"] = ""
		}
	}
	if pq, ok := m["purchaseQuantity"].(string); ok {
		m["purchaseQuantity"] = common.CoerceQuantity(pq)
	}
	if m["purchaseUnit"] == nil {
		m["purchaseUnit"] = ""
	}
	return m
}

// findMatchingIngredient 大小寫不敏感的雙向子字串比對
func findMatchingIngredient(name string, used []interface{}) map[string]interface{} {
	lower := strings.ToLower(name)
	for _, item := range used {
		ing := asMap(item)
		if ing == nil {
			continue
		}
		ingName, ok := ing["name"].(string)
		if !ok {
			continue
		}
		ingLower := strings.ToLower(ingName)
		if strings.Contains(ingLower, lower) || strings.Contains(lower, ingLower) {
			return ing
		}
	}
	return nil
}

// shoppingItemFromMatch 用比對到的食材補出購物清單項目
func shoppingItemFromMatch(name string, ing map[string]interface{}) map[string]interface{} {
	quantity := common.CoerceQuantity(ing["quantity"])
	if quantity == 0 {
		quantity = 1
	}
	unit, _ := ing["unit"].(string)
	if unit == "" {
		unit = "item"
	}
	return map[string]interface{}{
		"name": name,
		"requiredQuantity": map[string]interface{}{
			"amount": quantity,
			"unit":   unit,
		},
		"purchaseQuantity": quantity,
		"purchaseUnit":     unit,
	}
}

// shoppingItemFromIngredient 由 used 食材合成購物清單項目
func shoppingItemFromIngredient(ing map[string]interface{}) map[string]interface{} {
	name, _ := ing["name"].(string)
	return shoppingItemFromMatch(name, ing)
}

// asMap nil 安全的 map 斷言
func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// asSlice nil 安全的 slice 斷言
func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}
