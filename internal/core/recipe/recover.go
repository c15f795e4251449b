package recipe

import (
	"encoding/json"
	"fmt"
	"strings"

	"recipe-forge/internal/pkg/common"

	"go.uber.org/zap"
)

// recoveryStrategy 一個獨立可測的還原策略：原始文字進、鬆散物件出
type recoveryStrategy struct {
	name string
	fn   func(raw string) (map[string]interface{}, error)
}

// recoveryCascade 由嚴到鬆的策略序列，命中第一個成功的就停。
// 上游模型不是結構化輸出 API：偶爾會夾雜說明文字、markdown fence
// 或不合法的數值字面值，這裡要在不丟棄九成五完好內容的前提下救回來。
var recoveryCascade = []recoveryStrategy{
	{name: "direct", fn: directParse},
	{name: "repair", fn: repairParse},
	{name: "skeleton", fn: skeletonParse},
}

// recipeSkeleton 最小合法食譜骨架，作為合併與補值的基底
func recipeSkeleton() map[string]interface{} {
	return map[string]interface{}{
		"name":               "Recipe",
		"recipeIngredient":   []interface{}{},
		"recipeInstructions": []interface{}{},
		"ingredients": map[string]interface{}{
			"used": []interface{}{},
		},
		"shoppingList": map[string]interface{}{
			"items":      []interface{}{},
			"totalItems": float64(0),
		},
	}
}

// recoverRecipeJSON 依序套用還原策略，全數失敗時返回 GenerationError
func recoverRecipeJSON(content string) (map[string]interface{}, error) {
	var lastErr error
	for _, strategy := range recoveryCascade {
		data, err := strategy.fn(content)
		if err == nil {
			common.LogDebug("JSON 還原成功", zap.String("strategy", strategy.name))
			return data, nil
		}
		common.LogWarn("JSON 還原策略失敗",
			zap.String("strategy", strategy.name),
			zap.Error(err),
		)
		lastErr = err
	}
	return nil, common.NewGenerationError("could not parse model output", lastErr)
}

// parseObject 將字串解析為鬆散物件
func parseObject(s string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// cleanContent 去除 fence 與前後多餘文字，抽出第一個完整物件
func cleanContent(raw string) string {
	s := common.StripCodeFence(raw)
	if obj, ok := common.ExtractJSONObject(s); ok {
		return obj
	}
	return strings.TrimSpace(s)
}

// directParse 清理後把值位置的分數改成字串，直接解析
func directParse(raw string) (map[string]interface{}, error) {
	return parseObject(common.QuoteFractions(cleanContent(raw)))
}

// repairParse 在 directParse 之上套語法修補：
// 補鍵名引號、單引號換雙引號、去結尾逗號，再解析一次
func repairParse(raw string) (map[string]interface{}, error) {
	s := common.QuoteFractions(cleanContent(raw))
	s = common.QuoteJSONKeys(s)
	s = common.NormalizeQuotes(s)
	s = common.StripTrailingCommas(s)
	// 引號正規化可能又讓分數露出來，再補一次
	s = common.QuoteFractions(s)
	return parseObject(s)
}

// skeletonParse 獨立重跑大括號抽取、把分數換算成十進位，
// 解析結果合併到最小合法骨架上
func skeletonParse(raw string) (map[string]interface{}, error) {
	obj, ok := common.ExtractJSONObject(common.StripCodeFence(raw))
	if !ok {
		return nil, fmt.Errorf("no JSON object found in content")
	}

	parsed, err := parseObject(common.InlineFractions(obj))
	if err != nil {
		return nil, err
	}

	merged := recipeSkeleton()
	for k, v := range parsed {
		merged[k] = v
	}
	return merged, nil
}
