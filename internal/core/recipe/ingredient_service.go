package recipe

import (
	"context"
	"strings"

	"recipe-forge/internal/core/ai/openrouter"
	"recipe-forge/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParsedIngredient 輸入階段的結構化食材。
// ID 只需在工作階段內唯一，送出請求時只有 Name 會被帶走。
type ParsedIngredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// ingredientSystemPrompt 指示模型逐行抽取 {name, quantity, unit}
const ingredientSystemPrompt = `You are a helpful assistant that parses ingredient text into structured data.
Given one or more ingredient descriptions, extract the name, quantity, and unit if present for each ingredient.
Respond with ONLY a JSON array of objects in this format:
[
  {
    "name": "ingredient name",
    "quantity": "numeric amount or null",
    "unit": "measurement unit or null"
  }
]`

// IngredientService 食材解析服務
type IngredientService struct {
	chat  ChatClient
	model string
}

// NewIngredientService 創建新的食材解析服務
func NewIngredientService(chat ChatClient, model string) *IngredientService {
	return &IngredientService{chat: chat, model: model}
}

// splitIngredients 以逗號切開輸入，但逗號後面緊接數字時不切，
// 保護 "1,000" 這類千分位數字
func splitIngredients(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ',' {
			continue
		}
		if i+1 < len(text) && text[i+1] >= '0' && text[i+1] <= '9' {
			continue
		}
		parts = append(parts, text[start:i])
		start = i + 1
	}
	parts = append(parts, text[start:])

	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// Parse 將自由文字解析成結構化食材清單。
// 單一無空白 token 走快速路徑、完全不打 AI；其餘情況交給模型抽取，
// 任何解析失敗都退回把每個片段當成裸名稱——食材解析絕不因 AI
// 出狀況而擋住食譜創建，所以這個方法實務上不會失敗。
func (s *IngredientService) Parse(ctx context.Context, text string) ([]ParsedIngredient, error) {
	candidates := splitIngredients(text)
	if len(candidates) == 0 {
		return []ParsedIngredient{}, nil
	}

	// 快速路徑：單一簡單食材不需要 AI
	if len(candidates) == 1 && !strings.ContainsAny(candidates[0], " \t") {
		return []ParsedIngredient{{
			ID:   uuid.NewString(),
			Name: candidates[0],
		}}, nil
	}

	resp, err := s.chat.Chat(ctx, s.model, []openrouter.Message{
		{Role: "system", Content: ingredientSystemPrompt},
		{Role: "user", Content: strings.Join(candidates, "\n")},
	}, 0.2)
	if err != nil {
		common.LogWarn("食材解析 AI 呼叫失敗，退回簡易解析", zap.Error(err))
		return bareIngredients(candidates), nil
	}

	parsed, ok := decodeParsedIngredients(resp.Content())
	if !ok {
		common.LogWarn("食材解析回應格式異常，退回簡易解析")
		return bareIngredients(candidates), nil
	}

	return parsed, nil
}

// bareIngredients 把每個片段直接當成食材名稱
func bareIngredients(candidates []string) []ParsedIngredient {
	out := make([]ParsedIngredient, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, ParsedIngredient{
			ID:   uuid.NewString(),
			Name: c,
		})
	}
	return out
}

// decodeParsedIngredients 解析模型回應；每個元素至少要有 name
func decodeParsedIngredients(content string) ([]ParsedIngredient, bool) {
	var items []struct {
		Name     string      `json:"name"`
		Quantity interface{} `json:"quantity"`
		Unit     interface{} `json:"unit"`
	}
	if err := common.ParseJSON(common.StripCodeFence(content), &items); err != nil {
		return nil, false
	}

	out := make([]ParsedIngredient, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			return nil, false
		}
		out = append(out, ParsedIngredient{
			ID:       uuid.NewString(),
			Name:     item.Name,
			Quantity: stringifyField(item.Quantity),
			Unit:     stringifyField(item.Unit),
		})
	}
	return out, true
}

// stringifyField 模型可能回 null、數值或字串，統一轉成字串
func stringifyField(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "null" {
			return ""
		}
		return t
	default:
		return common.FormatQuantity(common.CoerceQuantity(v))
	}
}
