package image

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"recipe-forge/internal/core/ai/openrouter"
	"recipe-forge/internal/core/events"
	"recipe-forge/internal/core/recipe"
	"recipe-forge/internal/pkg/common"

	"go.uber.org/zap"
)

// ChatClient 圖片 prompt 撰寫用的聊天後端
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []openrouter.Message, temperature float64) (*openrouter.ChatResponse, error)
}

// URLImageClient URL 式圖片後端（返回圖片 URL）
type URLImageClient interface {
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}

// BinaryImageClient 二進位圖片後端（返回 data URI）
type BinaryImageClient interface {
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}

// promptPrefixPattern 模型偶爾會在 prompt 前加說明句，去掉
var promptPrefixPattern = regexp.MustCompile(`(?i)^(Here's|This prompt|I've created|The prompt|For the FLUX).+?:\s*`)

// Service 食譜圖片生成服務。三層 prompt 策略逐層降級：
// AI 撰寫的 prompt → 確定性模板 → 極簡模板，全失敗才算錯誤。
type Service struct {
	chat          ChatClient
	urlBackend    URLImageClient
	binaryBackend BinaryImageClient // nil 表示未配置二進位後端
	bus           *events.Bus
	promptModel   string
	imageModel    string
}

// NewService 創建新的食譜圖片生成服務
func NewService(chat ChatClient, urlBackend URLImageClient, binaryBackend BinaryImageClient, bus *events.Bus, promptModel, imageModel string) *Service {
	return &Service{
		chat:          chat,
		urlBackend:    urlBackend,
		binaryBackend: binaryBackend,
		bus:           bus,
		promptModel:   promptModel,
		imageModel:    imageModel,
	}
}

// isFluxModel 專攻食物攝影的 FLUX 系列吃短而密的關鍵字 prompt
func (s *Service) isFluxModel() bool {
	return strings.Contains(strings.ToLower(s.imageModel), "flux")
}

// GenerateRecipeImage 為驗證過的食譜生成一張示意圖，返回 URL 或 data URI。
// 每次降級都會發出帶註記的完成事件，讓觀察者分得出好路徑與降級路徑。
func (s *Service) GenerateRecipeImage(ctx context.Context, rec *recipe.Recipe) (string, error) {
	common.LogInfo("開始生成食譜圖片",
		zap.String("recipe", rec.Name),
		zap.String("image_model", s.imageModel),
	)

	// 第一層：AI 撰寫的詳細 prompt
	s.bus.Emit(events.ImagePromptStart, nil)
	prompt, err := s.generateImagePrompt(ctx, rec)
	if err == nil {
		s.bus.Emit(events.ImagePromptComplete, nil)
		s.bus.Emit(events.ImageGenerationStart, nil)
		uri, imgErr := s.generateImage(ctx, prompt)
		if imgErr == nil {
			s.bus.Emit(events.ImageGenerationComplete, nil)
			return uri, nil
		}
		err = imgErr
	}

	// 第二層：確定性模板 prompt，不需要任何 AI 呼叫
	common.LogWarn("第一層圖片生成失敗，改用模板 prompt", zap.Error(err))
	s.bus.Emit(events.ImagePromptComplete, events.Payload{"usedFallback": true})
	s.bus.Emit(events.ImageGenerationStart, events.Payload{"usedFallback": true})
	uri, err := s.generateImage(ctx, s.fallbackPrompt(rec))
	if err == nil {
		s.bus.Emit(events.ImageGenerationComplete, events.Payload{"usedFallback": true})
		return uri, nil
	}

	// 第三層：極簡 prompt 最後一搏
	common.LogWarn("第二層圖片生成失敗，改用極簡 prompt", zap.Error(err))
	s.bus.Emit(events.ImageGenerationStart, events.Payload{"usedMinimalFallback": true})
	uri, err = s.generateImage(ctx, s.minimalPrompt(rec))
	if err == nil {
		s.bus.Emit(events.ImageGenerationComplete, events.Payload{"usedMinimalFallback": true})
		return uri, nil
	}

	s.bus.Emit(events.Error, events.Payload{
		"message": "failed to generate recipe image after multiple attempts",
	})
	return "", common.NewImageGenerationError("failed to generate recipe image after multiple attempts", err)
}

// generateImagePrompt 請 prompt 模型依食譜撰寫圖片 prompt
func (s *Service) generateImagePrompt(ctx context.Context, rec *recipe.Recipe) (string, error) {
	isFlux := s.isFluxModel()

	systemContent := `You are an expert at creating detailed image prompts for AI image generators.
Given a recipe, create a vivid, detailed prompt that will result in a beautiful, appetizing
image of the dish. Focus on the visual aspects, plating, colors, and setting.`
	if isFlux {
		systemContent += "\nThe prompt will be used with the FLUX.1 model which is specialized for food photography."
	}

	var guidance string
	if isFlux {
		guidance = "Create a prompt for the FLUX.1 model which is specialized for food photography. " +
			"Focus on describing the prepared meal, plating, and styling. Keep the prompt concise (under 75 words). " +
			"Make sure the prompt states to not include ingredients that are not in the recipe. " +
			"Do not include any negative prompts or technical parameters."
	} else {
		guidance = "The prompt should describe how the finished dish looks, the plating style, background, lighting, etc. " +
			"Make it detailed enough for an AI image generator to create a beautiful food photograph. " +
			"Make sure the meal is centered toward the top of the shot and not a closeup."
	}

	userContent := fmt.Sprintf("Create an image prompt for this recipe: %s\n\nCuisine: %s\nMain ingredients: %s\n\n%s",
		rec.Name,
		cuisineOrDefault(rec, "International"),
		strings.Join(firstN(rec.RecipeIngredient, 5), ", "),
		guidance,
	)

	resp, err := s.chat.Chat(ctx, s.promptModel, []openrouter.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}, 0.7)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(resp.Content())
	if prompt == "" {
		return "", common.NewGenerationError("failed to generate image prompt", nil)
	}

	if isFlux {
		prompt = polishFluxPrompt(prompt)
	}

	common.LogDebug("圖片 prompt 已生成", zap.Int("prompt_length", len(prompt)))
	return prompt, nil
}

// polishFluxPrompt 清掉模型的說明前綴與包裹引號，補上品質關鍵字
func polishFluxPrompt(prompt string) string {
	prompt = promptPrefixPattern.ReplaceAllString(prompt, "")
	if len(prompt) >= 2 && strings.HasPrefix(prompt, `"`) && strings.HasSuffix(prompt, `"`) {
		prompt = prompt[1 : len(prompt)-1]
	}

	lower := strings.ToLower(prompt)
	if !strings.Contains(lower, "professional") {
		prompt += ", professional food photography"
	}
	if !strings.Contains(lower, "lighting") {
		prompt += ", perfect lighting"
	}
	if !strings.Contains(lower, "high quality") && !strings.Contains(lower, "high-quality") {
		prompt += ", high quality"
	}
	return prompt
}

// fallbackPrompt 第二層：由食譜名稱、菜系與前三項食材組出的模板
func (s *Service) fallbackPrompt(rec *recipe.Recipe) string {
	ingredients := strings.Join(firstN(rec.RecipeIngredient, 3), ", ")
	cuisine := cuisineOrDefault(rec, "delicious")

	if s.isFluxModel() {
		return fmt.Sprintf("%s with %s, %s cuisine, professional food photography, "+
			"perfect lighting, high quality, styled plating, appetizing, vibrant colors",
			rec.Name, ingredients, cuisine)
	}
	return fmt.Sprintf("Depict %s, a %s dish featuring %s.\n\n"+
		"Style: Professional food photography, overhead shot, natural lighting, "+
		"styled on a rustic wooden table with complementary props and garnishes. "+
		"The image should be appetizing and Instagram-worthy.",
		rec.Name, cuisine, ingredients)
}

// minimalPrompt 第三層：只剩名稱加基本風格描述
func (s *Service) minimalPrompt(rec *recipe.Recipe) string {
	if s.isFluxModel() {
		return fmt.Sprintf("%s, food photography, high quality", rec.Name)
	}
	return fmt.Sprintf("A delicious %s dish, food photography.", rec.Name)
}

// generateImage 依配置選擇圖片後端。
// 有二進位後端金鑰且模型識別碼看起來屬於該後端時走二進位端點，
// 其餘一律走 URL 式端點。
func (s *Service) generateImage(ctx context.Context, prompt string) (string, error) {
	if s.binaryBackend != nil && isHuggingFaceModel(s.imageModel) {
		common.LogDebug("使用 Hugging Face 後端生成圖片", zap.String("model", s.imageModel))
		return s.binaryBackend.GenerateImage(ctx, s.imageModel, prompt)
	}
	common.LogDebug("使用 OpenRouter 後端生成圖片", zap.String("model", s.imageModel))
	return s.urlBackend.GenerateImage(ctx, s.imageModel, prompt)
}

// isHuggingFaceModel 命名空間式模型識別碼或 FLUX 家族視為 Hugging Face 模型
func isHuggingFaceModel(model string) bool {
	return strings.Contains(model, "huggingface/") ||
		strings.Contains(model, "/") ||
		strings.Contains(strings.ToLower(model), "flux")
}

// cuisineOrDefault 取菜系，沒有時用預設詞
func cuisineOrDefault(rec *recipe.Recipe, fallback string) string {
	if rec.RecipeCuisine != "" {
		return rec.RecipeCuisine
	}
	return fallback
}

// firstN 取清單前 n 項
func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
