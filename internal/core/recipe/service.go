package recipe

import (
	"context"

	"recipe-forge/internal/core/ai/openrouter"
	"recipe-forge/internal/core/events"
	"recipe-forge/internal/pkg/common"

	"go.uber.org/zap"
)

// ChatClient 聊天補全後端
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []openrouter.Message, temperature float64) (*openrouter.ChatResponse, error)
}

// ImageGenerator 食譜圖片協作者
type ImageGenerator interface {
	GenerateRecipeImage(ctx context.Context, rec *Recipe) (string, error)
}

// Service 食譜生成服務：管線的核心協調者。
// 階段嚴格循序：組 prompt → 生成 → JSON 還原 → 欄位正規化 → 結構驗證 → 補圖。
// 只有生成與驗證會讓整個操作失敗，其餘階段優雅降級。
type Service struct {
	chat        ChatClient
	imageSvc    ImageGenerator
	bus         *events.Bus
	recipeModel string
}

// NewService 創建新的食譜生成服務
func NewService(chat ChatClient, imageSvc ImageGenerator, bus *events.Bus, recipeModel string) *Service {
	return &Service{
		chat:        chat,
		imageSvc:    imageSvc,
		bus:         bus,
		recipeModel: recipeModel,
	}
}

// GenerateRecipe 根據請求生成並驗證一份食譜。
// 單次嘗試，不重試；呼叫端可整個重跑。致命錯誤在返回前會先發出 error 事件，
// 讓觀察者不用拆解錯誤就能更新進度。
func (s *Service) GenerateRecipe(ctx context.Context, req *GenerationRequest) (*Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	common.LogInfo("開始生成食譜",
		zap.String("mode", string(req.Mode)),
		zap.Int("ingredient_count", len(req.Ingredients)),
		zap.Strings("cuisines", req.Cuisines),
		zap.String("model", s.recipeModel),
	)

	// 階段一：組 prompt（確定性模板）
	s.bus.Emit(events.RecipePromptStart, nil)
	systemPrompt := buildSystemPrompt(req)
	s.bus.Emit(events.RecipePromptComplete, nil)

	// 階段二：生成呼叫
	s.bus.Emit(events.RecipeGenerationStart, nil)
	resp, err := s.chat.Chat(ctx, s.recipeModel, []openrouter.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userInstruction},
	}, 0.7)
	if err != nil {
		return nil, s.fail(common.NewGenerationError("recipe generation request failed", err))
	}
	s.bus.Emit(events.RecipeGenerationComplete, nil)

	content := resp.Content()
	if content == "" {
		return nil, s.fail(common.NewGenerationError("empty content in model response", nil))
	}

	common.LogDebug("模型原始回應",
		zap.Int("content_length", len(content)),
	)

	// 階段三：JSON 還原
	data, err := recoverRecipeJSON(content)
	if err != nil {
		return nil, s.fail(err)
	}

	// 階段四：欄位正規化與交叉補值
	reconciled := reconcile(data, req)

	rec, err := buildRecipe(reconciled)
	if err != nil {
		return nil, s.fail(common.NewGenerationError("could not decode reconciled recipe", err))
	}

	// 階段五：結構驗證（硬邊界）
	if err := rec.Validate(); err != nil {
		return nil, s.fail(err)
	}

	common.LogInfo("食譜驗證通過",
		zap.String("name", rec.Name),
		zap.Int("ingredients", len(rec.RecipeIngredient)),
		zap.Int("instructions", len(rec.RecipeInstructions)),
	)

	// 階段六：補圖。失敗非致命，食譜照樣回傳、只是沒有圖片；
	// error 事件由圖片服務自己發。
	if s.imageSvc != nil {
		if uri, imgErr := s.imageSvc.GenerateRecipeImage(ctx, rec); imgErr != nil {
			common.LogError("食譜圖片生成失敗", zap.Error(imgErr))
		} else if uri != "" {
			rec.Image = []string{uri}
		}
	}

	s.bus.Emit(events.ProcessComplete, nil)
	return rec, nil
}

// fail 在返回致命錯誤前發出 error 事件
func (s *Service) fail(err error) error {
	s.bus.Emit(events.Error, events.Payload{"message": err.Error()})
	return err
}
