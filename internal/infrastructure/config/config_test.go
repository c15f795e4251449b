package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndFallbacks(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test-key-12345")
	t.Setenv("RECIPE_MODEL", "")
	t.Setenv("PROMPT_MODEL", "")
	t.Setenv("INGREDIENTS_MODEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test-key-12345", cfg.OpenRouter.APIKey)
	assert.NotEmpty(t, cfg.OpenRouter.RecipeModel)
	// 未指定的模型回退到食譜模型
	assert.Equal(t, cfg.OpenRouter.RecipeModel, cfg.OpenRouter.PromptModel)
	assert.Equal(t, cfg.OpenRouter.RecipeModel, cfg.OpenRouter.IngredientsModel)
	assert.Equal(t, 60*time.Second, cfg.OpenRouter.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
	assert.Empty(t, cfg.HuggingFace.APIKey)
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorContains(t, err, "openrouter api key is required")
}

func TestLoadConfigExplicitModels(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test-key-12345")
	t.Setenv("RECIPE_MODEL", "some/recipe-model")
	t.Setenv("PROMPT_MODEL", "some/prompt-model")
	t.Setenv("IMAGE_MODEL", "black-forest-labs/FLUX.1-dev")
	t.Setenv("HUGGINGFACE_API_KEY", "hf_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "some/recipe-model", cfg.OpenRouter.RecipeModel)
	assert.Equal(t, "some/prompt-model", cfg.OpenRouter.PromptModel)
	assert.Equal(t, "black-forest-labs/FLUX.1-dev", cfg.OpenRouter.ImageModel)
	assert.Equal(t, "hf_test", cfg.HuggingFace.APIKey)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "sk-o...2345", maskAPIKey("sk-or-test-key-12345"))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey(""))
}
