package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPromptUseWhatIHave(t *testing.T) {
	req := &GenerationRequest{
		Ingredients:    []string{"chicken", "rice"},
		Servings:       "4",
		MaxTimeMinutes: 45,
		Mode:           ModeUseWhatIHave,
	}

	prompt := buildSystemPrompt(req)

	assert.Contains(t, prompt, "ONLY the following ingredients")
	assert.Contains(t, prompt, "chicken, rice")
	assert.Contains(t, prompt, "MUST NOT include ANY ingredients")
	assert.Contains(t, prompt, "Serve 4 people")
	assert.Contains(t, prompt, "Maximum preparation and cooking time: 45 minutes")
	assert.NotContains(t, prompt, "PRIMARILY")
}

func TestBuildSystemPromptSuggest(t *testing.T) {
	req := &GenerationRequest{
		Ingredients:    []string{"tofu"},
		Servings:       "2",
		MaxTimeMinutes: 30,
		Mode:           ModeSuggest,
	}

	prompt := buildSystemPrompt(req)

	assert.Contains(t, prompt, "PRIMARILY uses these ingredients")
	assert.Contains(t, prompt, "may suggest additional ingredients")
	assert.NotContains(t, prompt, "CRITICAL")
}

func TestBuildSystemPromptOptionalFields(t *testing.T) {
	req := &GenerationRequest{
		Ingredients:    []string{"beef"},
		Servings:       "2",
		MaxTimeMinutes: 60,
		Cuisines:       []string{"Thai", "Vietnamese"},
		Hint:           "extra spicy",
		Mode:           ModeSuggest,
	}

	prompt := buildSystemPrompt(req)

	assert.Contains(t, prompt, "Cuisine style: Thai, Vietnamese")
	assert.Contains(t, prompt, "Additional requirements: extra spicy")
	// 範例 JSON 的菜系帶第一個偏好
	assert.Contains(t, prompt, `"recipeCuisine": "Thai"`)
}

func TestBuildSystemPromptDefaultCuisine(t *testing.T) {
	req := &GenerationRequest{
		Ingredients:    []string{"beef"},
		Servings:       "2",
		MaxTimeMinutes: 60,
		Mode:           ModeSuggest,
	}

	prompt := buildSystemPrompt(req)

	assert.NotContains(t, prompt, "Cuisine style:")
	assert.Contains(t, prompt, `"recipeCuisine": "International"`)
}

func TestBuildSystemPromptNumericMandates(t *testing.T) {
	req := &GenerationRequest{
		Ingredients:    []string{"flour"},
		Servings:       "2",
		MaxTimeMinutes: 20,
		Mode:           ModeUseWhatIHave,
	}

	prompt := buildSystemPrompt(req)

	assert.Contains(t, prompt, "must use actual numbers, not strings")
	assert.Contains(t, prompt, `NEVER use null for unit fields`)
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}
