package huggingface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestPlainModel(t *testing.T) {
	req := buildRequest("stabilityai/stable-diffusion-2", "a bowl of soup")
	assert.Equal(t, "a bowl of soup", req.Inputs)
	assert.Nil(t, req.Parameters)
}

func TestBuildRequestFluxModel(t *testing.T) {
	req := buildRequest("black-forest-labs/FLUX.1-dev", "a bowl of soup")
	require.NotNil(t, req.Parameters)
	assert.Equal(t, 7.5, req.Parameters.GuidanceScale)
	assert.Equal(t, 30, req.Parameters.NumInferenceSteps)
	assert.Equal(t, 512, req.Parameters.Width)
	assert.Equal(t, 512, req.Parameters.Height)
	assert.Equal(t, negativePrompt, req.Parameters.NegativePrompt)
}

func TestBuildRequestSchnellOmitsNegativePrompt(t *testing.T) {
	// FLUX.1-schnell 不接受 negative_prompt 參數
	req := buildRequest("black-forest-labs/FLUX.1-schnell", "a bowl of soup")
	require.NotNil(t, req.Parameters)
	assert.Empty(t, req.Parameters.NegativePrompt)
	assert.Equal(t, 7.5, req.Parameters.GuidanceScale)
}
