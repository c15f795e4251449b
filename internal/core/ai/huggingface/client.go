package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	aiimage "recipe-forge/internal/core/ai/image"
	"recipe-forge/internal/infrastructure/config"
	"recipe-forge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://api-inference.huggingface.co/models"

// negativePrompt 通用負面提示，FLUX.1-schnell 不接受此參數
const negativePrompt = "low quality, blurry, distorted, deformed, ugly, bad anatomy, watermark, signature, text, logo"

// Client Hugging Face Inference API 客戶端。
// 端點返回二進位圖片，統一轉成 JPEG data URI 後交給呼叫端。
type Client struct {
	client    *resty.Client
	processor *aiimage.Processor
}

// request 推論請求
type request struct {
	Inputs     string      `json:"inputs"`
	Parameters *parameters `json:"parameters,omitempty"`
}

// parameters 模型參數
type parameters struct {
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
}

// NewClient 創建新的 Hugging Face 客戶端
func NewClient(cfg *config.HuggingFaceConfig) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &Client{
		client:    client,
		processor: aiimage.NewProcessor(10 * 1024 * 1024), // 上限 10MB
	}
}

// buildRequest 依模型組出請求內容
func buildRequest(model, prompt string) *request {
	lower := strings.ToLower(model)
	if !strings.Contains(lower, "flux") {
		return &request{Inputs: prompt}
	}

	params := &parameters{
		GuidanceScale:     7.5,
		NumInferenceSteps: 30,
		Width:             512,
		Height:            512,
	}
	// FLUX.1-schnell 不支援 negative_prompt
	if !strings.Contains(model, "FLUX.1-schnell") {
		params.NegativePrompt = negativePrompt
	}
	return &request{Inputs: prompt, Parameters: params}
}

// GenerateImage 生成圖片並返回 data URI。
// FLUX.1-schnell 收到 400 時改用只帶 prompt 的最簡請求重試一次。
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	name := strings.TrimPrefix(model, "huggingface/")

	common.LogDebug("發送 Hugging Face 圖片生成請求",
		zap.String("model", name),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	resp, err := c.post(ctx, name, buildRequest(name, prompt))
	if err != nil {
		common.LogAICall(name, time.Since(start), err)
		return "", common.NewTransportError(0, "", err)
	}

	if resp.StatusCode() == http.StatusBadRequest && strings.Contains(name, "FLUX.1-schnell") {
		common.LogWarn("Hugging Face 返回 400，改用最簡參數重試",
			zap.String("model", name),
			zap.String("response", resp.String()),
		)
		resp, err = c.post(ctx, name, &request{Inputs: prompt})
		if err != nil {
			common.LogAICall(name, time.Since(start), err)
			return "", common.NewTransportError(0, "", err)
		}
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogAICall(name, time.Since(start), fmt.Errorf("status %d", resp.StatusCode()))
		return "", common.NewTransportError(resp.StatusCode(), resp.String(), nil)
	}

	common.LogAICall(name, time.Since(start), nil)

	// 響應本體即為二進位圖片
	dataURI, err := c.processor.ToDataURI(resp.Body())
	if err != nil {
		return "", common.NewTransportError(resp.StatusCode(), "malformed image payload", err)
	}

	return dataURI, nil
}

func (c *Client) post(ctx context.Context, model string, body *request) (*resty.Response, error) {
	return c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/" + model)
}
