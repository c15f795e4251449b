package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-forge/internal/infrastructure/config"
	"recipe-forge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter API 客戶端。
// 不重試、不快取：每次呼叫都是新請求，重試與 fallback 由呼叫端決定。
type Client struct {
	client *resty.Client
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 聊天補全請求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse 聊天補全響應
type ChatResponse struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message Message `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Content 取出第一個候選的文字內容，沒有內容時返回空字串
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// imageRequest URL 式圖片生成請求
type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

// imageResponse URL 式圖片生成響應
type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg *config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", cfg.AppURL)

	return &Client{client: client}
}

// sanitizeBody 清理響應內容，移除圖片數據避免進入日誌與錯誤訊息
func sanitizeBody(body string) string {
	if strings.Contains(body, "data:image/") || strings.Contains(body, "base64") {
		return "[IMAGE_DATA_REMOVED]"
	}
	return body
}

// Chat 發送聊天補全請求
func (c *Client) Chat(ctx context.Context, model string, messages []Message, temperature float64) (*ChatResponse, error) {
	common.LogDebug("發送聊天請求",
		zap.String("model", model),
		zap.Int("messages", len(messages)),
		zap.Float64("temperature", temperature),
	)

	req := &ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogAICall(model, time.Since(start), err)

	if err != nil {
		return nil, common.NewTransportError(0, "", err)
	}

	if resp.StatusCode() != http.StatusOK {
		body := sanitizeBody(resp.String())
		common.LogError("OpenRouter 返回錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", model),
			zap.String("response", body),
		)
		return nil, common.NewTransportError(resp.StatusCode(), body, nil)
	}

	var result ChatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.NewTransportError(resp.StatusCode(), sanitizeBody(resp.String()), err)
	}

	common.LogDebug("聊天響應",
		zap.String("model", model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
	)

	return &result, nil
}

// GenerateImage 透過 URL 式圖片端點生成圖片，返回圖片 URL
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	common.LogDebug("發送圖片生成請求",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := &imageRequest{
		Model:  model,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/images/generations")
	common.LogAICall(model, time.Since(start), err)

	if err != nil {
		return "", common.NewTransportError(0, "", err)
	}

	if resp.StatusCode() != http.StatusOK {
		body := sanitizeBody(resp.String())
		return "", common.NewTransportError(resp.StatusCode(), body, nil)
	}

	var result imageResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", common.NewTransportError(resp.StatusCode(), sanitizeBody(resp.String()), err)
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", common.NewTransportError(resp.StatusCode(), "empty image data in response", nil)
	}

	return result.Data[0].URL, nil
}
