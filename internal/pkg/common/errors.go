package common

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError 傳輸層錯誤：網路失敗、非 2xx 狀態碼或封包格式異常。
// 管線本身不重試，直接往上傳遞。
type TransportError struct {
	StatusCode int    // HTTP 狀態碼，網路層失敗時為 0
	Body       string // 上游回應內容（已清理）
	Err        error  // 原始錯誤
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error (status %d): %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return "transport error"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError 創建傳輸層錯誤
func NewTransportError(statusCode int, body string, err error) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// IsTransportError 檢查是否為傳輸層錯誤
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// GenerationError 生成錯誤：AI 回應為空、不可用，或 JSON 還原全數失敗。
// 對 GenerateRecipe 而言是致命錯誤。
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError 創建生成錯誤
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

// IsGenerationError 檢查是否為生成錯誤
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// FieldError 單一欄位的驗證失敗原因
type FieldError struct {
	Path   string // 欄位路徑，例如 shoppingList.items[0].name
	Reason string
}

// SchemaValidationError 食譜結構驗證錯誤，攜帶逐欄位診斷。
// 驗證階段之後不再嘗試修復，屬硬邊界。
type SchemaValidationError struct {
	Fields []FieldError
}

func (e *SchemaValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "recipe validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Path, f.Reason))
	}
	return "recipe validation failed: " + strings.Join(parts, "; ")
}

// NewSchemaValidationError 創建結構驗證錯誤
func NewSchemaValidationError(fields []FieldError) *SchemaValidationError {
	return &SchemaValidationError{Fields: fields}
}

// IsSchemaValidationError 檢查是否為結構驗證錯誤
func IsSchemaValidationError(err error) bool {
	var ve *SchemaValidationError
	return errors.As(err, &ve)
}

// ImageGenerationError 圖片生成錯誤：三層 fallback 全數失敗。
// 對整體食譜結果非致命，食譜仍會回傳、只是沒有圖片。
type ImageGenerationError struct {
	Message string
	Err     error
}

func (e *ImageGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImageGenerationError) Unwrap() error {
	return e.Err
}

// NewImageGenerationError 創建圖片生成錯誤
func NewImageGenerationError(message string, err error) *ImageGenerationError {
	return &ImageGenerationError{Message: message, Err: err}
}

// IsImageGenerationError 檢查是否為圖片生成錯誤
func IsImageGenerationError(err error) bool {
	var ie *ImageGenerationError
	return errors.As(err, &ie)
}
