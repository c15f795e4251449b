package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"  // 支援 GIF
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Processor 圖片處理器：將後端返回的二進位圖片統一轉成 JPEG data URI
type Processor struct {
	maxSizeBytes int64
}

// NewProcessor 創建新的圖片處理器
func NewProcessor(maxSizeBytes int64) *Processor {
	return &Processor{maxSizeBytes: maxSizeBytes}
}

// ToDataURI 將二進位圖片轉換為 base64 data URI。
// 先解碼驗證格式，再統一重新編碼為 JPEG。
func (p *Processor) ToDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	if int64(len(data)) > p.maxSizeBytes {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", p.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
