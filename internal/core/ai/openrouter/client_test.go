package openrouter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatResponseContent(t *testing.T) {
	resp := &ChatResponse{
		Choices: []Choice{
			{Message: Message{Role: "assistant", Content: "first"}},
			{Message: Message{Role: "assistant", Content: "second"}},
		},
	}
	assert.Equal(t, "first", resp.Content())

	empty := &ChatResponse{}
	assert.Equal(t, "", empty.Content())
}

func TestSanitizeBody(t *testing.T) {
	assert.Equal(t, "[IMAGE_DATA_REMOVED]", sanitizeBody(`{"data": "data:image/jpeg;base64,AAAA"}`))
	assert.Equal(t, "[IMAGE_DATA_REMOVED]", sanitizeBody(`{"encoding": "base64"}`))
	assert.Equal(t, `{"error": "rate limited"}`, sanitizeBody(`{"error": "rate limited"}`))
}
