// Package claude extracts receipt text using the Anthropic Messages API.
package claude

import (
	"context"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/akapur/autosplit/internal/extract"
)

type ClaudeExtractor struct {
	client *anthropic.Client
	model  string
}

func NewClaudeExtractor(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeExtractor {
	return &ClaudeExtractor{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (e *ClaudeExtractor) ExtractText(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := e.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(e.model),
		// A dense supermarket receipt transcribes to well under 2048 tokens.
		MaxTokens: 2048,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						imageData,
					)),
					anthropic.NewTextMessageContent(extract.TranscriptionPrompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, content := range resp.Content {
		if text := content.GetText(); text != "" {
			return text, nil
		}
	}
	return "", nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts (jpeg, png, gif, webp). Unknown types are coerced to jpeg; callers
// validate MIME types before reaching this layer.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
