package claude

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/parishweb/parishadmin/internal/caption"
)

// Suggester asks the Anthropic Messages API for a caption.
type Suggester struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewSuggester(apiKey, model string) *Suggester {
	return &Suggester{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
	}
}

func (s *Suggester) Suggest(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: s.model,
		// A caption is a dozen words; 128 tokens leaves headroom for chatty models.
		MaxTokens: 128,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(
							anthropic.MessagesContentSourceTypeBase64,
							mimeType,
							base64.StdEncoding.EncodeToString(imageData),
						),
					),
					anthropic.NewTextMessageContent(caption.Prompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude caption request: %w", err)
	}

	for _, blk := range resp.Content {
		if text := blk.GetText(); text != "" {
			return caption.Sanitize(text), nil
		}
	}
	return "", nil
}
