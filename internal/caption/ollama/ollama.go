package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/parishweb/parishadmin/internal/caption"
)

// Suggester asks a local Ollama instance for a caption.
type Suggester struct {
	host   string
	model  string
	client *http.Client
}

func NewSuggester(host, model string) *Suggester {
	return &Suggester{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

func (s *Suggester) Suggest(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	reqBody := map[string]any{
		"model":  s.model,
		"prompt": caption.Prompt,
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return caption.Sanitize(respBody.Response), nil
}
