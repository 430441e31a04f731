package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

const (
	// DefaultClaudeModel is the default model for Anthropic Claude.
	DefaultClaudeModel = "claude-3-5-sonnet-20241022"
	// ClaudeEndpoint is the Anthropic messages endpoint.
	ClaudeEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeAPIVersion is sent in the anthropic-version header.
	ClaudeAPIVersion = "2023-06-01"
	// ClaudeMaxTokens caps the length of a Claude completion.
	ClaudeMaxTokens = 4096
)

// ClaudeMessage represents a message in the Anthropic messages API.
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeRequest represents a request to the Anthropic messages API.
// The system prompt is a top-level field; messages carry user turns only.
type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

// ClaudeContent is one content block of a Claude response.
type ClaudeContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

// ClaudeResponse represents a response from the Anthropic messages API.
type ClaudeResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Content []ClaudeContent `json:"content"`
}

func claudeDescriptor() Descriptor {
	return Descriptor{
		Name:           config.ProviderClaude,
		DisplayName:    "Anthropic Claude",
		RequiresAPIKey: true,
		DefaultModel:   DefaultClaudeModel,
		Endpoint:       ClaudeEndpoint,
		BuildRequest:   buildClaudeRequest,
		ParseResponse:  parseClaudeResponse,
		ErrorMessage:   commonErrorMessage,
	}
}

func buildClaudeRequest(endpoint string, prompt PromptPair, model, apiKey string) (*Request, error) {
	claudeReq := ClaudeRequest{
		Model:     model,
		MaxTokens: ClaudeMaxTokens,
		System:    prompt.System,
		Messages: []ClaudeMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
	}

	body, err := json.Marshal(claudeReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := jsonRequest(endpoint, body)
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", ClaudeAPIVersion)
	return req, nil
}

func parseClaudeResponse(body []byte) (string, error) {
	const provider = "claude"

	var resp ClaudeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.NewMalformedResponseError(provider, fmt.Errorf("failed to parse response: %w", err))
	}

	for _, block := range resp.Content {
		if block.Text == nil {
			continue
		}
		if text := strings.TrimSpace(*block.Text); text != "" {
			return text, nil
		}
	}

	return "", apperrors.NewMalformedResponseError(provider, errors.New("no text content returned"))
}
