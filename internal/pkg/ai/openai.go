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
	// DefaultOpenAIModel is the default model for OpenAI.
	DefaultOpenAIModel = "gpt-4o-mini"
	// OpenAIEndpoint is the OpenAI chat completions endpoint.
	OpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

	// DefaultGroqModel is the default model for Groq.
	DefaultGroqModel = "mixtral-8x7b-32768"
	// GroqEndpoint is Groq's OpenAI-compatible chat completions endpoint.
	GroqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultDeepSeekModel is the default model for DeepSeek.
	DefaultDeepSeekModel = "deepseek-chat"
	// DeepSeekEndpoint is DeepSeek's OpenAI-compatible chat completions endpoint.
	DeepSeekEndpoint = "https://api.deepseek.com/v1/chat/completions"
)

// openAICompatibleDescriptor describes a provider speaking the OpenAI chat
// completions protocol with bearer authentication.
func openAICompatibleDescriptor(name config.ProviderName, displayName, defaultModel, endpoint string) Descriptor {
	provider := string(name)
	return Descriptor{
		Name:           name,
		DisplayName:    displayName,
		RequiresAPIKey: true,
		DefaultModel:   defaultModel,
		Endpoint:       endpoint,
		BuildRequest:   buildChatCompletionRequest,
		ParseResponse: func(body []byte) (string, error) {
			return parseChatCompletionResponse(provider, body)
		},
		ErrorMessage: commonErrorMessage,
	}
}

func buildChatCompletionRequest(endpoint string, prompt PromptPair, model, apiKey string) (*Request, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := jsonRequest(endpoint, body)
	req.Header.Set("Authorization", "Bearer "+apiKey)
	return req, nil
}

func parseChatCompletionResponse(provider string, body []byte) (string, error) {
	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.NewMalformedResponseError(provider, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewMalformedResponseError(provider, errors.New("no completion choices returned"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.NewMalformedResponseError(provider, errors.New("empty message content"))
	}

	return content, nil
}
