package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

const (
	// DefaultOllamaModel is the default model for Ollama.
	DefaultOllamaModel = "codellama"

	// OllamaEndpoint is the local Ollama generate endpoint.
	OllamaEndpoint = "http://localhost:11434/api/generate"
)

// OllamaGenerateRequest represents a request to the Ollama generate API.
// Ollama takes a single prompt, so system and user prompts are concatenated.
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaGenerateResponse represents a response from the Ollama generate API.
type OllamaGenerateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
	Error    string  `json:"error,omitempty"`
}

func ollamaDescriptor() Descriptor {
	return Descriptor{
		Name:           config.ProviderOllama,
		DisplayName:    "Ollama (local)",
		RequiresAPIKey: false,
		DefaultModel:   DefaultOllamaModel,
		Endpoint:       OllamaEndpoint,
		BuildRequest:   buildOllamaRequest,
		ParseResponse:  parseOllamaResponse,
		ErrorMessage:   commonErrorMessage,
	}
}

func buildOllamaRequest(endpoint string, prompt PromptPair, model, _ string) (*Request, error) {
	genReq := OllamaGenerateRequest{
		Model:  model,
		Prompt: concatPrompt(prompt),
		Stream: false, // One JSON object instead of a stream of chunks
	}

	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return jsonRequest(endpoint, body), nil
}

func parseOllamaResponse(body []byte) (string, error) {
	const provider = "ollama"

	var resp OllamaGenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.NewMalformedResponseError(provider, fmt.Errorf("failed to parse response: %w", err))
	}

	if resp.Error != "" {
		return "", apperrors.NewMalformedResponseError(provider, fmt.Errorf("ollama error: %s", resp.Error))
	}

	if resp.Response == nil {
		return "", apperrors.NewMalformedResponseError(provider, errors.New("missing response field"))
	}

	text := strings.TrimSpace(*resp.Response)
	if text == "" {
		return "", apperrors.NewMalformedResponseError(provider, errors.New("empty response"))
	}

	return text, nil
}

// concatPrompt joins a prompt pair for providers that take one prompt string.
func concatPrompt(prompt PromptPair) string {
	switch {
	case prompt.System == "":
		return prompt.User
	case prompt.User == "":
		return prompt.System
	default:
		return prompt.System + "\n\n" + prompt.User
	}
}
