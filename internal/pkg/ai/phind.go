package ai

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

const (
	// DefaultPhindModel is the default model for Phind.
	DefaultPhindModel = "Phind-70B"

	// PhindEndpoint is the Phind agent endpoint used by its editor extension.
	PhindEndpoint = "https://https.extension.phind.com/agent/"

	phindDataPrefix = "data: "
)

// PhindMessage is one entry of the Phind message history.
type PhindMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// PhindRequest represents a request to the Phind agent API.
type PhindRequest struct {
	AdditionalExtensionContext string         `json:"additional_extension_context"`
	AllowMagicButtons          bool           `json:"allow_magic_buttons"`
	IsVSCodeExtension          bool           `json:"is_vscode_extension"`
	MessageHistory             []PhindMessage `json:"message_history"`
	RequestedModel             string         `json:"requested_model"`
	UserInput                  string         `json:"user_input"`
}

func phindDescriptor() Descriptor {
	return Descriptor{
		Name:           config.ProviderPhind,
		DisplayName:    "Phind",
		RequiresAPIKey: false,
		DefaultModel:   DefaultPhindModel,
		Endpoint:       PhindEndpoint,
		BuildRequest:   buildPhindRequest,
		ParseResponse:  parsePhindResponse,
		ErrorMessage:   commonErrorMessage,
	}
}

func buildPhindRequest(endpoint string, prompt PromptPair, model, _ string) (*Request, error) {
	input := concatPrompt(prompt)
	phindReq := PhindRequest{
		AdditionalExtensionContext: "",
		AllowMagicButtons:          true,
		IsVSCodeExtension:          true,
		MessageHistory: []PhindMessage{
			{Content: input, Role: openai.ChatMessageRoleUser},
		},
		RequestedModel: model,
		UserInput:      input,
	}

	body, err := json.Marshal(phindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := jsonRequest(endpoint, body)
	req.Header.Set("User-Agent", "")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "Identity")
	return req, nil
}

// parsePhindResponse accumulates the delta content of every "data: " line.
// Lines that are not chunk objects, such as "data: [DONE]", are skipped.
func parsePhindResponse(body []byte) (string, error) {
	const provider = "phind"

	var sb strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, phindDataPrefix) {
			continue
		}
		var chunk openai.ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, phindDataPrefix)), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", apperrors.NewMalformedResponseError(provider, fmt.Errorf("failed to read stream: %w", err))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apperrors.NewMalformedResponseError(provider, errors.New("no completion choice available"))
	}
	return text, nil
}
