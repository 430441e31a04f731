package ai

import (
	"encoding/json"
	"strconv"
	"testing"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

func TestBuildClaudeRequest(t *testing.T) {
	req, err := buildClaudeRequest(ClaudeEndpoint, PromptPair{System: "You explain diffs.", User: "Explain this"}, DefaultClaudeModel, "sk-ant-test")
	if err != nil {
		t.Fatalf("buildClaudeRequest() error = %v", err)
	}

	if req.URL != ClaudeEndpoint {
		t.Errorf("URL = %s, want %s", req.URL, ClaudeEndpoint)
	}
	if got := req.Header.Get("x-api-key"); got != "sk-ant-test" {
		t.Errorf("x-api-key = %q, want sk-ant-test", got)
	}
	if got := req.Header.Get("anthropic-version"); got != ClaudeAPIVersion {
		t.Errorf("anthropic-version = %q, want %s", got, ClaudeAPIVersion)
	}
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("Authorization should not be set, got %q", got)
	}

	var body ClaudeRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Model != DefaultClaudeModel {
		t.Errorf("Model = %s, want %s", body.Model, DefaultClaudeModel)
	}
	if body.MaxTokens != ClaudeMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", body.MaxTokens, ClaudeMaxTokens)
	}
	if body.System != "You explain diffs." {
		t.Errorf("System = %q", body.System)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "Explain this" {
		t.Errorf("Messages = %+v, want one user message", body.Messages)
	}
}

func TestParseClaudeResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "single text block",
			body: `{"id": "msg_1", "content": [{"type": "text", "text": "fix: handle nil config"}]}`,
			want: "fix: handle nil config",
		},
		{
			name: "skips blocks without text",
			body: `{"content": [{"type": "tool_use"}, {"type": "text", "text": "\n docs: update readme \n"}]}`,
			want: "docs: update readme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClaudeResponse([]byte(tt.body))
			if err != nil {
				t.Fatalf("parseClaudeResponse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseClaudeResponse_Malformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"content": []}`,
		`{"content": [{"type": "text"}]}`,
		`{"content": [{"type": "text", "text": ""}]}`,
		`{"id": "msg_1"}`,
	}

	for i, body := range bodies {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := parseClaudeResponse([]byte(body))
			if !apperrors.HasCode(err, apperrors.ErrMalformedResponse) {
				t.Errorf("parseClaudeResponse(%s) error = %v, want ErrMalformedResponse", body, err)
			}
		})
	}
}
