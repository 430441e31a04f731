package ai

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

func TestBuildPhindRequest(t *testing.T) {
	req, err := buildPhindRequest(PhindEndpoint, PromptPair{System: "sys", User: "usr"}, DefaultPhindModel, "")
	if err != nil {
		t.Fatalf("buildPhindRequest() error = %v", err)
	}

	if req.URL != PhindEndpoint {
		t.Errorf("URL = %s, want %s", req.URL, PhindEndpoint)
	}
	if got := req.Header.Get("Accept"); got != "*/*" {
		t.Errorf("Accept = %q, want */*", got)
	}
	if got := req.Header.Get("Accept-Encoding"); got != "Identity" {
		t.Errorf("Accept-Encoding = %q, want Identity", got)
	}
	if _, ok := req.Header["User-Agent"]; !ok {
		t.Error("User-Agent header should be present and empty")
	}

	var body PhindRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.RequestedModel != DefaultPhindModel {
		t.Errorf("RequestedModel = %s, want %s", body.RequestedModel, DefaultPhindModel)
	}
	if body.UserInput != "sys\n\nusr" {
		t.Errorf("UserInput = %q", body.UserInput)
	}
	if len(body.MessageHistory) != 1 || body.MessageHistory[0].Role != "user" || body.MessageHistory[0].Content != body.UserInput {
		t.Errorf("MessageHistory = %+v", body.MessageHistory)
	}
	if !body.AllowMagicButtons || !body.IsVSCodeExtension {
		t.Error("extension flags should be set")
	}
}

func TestParsePhindResponse(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"id":"1","choices":[{"index":0,"delta":{"role":"assistant","content":""}}]}`,
		``,
		`data: {"id":"1","choices":[{"index":0,"delta":{"content":"feat: add "}}]}`,
		`data: {"id":"1","choices":[{"index":0,"delta":{"content":"phind support"}}]}`,
		`: keep-alive`,
		`data: {"id":"1","choices":[]}`,
		`data: [DONE]`,
	}, "\n")

	got, err := parsePhindResponse([]byte(stream))
	if err != nil {
		t.Fatalf("parsePhindResponse() error = %v", err)
	}
	if got != "feat: add phind support" {
		t.Errorf("got %q, want %q", got, "feat: add phind support")
	}
}

func TestParsePhindResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"no data lines", "event: ping\n\n"},
		{"only done", "data: [DONE]\n"},
		{"blank deltas", `data: {"choices":[{"index":0,"delta":{"content":"  "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePhindResponse([]byte(tt.body))
			if !apperrors.HasCode(err, apperrors.ErrMalformedResponse) {
				t.Errorf("error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}
