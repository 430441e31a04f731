package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected int
	}{
		{"ConfigNotFound", ErrConfigNotFound, 1},
		{"ConfigParse", ErrConfigParse, 1},
		{"InvalidProvider", ErrInvalidProvider, 1},
		{"InvalidArguments", ErrInvalidArguments, 1},
		{"GitCommandFailed", ErrGitCommandFailed, 2},
		{"InvalidCommit", ErrInvalidCommit, 2},
		{"EmptyDiff", ErrEmptyDiff, 2},
		{"MissingAPIKey", ErrMissingAPIKey, 3},
		{"Transport", ErrTransport, 3},
		{"MalformedResponse", ErrMalformedResponse, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorCode_Stage(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected Stage
	}{
		{ErrConfigParse, StageConfig},
		{ErrInvalidProvider, StageConfig},
		{ErrInvalidArguments, StageCLI},
		{ErrEmptyDiff, StageGit},
		{ErrMissingAPIKey, StageDispatch},
		{ErrMalformedResponse, StageDispatch},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.Stage(); got != tt.expected {
				t.Errorf("Stage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without cause",
			err: &AppError{
				Code:    ErrEmptyDiff,
				Message: "diff (staged) is empty",
			},
			expected: "diff (staged) is empty",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrGitCommandFailed, "git failed")
	err.WithContext("command", "git diff")
	err.WithContext("exit_code", 1)

	if err.Context["command"] != "git diff" {
		t.Errorf("Context[command] = %v, want 'git diff'", err.Context["command"])
	}
	if err.Context["exit_code"] != 1 {
		t.Errorf("Context[exit_code] = %v, want 1", err.Context["exit_code"])
	}
}

func TestAppError_WithSuggestion(t *testing.T) {
	err := New(ErrEmptyDiff, "diff is empty")
	err.WithSuggestion("Use 'git add' to stage changes")

	if err.Suggestion != "Use 'git add' to stage changes" {
		t.Errorf("Suggestion = %v, want 'Use 'git add' to stage changes'", err.Suggestion)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	wrapped := Wrap(cause, ErrGitCommandFailed, "git command failed")

	if wrapped.Code != ErrGitCommandFailed {
		t.Errorf("Code = %v, want %v", wrapped.Code, ErrGitCommandFailed)
	}
	if wrapped.Message != "git command failed" {
		t.Errorf("Message = %v, want 'git command failed'", wrapped.Message)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Wrapped error should contain the cause")
	}
}

func TestGetAppError_ThroughWrapping(t *testing.T) {
	appErr := NewMissingAPIKeyError("openai")
	wrapped := fmt.Errorf("draft: %w", appErr)

	if got := GetAppError(wrapped); got != appErr {
		t.Errorf("GetAppError() = %v, want %v", got, appErr)
	}
	if GetAppError(errors.New("plain")) != nil {
		t.Error("GetAppError should return nil for a plain error")
	}
	if !HasCode(wrapped, ErrMissingAPIKey) {
		t.Error("HasCode should find the code through wrapping")
	}
	if !IsProviderError(wrapped) {
		t.Error("missing API key is a dispatch-stage error")
	}
	if IsConfigError(wrapped) {
		t.Error("missing API key is not a config error")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "config error",
			err:      NewConfigParseError("lumen.config.json", errors.New("bad json")),
			expected: 1,
		},
		{
			name:     "git error",
			err:      NewInvalidCommitError("abc123"),
			expected: 2,
		},
		{
			name:     "provider error",
			err:      NewTransportError("groq", 500, "boom", nil),
			expected: 3,
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewTransportError(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		detail         string
		wantMessage    string
		wantSuggestion bool
	}{
		{"network", 0, "", "openai request failed", true},
		{"unauthorized", 401, "invalid key", "openai request failed with status 401: invalid key", true},
		{"rate limited", 429, "", "openai request failed with status 429", true},
		{"server error", 500, "overloaded", "openai request failed with status 500: overloaded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTransportError("openai", tt.status, tt.detail, nil)
			if err.Code != ErrTransport {
				t.Errorf("Code = %v, want %v", err.Code, ErrTransport)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if (err.Suggestion != "") != tt.wantSuggestion {
				t.Errorf("Suggestion = %q, wantSuggestion %v", err.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

func TestNewInvalidProviderError(t *testing.T) {
	err := NewInvalidProviderError("gemini", "LUMEN_AI_PROVIDER", []string{"phind", "openai"})

	if err.Code != ErrInvalidProvider {
		t.Errorf("Code = %v, want %v", err.Code, ErrInvalidProvider)
	}
	if !strings.Contains(err.Message, "gemini") || !strings.Contains(err.Message, "LUMEN_AI_PROVIDER") {
		t.Errorf("Message should name value and source, got %q", err.Message)
	}
	if !strings.Contains(err.Suggestion, "phind, openai") {
		t.Errorf("Suggestion should list providers, got %q", err.Suggestion)
	}
}

func TestNewInvalidCommitError(t *testing.T) {
	err := NewInvalidCommitError("deadbeef")

	if err.Error() != "commit 'deadbeef' not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: []string{},
		},
		{
			name:     "app error with suggestion",
			err:      NewEmptyDiffError("diff (staged)"),
			contains: []string{"error (git):", "diff (staged) is empty", "hint:", "git add"},
		},
		{
			name:     "dispatch error names the stage",
			err:      NewMissingAPIKeyError("claude"),
			contains: []string{"error (dispatch):", "claude"},
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			contains: []string{"error:", "regular error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.err)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("FormatError() should contain %q, got %q", s, result)
				}
			}
		})
	}
}

func TestFormatError_MasksKeys(t *testing.T) {
	key := "sk-abcdefghijklmnopqrstuvwxyz123456"
	err := NewTransportError("openai", 401, "Incorrect API key provided: "+key, nil)

	for _, out := range []string{FormatError(err), FormatErrorVerbose(err)} {
		if strings.Contains(out, key) {
			t.Errorf("formatted error leaked the key: %q", out)
		}
		if !strings.Contains(out, "3456") {
			t.Errorf("formatted error should keep the key suffix, got %q", out)
		}
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("ollama", 0, "", cause).WithContext("endpoint", "http://localhost:11434/api/generate")

	out := FormatErrorVerbose(err)

	for _, want := range []string{"TransportFailure", "dispatch", "connection refused", "endpoint", "hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatErrorVerbose() should contain %q, got %q", want, out)
		}
	}
}
