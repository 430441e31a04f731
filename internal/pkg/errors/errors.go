// Package errors provides error types, formatting and logging for lumen.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// Config errors (Exit Code 1)
	ErrConfigNotFound ErrorCode = iota + 100
	ErrConfigParse
	ErrInvalidProvider
	ErrInvalidArguments
)

const (
	// Git errors (Exit Code 2)
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrInvalidCommit
	ErrEmptyDiff
)

const (
	// Provider errors (Exit Code 3)
	ErrMissingAPIKey ErrorCode = iota + 300
	ErrTransport
	ErrMalformedResponse
)

// Stage names the part of an invocation that failed.
type Stage string

const (
	StageConfig   Stage = "config resolution"
	StageGit      Stage = "git"
	StageDispatch Stage = "dispatch"
	StageCLI      Stage = "arguments"
)

// ExitCode returns the process exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1
	case c >= 200 && c < 300:
		return 2
	case c >= 300:
		return 3
	default:
		return 1
	}
}

// Stage returns the stage an error code belongs to.
func (c ErrorCode) Stage() Stage {
	switch {
	case c == ErrInvalidArguments:
		return StageCLI
	case c >= 100 && c < 200:
		return StageConfig
	case c >= 200 && c < 300:
		return StageGit
	default:
		return StageDispatch
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrConfigNotFound:
		return "ConfigNotFound"
	case ErrConfigParse:
		return "ConfigParse"
	case ErrInvalidProvider:
		return "InvalidProvider"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrInvalidCommit:
		return "InvalidCommit"
	case ErrEmptyDiff:
		return "EmptyDiff"
	case ErrMissingAPIKey:
		return "MissingAPIKey"
	case ErrTransport:
		return "TransportFailure"
	case ErrMalformedResponse:
		return "MalformedResponse"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
	// StatusCode is the HTTP status of a failed provider call, 0 when no response arrived.
	StatusCode int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Stage returns the stage the error was raised in.
func (e *AppError) Stage() Stage {
	return e.Code.Stage()
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// IsConfigError reports whether err was raised while resolving configuration.
func IsConfigError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Stage() == StageConfig
}

// IsProviderError reports whether err was raised while dispatching to a provider.
func IsProviderError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Stage() == StageDispatch
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// Common error constructors with suggestions

// NewConfigNotFoundError reports an explicit --config path that does not exist.
func NewConfigNotFoundError(path string, cause error) *AppError {
	return &AppError{
		Code:       ErrConfigNotFound,
		Message:    fmt.Sprintf("config file %s not found", path),
		Cause:      cause,
		Suggestion: "Check the --config path or run 'lumen configure' to create a global config",
	}
}

// NewConfigParseError reports a config file that is not valid JSON of the expected shape.
func NewConfigParseError(path string, cause error) *AppError {
	return &AppError{
		Code:       ErrConfigParse,
		Message:    fmt.Sprintf("failed to parse config file %s", path),
		Cause:      cause,
		Suggestion: "Fix the JSON syntax of the file or remove it",
	}
}

// NewInvalidProviderError reports a provider identifier outside the supported set.
func NewInvalidProviderError(value, source string, supported []string) *AppError {
	return &AppError{
		Code:       ErrInvalidProvider,
		Message:    fmt.Sprintf("invalid provider %q from %s", value, source),
		Suggestion: "Supported providers: " + strings.Join(supported, ", "),
	}
}

// NewInvalidArgumentsError reports a bad command line.
func NewInvalidArgumentsError(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidArguments,
		Message: message,
	}
}

// NewMissingAPIKeyError creates an error for missing API key.
func NewMissingAPIKeyError(provider string) *AppError {
	return &AppError{
		Code:       ErrMissingAPIKey,
		Message:    fmt.Sprintf("missing API key for %s", provider),
		Suggestion: "Pass --api-key, set LUMEN_API_KEY, or add api_key to lumen.config.json",
	}
}

// NewTransportError creates an error for a failed provider request.
// status is 0 when no HTTP response was received.
func NewTransportError(provider string, status int, detail string, cause error) *AppError {
	msg := fmt.Sprintf("%s request failed", provider)
	if status != 0 {
		msg = fmt.Sprintf("%s request failed with status %d", provider, status)
	}
	if detail != "" {
		msg += ": " + detail
	}
	appErr := &AppError{
		Code:       ErrTransport,
		Message:    msg,
		Cause:      cause,
		StatusCode: status,
	}
	switch status {
	case 0:
		appErr.Suggestion = "Please check your network connection and try again"
	case 401, 403:
		appErr.Suggestion = "Please check your API key is valid and has not expired"
	case 429:
		appErr.Suggestion = "Rate limited by the provider, please wait and try again"
	}
	return appErr
}

// NewMalformedResponseError creates an error for an unexpected response body.
func NewMalformedResponseError(provider string, cause error) *AppError {
	return &AppError{
		Code:    ErrMalformedResponse,
		Message: fmt.Sprintf("unexpected response from %s", provider),
		Cause:   cause,
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewInvalidCommitError reports a reference that does not name a commit.
func NewInvalidCommitError(ref string) *AppError {
	return &AppError{
		Code:    ErrInvalidCommit,
		Message: fmt.Sprintf("commit '%s' not found", ref),
	}
}

// NewEmptyDiffError reports a diff with no content.
func NewEmptyDiffError(what string) *AppError {
	return &AppError{
		Code:       ErrEmptyDiff,
		Message:    fmt.Sprintf("%s is empty", what),
		Suggestion: "Stage changes with 'git add' or pick another reference",
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("error (")
		sb.WriteString(string(appErr.Stage()))
		sb.WriteString("): ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  hint: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("error [%s] (%s): %s\n", appErr.Code.String(), appErr.Stage(), SanitizeErrorMessage(appErr.Message)))

		if appErr.StatusCode != 0 {
			sb.WriteString(fmt.Sprintf("  status: %d\n", appErr.StatusCode))
		}

		if appErr.Cause != nil {
			sb.WriteString("  error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  hint: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, SanitizeErrorMessage(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, MaskAPIKey)
}

// apiKeyPattern matches common API key patterns (OpenAI, DeepSeek, Anthropic, Groq).
var apiKeyPattern = regexp.MustCompile(`(sk-ant-[a-zA-Z0-9_-]{20,}|sk-[a-zA-Z0-9_-]{20,}|gsk_[a-zA-Z0-9]{20,})`)
