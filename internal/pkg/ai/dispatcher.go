package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
	"github.com/lumen-cli/lumen/internal/pkg/security"
)

// Dispatcher sends a prompt to the configured provider.
type Dispatcher struct {
	transport Transport
	// endpoints overrides descriptor endpoints, keyed by provider.
	endpoints map[config.ProviderName]string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithEndpoint sends requests for provider to url instead of its default endpoint.
func WithEndpoint(provider config.ProviderName, url string) DispatcherOption {
	return func(d *Dispatcher) {
		if url != "" {
			d.endpoints[provider] = url
		}
	}
}

// NewDispatcher creates a dispatcher using transport for all calls.
func NewDispatcher(transport Transport, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		endpoints: make(map[config.ProviderName]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolveModel returns the model that will be used for cfg.
func ResolveModel(cfg *config.Config, d Descriptor) string {
	if strings.TrimSpace(cfg.Model) != "" {
		return cfg.Model
	}
	return d.DefaultModel
}

// Dispatch performs one request/response cycle and returns the trimmed completion text.
// A missing API key is reported before any network activity. Failures are never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg *config.Config, prompt PromptPair) (string, error) {
	desc, ok := Lookup(cfg.Provider)
	if !ok {
		// Unreachable for configs built by config.Resolve.
		return "", apperrors.NewInvalidProviderError(string(cfg.Provider), "configuration", config.ProviderStrings())
	}
	provider := string(desc.Name)

	apiKey := strings.TrimSpace(cfg.APIKey)
	if desc.RequiresAPIKey && apiKey == "" {
		return "", apperrors.NewMissingAPIKeyError(provider)
	}

	model := ResolveModel(cfg, desc)

	endpoint := desc.Endpoint
	if url, ok := d.endpoints[desc.Name]; ok {
		endpoint = url
	}

	req, err := desc.BuildRequest(endpoint, prompt, model, apiKey)
	if err != nil {
		return "", apperrors.NewTransportError(provider, 0, "", err)
	}

	requestID := uuid.NewString()
	apperrors.LogAPIRequest(provider, req.URL, model, requestID, len(prompt.System)+len(prompt.User))
	startTime := time.Now()

	resp, err := d.transport.Send(ctx, req)
	if err != nil {
		return "", transportError(provider, err)
	}

	apperrors.LogAPIResponse(provider, requestID, resp.StatusCode, len(resp.Body), time.Since(startTime))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apperrors.Debug("%s error body: %s", provider, security.SanitizeForLogging(truncate(string(resp.Body), 1000)))
		detail := ""
		if desc.ErrorMessage != nil {
			detail = desc.ErrorMessage(resp.Body)
		}
		if detail == "" {
			detail = truncate(strings.TrimSpace(string(resp.Body)), 200)
		}
		return "", apperrors.NewTransportError(provider, resp.StatusCode, detail, nil)
	}

	text, err := desc.ParseResponse(resp.Body)
	if err != nil {
		if apperrors.GetAppError(err) == nil {
			err = apperrors.NewMalformedResponseError(provider, err)
		}
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// transportError wraps a failure that produced no HTTP response.
func transportError(provider string, err error) error {
	appErr := apperrors.NewTransportError(provider, 0, "", err)
	switch {
	case errors.Is(err, context.Canceled):
		appErr.Message = fmt.Sprintf("%s request cancelled", provider)
		appErr.Suggestion = ""
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout"):
		appErr.Message = fmt.Sprintf("%s request timed out", provider)
	case provider == string(config.ProviderOllama) && strings.Contains(err.Error(), "connection refused"):
		appErr.Suggestion = "Please ensure Ollama is running using 'ollama serve'"
	}
	return appErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
