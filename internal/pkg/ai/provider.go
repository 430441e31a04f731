// Package ai provides the AI provider registry, prompt building and dispatch for lumen.
package ai

import (
	"context"
	"net/http"

	"github.com/lumen-cli/lumen/internal/pkg/config"
)

// PromptPair is the system instruction and user request sent to a provider.
type PromptPair struct {
	System string
	User   string
}

// Request is a provider HTTP request ready to be sent.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw result of a provider call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends one request. Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Descriptor describes one provider: its defaults and how to talk to it.
// BuildRequest and ParseResponse are pure functions. Requests go to Endpoint
// unless the dispatcher overrides it.
type Descriptor struct {
	Name           config.ProviderName
	DisplayName    string
	RequiresAPIKey bool
	DefaultModel   string
	Endpoint       string

	// BuildRequest encodes authentication and body shape for a request to endpoint.
	BuildRequest func(endpoint string, prompt PromptPair, model, apiKey string) (*Request, error)
	// ParseResponse extracts the completion text from a successful response body.
	ParseResponse func(body []byte) (string, error)
	// ErrorMessage extracts a provider error message from a failed response body.
	// It returns an empty string when none is found.
	ErrorMessage func(body []byte) string
}

// jsonRequest builds a POST request with a JSON body.
func jsonRequest(url string, body []byte) *Request {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &Request{
		Method: http.MethodPost,
		URL:    url,
		Header: h,
		Body:   body,
	}
}
