package ai

import (
	"github.com/tidwall/gjson"

	"github.com/lumen-cli/lumen/internal/pkg/config"
)

// registry maps every supported provider to its descriptor.
var registry = map[config.ProviderName]Descriptor{
	config.ProviderPhind:    phindDescriptor(),
	config.ProviderOpenAI:   openAICompatibleDescriptor(config.ProviderOpenAI, "OpenAI", DefaultOpenAIModel, OpenAIEndpoint),
	config.ProviderGroq:     openAICompatibleDescriptor(config.ProviderGroq, "Groq", DefaultGroqModel, GroqEndpoint),
	config.ProviderDeepSeek: openAICompatibleDescriptor(config.ProviderDeepSeek, "DeepSeek", DefaultDeepSeekModel, DeepSeekEndpoint),
	config.ProviderClaude:   claudeDescriptor(),
	config.ProviderOllama:   ollamaDescriptor(),
}

// Lookup returns the descriptor for a provider.
// Every config.ProviderNames value is registered.
func Lookup(name config.ProviderName) (Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// Descriptors returns all descriptors in config.ProviderNames order.
func Descriptors() []Descriptor {
	names := config.ProviderNames()
	out := make([]Descriptor, 0, len(names))
	for _, n := range names {
		if d, ok := registry[n]; ok {
			out = append(out, d)
		}
	}
	return out
}

// commonErrorMessage reads the error shapes used by the supported APIs:
// {"error": {"message": "..."}} and {"error": "..."}.
func commonErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	if msg := gjson.GetBytes(body, "error.message"); msg.Type == gjson.String {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
		return msg.String()
	}
	return ""
}
