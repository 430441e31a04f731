// Package security provides API key checks and secret detection for lumen.
package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lumen-cli/lumen/internal/pkg/config"
)

// apiKeyPrefixes lists the prefix each provider issues keys with.
// Providers without an entry accept any non-empty key.
var apiKeyPrefixes = map[config.ProviderName]string{
	config.ProviderOpenAI:   "sk-",
	config.ProviderDeepSeek: "sk-",
	config.ProviderClaude:   "sk-ant-",
	config.ProviderGroq:     "gsk_",
}

// CheckAPIKeyFormat reports keys that do not look like the provider's keys.
// The result is advisory; providers remain the authority on key validity.
func CheckAPIKeyFormat(provider config.ProviderName, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}

	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}

	if prefix, ok := apiKeyPrefixes[provider]; ok && !strings.HasPrefix(apiKey, prefix) {
		return fmt.Errorf("API key format appears invalid for %s (expected format: %s...)", provider, prefix)
	}

	return nil
}

// secretPatterns are added lines in a diff that look like credentials.
var secretPatterns = []struct {
	kind  string
	regex *regexp.Regexp
}{
	{"API key", regexp.MustCompile(`(sk-ant-[a-zA-Z0-9_-]{20,}|sk-[a-zA-Z0-9_-]{20,}|gsk_[a-zA-Z0-9]{20,})`)},
	{"AWS access key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"private key", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)},
	{"password assignment", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["'][^\s"']{6,}["']`)},
}

// ScanDiffForSecrets returns the kinds of credentials found on added lines of diff.
func ScanDiffForSecrets(diff string) []string {
	var found []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		for _, p := range secretPatterns {
			if !seen[p.kind] && p.regex.MatchString(line) {
				seen[p.kind] = true
				found = append(found, p.kind)
			}
		}
	}

	return found
}

// SanitizeForLogging sanitizes a string for safe logging by masking potential secrets.
// It looks for common patterns like API keys, passwords, and tokens.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		// Bearer tokens
		{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
		// x-api-key headers
		{regexp.MustCompile(`(?i)(x-api-key)\s*[:=]\s*[a-zA-Z0-9._-]+`), "$1: ****"},
		// Generic API key patterns
		{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
		// Password patterns
		{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
		// API keys (sk-..., gsk_...)
		{secretPatterns[0].regex, "****"},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}

	return result
}

// ProviderNotice is shown when choosing a provider.
const ProviderNotice = "lumen sends diffs and commit messages to the configured AI provider. " +
	"Use the ollama provider to keep code on this machine."

// SecretWarning formats the warning printed when a diff appears to contain credentials.
func SecretWarning(kinds []string) string {
	return fmt.Sprintf("the diff appears to contain credentials (%s) and is sent to the AI provider; "+
		"review it before sharing", strings.Join(kinds, ", "))
}
