package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// Manager edits a config file in place. Keys it does not touch, including
// unknown ones, keep their values and order.
type Manager struct {
	configPath string
}

// NewManager creates a manager for configPath.
// If configPath is empty, the global config file is used.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		var err error
		configPath, err = GlobalConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return &Manager{configPath: configPath}, nil
}

// GetConfigPath returns the path to the configuration file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// ConfigExists checks if the configuration file exists.
func (m *Manager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

var (
	settableKeys = map[string]bool{
		"provider":              true,
		"model":                 true,
		"api_key":               true,
		"draft.system_prompt":   true,
		"draft.user_prompt":     true,
		"explain.system_prompt": true,
		"explain.user_prompt":   true,
		"operate.system_prompt": true,
		"operate.user_prompt":   true,
	}
	commitTypeKey = regexp.MustCompile(`^draft\.commit_types\.([A-Za-z0-9_-]+)$`)
)

// ValidKey reports whether key can be written with Set.
func ValidKey(key string) bool {
	return settableKeys[key] || commitTypeKey.MatchString(key)
}

// storePath converts key to an sjson path. Commit type codes are forced to
// object keys so that codes like "2" or "-1" do not address array elements.
func storePath(key string) string {
	if m := commitTypeKey.FindStringSubmatch(key); m != nil {
		return "draft.commit_types.:" + m[1]
	}
	return key
}

// Set writes a string value. Nested keys use dot notation, e.g. "draft.user_prompt"
// or "draft.commit_types.wip".
func (m *Manager) Set(key, value string) error {
	if !ValidKey(key) {
		return apperrors.NewInvalidArgumentsError(fmt.Sprintf("unknown config key %q", key))
	}
	if key == "provider" {
		name, ok := ParseProviderName(value)
		if !ok {
			return apperrors.NewInvalidProviderError(value, "config set", ProviderStrings())
		}
		value = string(name)
	}
	return m.update(func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, storePath(key), value)
	})
}

// Unset removes a key from the file.
func (m *Manager) Unset(key string) error {
	if !ValidKey(key) {
		return apperrors.NewInvalidArgumentsError(fmt.Sprintf("unknown config key %q", key))
	}
	return m.update(func(doc []byte) ([]byte, error) {
		return sjson.DeleteBytes(doc, storePath(key))
	})
}

// Get returns the raw value stored in the file for key.
func (m *Manager) Get(key string) (string, error) {
	doc, err := m.read()
	if err != nil {
		return "", err
	}
	r := gjson.GetBytes(doc, key)
	if !r.Exists() {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return r.String(), nil
}

// ProviderSettings are the values written by the configure wizard.
type ProviderSettings struct {
	Provider ProviderName
	APIKey   string
	Model    string
}

// SaveProviderSettings stores the provider choice. Empty key or model values
// are removed from the file so lower tiers can supply them.
func (m *Manager) SaveProviderSettings(s ProviderSettings) error {
	return m.update(func(doc []byte) ([]byte, error) {
		var err error
		if doc, err = sjson.SetBytes(doc, "provider", string(s.Provider)); err != nil {
			return nil, err
		}
		for key, val := range map[string]string{"api_key": s.APIKey, "model": s.Model} {
			if strings.TrimSpace(val) == "" {
				doc, err = sjson.DeleteBytes(doc, key)
			} else {
				doc, err = sjson.SetBytes(doc, key, val)
			}
			if err != nil {
				return nil, err
			}
		}
		return doc, nil
	})
}

func (m *Manager) read() ([]byte, error) {
	doc, err := os.ReadFile(m.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(strings.TrimSpace(string(doc))) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, apperrors.NewConfigParseError(m.configPath, errors.New("invalid JSON"))
	}
	return doc, nil
}

// update applies edit to the file contents and writes the result.
// Sets file permissions to 0600 since the file may hold an API key.
func (m *Manager) update(edit func([]byte) ([]byte, error)) error {
	doc, err := m.read()
	if err != nil {
		return err
	}
	doc, err = edit(doc)
	if err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(m.configPath, pretty.Pretty(doc), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	return nil
}
