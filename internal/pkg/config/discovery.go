package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// GlobalConfigPath returns the per-user config file path:
// $XDG_CONFIG_HOME/lumen/lumen.config.json, falling back to ~/.config.
func GlobalConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lumen", FileName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "lumen", FileName), nil
}

// lookup is one config file discovery strategy.
type lookup struct {
	path string
	// required lookups fail when the file is missing instead of falling through.
	required bool
}

// lookups returns the discovery chain. Only the first file found is read.
func lookups(explicitPath, projectRoot, globalPath string) []lookup {
	if explicitPath != "" {
		return []lookup{{path: explicitPath, required: true}}
	}
	var out []lookup
	if projectRoot != "" {
		out = append(out, lookup{path: filepath.Join(projectRoot, FileName)})
	}
	if globalPath != "" {
		out = append(out, lookup{path: globalPath})
	}
	return out
}

// Discover finds and parses the config file. It returns an empty path and
// Partial when no optional file exists.
func Discover(explicitPath, projectRoot, globalPath string) (string, Partial, error) {
	for _, l := range lookups(explicitPath, projectRoot, globalPath) {
		p, err := LoadFile(l.path)
		if err == nil {
			return l.path, p, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if l.required {
				return "", Partial{}, apperrors.NewConfigNotFoundError(l.path, err)
			}
			continue
		}
		if apperrors.GetAppError(err) != nil {
			return "", Partial{}, err
		}
		return "", Partial{}, apperrors.NewConfigParseError(l.path, err)
	}
	return "", Partial{}, nil
}
