package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// Environment variables read by the env tier.
const (
	EnvProvider = "LUMEN_AI_PROVIDER"
	EnvAPIKey   = "LUMEN_API_KEY"
	EnvModel    = "LUMEN_AI_MODEL"
)

// DotEnvFile is read from the project root as a fallback for unset variables.
const DotEnvFile = ".env"

// bindEnvVars binds each setting to its environment variable.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("provider", EnvProvider)
	_ = v.BindEnv("api_key", EnvAPIKey)
	_ = v.BindEnv("model", EnvModel)
}

// LoadEnv builds the environment tier. Values in the process environment win
// over values from a .env file in dotEnvDir; dotEnvDir may be empty.
// Empty variables count as unset.
func LoadEnv(dotEnvDir string) (Partial, error) {
	v := viper.New()
	bindEnvVars(v)

	if dotEnvDir != "" {
		applyDotEnv(v, filepath.Join(dotEnvDir, DotEnvFile))
	}

	var p Partial
	if raw := v.GetString("provider"); raw != "" {
		name, ok := ParseProviderName(raw)
		if !ok {
			return Partial{}, apperrors.NewInvalidProviderError(raw, EnvProvider, ProviderStrings())
		}
		p.Provider = &name
	}
	if model := v.GetString("model"); model != "" {
		p.Model = &model
	}
	if key := v.GetString("api_key"); key != "" {
		p.APIKey = &key
	}
	return p, nil
}

// applyDotEnv registers .env values as defaults so bound variables take precedence.
// The file may belong to other tooling, so a file godotenv cannot read is skipped.
func applyDotEnv(v *viper.Viper, path string) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			apperrors.Warn("Ignoring %s: %v", path, err)
		}
		return
	}
	for key, envName := range map[string]string{
		"provider": EnvProvider,
		"api_key":  EnvAPIKey,
		"model":    EnvModel,
	} {
		if val, ok := values[envName]; ok && val != "" {
			v.SetDefault(key, val)
		}
	}
}
