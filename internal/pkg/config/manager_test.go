package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

func TestManager_SetCreatesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lumen", FileName)

	mgr, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if mgr.ConfigExists() {
		t.Fatal("config should not exist yet")
	}

	if err := mgr.Set("model", "gpt-4o"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if !mgr.ConfigExists() {
		t.Fatal("Set should create the config file")
	}
	got, err := mgr.Get("model")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "gpt-4o" {
		t.Errorf("Get(model) = %q, want gpt-4o", got)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want 0600", perm)
		}
	}
}

func TestManager_SetPreservesOtherKeys(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), FileName, `{"theme": "dark", "provider": "openai", "draft": {"system_prompt": "keep me"}}`)
	mgr, _ := NewManager(configPath)

	if err := mgr.Set("draft.user_prompt", "Diff: {diff}"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	p, err := ParseFile(configPath, data)
	if err != nil {
		t.Fatalf("written file should parse: %v", err)
	}
	if deref(p.Draft.SystemPrompt) != "keep me" {
		t.Errorf("Draft.SystemPrompt = %q, want keep me", deref(p.Draft.SystemPrompt))
	}
	if deref(p.Draft.UserPrompt) != "Diff: {diff}" {
		t.Errorf("Draft.UserPrompt = %q", deref(p.Draft.UserPrompt))
	}
	if !strings.Contains(string(data), `"theme"`) {
		t.Error("unknown keys should be preserved")
	}
	if strings.Index(string(data), `"theme"`) > strings.Index(string(data), `"provider"`) {
		t.Error("key order should be preserved")
	}
}

func TestManager_SetCommitType(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	mgr, _ := NewManager(configPath)

	if err := mgr.Set("draft.commit_types.wip", "work in progress"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := mgr.Set("draft.commit_types.feat", "A new feature"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	p, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if codes := p.Draft.CommitTypes.Codes(); len(codes) != 2 || codes[0] != "wip" || codes[1] != "feat" {
		t.Errorf("CommitTypes codes = %v, want [wip feat]", codes)
	}
}

func TestManager_NumericCommitTypeCodes(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), FileName, `{"draft": {"commit_types": {"feat": "A new feature"}}}`)
	mgr, _ := NewManager(configPath)

	for _, code := range []string{"2", "-1", "10"} {
		if err := mgr.Set("draft.commit_types."+code, "type "+code); err != nil {
			t.Fatalf("Set(%s) error = %v", code, err)
		}
	}

	p, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := CommitTypes{
		{Code: "feat", Description: "A new feature"},
		{Code: "2", Description: "type 2"},
		{Code: "-1", Description: "type -1"},
		{Code: "10", Description: "type 10"},
	}
	if !reflect.DeepEqual(p.Draft.CommitTypes, want) {
		t.Errorf("CommitTypes = %v, want %v", p.Draft.CommitTypes, want)
	}
	if got, _ := mgr.Get("draft.commit_types.2"); got != "type 2" {
		t.Errorf("Get(draft.commit_types.2) = %q, want type 2", got)
	}

	if err := mgr.Unset("draft.commit_types.2"); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	p, err = LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() after Unset error = %v", err)
	}
	if codes := p.Draft.CommitTypes.Codes(); !reflect.DeepEqual(codes, []string{"feat", "-1", "10"}) {
		t.Errorf("codes after Unset = %v, want [feat -1 10]", codes)
	}
}

func TestManager_SetValidation(t *testing.T) {
	mgr, _ := NewManager(filepath.Join(t.TempDir(), FileName))

	tests := []struct {
		name     string
		key      string
		value    string
		wantCode apperrors.ErrorCode
	}{
		{"unknown key", "temperature", "0.2", apperrors.ErrInvalidArguments},
		{"bad commit code", "draft.commit_types.a.b", "x", apperrors.ErrInvalidArguments},
		{"unknown provider", "provider", "gemini", apperrors.ErrInvalidProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.Set(tt.key, tt.value)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("Set(%q) error = %v, want %v", tt.key, err, tt.wantCode)
			}
		})
	}
	if mgr.ConfigExists() {
		t.Error("rejected writes should not create the file")
	}
}

func TestManager_SetNormalizesProvider(t *testing.T) {
	mgr, _ := NewManager(filepath.Join(t.TempDir(), FileName))

	if err := mgr.Set("provider", "Claude"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := mgr.Get("provider"); got != "claude" {
		t.Errorf("Get(provider) = %q, want claude", got)
	}
}

func TestManager_Unset(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), FileName, `{"model": "gpt-4", "api_key": "k"}`)
	mgr, _ := NewManager(configPath)

	if err := mgr.Unset("model"); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if _, err := mgr.Get("model"); err == nil {
		t.Error("model should be removed")
	}
	if got, _ := mgr.Get("api_key"); got != "k" {
		t.Errorf("api_key = %q, want k", got)
	}
}

func TestManager_InvalidExistingFile(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), FileName, `{broken`)
	mgr, _ := NewManager(configPath)

	err := mgr.Set("model", "x")
	if !apperrors.HasCode(err, apperrors.ErrConfigParse) {
		t.Errorf("Set() error = %v, want ErrConfigParse", err)
	}
	data, _ := os.ReadFile(configPath)
	if string(data) != `{broken` {
		t.Error("invalid file should be left untouched")
	}
}

func TestManager_SaveProviderSettings(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), FileName, `{"model": "old", "api_key": "old-key"}`)
	mgr, _ := NewManager(configPath)

	err := mgr.SaveProviderSettings(ProviderSettings{Provider: ProviderPhind})
	if err != nil {
		t.Fatalf("SaveProviderSettings() error = %v", err)
	}

	p, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if p.Provider == nil || *p.Provider != ProviderPhind {
		t.Errorf("Provider = %v, want phind", p.Provider)
	}
	if p.Model != nil || p.APIKey != nil {
		t.Errorf("empty settings should remove model and api_key, got %+v", p)
	}
}

// Any value written with Set reads back unchanged through the file tier.
func TestManagerSetRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("Set then LoadFile returns the value", prop.ForAll(
		func(model, prompt string) bool {
			configPath := filepath.Join(t.TempDir(), FileName)
			mgr, err := NewManager(configPath)
			if err != nil {
				return false
			}
			if err := mgr.Set("model", model); err != nil {
				t.Logf("Set(model) error: %v", err)
				return false
			}
			if err := mgr.Set("operate.user_prompt", prompt); err != nil {
				t.Logf("Set(operate.user_prompt) error: %v", err)
				return false
			}
			p, err := LoadFile(configPath)
			if err != nil {
				t.Logf("LoadFile error: %v", err)
				return false
			}
			return deref(p.Model) == model && deref(p.Operate.UserPrompt) == prompt
		},
		genNonEmptyAlphaString(1, 20),
		genNonEmptyAlphaString(1, 40),
	))

	properties.TestingRun(t)
}
