package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// FileName is the name of the config file looked up in the project root and
// the global config directory.
const FileName = "lumen.config.json"

// LoadFile reads a config file into a Partial.
// A missing file is reported with an error satisfying os.IsNotExist.
func LoadFile(path string) (Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Partial{}, err
	}
	return ParseFile(path, data)
}

// ParseFile decodes config file contents. Unknown keys are ignored; null
// values are treated as absent.
func ParseFile(path string, data []byte) (Partial, error) {
	if !gjson.ValidBytes(data) {
		return Partial{}, apperrors.NewConfigParseError(path, errors.New("invalid JSON"))
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Partial{}, apperrors.NewConfigParseError(path, errors.New("top level value must be an object"))
	}

	var p Partial
	var err error

	provider, err := stringField(root, "provider")
	if err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}
	if provider != nil {
		name, ok := ParseProviderName(*provider)
		if !ok {
			return Partial{}, apperrors.NewInvalidProviderError(*provider, path, ProviderStrings())
		}
		p.Provider = &name
	}

	if p.Model, err = stringField(root, "model"); err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}
	if p.APIKey, err = stringField(root, "api_key"); err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}

	draft := root.Get("draft")
	if err := expectObject(draft, "draft"); err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}
	if p.Draft.CommitTypes, err = commitTypesField(draft.Get("commit_types")); err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}
	if p.Draft.PromptPartial, err = promptFields(draft, "draft"); err != nil {
		return Partial{}, apperrors.NewConfigParseError(path, err)
	}

	for _, section := range []struct {
		key string
		dst *PromptPartial
	}{
		{"explain", &p.Explain},
		{"operate", &p.Operate},
	} {
		obj := root.Get(section.key)
		if err := expectObject(obj, section.key); err != nil {
			return Partial{}, apperrors.NewConfigParseError(path, err)
		}
		if *section.dst, err = promptFields(obj, section.key); err != nil {
			return Partial{}, apperrors.NewConfigParseError(path, err)
		}
	}

	return p, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func expectObject(r gjson.Result, key string) error {
	if present(r) && !r.IsObject() {
		return fmt.Errorf("%s must be an object", key)
	}
	return nil
}

func stringField(obj gjson.Result, key string) (*string, error) {
	r := obj.Get(key)
	if !present(r) {
		return nil, nil
	}
	if r.Type != gjson.String {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	s := r.String()
	return &s, nil
}

func promptFields(obj gjson.Result, section string) (PromptPartial, error) {
	var pp PromptPartial
	if !present(obj) {
		return pp, nil
	}
	var err error
	if pp.SystemPrompt, err = stringField(obj, "system_prompt"); err != nil {
		return pp, fmt.Errorf("%s.%w", section, err)
	}
	if pp.UserPrompt, err = stringField(obj, "user_prompt"); err != nil {
		return pp, fmt.Errorf("%s.%w", section, err)
	}
	return pp, nil
}

// commitTypesField reads the commit type table in document order.
// A repeated code keeps its first position and its last description.
func commitTypesField(r gjson.Result) (CommitTypes, error) {
	if !present(r) {
		return nil, nil
	}
	if !r.IsObject() {
		return nil, errors.New("draft.commit_types must be an object")
	}
	var types CommitTypes
	seen := make(map[string]int)
	var err error
	r.ForEach(func(key, value gjson.Result) bool {
		code := key.String()
		if value.Type != gjson.String {
			err = fmt.Errorf("draft.commit_types.%s must be a string", code)
			return false
		}
		if i, ok := seen[code]; ok {
			types[i].Description = value.String()
			return true
		}
		seen[code] = len(types)
		types = append(types, CommitType{Code: code, Description: value.String()})
		return true
	})
	return types, err
}
