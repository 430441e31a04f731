package ai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/lumen-cli/lumen/internal/pkg/config"
)

// CommandKind identifies which built-in prompt a command uses.
type CommandKind string

const (
	CommandDraft   CommandKind = "draft"
	CommandExplain CommandKind = "explain"
	CommandOperate CommandKind = "operate"
)

// Placeholder names substituted into user prompts.
const (
	PlaceholderCommitTypes = "commit_types"
	PlaceholderDiff        = "diff"
	PlaceholderContext     = "context"
	PlaceholderEntity      = "entity"
	PlaceholderMessage     = "message"
	PlaceholderQuery       = "query"
)

// DefaultDraftSystemPrompt is the built-in system prompt for draft.
const DefaultDraftSystemPrompt = `You are a commit message generator that follows these rules:
1. Write in present tense
2. Be concise and direct
3. Output only the commit message without any explanations
4. Follow the format: <type>(<optional scope>): <commit message>`

// DefaultDraftUserPrompt is the built-in user prompt template for draft.
const DefaultDraftUserPrompt = "Generate a concise git commit message written in present tense for the following code diff with the given specifications below:\n" +
	"\nThe output response must be in format:\n<type>(<optional scope>): <commit message>" +
	"\nFocus on being accurate and concise." +
	"\nChoose a type from the type-to-description JSON below that best describes the git diff:\n{commit_types}" +
	"\nCommit message must be a maximum of 72 characters." +
	"\nAdd a description after the commit message." +
	"\nExclude anything unnecessary such as translation. Your entire response will be passed directly into git commit." +
	"{context}" +
	"\n\nCode diff:\n```diff\n{diff}\n```"

// DefaultExplainSystemPrompt is the built-in system prompt for explain.
const DefaultExplainSystemPrompt = "You are a helpful assistant that explains Git changes in a concise way. " +
	"Focus only on the most significant changes and their direct impact. " +
	"Keep explanations brief but informative and don't ask for further explanations. " +
	"Use markdown for clarity."

// DefaultExplainUserPrompt is the built-in user prompt template for explain.
const DefaultExplainUserPrompt = "Explain {entity} briefly:\n" +
	"{message}" +
	"\nChanges:\n```diff\n{diff}\n```" +
	"\n\nProvide a short explanation covering:\n" +
	"1. Core changes made\n" +
	"2. Direct impact\n" +
	"3. Notable concerns (if any)" +
	"{query}"

// DefaultOperateSystemPrompt is the built-in system prompt for operate.
const DefaultOperateSystemPrompt = "You are a Git expert who turns requests into git commands. " +
	"Answer with the command or commands that accomplish the request in a markdown code block, " +
	"then explain briefly what each command does. " +
	"Warn when a command rewrites history or discards work. Keep the answer concise."

// DefaultOperateUserPrompt is the built-in user prompt template for operate.
const DefaultOperateUserPrompt = "Give me the git commands for this task:\n{query}"

// Substitutions maps placeholder names (without braces) to values.
type Substitutions map[string]string

// DefaultPrompt returns the built-in prompt pair for kind.
func DefaultPrompt(kind CommandKind) PromptPair {
	switch kind {
	case CommandDraft:
		return PromptPair{System: DefaultDraftSystemPrompt, User: DefaultDraftUserPrompt}
	case CommandExplain:
		return PromptPair{System: DefaultExplainSystemPrompt, User: DefaultExplainUserPrompt}
	case CommandOperate:
		return PromptPair{System: DefaultOperateSystemPrompt, User: DefaultOperateUserPrompt}
	default:
		return PromptPair{}
	}
}

// OverridesFor returns the configured prompt overrides for kind.
func OverridesFor(cfg *config.Config, kind CommandKind) config.PromptConfig {
	switch kind {
	case CommandDraft:
		return cfg.Draft.PromptConfig
	case CommandExplain:
		return cfg.Explain
	case CommandOperate:
		return cfg.Operate
	default:
		return config.PromptConfig{}
	}
}

// BuildPrompt resolves the prompt pair for a command. A non-blank override
// replaces the built-in system or user prompt; each is replaced independently.
// Placeholders are substituted in both prompts in a single pass, so
// substituted values are never scanned again and unknown placeholders stay as written.
func BuildPrompt(kind CommandKind, overrides config.PromptConfig, subs Substitutions) PromptPair {
	pair := DefaultPrompt(kind)
	if strings.TrimSpace(overrides.SystemPrompt) != "" {
		pair.System = overrides.SystemPrompt
	}
	if strings.TrimSpace(overrides.UserPrompt) != "" {
		pair.User = overrides.UserPrompt
	}

	if len(subs) == 0 {
		return pair
	}
	oldnew := make([]string, 0, len(subs)*2)
	for name, value := range subs {
		oldnew = append(oldnew, "{"+name+"}", value)
	}
	r := strings.NewReplacer(oldnew...)
	pair.System = r.Replace(pair.System)
	pair.User = r.Replace(pair.User)
	return pair
}

// DraftSubstitutions builds the substitutions for draft.
// userContext may be empty.
func DraftSubstitutions(types config.CommitTypes, diff, userContext string) Substitutions {
	ctx := ""
	if strings.TrimSpace(userContext) != "" {
		ctx = "\nUse the following context to understand the intent of the changes:\n" + strings.TrimSpace(userContext)
	}
	return Substitutions{
		PlaceholderCommitTypes: FormatCommitTypes(types),
		PlaceholderDiff:        diff,
		PlaceholderContext:     ctx,
	}
}

// ExplainSubstitutions builds the substitutions for explain.
// entity describes what is explained, e.g. "this commit".
// message and query may be empty.
func ExplainSubstitutions(entity, message, diff, query string) Substitutions {
	msg := ""
	if strings.TrimSpace(message) != "" {
		msg = "\nMessage: " + strings.TrimSpace(message) + "\n"
	}
	q := ""
	if strings.TrimSpace(query) != "" {
		q = "\n\nAlso answer this question about the changes:\n" + strings.TrimSpace(query)
	}
	return Substitutions{
		PlaceholderEntity:  entity,
		PlaceholderMessage: msg,
		PlaceholderDiff:    diff,
		PlaceholderQuery:   q,
	}
}

// OperateSubstitutions builds the substitutions for operate.
func OperateSubstitutions(query string) Substitutions {
	return Substitutions{
		PlaceholderQuery: strings.TrimSpace(query),
	}
}

// FormatCommitTypes renders the commit type table as a JSON object in table order.
func FormatCommitTypes(types config.CommitTypes) string {
	if len(types) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, t := range types {
		code, _ := json.Marshal(t.Code)
		desc, _ := json.Marshal(t.Description)
		buf.WriteString("  ")
		buf.Write(code)
		buf.WriteString(": ")
		buf.Write(desc)
		if i < len(types)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.String()
}
