// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lumen-cli/lumen/internal/pkg/ai"
	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
	"github.com/lumen-cli/lumen/internal/pkg/git"
	"github.com/lumen-cli/lumen/internal/pkg/security"
	"github.com/lumen-cli/lumen/internal/pkg/ui"
)

// ListLimit is the number of commits offered by List.
const ListLimit = 100

// Dispatcher sends one prompt to the configured provider.
type Dispatcher interface {
	Dispatch(ctx context.Context, cfg *config.Config, prompt ai.PromptPair) (string, error)
}

// Service runs lumen's commands against git, the provider and the terminal.
type Service struct {
	gitClient  git.Client
	dispatcher Dispatcher
	uiManager  ui.Manager
	config     *config.Config
}

// NewService creates a new Service with the given dependencies.
func NewService(gitClient git.Client, dispatcher Dispatcher, uiManager ui.Manager, cfg *config.Config) *Service {
	return &Service{
		gitClient:  gitClient,
		dispatcher: dispatcher,
		uiManager:  uiManager,
		config:     cfg,
	}
}

// DraftOptions contains options for Draft.
type DraftOptions struct {
	// Context is extra information about the intent of the change.
	Context string
}

// Draft generates a commit message for the staged changes and prints it
// without a trailing newline so it can be piped into git commit.
func (s *Service) Draft(ctx context.Context, opts DraftOptions) error {
	diff, err := s.gitClient.GetWorkingTreeDiff(ctx, true)
	if err != nil {
		return err
	}
	s.warnAboutSecrets(diff.Content)

	types := s.config.Draft.CommitTypes
	if len(types) == 0 {
		types = config.DefaultCommitTypes()
	}

	prompt := ai.BuildPrompt(ai.CommandDraft, ai.OverridesFor(s.config, ai.CommandDraft),
		ai.DraftSubstitutions(types, diff.Content, opts.Context))

	// No spinner: stdout is usually piped.
	text, err := s.dispatcher.Dispatch(ctx, s.config, prompt)
	if err != nil {
		return err
	}

	msg := ai.CleanCommitMessage(text)
	for _, issue := range ai.CheckCommitMessage(msg, types.Codes()) {
		apperrors.Warn("draft: %s", issue)
	}

	s.uiManager.PrintRaw(msg)
	return nil
}

// ExplainOptions contains options for Explain.
type ExplainOptions struct {
	// Ref is a commit or a range such as main..feature.
	Ref string
	// Diff explains the working tree instead of Ref.
	Diff   bool
	Staged bool
	Query  string
}

// explainTarget is the resolved subject of an explanation.
type explainTarget struct {
	header  ui.Header
	entity  string
	message string
	diff    string
}

// Explain prints a header for the commit, range or working tree diff and the
// provider's explanation of it.
func (s *Service) Explain(ctx context.Context, opts ExplainOptions) error {
	target, err := s.resolveExplainTarget(ctx, opts)
	if err != nil {
		return err
	}
	s.warnAboutSecrets(target.diff)

	s.uiManager.PrintHeader(target.header)

	prompt := ai.BuildPrompt(ai.CommandExplain, ai.OverridesFor(s.config, ai.CommandExplain),
		ai.ExplainSubstitutions(target.entity, target.message, target.diff, opts.Query))

	text, err := s.dispatchWithSpinner(ctx, "Generating summary...", prompt)
	if err != nil {
		return err
	}

	s.uiManager.PrintResult(text)
	return nil
}

func (s *Service) resolveExplainTarget(ctx context.Context, opts ExplainOptions) (*explainTarget, error) {
	provider := s.providerLabel()

	if opts.Diff {
		diff, err := s.gitClient.GetWorkingTreeDiff(ctx, opts.Staged)
		if err != nil {
			return nil, err
		}
		entity := "Working Tree Diff"
		if opts.Staged {
			entity += " (staged)"
		}
		return &explainTarget{
			header: ui.Header{
				Entity:   entity,
				Provider: provider,
				Stats:    git.Summarize(diff.Content).String(),
			},
			entity: "these changes",
			diff:   diff.Content,
		}, nil
	}

	if strings.TrimSpace(opts.Ref) == "" {
		return nil, apperrors.NewInvalidArgumentsError("explain needs a commit reference or --diff")
	}

	ref := git.ParseReference(opts.Ref)
	if ref.IsRange() {
		diff, err := s.gitClient.GetRangeDiff(ctx, ref.From, ref.To, ref.TripleDot)
		if err != nil {
			return nil, err
		}
		return &explainTarget{
			header: ui.Header{
				Entity:   "Range",
				Provider: provider,
				Detail:   fmt.Sprintf("`%s` -> `%s`", ref.From, ref.To),
				Stats:    git.Summarize(diff.Content).String(),
			},
			entity: "these changes",
			diff:   diff.Content,
		}, nil
	}

	commit, err := s.gitClient.GetCommit(ctx, ref.Commit)
	if err != nil {
		return nil, err
	}
	return &explainTarget{
		header: ui.Header{
			Entity:   "Commit",
			Provider: provider,
			Detail:   fmt.Sprintf("`commit %s` | %s <%s> | %s", commit.Hash, commit.AuthorName, commit.AuthorEmail, commit.Date),
			Message:  commit.Message,
			Stats:    git.Summarize(commit.Diff).String(),
		},
		entity:  "this commit",
		message: commit.Message,
		diff:    commit.Diff,
	}, nil
}

// Operate asks the provider for git commands that accomplish query.
func (s *Service) Operate(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return apperrors.NewInvalidArgumentsError("operate needs a description of the task")
	}

	s.uiManager.PrintHeader(ui.Header{
		Entity:   "Operation",
		Provider: s.providerLabel(),
		Detail:   "`query`: " + query,
	})

	prompt := ai.BuildPrompt(ai.CommandOperate, ai.OverridesFor(s.config, ai.CommandOperate), ai.OperateSubstitutions(query))

	text, err := s.dispatchWithSpinner(ctx, "Generating answer...", prompt)
	if err != nil {
		return err
	}

	s.uiManager.PrintResult(text)
	return nil
}

// List lets the user pick a recent commit and explains it.
func (s *Service) List(ctx context.Context) error {
	entries, err := s.gitClient.RecentCommits(ctx, ListLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return apperrors.NewInvalidArgumentsError("the repository has no commits")
	}

	hash, err := s.uiManager.PickCommit(entries)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		return err
	}

	return s.Explain(ctx, ExplainOptions{Ref: hash})
}

func (s *Service) dispatchWithSpinner(ctx context.Context, text string, prompt ai.PromptPair) (string, error) {
	spinner := s.uiManager.ShowSpinner(text)
	spinner.Start()
	defer spinner.Stop()

	return s.dispatcher.Dispatch(ctx, s.config, prompt)
}

// providerLabel renders the provider and the model that will be used.
func (s *Service) providerLabel() string {
	desc, ok := ai.Lookup(s.config.Provider)
	if !ok {
		return string(s.config.Provider)
	}
	return fmt.Sprintf("%s (%s)", desc.Name, ai.ResolveModel(s.config, desc))
}

// warnAboutSecrets warns before a diff that looks like it contains
// credentials is sent to a remote provider.
func (s *Service) warnAboutSecrets(diff string) {
	if s.config.Provider == config.ProviderOllama {
		return
	}
	if kinds := security.ScanDiffForSecrets(diff); len(kinds) > 0 {
		s.uiManager.ShowWarning(security.SecretWarning(kinds))
	}
}
