// Package ui provides terminal output and interactive prompts for lumen.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lumen-cli/lumen/internal/pkg/git"
)

// ErrCancelled is returned when the user aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
}

// Header describes the entity shown above an explanation.
type Header struct {
	// Entity is e.g. "Commit", "Working Tree Diff (staged)" or "Range".
	Entity   string
	Provider string
	// Detail is a one-line summary such as the commit hash and author.
	Detail  string
	Message string
	Stats   string
}

// Manager defines the interface for UI operations.
type Manager interface {
	// PrintHeader writes the entity header to standard output.
	PrintHeader(h Header)
	// PrintResult writes a provider answer to standard output.
	PrintResult(text string)
	// PrintRaw writes text to standard output as is.
	PrintRaw(text string)
	ShowSpinner(text string) Spinner
	ShowWarning(message string)
	// PickCommit lets the user choose one of entries and returns its hash.
	PickCommit(entries []git.LogEntry) (string, error)
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	detail  lipgloss.Style
	message lipgloss.Style
	footer  lipgloss.Style
	warning lipgloss.Style
	rule    lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{plain, plain, plain, plain, plain, plain, plain}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		rule: lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")),
	}
}

// DefaultManager implements the Manager interface using charmbracelet libraries.
type DefaultManager struct {
	out    io.Writer
	errOut io.Writer
	styles *styles
}

// NewManagerWithWriters creates a manager writing results to out and
// status output to errOut.
func NewManagerWithWriters(out, errOut io.Writer, colorEnabled bool) *DefaultManager {
	return &DefaultManager{
		out:    out,
		errOut: errOut,
		styles: newStyles(colorEnabled),
	}
}

// RenderHeader formats h without writing it.
func (m *DefaultManager) RenderHeader(h Header) string {
	var sb strings.Builder

	sb.WriteString(m.styles.label.Render("# Entity: "))
	sb.WriteString(m.styles.title.Render(h.Entity))
	sb.WriteString("\n")
	sb.WriteString(m.styles.label.Render("# Provider: "))
	sb.WriteString(h.Provider)
	sb.WriteString("\n")

	if h.Detail != "" {
		sb.WriteString(m.styles.detail.Render(h.Detail))
		sb.WriteString("\n")
	}
	if h.Stats != "" {
		sb.WriteString(m.styles.footer.Render(h.Stats))
		sb.WriteString("\n")
	}
	if h.Message != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.message.Render(h.Message))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.rule.Render("-----"))
	sb.WriteString("\n")

	return sb.String()
}

// PrintHeader writes the entity header to standard output.
func (m *DefaultManager) PrintHeader(h Header) {
	fmt.Fprint(m.out, m.RenderHeader(h))
}

// PrintResult writes a provider answer followed by a newline.
func (m *DefaultManager) PrintResult(text string) {
	fmt.Fprintln(m.out, strings.TrimRight(text, "\n"))
}

// PrintRaw writes text unchanged.
func (m *DefaultManager) PrintRaw(text string) {
	fmt.Fprint(m.out, text)
}

// ShowWarning displays a warning on stderr.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, m.styles.warning.Render("warning: ")+message)
}

// ShowSpinner creates a spinner on stderr. It does nothing when stderr
// is not a terminal.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	if f, ok := m.errOut.(*os.File); !ok || !isTerminal(f) {
		return &noopSpinner{}
	}
	return newBubbleSpinner(text, m.errOut)
}

// PickCommit shows a selectable list of commits.
func (m *DefaultManager) PickCommit(entries []git.LogEntry) (string, error) {
	if len(entries) == 0 {
		return "", errors.New("no commits to choose from")
	}

	var hash string
	err := huh.NewSelect[string]().
		Title("Select a commit to explain").
		Options(commitOptions(entries)...).
		Height(15).
		Value(&hash).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}
	return hash, nil
}

// commitOptions builds one select option per log entry.
func commitOptions(entries []git.LogEntry) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		opts = append(opts, huh.NewOption(formatLogEntry(e), e.Hash))
	}
	return opts
}

// formatLogEntry renders an entry like "abc1234 (HEAD -> main) subject, 2 hours ago".
func formatLogEntry(e git.LogEntry) string {
	var sb strings.Builder
	sb.WriteString(e.ShortHash)
	if e.Refs != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Refs)
		sb.WriteString(")")
	}
	sb.WriteString(" ")
	sb.WriteString(e.Subject)
	if e.RelativeDate != "" {
		sb.WriteString(", ")
		sb.WriteString(e.RelativeDate)
	}
	return sb.String()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	output  io.Writer
	program *tea.Program
	model   *spinnerModel
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for simple spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string, output io.Writer) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &bubbleSpinner{
		output: output,
		model: &spinnerModel{
			spinner: s,
			text:    text,
		},
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}
	// The spinner must not read keys meant for the shell or steal Ctrl+C.
	s.program = tea.NewProgram(s.model,
		tea.WithOutput(s.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
		s.program.Kill()
	}
	s.program = nil
}

// noopSpinner is used when no terminal is attached.
type noopSpinner struct{}

func (s *noopSpinner) Start() {}
func (s *noopSpinner) Stop()  {}

// NonInteractiveManager implements Manager for non-interactive mode
// (e.g., when output is piped or in CI environments).
type NonInteractiveManager struct {
	*DefaultManager
}

// NewNonInteractiveManager creates a manager that never prompts or animates.
func NewNonInteractiveManager(out, errOut io.Writer) *NonInteractiveManager {
	return &NonInteractiveManager{DefaultManager: NewManagerWithWriters(out, errOut, false)}
}

// ShowSpinner returns a spinner that draws nothing.
func (m *NonInteractiveManager) ShowSpinner(string) Spinner {
	return &noopSpinner{}
}

// PickCommit fails since there is no terminal to choose from.
func (m *NonInteractiveManager) PickCommit([]git.LogEntry) (string, error) {
	return "", errors.New("selecting a commit requires an interactive terminal; pass a commit to 'lumen explain' instead")
}

// IsInteractive reports whether stdin and stderr are terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}
