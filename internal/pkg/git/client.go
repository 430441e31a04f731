// Package git reads diffs and commits for lumen by running the git binary.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second

	// DefaultRef is used for an empty side of a range.
	DefaultRef = "HEAD"

	// commitDateFormat is passed to --date=format: for commit dates.
	commitDateFormat = "%Y-%m-%d %H:%M:%S"
)

// diffExclusions limits diffs to the repository and skips generated lock files.
var diffExclusions = []string{
	"--",
	".",
	":(exclude)package-lock.json",
	":(exclude)yarn.lock",
	":(exclude)pnpm-lock.yaml",
	":(exclude)Cargo.lock",
	":(exclude)node_modules/**",
}

// Commit is a single commit with its patch.
type Commit struct {
	Hash        string
	Message     string
	AuthorName  string
	AuthorEmail string
	// Date is the committer date formatted as 2006-01-02 15:04:05.
	Date string
	Diff string
}

// Diff is a working tree diff or the diff between two commits.
type Diff struct {
	// Staged is set for working tree diffs of the index.
	Staged bool
	// From and To are set for range diffs, as the user wrote them.
	From      string
	To        string
	TripleDot bool
	Content   string
}

// IsRange reports whether d compares two commits.
func (d *Diff) IsRange() bool {
	return d.From != "" || d.To != ""
}

// LogEntry is one line of the commit log.
type LogEntry struct {
	Hash         string
	ShortHash    string
	Refs         string
	Subject      string
	RelativeDate string
}

// Client defines the interface for Git operations.
type Client interface {
	GetWorkingTreeDiff(ctx context.Context, staged bool) (*Diff, error)
	GetRangeDiff(ctx context.Context, from, to string, tripleDot bool) (*Diff, error)
	GetCommit(ctx context.Context, ref string) (*Commit, error)
	RecentCommits(ctx context.Context, limit int) ([]LogEntry, error)
	TopLevel(ctx context.Context) (string, error)
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// run executes git with args and returns stdout.
func (c *DefaultClient) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.Wrap(ctx.Err(), apperrors.ErrGitCommandFailed, fmt.Sprintf("git %s timed out", args[0]))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			cause := err
			if msg != "" {
				cause = fmt.Errorf("git %s: %s", args[0], firstLine(msg))
			}
			return "", apperrors.NewGitError(cause, msg).WithContext("exit_code", exitErr.ExitCode())
		}
		return "", apperrors.NewGitError(err, "").
			WithSuggestion("Make sure git is installed and on your PATH")
	}
	return string(output), nil
}

// TopLevel returns the root directory of the repository.
func (c *DefaultClient) TopLevel(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GetWorkingTreeDiff returns the unstaged diff, or the staged one when staged is set.
func (c *DefaultClient) GetWorkingTreeDiff(ctx context.Context, staged bool) (*Diff, error) {
	args := []string{"diff", "--no-color"}
	if staged {
		args = append(args, "--staged")
	}
	args = append(args, diffExclusions...)

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		what := "diff"
		if staged {
			what = "diff (staged)"
		}
		return nil, apperrors.NewEmptyDiffError(what)
	}
	return &Diff{Staged: staged, Content: out}, nil
}

// GetRangeDiff returns the diff between two commits. With tripleDot the diff
// starts at their merge base, matching git's a...b notation.
func (c *DefaultClient) GetRangeDiff(ctx context.Context, from, to string, tripleDot bool) (*Diff, error) {
	for _, ref := range []string{from, to} {
		if err := c.verifyCommit(ctx, ref); err != nil {
			return nil, err
		}
	}

	base := from
	if tripleDot {
		out, err := c.run(ctx, "merge-base", from, to)
		if err != nil {
			return nil, err
		}
		base = strings.TrimSpace(out)
	}

	args := append([]string{"diff", "--no-color", base, to}, diffExclusions...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, apperrors.NewEmptyDiffError(fmt.Sprintf("diff %s", rangeString(from, to, tripleDot)))
	}

	return &Diff{From: from, To: to, TripleDot: tripleDot, Content: out}, nil
}

// GetCommit returns the commit named by ref with its message, author and patch.
func (c *DefaultClient) GetCommit(ctx context.Context, ref string) (*Commit, error) {
	if err := c.verifyCommit(ctx, ref); err != nil {
		return nil, err
	}

	// %B goes last since the message may contain anything but NUL.
	out, err := c.run(ctx, "log", "-n", "1",
		"--date=format:"+commitDateFormat,
		"--format=%H%x00%an%x00%ae%x00%cd%x00%B",
		ref, "--")
	if err != nil {
		return nil, err
	}
	fields := strings.SplitN(out, "\x00", 5)
	if len(fields) != 5 {
		return nil, apperrors.NewGitError(fmt.Errorf("unexpected log output for %s", ref), out)
	}

	diff, err := c.run(ctx, "diff-tree", "-p", "--binary", "--no-color", "--compact-summary", "--root", ref)
	if err != nil {
		return nil, err
	}
	if diff == "" {
		return nil, apperrors.NewEmptyDiffError(fmt.Sprintf("diff for commit '%s'", ref))
	}

	return &Commit{
		Hash:        strings.TrimSpace(fields[0]),
		AuthorName:  fields[1],
		AuthorEmail: fields[2],
		Date:        fields[3],
		Message:     strings.TrimRight(fields[4], "\n"),
		Diff:        diff,
	}, nil
}

// RecentCommits returns up to limit commits reachable from HEAD, newest first.
func (c *DefaultClient) RecentCommits(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	out, err := c.run(ctx, "log", "-n", strconv.Itoa(limit), "--format=%H%x00%h%x00%D%x00%s%x00%cr")
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

// verifyCommit fails with ErrInvalidCommit unless ref names a commit.
func (c *DefaultClient) verifyCommit(ctx context.Context, ref string) error {
	out, err := c.run(ctx, "cat-file", "-t", ref)
	if err != nil {
		// cat-file exits non-zero for unknown objects.
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Context["exit_code"] != nil {
			return apperrors.NewInvalidCommitError(ref)
		}
		return err
	}
	if strings.TrimSpace(out) != "commit" {
		return apperrors.NewInvalidCommitError(ref)
	}
	return nil
}

// parseLog parses NUL separated log lines written by RecentCommits.
func parseLog(out string) []LogEntry {
	var entries []LogEntry
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\x00")
		if len(parts) != 5 {
			continue
		}
		entries = append(entries, LogEntry{
			Hash:         parts[0],
			ShortHash:    parts[1],
			Refs:         parts[2],
			Subject:      parts[3],
			RelativeDate: parts[4],
		})
	}
	return entries
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
