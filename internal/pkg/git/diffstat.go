package git

import (
	"fmt"
	"strings"
)

// ChangeType represents the type of change in a diff.
type ChangeType int

const (
	ChangeTypeModified ChangeType = iota
	ChangeTypeAdded
	ChangeTypeDeleted
	ChangeTypeRenamed
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileChange summarizes one file of a unified diff.
type FileChange struct {
	Path       string
	OldPath    string // For renames, the original file path
	ChangeType ChangeType
	Additions  int
	Deletions  int
	IsBinary   bool
}

// DiffStats contains statistics about a diff.
type DiffStats struct {
	Files     []FileChange
	Additions int
	Deletions int
}

// String renders the stats like git's --shortstat.
func (s DiffStats) String() string {
	noun := "files"
	if len(s.Files) == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s changed, +%d -%d", len(s.Files), noun, s.Additions, s.Deletions)
}

// Summarize computes per-file statistics of a unified diff.
// Text before the first file header, such as a diff-tree summary, is ignored.
func Summarize(diff string) DiffStats {
	var stats DiffStats
	for _, fileDiff := range splitByFileDiff(diff) {
		fc := parseFileDiff(fileDiff)
		stats.Files = append(stats.Files, fc)
		stats.Additions += fc.Additions
		stats.Deletions += fc.Deletions
	}
	return stats
}

// splitByFileDiff splits the diff output by file boundaries.
func splitByFileDiff(diff string) []string {
	parts := strings.Split(diff, "\ndiff --git ")
	var result []string
	for i, part := range parts {
		if i == 0 {
			if !strings.HasPrefix(part, "diff --git ") {
				continue
			}
			part = strings.TrimPrefix(part, "diff --git ")
		}
		result = append(result, "diff --git "+part)
	}
	return result
}

// parseFileDiff parses a single file's diff.
func parseFileDiff(fileDiff string) FileChange {
	fc := FileChange{}
	inHunk := false

	for _, line := range strings.Split(fileDiff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			fc.Path = extractFilePath(line)
		case inHunk && strings.HasPrefix(line, "+"):
			fc.Additions++
		case inHunk && strings.HasPrefix(line, "-"):
			fc.Deletions++
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case inHunk:
			// context line
		case strings.HasPrefix(line, "new file mode"):
			fc.ChangeType = ChangeTypeAdded
		case strings.HasPrefix(line, "deleted file mode"):
			fc.ChangeType = ChangeTypeDeleted
		case strings.HasPrefix(line, "rename from "):
			fc.OldPath = strings.TrimPrefix(line, "rename from ")
			fc.ChangeType = ChangeTypeRenamed
		case strings.HasPrefix(line, "rename to "):
			fc.Path = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files"), strings.HasPrefix(line, "GIT binary patch"):
			fc.IsBinary = true
		}
	}
	return fc
}

// extractFilePath extracts the file path from a diff header line.
// Format: "diff --git a/path/to/file b/path/to/file"
func extractFilePath(line string) string {
	line = strings.TrimPrefix(line, "diff --git ")

	if _, b, ok := strings.Cut(line, " b/"); ok {
		return b
	}
	if strings.HasPrefix(line, "a/") {
		first, _, _ := strings.Cut(line, " ")
		return strings.TrimPrefix(first, "a/")
	}
	return line
}
