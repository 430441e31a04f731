package ai

import (
	"regexp"
	"strings"
)

// MaxSubjectLength is the longest subject line the draft prompt asks for.
const MaxSubjectLength = 72

// subjectRegex matches <type>(<scope>)!: <subject> or <type>: <subject>.
var subjectRegex = regexp.MustCompile(`^([A-Za-z0-9_-]+)(\(([^)]+)\))?!?:\s*(.+)$`)

// codeFenceRegex matches a response wrapped in a single markdown code block.
var codeFenceRegex = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\n(.*?)\\n?```$")

// ParsedCommitMessage is the subject line of a drafted commit message.
type ParsedCommitMessage struct {
	Type    string
	Scope   string
	Subject string
	// IsValid is true when the subject uses one of the allowed commit types.
	IsValid bool
}

// CleanCommitMessage removes a surrounding markdown code fence that some
// models add despite being asked for plain text.
func CleanCommitMessage(rawText string) string {
	text := strings.TrimSpace(rawText)
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	return text
}

// ParseCommitMessage parses the first line of a drafted message against the
// allowed commit type codes.
func ParseCommitMessage(rawText string, allowedTypes []string) *ParsedCommitMessage {
	result := &ParsedCommitMessage{}

	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return result
	}

	subject, _, _ := strings.Cut(rawText, "\n")
	subject = strings.TrimSpace(subject)
	result.Subject = subject

	matches := subjectRegex.FindStringSubmatch(subject)
	if matches == nil {
		return result
	}
	for _, t := range allowedTypes {
		if matches[1] == t {
			result.Type = matches[1]
			result.Scope = matches[3]
			result.Subject = strings.TrimSpace(matches[4])
			result.IsValid = true
			break
		}
	}
	return result
}

// CheckCommitMessage returns problems with a drafted message. They are
// reported as warnings only; the message is still printed.
func CheckCommitMessage(rawText string, allowedTypes []string) []string {
	var issues []string

	parsed := ParseCommitMessage(rawText, allowedTypes)
	if !parsed.IsValid {
		issues = append(issues, "subject does not start with a configured commit type")
	}

	firstLine, _, _ := strings.Cut(strings.TrimSpace(rawText), "\n")
	if len([]rune(strings.TrimSpace(firstLine))) > MaxSubjectLength {
		issues = append(issues, "subject line exceeds 72 characters")
	}

	return issues
}
