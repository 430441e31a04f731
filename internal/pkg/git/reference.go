package git

import "strings"

// Reference is a parsed commit argument: a single commit or a range.
type Reference struct {
	// Commit is set for a single commit reference.
	Commit string
	// From and To are set for a range. An empty side defaults to HEAD.
	From      string
	To        string
	TripleDot bool
}

// IsRange reports whether r names a range of commits.
func (r Reference) IsRange() bool {
	return r.From != "" || r.To != ""
}

// String returns the reference in git notation.
func (r Reference) String() string {
	if !r.IsRange() {
		return r.Commit
	}
	return rangeString(r.From, r.To, r.TripleDot)
}

// ParseReference parses "sha", "a..b" or "a...b".
func ParseReference(ref string) Reference {
	ref = strings.TrimSpace(ref)

	if from, to, ok := strings.Cut(ref, "..."); ok {
		return Reference{From: orHead(from), To: orHead(to), TripleDot: true}
	}
	if from, to, ok := strings.Cut(ref, ".."); ok {
		return Reference{From: orHead(from), To: orHead(to)}
	}
	return Reference{Commit: ref}
}

func orHead(ref string) string {
	if ref = strings.TrimSpace(ref); ref == "" {
		return DefaultRef
	}
	return ref
}

func rangeString(from, to string, tripleDot bool) string {
	if tripleDot {
		return from + "..." + to
	}
	return from + ".." + to
}
