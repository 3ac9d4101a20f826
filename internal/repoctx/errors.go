package repoctx

import "fmt"

// URLFormatError reports a git remote URL that matched none of the
// recognized Bitbucket URL forms.
type URLFormatError struct {
	URL string
}

func (e *URLFormatError) Error() string {
	return fmt.Sprintf("could not parse remote URL: %s", e.URL)
}

// FormatError reports an explicit repository argument that is not exactly
// two non-empty slash-separated segments.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid repository %q: expected WORKSPACE/REPO or PROJECT/REPO", e.Value)
}

// NoContextError reports that no repository was given and none could be
// discovered from the working directory.
type NoContextError struct {
	// Reason is a short description of why discovery failed,
	// e.g. "not a git repository".
	Reason string
}

func (e *NoContextError) Error() string {
	msg := "could not determine repository: use --repo to specify one, or run inside a git checkout with an origin remote"
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}
