// internal/output/markdown.go
package output

import (
	"fmt"
	"io"

	"github.com/dsablic/bb/internal/model"
)

// WriteContextMarkdown writes a resolved repository context as
// GitHub-flavored markdown to w.
func WriteContextMarkdown(w io.Writer, c model.Context) error {
	fmt.Fprintf(w, "# %s\n\n", c.FullName)
	fmt.Fprintf(w, "| Field | Value |\n")
	fmt.Fprintf(w, "|-------|-------|\n")
	fmt.Fprintf(w, "| Host | %s |\n", c.Host)
	fmt.Fprintf(w, "| Host type | %s |\n", c.HostType)
	fmt.Fprintf(w, "| Owner | %s |\n", c.Owner)
	fmt.Fprintf(w, "| Repository | %s |\n", c.Repo)
	if c.DefaultBranch != "" {
		fmt.Fprintf(w, "| Default branch | %s |\n", c.DefaultBranch)
	}
	fmt.Fprintf(w, "| Web URL | %s |\n", c.WebURL)
	fmt.Fprintf(w, "| API URL | %s |\n", c.APIURL)
	return nil
}

// WriteRepositoryMarkdown writes repository details as markdown to w.
func WriteRepositoryMarkdown(w io.Writer, r model.Repository) error {
	fmt.Fprintf(w, "# [%s](%s)\n\n", r.FullName, r.URL)
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n\n", r.Description)
	}

	visibility := "public"
	if r.Private {
		visibility = "private"
	}
	fmt.Fprintf(w, "| Field | Value |\n")
	fmt.Fprintf(w, "|-------|-------|\n")
	if r.Project != "" {
		fmt.Fprintf(w, "| Project | %s |\n", r.Project)
	}
	fmt.Fprintf(w, "| Visibility | %s |\n", visibility)
	if r.Fork {
		fmt.Fprintf(w, "| Fork | yes |\n")
	}
	if r.Language != "" {
		fmt.Fprintf(w, "| Language | %s |\n", r.Language)
	}
	if r.DefaultBranch != "" {
		fmt.Fprintf(w, "| Default branch | %s |\n", r.DefaultBranch)
	}
	if r.CloneHTTPS != "" {
		fmt.Fprintf(w, "| Clone (HTTPS) | %s |\n", r.CloneHTTPS)
	}
	if r.CloneSSH != "" {
		fmt.Fprintf(w, "| Clone (SSH) | %s |\n", r.CloneSSH)
	}
	fmt.Fprintln(w)
	return nil
}

// WritePullRequestsMarkdown writes a pull request list as markdown to w.
func WritePullRequestsMarkdown(w io.Writer, prs []model.PullRequest) error {
	fmt.Fprintf(w, "| ID | Title | Author | Branch | State |\n")
	fmt.Fprintf(w, "|---:|-------|--------|--------|-------|\n")
	for _, pr := range prs {
		fmt.Fprintf(w, "| [#%d](%s) | %s | %s | %s → %s | %s |\n",
			pr.ID, pr.URL, pr.Title, pr.Author, pr.SourceBranch, pr.TargetBranch, pr.State)
	}
	fmt.Fprintln(w)
	return nil
}

// WritePipelinesMarkdown writes pipeline runs as markdown to w.
func WritePipelinesMarkdown(w io.Writer, runs []model.Pipeline) error {
	fmt.Fprintf(w, "| Build | State | Branch | Commit | Creator |\n")
	fmt.Fprintf(w, "|------:|-------|--------|--------|---------|\n")
	for _, p := range runs {
		fmt.Fprintf(w, "| [#%d](%s) | %s | %s | %s | %s |\n",
			p.BuildNumber, p.URL, p.State, p.Branch, shortCommit(p.Commit), p.Creator)
	}
	fmt.Fprintln(w)
	return nil
}
