// internal/model/model.go
package model

import (
	"time"

	"github.com/dsablic/bb/internal/repoctx"
)

// Context is the printable form of a resolved repository context.
type Context struct {
	Host          string `json:"host"`
	HostType      string `json:"host_type"`
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch,omitempty"`
	WebURL        string `json:"web_url"`
	APIURL        string `json:"api_url"`
}

// NewContext flattens rc for output.
func NewContext(rc repoctx.RepoContext) Context {
	return Context{
		Host:          rc.Host(),
		HostType:      rc.HostType().String(),
		Owner:         rc.Owner(),
		Repo:          rc.RepoSlug(),
		FullName:      rc.FullName(),
		DefaultBranch: rc.DefaultBranch(),
		WebURL:        rc.WebURL(),
		APIURL:        rc.APIURL(),
	}
}

// Repository represents a repository from either Bitbucket flavor.
type Repository struct {
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description,omitempty"`
	Project       string    `json:"project,omitempty"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Language      string    `json:"language,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	URL           string    `json:"url"`
	CloneHTTPS    string    `json:"clone_https,omitempty"`
	CloneSSH      string    `json:"clone_ssh,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// PullRequestState is a pull request's lifecycle state.
type PullRequestState string

const (
	PullRequestOpen       PullRequestState = "OPEN"
	PullRequestMerged     PullRequestState = "MERGED"
	PullRequestDeclined   PullRequestState = "DECLINED"
	PullRequestSuperseded PullRequestState = "SUPERSEDED"
)

// PullRequest represents a pull request from either Bitbucket flavor.
type PullRequest struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	State        PullRequestState `json:"state"`
	Author       string           `json:"author"`
	SourceBranch string           `json:"source_branch"`
	TargetBranch string           `json:"target_branch"`
	URL          string           `json:"url"`
	UpdatedAt    time.Time        `json:"updated_at,omitzero"`
}

// Pipeline is one Bitbucket Pipelines run. State is the result name
// (SUCCESSFUL, FAILED, STOPPED, ...) once the run has completed, and the
// state name (PENDING, IN_PROGRESS, PAUSED) before that.
type Pipeline struct {
	BuildNumber     int       `json:"build_number"`
	UUID            string    `json:"uuid"`
	State           string    `json:"state"`
	Branch          string    `json:"branch,omitempty"`
	Commit          string    `json:"commit,omitempty"`
	Creator         string    `json:"creator,omitempty"`
	URL             string    `json:"url"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	CompletedAt     time.Time `json:"completed_at,omitzero"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
}
