// Package gitrepo reads and clones git repositories with go-git.
package gitrepo

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	git "github.com/go-git/go-git/v5"

	"github.com/dsablic/bb/internal/repoctx"
)

// OriginRemote is the conventional name of the upstream remote.
const OriginRemote = "origin"

// Remotes reads remotes of the repository enclosing Dir.
// It implements [repoctx.RemoteReader].
type Remotes struct {
	// Dir is where discovery starts. It walks upward to the first
	// directory containing .git. Defaults to ".".
	Dir string

	// Log receives debug output. Optional.
	Log *log.Logger
}

var _ repoctx.RemoteReader = (*Remotes)(nil)

// OriginURL returns the first URL of the origin remote.
func (r *Remotes) OriginURL() (string, bool) {
	url, err := r.RemoteURL(OriginRemote)
	if err != nil {
		r.logger().Debug("No origin remote", "dir", r.dir(), "error", err)
		return "", false
	}
	return url, true
}

// RemoteURL returns the first URL of the named remote.
func (r *Remotes) RemoteURL(name string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", err
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

// CurrentBranch returns the short name of the checked-out branch,
// or "HEAD" when detached.
func (r *Remotes) CurrentBranch() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		return "HEAD", nil
	}
	return head.Name().Short(), nil
}

func (r *Remotes) open() (*git.Repository, error) {
	return git.PlainOpenWithOptions(r.dir(), &git.PlainOpenOptions{
		DetectDotGit: true,
	})
}

func (r *Remotes) dir() string {
	if r.Dir == "" {
		return "."
	}
	return r.Dir
}

func (r *Remotes) logger() *log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.New(io.Discard)
}
