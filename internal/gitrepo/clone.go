package gitrepo

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Cloner clones Bitbucket repositories.
type Cloner struct {
	username string
	token    string
}

// NewCloner creates a Cloner. If token is non-empty it is sent as HTTP
// basic-auth password; username defaults to "x-token-auth", which
// Bitbucket Cloud accepts for access tokens.
func NewCloner(username, token string) *Cloner {
	return &Cloner{username: username, token: token}
}

// CloneOpts tunes a clone.
type CloneOpts struct {
	// Branch checks out this branch instead of the remote HEAD.
	Branch string

	// Depth limits history. 0 clones everything.
	Depth int
}

// Clone clones cloneURL into dir, which must not exist or be empty.
// On failure a directory created by Clone is removed.
func (c *Cloner) Clone(ctx context.Context, cloneURL, dir string, opts CloneOpts) error {
	_, statErr := os.Stat(dir)
	created := os.IsNotExist(statErr)

	cloneOpts := &git.CloneOptions{
		URL:   cloneURL,
		Depth: opts.Depth,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	if c.token != "" && isHTTP(cloneURL) {
		username := c.username
		if username == "" {
			username = "x-token-auth"
		}
		cloneOpts.Auth = &http.BasicAuth{
			Username: username,
			Password: c.token,
		}
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, cloneOpts); err != nil {
		if created {
			os.RemoveAll(dir)
		}
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}

func isHTTP(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}
