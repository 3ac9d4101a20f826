package repoctx

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// RemoteReader reads the URL of the origin remote of the git repository
// enclosing the working directory.
type RemoteReader interface {
	// OriginURL returns the origin URL and true, or false if there is
	// no enclosing repository or it has no origin remote.
	OriginURL() (string, bool)
}

// HostSettings supplies per-host configuration to the resolver.
type HostSettings interface {
	// HostTypeOverride returns the configured host type for host,
	// or HostAuto if none is configured.
	HostTypeOverride(host string) HostType

	// DefaultBranch returns the configured default branch for host,
	// or "" if none is configured.
	DefaultBranch(host string) string
}

// Options are the user's explicit choices for a single invocation.
type Options struct {
	// Repo is "OWNER/REPO". If set, git discovery is skipped.
	Repo string

	// Host is the Bitbucket host used with Repo.
	// Defaults to bitbucket.org.
	Host string

	// HostType overrides host type inference when not HostAuto.
	HostType HostType
}

// Resolver builds the RepoContext for an invocation.
type Resolver struct {
	// Remotes discovers the origin remote. If nil, only explicit
	// repositories can be resolved.
	Remotes RemoteReader

	// Hosts holds per-host overrides. Optional.
	Hosts HostSettings

	// Log receives debug output. Optional.
	Log *log.Logger
}

// Resolve determines the target repository.
//
// An explicit opts.Repo always wins and never falls back to git discovery.
// Otherwise the origin remote is parsed. Failures are returned as
// *FormatError, *URLFormatError or *NoContextError.
func (r *Resolver) Resolve(opts Options) (RepoContext, error) {
	logger := r.logger()

	var (
		rc  RepoContext
		err error
	)
	if opts.Repo != "" {
		logger.Debug("Resolving repository from argument", "repo", opts.Repo, "host", opts.Host)
		rc, err = parseRepoArg(opts.Repo, opts.Host)
	} else {
		rc, err = r.fromOrigin(logger)
	}
	if err != nil {
		return RepoContext{}, err
	}

	hostType := opts.HostType
	if hostType == HostAuto && r.Hosts != nil {
		hostType = r.Hosts.HostTypeOverride(rc.Host())
	}
	if hostType != HostAuto && hostType != rc.HostType() {
		logger.Debug("Overriding host type", "host", rc.Host(), "from", rc.HostType(), "to", hostType)
		rc = rc.WithHostType(hostType)
	}

	if r.Hosts != nil {
		if branch := r.Hosts.DefaultBranch(rc.Host()); branch != "" {
			rc = rc.WithDefaultBranch(branch)
		}
	}

	logger.Debug("Resolved repository", "repo", rc.FullName(), "host", rc.Host(), "type", rc.HostType())
	return rc, nil
}

func (r *Resolver) fromOrigin(logger *log.Logger) (RepoContext, error) {
	if r.Remotes == nil {
		return RepoContext{}, &NoContextError{}
	}

	url, ok := r.Remotes.OriginURL()
	if !ok {
		return RepoContext{}, &NoContextError{Reason: "no git repository with an origin remote"}
	}

	logger.Debug("Resolving repository from origin remote", "url", url)
	return ParseRemoteURL(url)
}

func (r *Resolver) logger() *log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.New(io.Discard)
}

func parseRepoArg(repo, host string) (RepoContext, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoContext{}, &FormatError{Value: repo}
	}

	if host == "" {
		host = CloudHost
	}
	return New(host, InferHostType(host), parts[0], parts[1])
}
