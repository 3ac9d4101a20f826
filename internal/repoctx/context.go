// Package repoctx decides which Bitbucket repository a command targets.
//
// A [RepoContext] is resolved once per invocation, either from an explicit
// OWNER/REPO argument or from the origin remote of the enclosing git
// checkout, and every API and web URL the CLI builds is derived from it.
package repoctx

import (
	"fmt"
	"net"
	"strings"
)

const (
	// CloudHost is the web host of Bitbucket Cloud.
	CloudHost = "bitbucket.org"

	// CloudAPIHost is the API host of Bitbucket Cloud.
	CloudAPIHost = "api.bitbucket.org"
)

// HostType identifies the Bitbucket deployment model.
type HostType int

const (
	// HostAuto means the host type is inferred from the hostname.
	HostAuto HostType = iota

	// HostCloud is Bitbucket Cloud (bitbucket.org).
	HostCloud

	// HostServer is self-hosted Bitbucket Server or Data Center.
	HostServer
)

func (t HostType) String() string {
	switch t {
	case HostCloud:
		return "cloud"
	case HostServer:
		return "server"
	default:
		return "auto"
	}
}

// ParseHostType parses "cloud", "server" or "auto" (case-insensitive).
// The empty string is HostAuto.
func ParseHostType(s string) (HostType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HostAuto, nil
	case "cloud":
		return HostCloud, nil
	case "server", "datacenter", "dc":
		return HostServer, nil
	default:
		return HostAuto, fmt.Errorf("unknown host type %q (use cloud or server)", s)
	}
}

// IsCloudHost reports whether host is one of Bitbucket Cloud's hostnames.
// A port suffix is ignored.
func IsCloudHost(host string) bool {
	h := hostname(host)
	return h == CloudHost || h == CloudAPIHost
}

// hostname returns host without a ":port" suffix.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// InferHostType returns HostCloud for Bitbucket Cloud hostnames and
// HostServer for everything else.
func InferHostType(host string) HostType {
	if IsCloudHost(host) {
		return HostCloud
	}
	return HostServer
}

// RepoContext is the resolved address of one repository.
//
// The zero value is not valid; build one with [New], [ParseRemoteURL] or
// [Resolver.Resolve]. Values are immutable.
type RepoContext struct {
	host          string
	hostType      HostType
	owner         string
	repoSlug      string
	defaultBranch string
}

// New builds a RepoContext. owner and repoSlug must be non-empty and
// hostType must be HostCloud or HostServer. A port on a Bitbucket Cloud
// hostname is dropped.
func New(host string, hostType HostType, owner, repoSlug string) (RepoContext, error) {
	switch {
	case host == "":
		return RepoContext{}, fmt.Errorf("repository context: empty host")
	case owner == "":
		return RepoContext{}, fmt.Errorf("repository context: empty owner")
	case repoSlug == "":
		return RepoContext{}, fmt.Errorf("repository context: empty repository slug")
	case hostType != HostCloud && hostType != HostServer:
		return RepoContext{}, fmt.Errorf("repository context: unresolved host type %v", hostType)
	}
	if IsCloudHost(host) {
		host = hostname(host)
	}
	return RepoContext{
		host:     host,
		hostType: hostType,
		owner:    owner,
		repoSlug: repoSlug,
	}, nil
}

// Host returns the bare hostname, e.g. "bitbucket.org".
func (c RepoContext) Host() string { return c.host }

// HostType returns HostCloud or HostServer.
func (c RepoContext) HostType() HostType { return c.hostType }

// Owner returns the workspace slug (Cloud) or project key (Server).
func (c RepoContext) Owner() string { return c.owner }

// RepoSlug returns the repository slug.
func (c RepoContext) RepoSlug() string { return c.repoSlug }

// DefaultBranch returns the configured default branch, or "" if unknown.
func (c RepoContext) DefaultBranch() string { return c.defaultBranch }

// IsCloud reports whether the context targets Bitbucket Cloud.
func (c RepoContext) IsCloud() bool { return c.hostType == HostCloud }

// WithDefaultBranch returns a copy of c with the default branch set.
func (c RepoContext) WithDefaultBranch(branch string) RepoContext {
	c.defaultBranch = branch
	return c
}

// WithHostType returns a copy of c with the host type replaced.
// HostAuto leaves c unchanged.
func (c RepoContext) WithHostType(t HostType) RepoContext {
	if t == HostCloud || t == HostServer {
		c.hostType = t
	}
	return c
}

// FullName returns "owner/repo".
func (c RepoContext) FullName() string {
	return c.owner + "/" + c.repoSlug
}

// WebURL returns the repository's browser URL.
func (c RepoContext) WebURL() string {
	if c.IsCloud() {
		return fmt.Sprintf("https://%s/%s/%s", CloudHost, c.owner, c.repoSlug)
	}
	return fmt.Sprintf("https://%s/projects/%s/repos/%s", c.host, c.owner, c.repoSlug)
}

// APIRoot returns the REST API root for the context's host, without the
// repository path.
func (c RepoContext) APIRoot() string {
	if c.IsCloud() {
		return "https://" + CloudAPIHost + "/2.0"
	}
	return "https://" + c.host + "/rest/api/1.0"
}

// APIURL returns the REST API URL of the repository resource.
func (c RepoContext) APIURL() string {
	if c.IsCloud() {
		return fmt.Sprintf("%s/repositories/%s/%s", c.APIRoot(), c.owner, c.repoSlug)
	}
	return fmt.Sprintf("%s/projects/%s/repos/%s", c.APIRoot(), c.owner, c.repoSlug)
}

// CloneURL returns the git URL for cloning the repository. protocol is
// "ssh" or "https"; anything else is treated as "https".
func (c RepoContext) CloneURL(protocol string) string {
	if protocol == "ssh" {
		if c.IsCloud() {
			return fmt.Sprintf("git@%s:%s/%s.git", CloudHost, c.owner, c.repoSlug)
		}
		return fmt.Sprintf("ssh://git@%s/%s/%s.git", c.host, c.owner, c.repoSlug)
	}
	if c.IsCloud() {
		return fmt.Sprintf("https://%s/%s/%s.git", CloudHost, c.owner, c.repoSlug)
	}
	return fmt.Sprintf("https://%s/scm/%s/%s.git", c.host, c.owner, c.repoSlug)
}

func (c RepoContext) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.FullName(), c.host, c.hostType)
}
