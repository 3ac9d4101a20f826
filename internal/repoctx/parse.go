package repoctx

import (
	"regexp"
	"strings"
)

// remoteGrammar is one recognized remote URL form. Submatches 1-3 are
// host, owner and repository.
type remoteGrammar struct {
	name string
	re   *regexp.Regexp

	// server forces HostServer regardless of the hostname.
	server bool
}

// Order matters: the first grammar that matches wins.
var _remoteGrammars = []remoteGrammar{
	{
		name: "ssh",
		re:   regexp.MustCompile(`^git@([^:/\s]+):([^/\s]+)/([^/\s]+?)(?:\.git)?$`),
	},
	{
		name:   "server-scm",
		re:     regexp.MustCompile(`^https?://(?:[^@/\s]+@)?([^/\s]+)/scm/([^/\s]+)/([^/\s]+?)(?:\.git)?$`),
		server: true,
	},
	{
		name:   "server-ssh",
		re:     regexp.MustCompile(`^ssh://git@([^:/\s]+)(?::\d+)?/([^/\s]+)/([^/\s]+?)(?:\.git)?$`),
		server: true,
	},
	{
		name: "https",
		re:   regexp.MustCompile(`^https?://(?:[^@/\s]+@)?([^/\s]+)/([^/\s]+)/([^/\s]+?)(?:\.git)?$`),
	},
}

// ParseRemoteURL maps a git remote URL to a RepoContext.
//
// Recognized forms, tried in order:
//
//	git@<host>:<owner>/<repo>[.git]
//	http(s)://<host>/scm/<owner>/<repo>[.git]     (always Server)
//	ssh://git@<host>[:<port>]/<owner>/<repo>[.git] (always Server)
//	http(s)://<host>/<owner>/<repo>[.git]
//
// Other forms, including paths nested deeper than owner/repo, fail with a
// *URLFormatError.
func ParseRemoteURL(rawURL string) (RepoContext, error) {
	u := strings.TrimSpace(rawURL)
	for _, g := range _remoteGrammars {
		m := g.re.FindStringSubmatch(u)
		if m == nil {
			continue
		}

		host, owner, repo := m[1], m[2], m[3]
		hostType := InferHostType(host)
		if g.server {
			hostType = HostServer
		}

		rc, err := New(host, hostType, owner, repo)
		if err != nil {
			return RepoContext{}, &URLFormatError{URL: rawURL}
		}
		return rc, nil
	}
	return RepoContext{}, &URLFormatError{URL: rawURL}
}
