package repoctx_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dsablic/bb/internal/repoctx"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name string
		give string

		wantHost  string
		wantType  repoctx.HostType
		wantOwner string
		wantRepo  string
	}{
		{
			name:      "CloudSSH",
			give:      "git@bitbucket.org:ws/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "CloudHTTPSNoSuffix",
			give:      "https://bitbucket.org/ws/repo",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "CloudHTTPSWithUser",
			give:      "https://jdoe@bitbucket.org/ws/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "CloudAPIHost",
			give:      "https://api.bitbucket.org/ws/repo",
			wantHost:  "api.bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "CloudHTTPSExplicitPort",
			give:      "https://bitbucket.org:443/ws/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "ServerHTTPSPortKept",
			give:      "https://git.example.com:8443/PROJ/repo.git",
			wantHost:  "git.example.com:8443",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "ServerSCM",
			give:      "https://bitbucket.example.com/scm/PROJ/repo.git",
			wantHost:  "bitbucket.example.com",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "ServerSCMOnCloudHostname",
			give:      "https://bitbucket.org/scm/PROJ/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "ServerSCMHTTP",
			give:      "http://git.internal/scm/OPS/tools",
			wantHost:  "git.internal",
			wantType:  repoctx.HostServer,
			wantOwner: "OPS",
			wantRepo:  "tools",
		},
		{
			name:      "ServerSSHWithPort",
			give:      "ssh://git@bitbucket.example.com:7999/PROJ/repo.git",
			wantHost:  "bitbucket.example.com",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "ServerSSHWithoutPort",
			give:      "ssh://git@bitbucket.example.com/PROJ/repo",
			wantHost:  "bitbucket.example.com",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "ServerSSHOnCloudHostname",
			give:      "ssh://git@bitbucket.org/ws/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostServer,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
		{
			name:      "GenericSSHServerHost",
			give:      "git@bitbucket.example.com:PROJ/repo.git",
			wantHost:  "bitbucket.example.com",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "GenericHTTPSServerHost",
			give:      "https://bitbucket.example.com/PROJ/repo.git",
			wantHost:  "bitbucket.example.com",
			wantType:  repoctx.HostServer,
			wantOwner: "PROJ",
			wantRepo:  "repo",
		},
		{
			name:      "CasePreserved",
			give:      "git@bitbucket.org:MyTeam/My-Repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "MyTeam",
			wantRepo:  "My-Repo",
		},
		{
			name:      "OnlyFinalGitSuffixStripped",
			give:      "https://bitbucket.org/team.git/repo.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "team.git",
			wantRepo:  "repo",
		},
		{
			name:      "DottedRepoName",
			give:      "git@bitbucket.org:ws/site.example.com.git",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "site.example.com",
		},
		{
			name:      "SurroundingWhitespace",
			give:      "  git@bitbucket.org:ws/repo.git\n",
			wantHost:  "bitbucket.org",
			wantType:  repoctx.HostCloud,
			wantOwner: "ws",
			wantRepo:  "repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := repoctx.ParseRemoteURL(tt.give)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHost, rc.Host(), "host")
			assert.Equal(t, tt.wantType, rc.HostType(), "host type")
			assert.Equal(t, tt.wantOwner, rc.Owner(), "owner")
			assert.Equal(t, tt.wantRepo, rc.RepoSlug(), "repo")
			assert.Empty(t, rc.DefaultBranch(), "default branch")
		})
	}
}

func TestParseRemoteURL_SSHAndHTTPSAgree(t *testing.T) {
	ssh, err := repoctx.ParseRemoteURL("git@bitbucket.org:ws/repo.git")
	require.NoError(t, err)

	https, err := repoctx.ParseRemoteURL("https://bitbucket.org/ws/repo")
	require.NoError(t, err)

	assert.Equal(t, ssh, https)
}

func TestParseRemoteURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		give string
	}{
		{"NotAURL", "not a url"},
		{"Empty", ""},
		{"LocalPath", "/srv/git/repo.git"},
		{"FileScheme", "file:///srv/git/ws/repo.git"},
		{"OwnerOnly", "https://bitbucket.org/ws"},
		{"NestedPath", "https://bitbucket.org/group/sub/repo.git"},
		{"NestedSSHPath", "git@bitbucket.org:group/sub/repo.git"},
		{"NestedSCMPath", "https://bitbucket.example.com/scm/PROJ/sub/repo.git"},
		{"SSHWrongUser", "ssh://hg@bitbucket.example.com/PROJ/repo.git"},
		{"GitProtocol", "git://bitbucket.org/ws/repo.git"},
		{"EmptyOwner", "https://bitbucket.org//repo.git"},
		{"TrailingSlash", "https://bitbucket.org/ws/repo/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repoctx.ParseRemoteURL(tt.give)
			require.Error(t, err)

			var formatErr *repoctx.URLFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.give, formatErr.URL)
			assert.Contains(t, err.Error(), tt.give)
		})
	}
}

// Every grammar round-trips owner and repository, with or without a
// trailing .git.
func TestParseRemoteURL_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9_-]{0,20}`)
		owner := segment.Draw(t, "owner")
		repo := segment.Draw(t, "repo")
		host := rapid.SampledFrom([]string{
			"bitbucket.org",
			"api.bitbucket.org",
			"bitbucket.example.com",
			"git.corp.internal",
		}).Draw(t, "host")
		suffix := rapid.SampledFrom([]string{"", ".git"}).Draw(t, "suffix")

		type form struct {
			url      string
			wantType repoctx.HostType
		}
		inferred := repoctx.InferHostType(host)
		forms := []form{
			{fmt.Sprintf("git@%s:%s/%s%s", host, owner, repo, suffix), inferred},
			{fmt.Sprintf("https://%s/scm/%s/%s%s", host, owner, repo, suffix), repoctx.HostServer},
			{fmt.Sprintf("ssh://git@%s:7999/%s/%s%s", host, owner, repo, suffix), repoctx.HostServer},
			{fmt.Sprintf("ssh://git@%s/%s/%s%s", host, owner, repo, suffix), repoctx.HostServer},
			{fmt.Sprintf("https://%s/%s/%s%s", host, owner, repo, suffix), inferred},
		}

		for _, f := range forms {
			rc, err := repoctx.ParseRemoteURL(f.url)
			if err != nil {
				t.Fatalf("parse %q: %v", f.url, err)
			}
			if rc.Owner() != owner || rc.RepoSlug() != repo {
				t.Fatalf("parse %q: got %s/%s, want %s/%s",
					f.url, rc.Owner(), rc.RepoSlug(), owner, repo)
			}
			if rc.Host() != host {
				t.Fatalf("parse %q: got host %q, want %q", f.url, rc.Host(), host)
			}
			if rc.HostType() != f.wantType {
				t.Fatalf("parse %q: got type %v, want %v", f.url, rc.HostType(), f.wantType)
			}
		}
	})
}
