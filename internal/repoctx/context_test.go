package repoctx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/bb/internal/repoctx"
)

func TestRepoContextURLs(t *testing.T) {
	tests := []struct {
		name string
		host string
		typ  repoctx.HostType

		wantWeb   string
		wantAPI   string
		wantHTTPS string
		wantSSH   string
	}{
		{
			name:      "Cloud",
			host:      "bitbucket.org",
			typ:       repoctx.HostCloud,
			wantWeb:   "https://bitbucket.org/ws/repo",
			wantAPI:   "https://api.bitbucket.org/2.0/repositories/ws/repo",
			wantHTTPS: "https://bitbucket.org/ws/repo.git",
			wantSSH:   "git@bitbucket.org:ws/repo.git",
		},
		{
			name:      "CloudViaAPIHost",
			host:      "api.bitbucket.org",
			typ:       repoctx.HostCloud,
			wantWeb:   "https://bitbucket.org/ws/repo",
			wantAPI:   "https://api.bitbucket.org/2.0/repositories/ws/repo",
			wantHTTPS: "https://bitbucket.org/ws/repo.git",
			wantSSH:   "git@bitbucket.org:ws/repo.git",
		},
		{
			name:      "Server",
			host:      "bitbucket.example.com",
			typ:       repoctx.HostServer,
			wantWeb:   "https://bitbucket.example.com/projects/ws/repos/repo",
			wantAPI:   "https://bitbucket.example.com/rest/api/1.0/projects/ws/repos/repo",
			wantHTTPS: "https://bitbucket.example.com/scm/ws/repo.git",
			wantSSH:   "ssh://git@bitbucket.example.com/ws/repo.git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := repoctx.New(tt.host, tt.typ, "ws", "repo")
			require.NoError(t, err)

			assert.Equal(t, "ws/repo", rc.FullName())
			assert.Equal(t, tt.wantWeb, rc.WebURL())
			assert.Equal(t, tt.wantAPI, rc.APIURL())
			assert.Equal(t, tt.wantHTTPS, rc.CloneURL("https"))
			assert.Equal(t, tt.wantSSH, rc.CloneURL("ssh"))
		})
	}
}

func TestNewRejectsPartialContext(t *testing.T) {
	tests := []struct {
		name  string
		host  string
		typ   repoctx.HostType
		owner string
		repo  string
	}{
		{"EmptyHost", "", repoctx.HostCloud, "ws", "repo"},
		{"EmptyOwner", "bitbucket.org", repoctx.HostCloud, "", "repo"},
		{"EmptyRepo", "bitbucket.org", repoctx.HostCloud, "ws", ""},
		{"AutoHostType", "bitbucket.org", repoctx.HostAuto, "ws", "repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repoctx.New(tt.host, tt.typ, tt.owner, tt.repo)
			assert.Error(t, err)
		})
	}
}

func TestWithersReturnCopies(t *testing.T) {
	rc, err := repoctx.New("bitbucket.example.com", repoctx.HostServer, "PROJ", "repo")
	require.NoError(t, err)

	branched := rc.WithDefaultBranch("develop")
	assert.Equal(t, "develop", branched.DefaultBranch())
	assert.Empty(t, rc.DefaultBranch())

	cloud := rc.WithHostType(repoctx.HostCloud)
	assert.Equal(t, repoctx.HostCloud, cloud.HostType())
	assert.Equal(t, repoctx.HostServer, rc.HostType())

	assert.Equal(t, rc, rc.WithHostType(repoctx.HostAuto))
}

func TestParseHostType(t *testing.T) {
	tests := []struct {
		give string
		want repoctx.HostType
	}{
		{"", repoctx.HostAuto},
		{"auto", repoctx.HostAuto},
		{"cloud", repoctx.HostCloud},
		{"Cloud", repoctx.HostCloud},
		{"server", repoctx.HostServer},
		{"dc", repoctx.HostServer},
		{" datacenter ", repoctx.HostServer},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			got, err := repoctx.ParseHostType(tt.give)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if got != repoctx.HostAuto {
				roundTrip, err := repoctx.ParseHostType(got.String())
				require.NoError(t, err)
				assert.Equal(t, got, roundTrip)
			}
		})
	}

	_, err := repoctx.ParseHostType("github")
	assert.Error(t, err)
}
