// Package api talks to the Bitbucket Cloud and Bitbucket Server REST APIs.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dsablic/bb/internal/repoctx"
)

const (
	cloudAPIPrefix  = "/2.0"
	serverAPIPrefix = "/rest/api/1.0"
)

// Client issues authenticated requests against the API root of a
// repository context.
type Client struct {
	token    string
	username string
	baseURL  string
	client   *http.Client
	log      *log.Logger
}

// NewClient creates a new API client. If username is non-empty, Basic
// Auth is used instead of Bearer token auth. A non-empty baseURL
// replaces the scheme and host of every API root, which lets tests point
// the client at a local server. A nil client gets a rate-limited default.
func NewClient(token, username, baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Transport: &RateLimitTransport{ReqPerSec: 10}}
	}
	return &Client{
		token:    token,
		username: username,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		log:      log.New(io.Discard),
	}
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(l *log.Logger) *Client {
	if l == nil {
		return c
	}
	c.log = l
	if t, ok := c.client.Transport.(*RateLimitTransport); ok && t.Log == nil {
		t.Log = l
	}
	return c
}

// APIRoot returns the API root the client uses for rc.
func (c *Client) APIRoot(rc repoctx.RepoContext) string {
	if c.baseURL == "" {
		return rc.APIRoot()
	}
	if rc.IsCloud() {
		return c.baseURL + cloudAPIPrefix
	}
	return c.baseURL + serverAPIPrefix
}

func (c *Client) repoURL(rc repoctx.RepoContext) string {
	return c.APIRoot(rc) + strings.TrimPrefix(rc.APIURL(), rc.APIRoot())
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body []byte, authenticate bool) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, r)
	if err != nil {
		return nil, err
	}
	if authenticate && c.token != "" {
		if c.username != "" {
			req.SetBasicAuth(c.username, c.token)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, url, nil, true)
}

func (c *Client) send(ctx context.Context, method, url string, body []byte, authenticate bool) ([]byte, error) {
	req, err := c.newRequest(ctx, method, url, body, authenticate)
	if err != nil {
		return nil, err
	}

	c.log.Debug("api request", "method", method, "url", url)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitbucket API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bitbucket response: %w", err)
	}
	c.log.Debug("api response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(method, url, resp.StatusCode, data)
	}
	return data, nil
}

// Do sends a raw request. A path that is not an absolute URL is resolved
// against the API root of rc. Credentials are only attached when the
// request goes to the same scheme and host as that API root. The
// response body of a 2xx reply is returned unchanged.
func (c *Client) Do(ctx context.Context, rc repoctx.RepoContext, method, path string, body []byte) ([]byte, error) {
	root := c.APIRoot(rc)
	target := path
	authenticate := true
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		authenticate = sameOrigin(path, root)
		if !authenticate {
			c.log.Warn("Not sending credentials to a host outside the API root", "url", path, "api", root)
		}
	} else {
		target = root + "/" + strings.TrimLeft(path, "/")
	}
	if method == "" {
		method = http.MethodGet
	}
	return c.send(ctx, strings.ToUpper(method), target, body, authenticate)
}

// sameOrigin reports whether a and b share scheme and host (including
// port). Hosts compare case-insensitively.
func sameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}
