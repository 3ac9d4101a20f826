package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/repoctx"
)

const pageSize = 50

type cloudPullRequest struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
	Source struct {
		Branch struct {
			Name string `json:"name"`
		} `json:"branch"`
	} `json:"source"`
	Destination struct {
		Branch struct {
			Name string `json:"name"`
		} `json:"branch"`
	} `json:"destination"`
	Links struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"links"`
	UpdatedOn string `json:"updated_on"`
}

type serverPullRequest struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Author struct {
		User struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"author"`
	FromRef struct {
		DisplayID string `json:"displayId"`
	} `json:"fromRef"`
	ToRef struct {
		DisplayID string `json:"displayId"`
	} `json:"toRef"`
	Links struct {
		Self []struct {
			Href string `json:"href"`
		} `json:"self"`
	} `json:"links"`
	UpdatedDate int64 `json:"updatedDate"`
}

// PullRequests lists pull requests of rc in the given state, newest
// first. An empty state lists every state. A limit of zero or less
// fetches all pages.
func (c *Client) PullRequests(ctx context.Context, rc repoctx.RepoContext, state model.PullRequestState, limit int) ([]model.PullRequest, error) {
	if rc.IsCloud() {
		return c.cloudPullRequests(ctx, rc, state, limit)
	}
	return c.serverPullRequests(ctx, rc, state, limit)
}

func (c *Client) cloudPullRequests(ctx context.Context, rc repoctx.RepoContext, state model.PullRequestState, limit int) ([]model.PullRequest, error) {
	params := url.Values{}
	params.Set("pagelen", strconv.Itoa(pageSize))
	if state == "" {
		for _, s := range []model.PullRequestState{
			model.PullRequestOpen, model.PullRequestMerged,
			model.PullRequestDeclined, model.PullRequestSuperseded,
		} {
			params.Add("state", string(s))
		}
	} else {
		params.Set("state", string(state))
	}

	var all []model.PullRequest
	nextURL := c.repoURL(rc) + "/pullrequests?" + params.Encode()

	for nextURL != "" {
		data, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var page struct {
			Values []cloudPullRequest `json:"values"`
			Next   string             `json:"next"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode bitbucket pull requests: %w", err)
		}

		for _, p := range page.Values {
			pr := model.PullRequest{
				ID:           p.ID,
				Title:        p.Title,
				State:        model.PullRequestState(p.State),
				Author:       p.Author.DisplayName,
				SourceBranch: p.Source.Branch.Name,
				TargetBranch: p.Destination.Branch.Name,
				URL:          p.Links.HTML.Href,
			}
			if t, err := time.Parse(time.RFC3339Nano, p.UpdatedOn); err == nil {
				pr.UpdatedAt = t
			}
			all = append(all, pr)
			if limit > 0 && len(all) >= limit {
				return all, nil
			}
		}

		nextURL = page.Next
	}

	return all, nil
}

func (c *Client) serverPullRequests(ctx context.Context, rc repoctx.RepoContext, state model.PullRequestState, limit int) ([]model.PullRequest, error) {
	serverState := string(state)
	if serverState == "" {
		serverState = "ALL"
	}

	var all []model.PullRequest
	start := 0
	for {
		params := url.Values{}
		params.Set("state", serverState)
		params.Set("order", "NEWEST")
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("start", strconv.Itoa(start))

		data, err := c.get(ctx, c.repoURL(rc)+"/pull-requests?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var page struct {
			Values        []serverPullRequest `json:"values"`
			IsLastPage    bool                `json:"isLastPage"`
			NextPageStart int                 `json:"nextPageStart"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode bitbucket pull requests: %w", err)
		}

		for _, p := range page.Values {
			author := p.Author.User.DisplayName
			if author == "" {
				author = p.Author.User.Name
			}
			pr := model.PullRequest{
				ID:           p.ID,
				Title:        p.Title,
				State:        model.PullRequestState(p.State),
				Author:       author,
				SourceBranch: p.FromRef.DisplayID,
				TargetBranch: p.ToRef.DisplayID,
			}
			if len(p.Links.Self) > 0 {
				pr.URL = p.Links.Self[0].Href
			}
			if p.UpdatedDate > 0 {
				pr.UpdatedAt = time.UnixMilli(p.UpdatedDate).UTC()
			}
			all = append(all, pr)
			if limit > 0 && len(all) >= limit {
				return all, nil
			}
		}

		if page.IsLastPage || len(page.Values) == 0 {
			return all, nil
		}
		start = page.NextPageStart
	}
}
