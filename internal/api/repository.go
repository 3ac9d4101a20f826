package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/repoctx"
)

type cloudRepo struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	Language    string `json:"language"`
	UpdatedOn   string `json:"updated_on"`
	Project     *struct {
		Key string `json:"key"`
	} `json:"project"`
	MainBranch *struct {
		Name string `json:"name"`
	} `json:"mainbranch"`
	Parent *struct {
		FullName string `json:"full_name"`
	} `json:"parent"`
	Links struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
		Clone []cloneLink `json:"clone"`
	} `json:"links"`
}

type serverRepo struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Project     struct {
		Key string `json:"key"`
	} `json:"project"`
	Origin *struct {
		Slug string `json:"slug"`
	} `json:"origin"`
	Links struct {
		Self []struct {
			Href string `json:"href"`
		} `json:"self"`
		Clone []cloneLink `json:"clone"`
	} `json:"links"`
}

type cloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// Repository fetches metadata for the repository rc points at.
func (c *Client) Repository(ctx context.Context, rc repoctx.RepoContext) (model.Repository, error) {
	if rc.IsCloud() {
		return c.cloudRepository(ctx, rc)
	}
	return c.serverRepository(ctx, rc)
}

func (c *Client) cloudRepository(ctx context.Context, rc repoctx.RepoContext) (model.Repository, error) {
	data, err := c.get(ctx, c.repoURL(rc))
	if err != nil {
		return model.Repository{}, err
	}

	var r cloudRepo
	if err := json.Unmarshal(data, &r); err != nil {
		return model.Repository{}, fmt.Errorf("decode bitbucket repository: %w", err)
	}

	repo := model.Repository{
		Slug:        r.Slug,
		Name:        r.Name,
		FullName:    r.FullName,
		Description: r.Description,
		Private:     r.IsPrivate,
		Fork:        r.Parent != nil,
		Language:    r.Language,
		URL:         r.Links.HTML.Href,
	}
	if r.Project != nil {
		repo.Project = r.Project.Key
	}
	if r.MainBranch != nil {
		repo.DefaultBranch = r.MainBranch.Name
	}
	if t, err := time.Parse(time.RFC3339Nano, r.UpdatedOn); err == nil {
		repo.UpdatedAt = t
	}
	repo.CloneHTTPS, repo.CloneSSH = cloneLinks(r.Links.Clone, "https")
	if repo.URL == "" {
		repo.URL = rc.WebURL()
	}
	return repo, nil
}

func (c *Client) serverRepository(ctx context.Context, rc repoctx.RepoContext) (model.Repository, error) {
	data, err := c.get(ctx, c.repoURL(rc))
	if err != nil {
		return model.Repository{}, err
	}

	var r serverRepo
	if err := json.Unmarshal(data, &r); err != nil {
		return model.Repository{}, fmt.Errorf("decode bitbucket repository: %w", err)
	}

	repo := model.Repository{
		Slug:        r.Slug,
		Name:        r.Name,
		FullName:    r.Project.Key + "/" + r.Slug,
		Description: r.Description,
		Project:     r.Project.Key,
		Private:     !r.Public,
		Fork:        r.Origin != nil,
		URL:         rc.WebURL(),
	}
	if len(r.Links.Self) > 0 {
		repo.URL = r.Links.Self[0].Href
	}
	repo.CloneHTTPS, repo.CloneSSH = cloneLinks(r.Links.Clone, "http")

	branch, err := c.serverDefaultBranch(ctx, rc)
	if err != nil {
		return model.Repository{}, err
	}
	repo.DefaultBranch = branch
	return repo, nil
}

// serverDefaultBranch returns "" for an empty repository.
func (c *Client) serverDefaultBranch(ctx context.Context, rc repoctx.RepoContext) (string, error) {
	data, err := c.get(ctx, c.repoURL(rc)+"/branches/default")
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	var b struct {
		DisplayID string `json:"displayId"`
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return "", fmt.Errorf("decode bitbucket default branch: %w", err)
	}
	return b.DisplayID, nil
}

func cloneLinks(links []cloneLink, httpName string) (https, ssh string) {
	for _, l := range links {
		switch l.Name {
		case httpName:
			https = l.Href
		case "ssh":
			ssh = l.Href
		}
	}
	return https, ssh
}
