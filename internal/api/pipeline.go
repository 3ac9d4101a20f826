package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/repoctx"
)

// ErrCloudOnly is returned for features Bitbucket Server does not have.
var ErrCloudOnly = errors.New("only available on Bitbucket Cloud")

type cloudPipeline struct {
	UUID        string `json:"uuid"`
	BuildNumber int    `json:"build_number"`
	State       struct {
		Name   string `json:"name"`
		Result *struct {
			Name string `json:"name"`
		} `json:"result"`
	} `json:"state"`
	Target struct {
		RefName string `json:"ref_name"`
		Commit  struct {
			Hash string `json:"hash"`
		} `json:"commit"`
	} `json:"target"`
	Creator struct {
		DisplayName string `json:"display_name"`
	} `json:"creator"`
	CreatedOn         string `json:"created_on"`
	CompletedOn       string `json:"completed_on"`
	DurationInSeconds int    `json:"duration_in_seconds"`
}

// PipelineFilter narrows a pipeline listing. Empty fields match
// everything.
type PipelineFilter struct {
	Branch string
	// State matches model.Pipeline.State case-insensitively, e.g.
	// "failed" or "in_progress".
	State string
}

func (f PipelineFilter) match(p model.Pipeline) bool {
	if f.Branch != "" && p.Branch != f.Branch {
		return false
	}
	return f.State == "" || strings.EqualFold(p.State, f.State)
}

// Pipelines lists pipeline runs of rc, newest first, that match filter.
// A limit of zero or less fetches all pages. Bitbucket Server has no
// pipelines; ErrCloudOnly is returned for it.
func (c *Client) Pipelines(ctx context.Context, rc repoctx.RepoContext, filter PipelineFilter, limit int) ([]model.Pipeline, error) {
	if !rc.IsCloud() {
		return nil, fmt.Errorf("pipelines: %w", ErrCloudOnly)
	}

	params := url.Values{}
	params.Set("sort", "-created_on")
	params.Set("pagelen", strconv.Itoa(pageSize))

	var all []model.Pipeline
	nextURL := c.repoURL(rc) + "/pipelines/?" + params.Encode()

	for nextURL != "" {
		data, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var page struct {
			Values []cloudPipeline `json:"values"`
			Next   string          `json:"next"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode bitbucket pipelines: %w", err)
		}

		for _, cp := range page.Values {
			p := toPipeline(rc, cp)
			if !filter.match(p) {
				continue
			}
			all = append(all, p)
			if limit > 0 && len(all) >= limit {
				return all, nil
			}
		}

		nextURL = page.Next
	}

	return all, nil
}

func toPipeline(rc repoctx.RepoContext, cp cloudPipeline) model.Pipeline {
	p := model.Pipeline{
		BuildNumber:     cp.BuildNumber,
		UUID:            cp.UUID,
		State:           cp.State.Name,
		Branch:          cp.Target.RefName,
		Commit:          cp.Target.Commit.Hash,
		Creator:         cp.Creator.DisplayName,
		URL:             fmt.Sprintf("%s/pipelines/results/%d", rc.WebURL(), cp.BuildNumber),
		DurationSeconds: cp.DurationInSeconds,
	}
	if cp.State.Result != nil && cp.State.Result.Name != "" {
		p.State = cp.State.Result.Name
	}
	if t, err := time.Parse(time.RFC3339Nano, cp.CreatedOn); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, cp.CompletedOn); err == nil {
		p.CompletedAt = t
	}
	return p
}
