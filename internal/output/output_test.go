// internal/output/output_test.go
package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/output"
)

func sampleContext() model.Context {
	return model.Context{
		Host:     "bitbucket.org",
		HostType: "cloud",
		Owner:    "myworkspace",
		Repo:     "api-service",
		FullName: "myworkspace/api-service",
		WebURL:   "https://bitbucket.org/myworkspace/api-service",
		APIURL:   "https://api.bitbucket.org/2.0/repositories/myworkspace/api-service",
	}
}

func samplePullRequests(now time.Time) []model.PullRequest {
	return []model.PullRequest{
		{
			ID:           42,
			Title:        "Add retry to webhook sender",
			State:        model.PullRequestOpen,
			Author:       "Jane Doe",
			SourceBranch: "feature/retry",
			TargetBranch: "main",
			URL:          "https://bitbucket.org/myworkspace/api-service/pull-requests/42",
			UpdatedAt:    now.Add(-3 * time.Hour),
		},
		{
			ID:           41,
			Title:        "Bump deps",
			State:        model.PullRequestMerged,
			Author:       "John Doe",
			SourceBranch: "deps",
			TargetBranch: "main",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, sampleContext()); err != nil {
		t.Fatalf("failed to write JSON: %v", err)
	}

	var decoded model.Context
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.FullName != "myworkspace/api-service" {
		t.Errorf("expected myworkspace/api-service, got %s", decoded.FullName)
	}
	if !strings.Contains(buf.String(), "\n  \"host\"") {
		t.Error("JSON should be indented")
	}
}

func TestWriteContextMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteContextMarkdown(&buf, sampleContext()); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}

	md := buf.String()
	if !strings.Contains(md, "# myworkspace/api-service") {
		t.Error("markdown should contain the full name heading")
	}
	if strings.Contains(md, "Default branch") {
		t.Error("markdown should omit an unknown default branch")
	}
	if !strings.Contains(md, "| Host type | cloud |") {
		t.Error("markdown should contain the host type row")
	}
}

func TestWriteRepositoryMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := output.WriteRepositoryMarkdown(&buf, model.Repository{
		Slug:          "repo",
		FullName:      "PROJ/repo",
		Project:       "PROJ",
		Private:       true,
		DefaultBranch: "master",
		URL:           "https://git.example.com/projects/PROJ/repos/repo/browse",
	})
	if err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}

	md := buf.String()
	if !strings.Contains(md, "[PROJ/repo](https://git.example.com/projects/PROJ/repos/repo/browse)") {
		t.Error("markdown should link the repository")
	}
	if !strings.Contains(md, "| Visibility | private |") {
		t.Error("markdown should contain visibility")
	}
	if !strings.Contains(md, "| Default branch | master |") {
		t.Error("markdown should contain default branch")
	}
}

func TestWritePullRequestsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WritePullRequestsMarkdown(&buf, samplePullRequests(time.Now())); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}

	md := buf.String()
	if !strings.Contains(md, "[#42]") {
		t.Error("markdown should contain PR #42")
	}
	if !strings.Contains(md, "feature/retry → main") {
		t.Error("markdown should contain the branch pair")
	}
}

func TestWritePullRequestTable(t *testing.T) {
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := output.WritePullRequestTable(&buf, samplePullRequests(now), now); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "TITLE", "#42", "Add retry to webhook sender", "3 hours ago", "MERGED"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}
}

func TestWritePullRequestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WritePullRequestTable(&buf, nil, time.Now()); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	if !strings.Contains(buf.String(), "No pull requests found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriteKeyValuesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := output.WriteKeyValues(&buf, [][2]string{{"host", "bitbucket.org"}, {"default_branch", ""}})
	if err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	if strings.Contains(buf.String(), "default_branch") {
		t.Error("empty values should be skipped")
	}
	if !strings.Contains(buf.String(), "bitbucket.org") {
		t.Error("expected host value")
	}
}

func samplePipelines(now time.Time) []model.Pipeline {
	return []model.Pipeline{
		{
			BuildNumber:     31,
			State:           "FAILED",
			Branch:          "main",
			Commit:          "9f2c1e4ab77d",
			Creator:         "Jane Doe",
			URL:             "https://bitbucket.org/acme/widgets/pipelines/results/31",
			CreatedAt:       now.Add(-2 * time.Hour),
			DurationSeconds: 150,
		},
		{
			BuildNumber: 32,
			State:       "IN_PROGRESS",
			Branch:      "feature/retry",
			URL:         "https://bitbucket.org/acme/widgets/pipelines/results/32",
		},
	}
}

func TestWritePipelineTable(t *testing.T) {
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := output.WritePipelineTable(&buf, samplePipelines(now), now); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"BUILD", "DURATION", "#31", "9f2c1e4", "2 hours ago", "2m30s", "IN_PROGRESS"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "9f2c1e4ab77d") {
		t.Error("commit should be shortened")
	}
}

func TestWritePipelineTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WritePipelineTable(&buf, nil, time.Now()); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	if !strings.Contains(buf.String(), "No pipelines found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWritePipelinesMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WritePipelinesMarkdown(&buf, samplePipelines(time.Now())); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}
	md := buf.String()
	if !strings.Contains(md, "[#31](https://bitbucket.org/acme/widgets/pipelines/results/31)") {
		t.Errorf("markdown should link build 31:\n%s", md)
	}
	if !strings.Contains(md, "| FAILED | main | 9f2c1e4 | Jane Doe |") {
		t.Errorf("markdown should contain the run row:\n%s", md)
	}
}
