package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dsablic/bb/internal/model"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).Padding(0, 2, 0, 0)

var cellStyle = lipgloss.NewStyle().Padding(0, 2, 0, 0)

// WriteTable writes rows under headers as a borderless table.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// WritePullRequestTable writes prs as a table with update times relative
// to now.
func WritePullRequestTable(w io.Writer, prs []model.PullRequest, now time.Time) error {
	if len(prs) == 0 {
		_, err := fmt.Fprintln(w, "No pull requests found")
		return err
	}

	rows := make([][]string, 0, len(prs))
	for _, pr := range prs {
		updated := ""
		if !pr.UpdatedAt.IsZero() {
			updated = humanize.RelTime(pr.UpdatedAt, now, "ago", "from now")
		}
		rows = append(rows, []string{
			"#" + strconv.Itoa(pr.ID),
			pr.Title,
			pr.Author,
			pr.SourceBranch + " → " + pr.TargetBranch,
			string(pr.State),
			updated,
		})
	}
	return WriteTable(w, []string{"ID", "TITLE", "AUTHOR", "BRANCH", "STATE", "UPDATED"}, rows)
}

// WriteKeyValues writes ordered key/value pairs as a two-column table.
func WriteKeyValues(w io.Writer, pairs [][2]string) error {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		rows = append(rows, []string{p[0], p[1]})
	}
	return WriteTable(w, []string{"FIELD", "VALUE"}, rows)
}

// WritePipelineTable writes pipeline runs as a table with start times
// relative to now.
func WritePipelineTable(w io.Writer, runs []model.Pipeline, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No pipelines found")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, p := range runs {
		started := ""
		if !p.CreatedAt.IsZero() {
			started = humanize.RelTime(p.CreatedAt, now, "ago", "from now")
		}
		duration := ""
		if p.DurationSeconds > 0 {
			duration = (time.Duration(p.DurationSeconds) * time.Second).String()
		}
		rows = append(rows, []string{
			"#" + strconv.Itoa(p.BuildNumber),
			p.State,
			p.Branch,
			shortCommit(p.Commit),
			p.Creator,
			started,
			duration,
		})
	}
	return WriteTable(w, []string{"BUILD", "STATE", "BRANCH", "COMMIT", "CREATOR", "STARTED", "DURATION"}, rows)
}

func shortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
