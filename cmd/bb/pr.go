package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/output"
)

func newPRCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Aliases: []string{"pull-request"},
		Short:   "Work with pull requests",
	}
	cmd.AddCommand(newPRListCmd(a))
	return cmd
}

func newPRListCmd(a *app) *cobra.Command {
	var (
		state string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pull requests in a repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prState, err := parsePRState(state)
			if err != nil {
				return err
			}
			if limit < 1 {
				return fmt.Errorf("invalid limit %d: must be at least 1", limit)
			}

			rc, err := a.resolve()
			if err != nil {
				return err
			}

			prs, err := a.client(rc).PullRequests(cmd.Context(), rc, prState, limit)
			if err != nil {
				return fmt.Errorf("list pull requests for %s: %w", rc.FullName(), err)
			}

			format, _ := a.format()
			switch format {
			case formatJSON:
				if prs == nil {
					prs = []model.PullRequest{}
				}
				return output.WriteJSON(a.stdout, prs)
			case formatMarkdown:
				return output.WritePullRequestsMarkdown(a.stdout, prs)
			default:
				return output.WritePullRequestTable(a.stdout, prs, a.now())
			}
		},
	}
	cmd.Flags().StringVarP(&state, "state", "s", "open", "Filter by state: open, merged, declined, superseded or all")
	cmd.Flags().IntVarP(&limit, "limit", "L", 30, "Maximum number of pull requests to fetch")
	return cmd
}

func parsePRState(s string) (model.PullRequestState, error) {
	switch strings.ToLower(s) {
	case "all":
		return "", nil
	case "open":
		return model.PullRequestOpen, nil
	case "merged":
		return model.PullRequestMerged, nil
	case "declined":
		return model.PullRequestDeclined, nil
	case "superseded":
		return model.PullRequestSuperseded, nil
	default:
		return "", fmt.Errorf("invalid state %q (use open, merged, declined, superseded or all)", s)
	}
}
