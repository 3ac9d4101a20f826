package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/api"
	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/output"
)

var pipelineStates = []string{"pending", "in_progress", "paused", "successful", "failed", "stopped", "error"}

func newPipelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pipeline",
		Aliases: []string{"pipelines"},
		Short:   "Work with Bitbucket Pipelines (Cloud only)",
	}
	cmd.AddCommand(newPipelineListCmd(a))
	return cmd
}

func newPipelineListCmd(a *app) *cobra.Command {
	var (
		branch string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent pipeline runs in a repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status = strings.ToLower(status)
			if status != "" && !slices.Contains(pipelineStates, status) {
				return fmt.Errorf("invalid status %q: must be one of %s", status, strings.Join(pipelineStates, ", "))
			}
			if limit < 1 {
				return fmt.Errorf("invalid limit %d: must be at least 1", limit)
			}

			rc, err := a.resolve()
			if err != nil {
				return err
			}

			filter := api.PipelineFilter{Branch: branch, State: status}
			runs, err := a.client(rc).Pipelines(cmd.Context(), rc, filter, limit)
			if err != nil {
				return fmt.Errorf("list pipelines for %s: %w", rc.FullName(), err)
			}

			format, _ := a.format()
			switch format {
			case formatJSON:
				if runs == nil {
					runs = []model.Pipeline{}
				}
				return output.WriteJSON(a.stdout, runs)
			case formatMarkdown:
				return output.WritePipelinesMarkdown(a.stdout, runs)
			default:
				return output.WritePipelineTable(a.stdout, runs, a.now())
			}
		},
	}
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Only show runs for this branch")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status: "+strings.Join(pipelineStates, ", "))
	cmd.Flags().IntVarP(&limit, "limit", "L", 20, "Maximum number of runs to fetch")
	return cmd
}
