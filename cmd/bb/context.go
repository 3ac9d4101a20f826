package main

import (
	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/model"
	"github.com/dsablic/bb/internal/output"
)

func newContextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Show the repository bb would operate on",
		Long: `Show the repository bb would operate on.

The repository comes from --repo (or BB_REPO) when given, otherwise from
the origin remote of the git checkout in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.resolve()
			if err != nil {
				return err
			}
			c := model.NewContext(rc)

			format, _ := a.format()
			switch format {
			case formatJSON:
				return output.WriteJSON(a.stdout, c)
			case formatMarkdown:
				return output.WriteContextMarkdown(a.stdout, c)
			default:
				return output.WriteKeyValues(a.stdout, [][2]string{
					{"host", c.Host},
					{"host_type", c.HostType},
					{"owner", c.Owner},
					{"repo", c.Repo},
					{"default_branch", c.DefaultBranch},
					{"web_url", c.WebURL},
					{"api_url", c.APIURL},
				})
			}
		},
	}
}
