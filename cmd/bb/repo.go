package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/gitrepo"
	"github.com/dsablic/bb/internal/output"
	"github.com/dsablic/bb/internal/repoctx"
	"github.com/dsablic/bb/internal/ui"
)

func newRepoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Work with repositories",
	}
	cmd.AddCommand(newRepoViewCmd(a), newRepoCloneCmd(a))
	return cmd
}

func newRepoViewCmd(a *app) *cobra.Command {
	var web bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show repository details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.resolve()
			if err != nil {
				return err
			}
			if web {
				return openInBrowser(a, rc.WebURL())
			}

			repo, err := a.client(rc).Repository(cmd.Context(), rc)
			if err != nil {
				return fmt.Errorf("view %s: %w", rc.FullName(), err)
			}
			if repo.DefaultBranch == "" {
				repo.DefaultBranch = rc.DefaultBranch()
			}

			format, _ := a.format()
			switch format {
			case formatJSON:
				return output.WriteJSON(a.stdout, repo)
			case formatMarkdown:
				return output.WriteRepositoryMarkdown(a.stdout, repo)
			default:
				return output.WriteKeyValues(a.stdout, [][2]string{
					{"name", repo.FullName},
					{"description", repo.Description},
					{"project", repo.Project},
					{"private", strconv.FormatBool(repo.Private)},
					{"language", repo.Language},
					{"default_branch", repo.DefaultBranch},
					{"url", repo.URL},
					{"clone_https", repo.CloneHTTPS},
					{"clone_ssh", repo.CloneSSH},
				})
			}
		},
	}
	cmd.Flags().BoolVarP(&web, "web", "w", false, "Open the repository in the browser")
	return cmd
}

func newRepoCloneCmd(a *app) *cobra.Command {
	var (
		protocol string
		branch   string
		depth    int
	)

	cmd := &cobra.Command{
		Use:   "clone [OWNER/REPO] [DIR]",
		Short: "Clone a repository",
		Long: `Clone a repository.

Without OWNER/REPO the current repository context is cloned. The clone
protocol defaults to the git_protocol setting.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.resolveOptions()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				opts.Repo = args[0]
			}
			rc, err := a.resolver().Resolve(opts)
			if err != nil {
				return err
			}

			dir := rc.RepoSlug()
			if len(args) > 1 {
				dir = args[1]
			}
			if protocol == "" {
				protocol = a.cfg.Core.GitProtocol
			}
			if protocol != "https" && protocol != "ssh" {
				return fmt.Errorf("invalid protocol %q (use https or ssh)", protocol)
			}

			return cloneRepo(a, cmd, rc, rc.CloneURL(protocol), dir, gitrepo.CloneOpts{
				Branch: branch,
				Depth:  depth,
			})
		},
	}
	cmd.Flags().StringVar(&protocol, "protocol", "", "Clone protocol: https or ssh")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Check out this branch instead of the default")
	cmd.Flags().IntVar(&depth, "depth", 0, "Create a shallow clone with this many commits")
	return cmd
}

func cloneRepo(a *app, cmd *cobra.Command, rc repoctx.RepoContext, url, dir string, opts gitrepo.CloneOpts) error {
	cred := a.credentials(rc.Host())
	cloner := gitrepo.NewCloner(cred.Username, cred.AccessToken)

	a.log.Debug("Cloning repository", "url", url, "dir", dir)
	err := ui.RunWithSpinner("Cloning "+rc.FullName(), func() error {
		return cloner.Clone(cmd.Context(), url, dir, opts)
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", rc.FullName(), err)
	}
	return nil
}
