package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/repoctx"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		noBrowser bool
		branch    string
	)

	cmd := &cobra.Command{
		Use:   "browse [PR-NUMBER | PATH]",
		Short: "Open the repository in the web browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.resolve()
			if err != nil {
				return err
			}

			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			if branch == "" && isPathTarget(target) && a.v.GetString("repo") == "" {
				branch = checkedOutBranch(a)
			}
			url := browseURL(rc, target, branch)

			if noBrowser {
				_, err := fmt.Fprintln(a.stdout, url)
				return err
			}
			return openInBrowser(a, url)
		},
	}
	cmd.Flags().BoolVarP(&noBrowser, "no-browser", "n", false, "Print the URL instead of opening it")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Browse a branch (default: the checked-out branch for paths)")
	return cmd
}

// isPathTarget reports whether target names a file rather than a pull
// request or the repository root.
func isPathTarget(target string) bool {
	if target == "" {
		return false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(target, "#"))
	return err != nil || n <= 0
}

// checkedOutBranch returns the branch checked out in the working
// directory, or "" when there is none.
func checkedOutBranch(a *app) string {
	branch, err := a.remotes().CurrentBranch()
	if err != nil || branch == "HEAD" {
		a.log.Debug("No checked-out branch", "error", err)
		return ""
	}
	return branch
}

// browseURL builds the web URL for a pull request number, a file path or
// the repository itself.
func browseURL(rc repoctx.RepoContext, target, branch string) string {
	base := rc.WebURL()

	if n, err := strconv.Atoi(strings.TrimPrefix(target, "#")); err == nil && n > 0 {
		if rc.IsCloud() {
			return fmt.Sprintf("%s/pull-requests/%d", base, n)
		}
		return fmt.Sprintf("%s/pull-requests/%d/overview", base, n)
	}

	path := strings.TrimPrefix(target, "/")
	if rc.IsCloud() {
		if path == "" && branch == "" {
			return base
		}
		ref := branch
		if ref == "" {
			ref = rc.DefaultBranch()
		}
		if ref == "" {
			ref = "HEAD"
		}
		return fmt.Sprintf("%s/src/%s/%s", base, ref, path)
	}

	url := base + "/browse"
	if path != "" {
		url += "/" + path
	}
	if branch != "" {
		url += "?at=refs/heads/" + branch
	}
	return url
}

func openInBrowser(a *app, url string) error {
	fmt.Fprintf(a.stderr, "Opening %s in your browser.\n", url)
	if err := a.browser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
