package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bb",
		Short:         "Work with Bitbucket Cloud and Bitbucket Server from the command line",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.v.GetBool("debug") {
				a.log.SetLevel(log.DebugLevel)
			}
			_, err := a.format()
			return err
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringP("repo", "R", "", "Select a repository using the WORKSPACE/REPO or PROJECT/REPO format")
	flags.String("host", "", "Bitbucket host for --repo (default bitbucket.org)")
	flags.String("host-type", "", "Force the host type: cloud or server")
	flags.String("format", formatText, "Output format: text, json or markdown")
	flags.Bool("json", false, "Output JSON (same as --format json)")
	flags.Bool("no-prompt", false, "Never prompt for input")
	flags.Bool("debug", false, "Enable debug logging")

	for name, env := range map[string]string{
		"repo":      "BB_REPO",
		"host":      "BB_HOST",
		"host-type": "BB_HOST_TYPE",
		"no-prompt": "BB_NO_PROMPT",
		"debug":     "BB_DEBUG",
	} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
		_ = a.v.BindEnv(name, env)
	}
	_ = a.v.BindPFlag("format", flags.Lookup("format"))
	_ = a.v.BindPFlag("json", flags.Lookup("json"))

	root.AddCommand(
		newContextCmd(a),
		newRepoCmd(a),
		newPRCmd(a),
		newPipelineCmd(a),
		newBrowseCmd(a),
		newAPICmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
		newAliasCmd(a, root),
		newVersionCmd(a),
	)
	return root
}
