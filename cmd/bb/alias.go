package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/alias"
	"github.com/dsablic/bb/internal/output"
)

func newAliasCmd(a *app, root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Create command shortcuts",
		Long: `Create command shortcuts.

An alias expands to a bb command line. Placeholders $1, $2, ... are
replaced with the arguments that follow the alias; other arguments are
appended. An expansion starting with "!" is run by sh instead.`,
	}
	cmd.AddCommand(newAliasSetCmd(a, root), newAliasDeleteCmd(a), newAliasListCmd(a))
	return cmd
}

func newAliasSetCmd(a *app, root *cobra.Command) *cobra.Command {
	var shell bool

	isCommand := func(name string) bool {
		for _, c := range root.Commands() {
			if c.Name() == name || c.HasAlias(name) {
				return true
			}
		}
		return false
	}

	cmd := &cobra.Command{
		Use:   "set NAME EXPANSION",
		Short: "Create or replace an alias",
		Example: `  bb alias set prs 'pr list --state open'
  bb alias set view 'repo view --repo $1'
  bb alias set --shell whoami 'bb auth status --json | jq -r .username'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, expansion := args[0], args[1]
			if shell && !alias.IsShell(expansion) {
				expansion = alias.ShellPrefix + expansion
			}

			if err := alias.Aliases(a.cfg.Aliases).Validate(name, expansion, isCommand); err != nil {
				return err
			}

			_, existed := a.cfg.Aliases[name]
			a.cfg.Aliases[name] = expansion
			if err := a.saveConfig(); err != nil {
				return err
			}

			verb := "Added"
			if existed {
				verb = "Changed"
			}
			fmt.Fprintf(a.stderr, "%s alias %s\n", verb, name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&shell, "shell", "s", false, "Run the expansion with sh")
	return cmd
}

func newAliasDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := a.cfg.Aliases[name]; !ok {
				return fmt.Errorf("no such alias: %s", name)
			}
			delete(a.cfg.Aliases, name)
			if err := a.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Deleted alias %s\n", name)
			return nil
		},
	}
}

func newAliasListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases := alias.Aliases(a.cfg.Aliases)

			format, _ := a.format()
			if format == formatJSON {
				return output.WriteJSON(a.stdout, aliases)
			}
			if len(aliases) == 0 {
				_, err := fmt.Fprintln(a.stdout, "No aliases configured")
				return err
			}

			rows := make([][]string, 0, len(aliases))
			for _, name := range aliases.Names() {
				rows = append(rows, []string{name, aliases[name]})
			}
			return output.WriteTable(a.stdout, []string{"NAME", "EXPANSION"}, rows)
		},
	}
}
