package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/config"
	"github.com/dsablic/bb/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage configuration.

Without --host, keys are general settings: ` + strings.Join(config.Keys, ", ") + `.
With --host, keys are settings for that host: ` + strings.Join(config.HostKeys, ", ") + `.`,
	}
	cmd.AddCommand(
		newConfigGetCmd(a),
		newConfigSetCmd(a),
		newConfigListCmd(a),
		newConfigPathCmd(a),
	)
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				val string
				err error
			)
			if host := config.NormalizeHost(a.v.GetString("host")); host != "" {
				val, err = a.cfg.GetHostKey(host, args[0])
			} else {
				val, err = a.cfg.Get(args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, val)
			return err
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Change a configuration value",
		Example: "  bb config set git_protocol ssh\n  bb config set --host git.example.com host_type server",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if host := config.NormalizeHost(a.v.GetString("host")); host != "" {
				err = a.cfg.SetHostKey(host, args[0], args[1])
			} else {
				err = a.cfg.Set(args[0], args[1])
			}
			if err != nil {
				return err
			}
			return a.saveConfig()
		},
	}
}

func newConfigListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := a.format()
			if format == formatJSON {
				return output.WriteJSON(a.stdout, a.cfg)
			}

			var pairs [][2]string
			for _, key := range config.Keys {
				val, _ := a.cfg.Get(key)
				pairs = append(pairs, [2]string{key, val})
			}
			for _, host := range a.cfg.HostNames() {
				for _, key := range config.HostKeys {
					val, _ := a.cfg.GetHostKey(host, key)
					pairs = append(pairs, [2]string{host + " " + key, val})
				}
			}
			return output.WriteKeyValues(a.stdout, pairs)
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.stdout, a.configPath)
			return err
		},
	}
}
