package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/output"
)

func versionString() string {
	if commit == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bb version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := a.format()
			if format == formatJSON {
				return output.WriteJSON(a.stdout, map[string]string{
					"version": version,
					"commit":  commit,
					"go":      runtime.Version(),
				})
			}
			_, err := fmt.Fprintf(a.stdout, "bb version %s\n", versionString())
			return err
		},
	}
}
