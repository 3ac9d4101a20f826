package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dsablic/bb/internal/repoctx"
)

func newAPICmd(a *app) *cobra.Command {
	var (
		method string
		input  string
		field  string
	)

	cmd := &cobra.Command{
		Use:   "api PATH",
		Short: "Make an authenticated Bitbucket API request",
		Long: `Make an authenticated request to the REST API of the current host.

PATH is relative to the API root (https://api.bitbucket.org/2.0 for
Bitbucket Cloud, https://HOST/rest/api/1.0 for Bitbucket Server), or an
absolute URL. The placeholders {owner}, {workspace}, {project} and {repo}
are replaced with values from the repository context.

With --field, only the value at that gjson path is printed.`,
		Example: `  bb api repositories/{workspace}/{repo}/pullrequests --field values.#.title
  bb api -X POST repositories/{workspace}/{repo}/pullrequests --input pr.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := a.resolve()
			if err != nil {
				return err
			}

			body, err := readInput(a, input)
			if err != nil {
				return err
			}
			if method == "" {
				method = "GET"
				if body != nil {
					method = "POST"
				}
			}

			data, err := a.client(rc).Do(cmd.Context(), rc, method, expandPlaceholders(args[0], rc), body)
			if err != nil {
				return err
			}
			return writeAPIResponse(a.stdout, data, field)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", "", "HTTP method (default GET, or POST with --input)")
	cmd.Flags().StringVar(&input, "input", "", "File to use as the request body (\"-\" for stdin)")
	cmd.Flags().StringVarP(&field, "field", "q", "", "Print only the value at this gjson path")
	return cmd
}

func expandPlaceholders(path string, rc repoctx.RepoContext) string {
	return strings.NewReplacer(
		"{owner}", rc.Owner(),
		"{workspace}", rc.Owner(),
		"{project}", rc.Owner(),
		"{repo}", rc.RepoSlug(),
	).Replace(path)
}

func readInput(a *app, input string) ([]byte, error) {
	switch input {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
}

func writeAPIResponse(w io.Writer, data []byte, field string) error {
	if field != "" {
		res := gjson.GetBytes(data, field)
		if !res.Exists() {
			return fmt.Errorf("field %q not found in response", field)
		}
		out := res.Raw
		if res.Type == gjson.String {
			out = res.String()
		}
		_, err := fmt.Fprintln(w, out)
		return err
	}

	if len(data) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if json.Indent(&buf, data, "", "  ") != nil {
		_, err := w.Write(data)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
