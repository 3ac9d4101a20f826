package main

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/bb/internal/auth"
	"github.com/dsablic/bb/internal/config"
	"github.com/dsablic/bb/internal/output"
	"github.com/dsablic/bb/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
	}
	cmd.AddCommand(newAuthLoginCmd(a), newAuthLogoutCmd(a), newAuthStatusCmd(a))
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var (
		withToken bool
		username  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a Bitbucket host",
		Long: `Store credentials for a Bitbucket host.

The token is an app password or API token for Bitbucket Cloud, or an HTTP
access token for Bitbucket Server. With --username the token is sent with
Basic Auth; without it, as a bearer token.

Use --with-token to read the token from standard input.`,
		Example: `  bb auth login
  echo "$TOKEN" | bb auth login --host git.example.com --with-token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host := a.currentHost()

			var login ui.Login
			switch {
			case withToken:
				token, err := readToken(a)
				if err != nil {
					return err
				}
				login = ui.Login{Username: username, Token: token}
			case a.canPrompt():
				var err error
				if login, err = ui.PromptLogin(host, username); err != nil {
					return fmt.Errorf("login prompt: %w", err)
				}
			default:
				return errors.New("--with-token is required when not running interactively")
			}

			cred := auth.Credentials{AccessToken: login.Token, Username: login.Username}
			if err := saveCredentials(a, host, cred); err != nil {
				return err
			}

			if login.Username != "" {
				if err := a.cfg.SetHostKey(host, "user", login.Username); err != nil {
					return err
				}
				if err := a.saveConfig(); err != nil {
					return err
				}
			}

			fmt.Fprintf(a.stderr, "Logged in to %s\n", host)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withToken, "with-token", false, "Read the token from standard input")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username for Basic Auth")
	return cmd
}

func readToken(a *app) (string, error) {
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	token := strings.TrimSpace(line)
	if token == "" {
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return "", errors.New("no token provided on standard input")
	}
	return token, nil
}

// saveCredentials stores cred in the first store that accepts it.
func saveCredentials(a *app, host string, cred auth.Credentials) error {
	var errs []error
	for _, s := range a.stores {
		err := s.Save(host, cred)
		if err == nil {
			return nil
		}
		a.log.Debug("Credential store rejected save", "host", host, "error", err)
		errs = append(errs, err)
	}
	return fmt.Errorf("save credentials: %w", errors.Join(errs...))
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials for a Bitbucket host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host := a.currentHost()
			var errs []error
			for _, s := range a.stores {
				if err := s.Delete(host); err != nil {
					errs = append(errs, err)
				}
			}
			if err := errors.Join(errs...); err != nil {
				return fmt.Errorf("log out of %s: %w", host, err)
			}
			fmt.Fprintf(a.stderr, "Logged out of %s\n", host)
			return nil
		},
	}
}

type authStatus struct {
	Host     string `json:"host"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
	Expired  bool   `json:"expired,omitempty"`
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Show authentication status.

With --host only that host is shown. Otherwise the current host and every
host with credentials in the credentials file are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]authStatus, 0)
			for _, host := range statusHosts(a) {
				st := authStatus{Host: host}
				if cred, err := auth.Lookup(host, a.stores...); err == nil {
					st.LoggedIn = true
					st.Username = cred.Username
					st.Token = maskToken(cred.AccessToken)
					st.Expired = cred.Expired()
				}
				statuses = append(statuses, st)
			}

			format, _ := a.format()
			if format == formatJSON {
				return output.WriteJSON(a.stdout, statuses)
			}

			var rows [][]string
			for _, st := range statuses {
				if st.LoggedIn {
					rows = append(rows, []string{st.Host, st.Username, st.Token, strconv.FormatBool(st.Expired)})
				}
			}
			if len(rows) == 0 {
				for _, st := range statuses {
					fmt.Fprintf(a.stdout, "Not logged in to %s\n", st.Host)
				}
				return nil
			}
			return output.WriteTable(a.stdout, []string{"HOST", "USERNAME", "TOKEN", "EXPIRED"}, rows)
		},
	}
}

// statusHosts returns the hosts auth status reports on.
func statusHosts(a *app) []string {
	if h := config.NormalizeHost(a.v.GetString("host")); h != "" {
		return []string{h}
	}
	hosts := []string{a.currentHost()}
	for _, h := range auth.KnownHosts(a.stores...) {
		if !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
