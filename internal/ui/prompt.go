package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// Login is the result of the interactive login form.
type Login struct {
	Username string
	Token    string
}

// PromptLogin asks for a username and token for host. The username is
// optional; an empty one means the token is sent as a bearer token.
func PromptLogin(host, username string) (Login, error) {
	l := Login{Username: username}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Leave empty to authenticate with a bearer token on "+host).
				Value(&l.Username),
			huh.NewInput().
				Title("Token").
				Description("App password or HTTP access token for "+host).
				EchoMode(huh.EchoModePassword).
				Value(&l.Token).
				Validate(validateRequired("Token")),
		),
	)
	if err := form.Run(); err != nil {
		return Login{}, err
	}
	l.Username = strings.TrimSpace(l.Username)
	l.Token = strings.TrimSpace(l.Token)
	return l, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Value(&ok),
		),
	).Run()
	return ok, err
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
