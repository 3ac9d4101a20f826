// Package browser provides a means of opening a URL
// in the user's web browser.
package browser

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/buildkite/shellwords"
	"github.com/cli/browser"
)

// Launcher launches the web browser.
type Launcher interface {
	// OpenURL opens the specified URL.
	OpenURL(url string) error
}

// Browser is a [Launcher] that opens URLs in a real web browser.
//
// Its zero value is a valid instance that uses the system default.
type Browser struct {
	// Command, if set, is run with the URL appended instead of the
	// system default browser. It is split with POSIX shell rules.
	Command string

	openURL func(url string) error // to stub in tests
	run     func(name string, args ...string) error
}

var _ Launcher = (*Browser)(nil)

// OpenURL opens the URL in the configured or default web browser.
func (b *Browser) OpenURL(url string) error {
	if b.Command != "" {
		return b.runCommand(url)
	}

	openURL := browser.OpenURL
	if b.openURL != nil {
		openURL = b.openURL
	}
	return openURL(url)
}

func (b *Browser) runCommand(url string) error {
	args, err := shellwords.SplitPosix(b.Command)
	if err != nil {
		return fmt.Errorf("parse browser command %q: %w", b.Command, err)
	}
	if len(args) == 0 {
		return errors.New("browser command is empty")
	}

	run := b.run
	if run == nil {
		run = func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		}
	}
	return run(args[0], append(args[1:], url)...)
}

// Noop is a [Launcher] that does nothing.
// Its zero value is a valid instance.
type Noop struct{}

var _ Launcher = (*Noop)(nil)

// OpenURL does nothing.
func (*Noop) OpenURL(string) error { return nil }
