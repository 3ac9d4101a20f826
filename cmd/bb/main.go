package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/dsablic/bb/internal/alias"
	"github.com/dsablic/bb/internal/repoctx"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = ""
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	os.Exit(run(context.Background(), a, os.Args[1:]))
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	if err := a.loadConfig(); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	root := newRootCmd(a)

	exp, err := alias.Aliases(a.cfg.Aliases).Expand(args)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	if exp.Expanded {
		a.log.Debug("Expanded alias", "args", args, "expansion", exp.Args, "shell", exp.IsShell())
	}
	if exp.IsShell() {
		return shellExitCode(a.stderr, alias.RunShell(ctx, exp, a.stdin, a.stdout, a.stderr))
	}

	root.SetArgs(exp.Args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(a.stderr, err)
		return 1
	}
	return 0
}

func shellExitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)

	var formatErr *repoctx.FormatError
	var urlErr *repoctx.URLFormatError
	if errors.As(err, &formatErr) || errors.As(err, &urlErr) {
		fmt.Fprintln(w, "hint: use --repo WORKSPACE/REPO or run inside a git checkout with an origin remote")
	}
}
