// Package alias implements user-defined command aliases for the bb CLI.
//
// An alias maps a single word to either a bb command line, such as
// "pr list --state merged", or, when the expansion starts with "!", to a
// script run by the system shell.
package alias

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/buildkite/shellwords"
)

// ShellPrefix marks an expansion as a shell script.
const ShellPrefix = "!"

// _reserved are command names that can never be aliased.
var _reserved = []string{"help", "version", "alias", "extension", "config", "completion", "auth"}

var _placeholder = regexp.MustCompile(`\$(\d+)`)

// Aliases maps alias names to expansions.
type Aliases map[string]string

// Names returns the sorted alias names.
func (a Aliases) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports whether name may be defined as expansion given the
// aliases already present. isCommand reports built-in command names,
// which cannot be shadowed; it may be nil.
func (a Aliases) Validate(name, expansion string, isCommand func(string) bool) error {
	if name == "" {
		return errors.New("alias name cannot be empty")
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return errors.New("alias name cannot contain whitespace")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("alias name cannot start with '-': %s", name)
	}
	if slices.Contains(_reserved, name) || (isCommand != nil && isCommand(name)) {
		return fmt.Errorf("cannot create alias for reserved command: %s", name)
	}
	if strings.TrimSpace(strings.TrimPrefix(expansion, ShellPrefix)) == "" {
		return errors.New("alias expansion cannot be empty")
	}
	if IsShell(expansion) {
		return nil
	}

	args, err := shellwords.SplitPosix(expansion)
	if err != nil {
		return fmt.Errorf("invalid expansion %q: %w", expansion, err)
	}
	if len(args) == 0 {
		return errors.New("alias expansion cannot be empty")
	}

	// Walk the chain of leading words the expansion would expand through.
	seen := map[string]struct{}{name: {}}
	next := args[0]
	for {
		if _, ok := seen[next]; ok {
			return fmt.Errorf("alias would create a circular reference: %s", name)
		}
		exp, ok := a[next]
		if !ok || IsShell(exp) {
			return nil
		}
		seen[next] = struct{}{}

		words, err := shellwords.SplitPosix(exp)
		if err != nil || len(words) == 0 {
			return nil
		}
		next = words[0]
	}
}

// IsShell reports whether expansion runs through the shell.
func IsShell(expansion string) bool {
	return strings.HasPrefix(expansion, ShellPrefix)
}

// Expansion is the result of expanding a command line.
type Expansion struct {
	// Args is the expanded bb command line.
	// Unset for shell aliases.
	Args []string

	// Script is the shell script to run for shell aliases.
	Script string

	// ScriptArgs are passed to Script as positional parameters.
	ScriptArgs []string

	// Expanded is false when args did not start with an alias.
	Expanded bool
}

// IsShell reports whether the expansion should be run with RunShell.
func (e Expansion) IsShell() bool {
	return e.Script != ""
}

// Expand expands the leading alias of args, repeatedly, until the first
// word is no longer an alias. A single alias is expanded only once.
//
// Placeholders $1..$N in a command expansion are replaced with the
// arguments that follow the alias; arguments not consumed by a
// placeholder are appended.
func (a Aliases) Expand(args []string) (Expansion, error) {
	if len(args) == 0 {
		return Expansion{Args: args}, nil
	}

	seen := make(map[string]struct{})
	expanded := false
	for len(args) > 0 {
		name := args[0]
		exp, ok := a[name]
		if !ok {
			break
		}
		if _, done := seen[name]; done {
			break
		}
		seen[name] = struct{}{}
		expanded = true

		if IsShell(exp) {
			return Expansion{
				Script:     strings.TrimPrefix(exp, ShellPrefix),
				ScriptArgs: slices.Clone(args[1:]),
				Expanded:   true,
			}, nil
		}

		next, err := expandCommand(name, exp, args[1:])
		if err != nil {
			return Expansion{}, err
		}
		args = next
	}

	return Expansion{Args: args, Expanded: expanded}, nil
}

func expandCommand(name, expansion string, rest []string) ([]string, error) {
	words, err := shellwords.SplitPosix(expansion)
	if err != nil {
		return nil, fmt.Errorf("alias %s: invalid expansion %q: %w", name, expansion, err)
	}

	used := make([]bool, len(rest))
	out := make([]string, 0, len(words)+len(rest))
	for _, w := range words {
		var missing error
		w = _placeholder.ReplaceAllStringFunc(w, func(m string) string {
			n, _ := strconv.Atoi(m[1:])
			if n < 1 || n > len(rest) {
				missing = fmt.Errorf("alias %s: not enough arguments for %s", name, m)
				return m
			}
			used[n-1] = true
			return rest[n-1]
		})
		if missing != nil {
			return nil, missing
		}
		out = append(out, w)
	}

	for i, arg := range rest {
		if !used[i] {
			out = append(out, arg)
		}
	}
	return out, nil
}

// RunShell runs a shell alias script with sh -c. Positional parameters
// $1..$N are bound to args.
func RunShell(ctx context.Context, e Expansion, stdin io.Reader, stdout, stderr io.Writer) error {
	cmdArgs := append([]string{"-c", e.Script, "bb"}, e.ScriptArgs...)
	cmd := exec.CommandContext(ctx, "sh", cmdArgs...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run shell alias: %w", err)
	}
	return nil
}
