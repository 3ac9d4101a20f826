package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/dsablic/bb/internal/api"
	"github.com/dsablic/bb/internal/auth"
	"github.com/dsablic/bb/internal/browser"
	"github.com/dsablic/bb/internal/config"
	"github.com/dsablic/bb/internal/gitrepo"
	"github.com/dsablic/bb/internal/repoctx"
	"github.com/dsablic/bb/internal/ui"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v   *viper.Viper
	log *log.Logger

	configPath string
	cfg        *config.Config

	// dir is where git discovery starts. Empty means the working directory.
	dir        string
	stores     []auth.Store
	browser    browser.Launcher
	apiBaseURL string
	now        func() time.Time
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "bb"})
	if debug, _ := strconv.ParseBool(os.Getenv("BB_DEBUG")); debug {
		logger.SetLevel(log.DebugLevel)
	}

	return &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		v:          viper.New(),
		log:        logger,
		configPath: config.DefaultPath(),
		stores: []auth.Store{
			&auth.KeyringStore{},
			auth.NewFileStore(auth.DefaultStorePath()),
		},
		now: time.Now,
	}
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.browser == nil {
		a.browser = &browser.Browser{Command: cfg.Core.Browser}
	}
	return nil
}

func (a *app) saveConfig() error {
	return a.cfg.Save(a.configPath)
}

func (a *app) format() (string, error) {
	if a.v.GetBool("json") {
		return formatJSON, nil
	}
	switch f := a.v.GetString("format"); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, json or markdown)", f)
	}
}

func (a *app) canPrompt() bool {
	if a.v.GetBool("no-prompt") || a.cfg.Core.Prompt == "disabled" {
		return false
	}
	return ui.CanPrompt()
}

// resolveOptions collects the repository selection from flags and
// environment.
func (a *app) resolveOptions() (repoctx.Options, error) {
	hostType, err := repoctx.ParseHostType(a.v.GetString("host-type"))
	if err != nil {
		return repoctx.Options{}, err
	}
	return repoctx.Options{
		Repo:     a.v.GetString("repo"),
		Host:     config.NormalizeHost(a.v.GetString("host")),
		HostType: hostType,
	}, nil
}

func (a *app) remotes() *gitrepo.Remotes {
	return &gitrepo.Remotes{Dir: a.dir, Log: a.log}
}

func (a *app) resolver() *repoctx.Resolver {
	return &repoctx.Resolver{
		Remotes: a.remotes(),
		Hosts:   a.cfg,
		Log:     a.log,
	}
}

// resolve determines the repository the command operates on.
func (a *app) resolve() (repoctx.RepoContext, error) {
	opts, err := a.resolveOptions()
	if err != nil {
		return repoctx.RepoContext{}, err
	}
	return a.resolver().Resolve(opts)
}

// currentHost returns the host commands without a repository act on:
// --host, else the resolved repository's host, else bitbucket.org.
func (a *app) currentHost() string {
	if h := config.NormalizeHost(a.v.GetString("host")); h != "" {
		return h
	}
	if rc, err := a.resolve(); err == nil {
		return rc.Host()
	}
	return repoctx.CloudHost
}

// credentials returns the credentials for host, or empty credentials
// when none are available.
func (a *app) credentials(host string) auth.Credentials {
	cred, err := auth.Lookup(host, a.stores...)
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			a.log.Debug("No credentials found, continuing unauthenticated", "host", host)
		} else {
			a.log.Warn("Could not read credentials, continuing unauthenticated", "host", host, "error", err)
		}
		return auth.Credentials{}
	}
	if cred.Expired() {
		a.log.Warn("Stored credentials have expired; run bb auth login", "host", host)
	}
	return cred
}

func (a *app) client(rc repoctx.RepoContext) *api.Client {
	cred := a.credentials(rc.Host())
	return api.NewClient(cred.AccessToken, cred.Username, a.apiBaseURL, nil).WithLogger(a.log)
}
