// Package config loads and saves the bb configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/dsablic/bb/internal/repoctx"
)

// keyDelimiter replaces viper's "." so that hostnames are single keys.
const keyDelimiter = "::"

// Core holds general settings.
type Core struct {
	Editor      string `mapstructure:"editor" json:"editor,omitempty"`
	Pager       string `mapstructure:"pager" json:"pager,omitempty"`
	Browser     string `mapstructure:"browser" json:"browser,omitempty"`
	GitProtocol string `mapstructure:"git_protocol" json:"git_protocol,omitempty"`
	Prompt      string `mapstructure:"prompt" json:"prompt,omitempty"`
}

// Host holds settings for one Bitbucket host.
type Host struct {
	// HostType is "cloud" or "server". Empty means infer from hostname.
	HostType         string `mapstructure:"host_type" json:"host_type,omitempty"`
	User             string `mapstructure:"user" json:"user,omitempty"`
	DefaultWorkspace string `mapstructure:"default_workspace" json:"default_workspace,omitempty"`
	DefaultProject   string `mapstructure:"default_project" json:"default_project,omitempty"`
	DefaultBranch    string `mapstructure:"default_branch" json:"default_branch,omitempty"`
	APIVersion       string `mapstructure:"api_version" json:"api_version,omitempty"`
}

// Config is the contents of config.toml.
type Config struct {
	Core    Core              `mapstructure:"core" json:"core,omitempty"`
	Hosts   map[string]Host   `mapstructure:"hosts" json:"hosts,omitempty"`
	Aliases map[string]string `mapstructure:"aliases" json:"aliases,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Core: Core{
			GitProtocol: "https",
			Prompt:      "enabled",
		},
		Hosts:   make(map[string]Host),
		Aliases: make(map[string]string),
	}
}

// DefaultPath returns $BB_CONFIG, or config.toml under the XDG config
// directory.
func DefaultPath() string {
	if p := os.Getenv("BB_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "bb", "config.toml")
}

func newViper(path string) *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("core"+keyDelimiter+"git_protocol", "https")
	v.SetDefault("core"+keyDelimiter+"prompt", "enabled")
	return v
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Hosts == nil {
		cfg.Hosts = make(map[string]Host)
	}
	for _, host := range cfg.HostNames() {
		if _, err := repoctx.ParseHostType(cfg.Hosts[host].HostType); err != nil {
			return nil, fmt.Errorf("parse config %s: host %s: %w", path, host, err)
		}
	}
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := newViper(path)
	v.Set("core", compact(map[string]string{
		"editor":       c.Core.Editor,
		"pager":        c.Core.Pager,
		"browser":      c.Core.Browser,
		"git_protocol": c.Core.GitProtocol,
		"prompt":       c.Core.Prompt,
	}))

	hosts := make(map[string]any, len(c.Hosts))
	for name, h := range c.Hosts {
		hosts[name] = compact(map[string]string{
			"host_type":         h.HostType,
			"user":              h.User,
			"default_workspace": h.DefaultWorkspace,
			"default_project":   h.DefaultProject,
			"default_branch":    h.DefaultBranch,
			"api_version":       h.APIVersion,
		})
	}
	if len(hosts) > 0 {
		v.Set("hosts", hosts)
	}

	if len(c.Aliases) > 0 {
		aliases := make(map[string]any, len(c.Aliases))
		for name, exp := range c.Aliases {
			aliases[name] = exp
		}
		v.Set("aliases", aliases)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func compact(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		if val != "" {
			out[k] = val
		}
	}
	return out
}

// Keys lists the settings accepted by Get and Set.
var Keys = []string{"browser", "editor", "git_protocol", "pager", "prompt"}

var _allowedValues = map[string][]string{
	"git_protocol": {"https", "ssh"},
	"prompt":       {"enabled", "disabled"},
}

// Get returns the value of a core setting.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "editor":
		return c.Core.Editor, nil
	case "pager":
		return c.Core.Pager, nil
	case "browser":
		return c.Core.Browser, nil
	case "git_protocol":
		return c.Core.GitProtocol, nil
	case "prompt":
		return c.Core.Prompt, nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
}

// Set changes a core setting.
func (c *Config) Set(key, value string) error {
	if allowed, ok := _allowedValues[key]; ok && !contains(allowed, value) {
		return fmt.Errorf("invalid value %q for %s (valid values: %s)", value, key, strings.Join(allowed, ", "))
	}

	switch key {
	case "editor":
		c.Core.Editor = value
	case "pager":
		c.Core.Pager = value
	case "browser":
		c.Core.Browser = value
	case "git_protocol":
		c.Core.GitProtocol = value
	case "prompt":
		c.Core.Prompt = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Host returns the settings for host, if any.
func (c *Config) Host(host string) (Host, bool) {
	h, ok := c.Hosts[NormalizeHost(host)]
	return h, ok
}

// SetHost stores settings for host.
func (c *Config) SetHost(host string, h Host) {
	if c.Hosts == nil {
		c.Hosts = make(map[string]Host)
	}
	c.Hosts[NormalizeHost(host)] = h
}

// HostKeys lists the per-host settings accepted by GetHostKey and
// SetHostKey.
var HostKeys = []string{"api_version", "default_branch", "default_project", "default_workspace", "host_type", "user"}

// GetHostKey returns the value of a per-host setting.
func (c *Config) GetHostKey(host, key string) (string, error) {
	h, _ := c.Host(host)
	switch key {
	case "host_type":
		return h.HostType, nil
	case "user":
		return h.User, nil
	case "default_workspace":
		return h.DefaultWorkspace, nil
	case "default_project":
		return h.DefaultProject, nil
	case "default_branch":
		return h.DefaultBranch, nil
	case "api_version":
		return h.APIVersion, nil
	default:
		return "", fmt.Errorf("unknown host key %q (valid keys: %s)", key, strings.Join(HostKeys, ", "))
	}
}

// SetHostKey changes a per-host setting. host_type values are stored in
// canonical form; "auto" clears the override.
func (c *Config) SetHostKey(host, key, value string) error {
	if NormalizeHost(host) == "" {
		return fmt.Errorf("host is required for %s", key)
	}

	h, _ := c.Host(host)
	switch key {
	case "host_type":
		t, err := repoctx.ParseHostType(value)
		if err != nil {
			return err
		}
		h.HostType = ""
		if t != repoctx.HostAuto {
			h.HostType = t.String()
		}
	case "user":
		h.User = value
	case "default_workspace":
		h.DefaultWorkspace = value
	case "default_project":
		h.DefaultProject = value
	case "default_branch":
		h.DefaultBranch = value
	case "api_version":
		h.APIVersion = value
	default:
		return fmt.Errorf("unknown host key %q (valid keys: %s)", key, strings.Join(HostKeys, ", "))
	}
	c.SetHost(host, h)
	return nil
}

// HostNames returns configured hosts in sorted order.
func (c *Config) HostNames() []string {
	names := make([]string, 0, len(c.Hosts))
	for name := range c.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostTypeOverride implements repoctx.HostSettings.
func (c *Config) HostTypeOverride(host string) repoctx.HostType {
	h, ok := c.Host(host)
	if !ok {
		return repoctx.HostAuto
	}
	t, err := repoctx.ParseHostType(h.HostType)
	if err != nil {
		return repoctx.HostAuto
	}
	return t
}

// DefaultBranch implements repoctx.HostSettings.
func (c *Config) DefaultBranch(host string) string {
	h, _ := c.Host(host)
	return h.DefaultBranch
}

var _ repoctx.HostSettings = (*Config)(nil)

// NormalizeHost trims whitespace, a leading http:// or https://, and a
// trailing slash, and lowercases the result.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")
	return strings.ToLower(host)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
