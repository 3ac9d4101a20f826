// Package auth stores Bitbucket credentials per host.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"
)

var ErrNoCredentials = errors.New("no credentials found")

type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	Username     string    `json:"username,omitempty"`
}

func (c Credentials) Expired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

// Store persists credentials keyed by Bitbucket host.
type Store interface {
	Save(host string, cred Credentials) error
	Load(host string) (Credentials, error)
	Delete(host string) error
}

type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func DefaultStorePath() string {
	return filepath.Join(xdg.ConfigHome, "bb", "credentials.json")
}

func (s *FileStore) Save(host string, cred Credentials) error {
	all, _ := s.loadAll()
	if all == nil {
		all = make(map[string]Credentials)
	}
	all[host] = cred
	return s.saveAll(all)
}

func (s *FileStore) Load(host string) (Credentials, error) {
	all, err := s.loadAll()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	cred, ok := all[host]
	if !ok {
		return Credentials{}, ErrNoCredentials
	}
	return cred, nil
}

// Delete removes host's credentials. A missing file is not an error; an
// unreadable one is, since the credentials may still be in it.
func (s *FileStore) Delete(host string) error {
	all, err := s.loadAll()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credentials %s: %w", s.path, err)
	}
	if _, ok := all[host]; !ok {
		return nil
	}
	delete(all, host)
	return s.saveAll(all)
}

// Hosts lists the hosts with stored credentials in sorted order.
func (s *FileStore) Hosts() []string {
	all, _ := s.loadAll()
	hosts := make([]string, 0, len(all))
	for h := range all {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func (s *FileStore) saveAll(all map[string]Credentials) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) loadAll() (map[string]Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var all map[string]Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// HostLister is implemented by stores that can enumerate their hosts.
type HostLister interface {
	Hosts() []string
}

// KnownHosts returns the sorted hosts with credentials in any store that
// implements HostLister. The OS keyring cannot be enumerated.
func KnownHosts(stores ...Store) []string {
	seen := make(map[string]struct{})
	for _, s := range stores {
		if l, ok := s.(HostLister); ok {
			for _, h := range l.Hosts() {
				seen[h] = struct{}{}
			}
		}
	}
	hosts := make([]string, 0, len(seen))
	for h := range seen {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// Lookup returns credentials for host. BB_TOKEN (and BB_USERNAME) in the
// environment win; otherwise each store is tried in order. A store that
// fails does not stop the search, but its error is returned if no later
// store has credentials.
func Lookup(host string, stores ...Store) (Credentials, error) {
	if token := os.Getenv("BB_TOKEN"); token != "" {
		return Credentials{
			AccessToken: token,
			Username:    os.Getenv("BB_USERNAME"),
		}, nil
	}

	var firstErr error
	for _, s := range stores {
		cred, err := s.Load(host)
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, ErrNoCredentials) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return Credentials{}, firstErr
	}
	return Credentials{}, ErrNoCredentials
}
