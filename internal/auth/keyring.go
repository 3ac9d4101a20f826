package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "bb:bitbucket"

// KeyringStore keeps credentials in the system keychain.
//
// Its zero value is ready for use.
type KeyringStore struct{}

var _ Store = (*KeyringStore)(nil)

func (*KeyringStore) Save(host string, cred Credentials) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := keyring.Set(keyringService, host, string(data)); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}

func (*KeyringStore) Load(host string) (Credentials, error) {
	secret, err := keyring.Get(keyringService, host)
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("keyring: %w", err)
	}

	var cred Credentials
	if err := json.Unmarshal([]byte(secret), &cred); err != nil {
		return Credentials{}, fmt.Errorf("decode keyring credentials: %w", err)
	}
	return cred, nil
}

func (*KeyringStore) Delete(host string) error {
	err := keyring.Delete(keyringService, host)
	if errors.Is(err, keyring.ErrNotFound) {
		err = nil
	}
	return err
}
