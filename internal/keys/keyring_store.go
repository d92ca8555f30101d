package keys

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const DefaultKeyringService = "folio"

// KeyringStore keeps secrets in the system keyring under one service name.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(id string) (string, error) {
	val, err := keyring.Get(s.service(), id)
	return val, s.wrap("read", id, err)
}

func (s *KeyringStore) Put(id, secret string) error {
	return s.wrap("store", id, keyring.Set(s.service(), id, secret))
}

// Delete removes id. A missing entry is not an error.
func (s *KeyringStore) Delete(id string) error {
	err := keyring.Delete(s.service(), id)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return s.wrap("delete", id, err)
}

func (s *KeyringStore) wrap(op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrKeyNotFound
	default:
		return fmt.Errorf("keyring %s %s/%s: %w", op, s.service(), id, err)
	}
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend answers.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_availability_check_")
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return true
	}
	return !errors.Is(err, keyring.ErrUnsupportedPlatform)
}
