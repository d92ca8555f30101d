// Package keys keeps secrets such as the API token out of the config file.
package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Store holds named secrets.
type Store interface {
	Get(id string) (string, error)
	Put(id, secret string) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// TokenID names the bearer token that guards the write endpoints.
const TokenID = "api-token"

const tokenBytes = 32

// NewToken returns a random URL-safe token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
