package keys

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "folio-test"}

	if err := store.Put(TokenID, "secret"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := store.Get(TokenID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "secret" {
		t.Fatalf("get mismatch: got %q want %q", got, "secret")
	}
	if err := store.Delete(TokenID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(TokenID); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Delete(TokenID); err != nil {
		t.Fatalf("deleting a missing key should succeed, got %v", err)
	}
	if !KeyringAvailable() {
		t.Fatalf("mock keyring should be available")
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	b, _ := NewToken()
	if len(a) != 43 {
		t.Fatalf("token length = %d, want 43", len(a))
	}
	if a == b {
		t.Fatalf("tokens should differ")
	}
}

func TestKeyringAvailableMapsBackendErrors(t *testing.T) {
	defer keyring.MockInit()

	keyring.MockInit()
	if !KeyringAvailable() {
		t.Fatalf("missing entry should still report an available backend")
	}
	keyring.MockInitWithError(keyring.ErrUnsupportedPlatform)
	if KeyringAvailable() {
		t.Fatalf("unsupported platform should report no backend")
	}
	keyring.MockInitWithError(keyring.ErrNotFound)
	if !KeyringAvailable() {
		t.Fatalf("not-found from the backend should report available")
	}
}
