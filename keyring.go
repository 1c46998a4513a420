package codecamp

import (
	"strings"
	"sync/atomic"
)

// Keyring holds the process-wide signing secret. The key is loaded once at
// startup and read on every issuance and validation; Reload swaps it
// atomically. A swap invalidates every not-yet-expired token signed under
// the previous key, which is the accepted operational tradeoff.
type Keyring struct {
	key atomic.Pointer[[]byte]
}

// NewKeyring builds a Keyring from the configured secret string. An empty
// secret is a fatal misconfiguration, not a per-request error: callers are
// expected to stop startup on ErrMisconfiguredSigningKey.
func NewKeyring(secret string) (*Keyring, error) {
	k := &Keyring{}
	if err := k.Reload(secret); err != nil {
		return nil, err
	}
	return k, nil
}

// Reload atomically replaces the active signing key with the UTF-8 bytes
// of secret.
func (k *Keyring) Reload(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrMisconfiguredSigningKey
	}

	material := []byte(secret)
	k.key.Store(&material)
	return nil
}

// Key returns the active signing key material.
func (k *Keyring) Key() []byte {
	material := k.key.Load()
	if material == nil {
		return nil
	}
	return *material
}
