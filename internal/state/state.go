// Package state issues and validates the OAuth state parameter that
// ties a redirect back to the login round that started it.
package state

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidState indicates a missing, malformed or forged state
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrStateExpired indicates the state outlived its login round
	ErrStateExpired = errors.New("oauth state expired")
)

// Manager generates HMAC-signed state values. The issue timestamp is
// embedded in the value, so validation needs no storage.
type Manager struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewManager creates a state manager with the given signing secret.
func NewManager(secret []byte, expiresIn time.Duration) *Manager {
	return &Manager{
		secret:    secret,
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Generate creates a new signed state value.
func (m *Manager) Generate() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	payload := make([]byte, 8+len(nonce))
	binary.BigEndian.PutUint64(payload, uint64(m.now().Unix()))
	copy(payload[8:], nonce)

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + m.sign(encoded), nil
}

// Validate checks a state value's signature and age.
func (m *Manager) Validate(state string) error {
	parts := strings.SplitN(state, ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ErrInvalidState
	}

	if !hmac.Equal([]byte(m.sign(parts[0])), []byte(parts[1])) {
		return ErrInvalidState
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(payload) < 8 {
		return ErrInvalidState
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(payload)), 0)
	if m.now().Sub(issued) > m.expiresIn {
		return ErrStateExpired
	}
	return nil
}

func (m *Manager) sign(encoded string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
