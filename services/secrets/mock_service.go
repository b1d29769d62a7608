package secrets

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

type (
	mockService struct {
		cache   map[string]string
		cacheMu sync.Mutex
	}
)

// NewMockService returns a service for local runs. Every id maps to a
// random secret generated on first read and stable afterwards. Entries of
// fixed are returned as is.
func NewMockService(fixed map[string]string) Service {
	cache := make(map[string]string, len(fixed))
	for id, secret := range fixed {
		cache[id] = secret
	}
	return &mockService{cache: cache}
}

func (m *mockService) Close() {
}

func (m *mockService) Read(ctx context.Context, id string) (string, error) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	if c, ok := m.cache[id]; ok {
		return c, nil
	}

	secret, err := Generate()
	if err != nil {
		return "", err
	}
	m.cache[id] = secret

	return secret, nil
}

func (m *mockService) ReadBinary(ctx context.Context, id string) ([]byte, error) {
	secret, err := m.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeBinary(secret)
}

func (m *mockService) Rotate(ctx context.Context, id string) error {
	secret, err := Generate()
	if err != nil {
		return err
	}
	m.cacheMu.Lock()
	m.cache[id] = secret
	m.cacheMu.Unlock()
	return nil
}

// Generate returns 256 random bits encoded in base64.
func Generate() (string, error) {
	return generate(32)
}

func generate(numBytes int) (string, error) {
	buf := make([]byte, numBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("error reading %d bytes from crypto/rand: %w", numBytes, err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
