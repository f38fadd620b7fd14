package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// EnvelopeKey is the configuration key holding a node's encrypted configuration.
const EnvelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next ports.DocumentStore
	keys keyring
}

// NewEncryptionMiddleware creates a middleware that encrypts every node's
// configuration with AES-GCM. Layout, ports and status stay readable.
// It panics when a key is not 32 bytes long.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	keys, err := newKeyring(config)
	if err != nil {
		panic(err.Error())
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &encryptionMiddleware{next: next, keys: keys}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	sealed := graph.Clone()
	for i, n := range sealed.Nodes {
		if len(n.Configuration) == 0 {
			continue
		}
		envelope, err := m.keys.sealConfig(n.ID, n.Configuration)
		if err != nil {
			return fmt.Errorf("failed to encrypt configuration of %q: %w", n.ID, err)
		}
		sealed.Nodes[i].Configuration = map[string]any{EnvelopeKey: envelope}
	}
	return m.next.Save(ctx, canvasID, &sealed)
}

func (m *encryptionMiddleware) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	g, err := m.next.Load(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	for i, n := range g.Nodes {
		if len(n.Configuration) == 0 {
			continue
		}
		envelope, ok := n.Configuration[EnvelopeKey].(string)
		if !ok {
			// Plain configuration on an encrypted store is rejected.
			return nil, fmt.Errorf("node %q is missing encrypted configuration envelope", n.ID)
		}
		cfg, err := m.keys.openConfig(n.ID, envelope)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt configuration of %q: %w", n.ID, err)
		}
		g.Nodes[i].Configuration = cfg
	}
	return g, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, canvasID string) error {
	return m.next.Delete(ctx, canvasID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// keyring seals with its first cipher and opens with any of them.
type keyring []cipher.AEAD

func newKeyring(config EncryptionConfig) (keyring, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	keys := make(keyring, 0, 1+len(config.FallbackKeys))
	for i, key := range append([][]byte{config.ActiveKey}, config.FallbackKeys...) {
		if len(key) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256)", i-1)
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		keys = append(keys, gcm)
	}
	return keys, nil
}

// sealConfig encrypts a node configuration into a base64 envelope. The node
// ID is authenticated, so an envelope only opens on the node it was sealed for.
func (k keyring) sealConfig(nodeID string, cfg map[string]any) (string, error) {
	plain, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	gcm := k[0]
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, plain, []byte(nodeID))), nil
}

func (k keyring) openConfig(nodeID, envelope string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	for _, gcm := range k {
		n := gcm.NonceSize()
		if len(raw) < n {
			return nil, errors.New("envelope too short")
		}
		plain, err := gcm.Open(nil, raw[:n], raw[n:], []byte(nodeID))
		if err != nil {
			continue
		}
		var cfg map[string]any
		if err := json.Unmarshal(plain, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decrypted configuration: %w", err)
		}
		return cfg, nil
	}
	return nil, errors.New("decryption failed with all available keys")
}
