// ABOUTME: Charm KV client wrapper used to mirror the coach store to Charm Cloud.
// ABOUTME: Wraps the KV handle with read-only awareness, sync and account helpers.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/rs/zerolog"
)

const (
	dbName    = "coach"
	charmHost = "charm.2389.dev"
)

// ErrReadOnly is returned by writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// KV is the subset of the Charm key-value store the mirror needs.
type KV interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

// Client mirrors snapshots into a KV store.
type Client struct {
	kv  KV
	log zerolog.Logger
	mu  sync.RWMutex
}

// Open opens the coach KV database, pointing at the default Charm host
// unless CHARM_HOST is already set.
func Open(log zerolog.Logger) (*Client, error) {
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}
	return NewClient(db, log), nil
}

// NewClient wraps an open KV store.
func NewClient(store KV, log zerolog.Logger) *Client {
	return &Client{kv: store, log: log}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud. Read-only handles skip it.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	if err := c.kv.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local KV data and rebuilds it from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Reset()
}

// keysWithPrefix returns every key starting with prefix.
func (c *Client) keysWithPrefix(prefix string) ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	var out []string
	for _, key := range keys {
		if strings.HasPrefix(string(key), prefix) {
			out = append(out, string(key))
		}
	}
	return out, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
