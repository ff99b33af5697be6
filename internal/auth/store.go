// package auth obtains and caches Spotify OAuth2 tokens.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultTokenFileName is the default name for the token cache file.
const DefaultTokenFileName = "token.json"

// TokenStore persists the access/refresh token pair between runs. The
// provider treats the cache as an injected dependency so tests can
// substitute [MemoryStore].
type TokenStore interface {
	// Load returns the cached token, or (nil, nil) when nothing is cached.
	Load() (*oauth2.Token, error)
	// Save persists the token, replacing any previous one.
	Save(token *oauth2.Token) error
	// Clear removes the cached token. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the token as a JSON file on disk, readable only by the
// owner. The file layout is [oauth2.Token]'s own encoding; nothing here
// inspects it beyond round-tripping.
type FileStore struct {
	path string
}

// NewFileStore creates a token store at path. An empty path selects the
// default location, ~/.config/tfx/token.json (per [os.UserConfigDir]).
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(configDir, "tfx", DefaultTokenFileName)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the token cache file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token cache: %w", err)
	}

	return &token, nil
}

func (s *FileStore) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory [TokenStore] for tests and cache-less runs.
type MemoryStore struct {
	mu    sync.Mutex
	token *oauth2.Token
}

func (s *MemoryStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
