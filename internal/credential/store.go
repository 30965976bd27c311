package credential

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists the single bearer credential across process restarts. It is
// a one-key cell: no validation, no derived state. Load must stay synchronous
// so session restoration can run before any network activity.
type Store interface {
	Save(token string) error
	Load() (string, bool)
	Clear() error
}

// FileStore keeps the token in one file on disk.
type FileStore struct {
	path string
}

// NewFileStore builds a store rooted at the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save durably writes the token. The write goes through a temp file and a
// rename so a crash cannot leave a half-written credential behind.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load returns the stored token, or false when none is present. Unreadable
// state is reported as absence; it must never block startup.
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear erases the stored token. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore holds the token in process memory, for tests and shells that
// manage persistence themselves.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = token != ""
	return nil
}

func (s *MemoryStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false
	}
	return s.token, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
