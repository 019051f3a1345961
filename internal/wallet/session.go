package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Session is a per-user cache of unlocked keys, keyed by keychain ref.
// The file is written with 0600 permissions.
type Session struct {
	path string
}

// NewSession returns a session cache stored at path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// DefaultSession uses the OS cache directory:
//
//	macOS:   ~/Library/Caches/w3approve/session.json
//	Linux:   ~/.cache/w3approve/session.json
//	Windows: %LocalAppData%\w3approve\session.json
func DefaultSession() *Session {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return NewSession(filepath.Join(dir, "w3approve", "session.json"))
}

// Path returns the session file location.
func (s *Session) Path() string {
	return s.path
}

// load returns an empty map (never nil) on any error.
func (s *Session) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

func (s *Session) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(s.path, 0o600)
}

// Snapshot returns a copy of every cached key in one read.
func (s *Session) Snapshot() map[string]string {
	return s.load()
}

// Get returns a cached key for ref.
func (s *Session) Get(ref string) (string, bool) {
	v, ok := s.load()[ref]
	return v, ok
}

// Has reports whether the named wallet is unlocked.
func (s *Session) Has(name string) bool {
	_, ok := s.Get(KeyRef(name))
	return ok
}

// Put caches a key for ref.
func (s *Session) Put(ref, hexKey string) error {
	return s.PutAll(map[string]string{ref: hexKey})
}

// PutAll merges keys into the session file in a single read+write.
func (s *Session) PutAll(keys map[string]string) error {
	if len(keys) == 0 {
		return nil
	}
	m := s.load()
	for ref, hexKey := range keys {
		m[ref] = hexKey
	}
	return s.save(m)
}

// Remove evicts one key. Missing keys are ignored.
func (s *Session) Remove(ref string) {
	m := s.load()
	if _, ok := m[ref]; !ok {
		return
	}
	delete(m, ref)
	_ = s.save(m)
}

// Clear deletes the session file.
func (s *Session) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Active reports whether any key is cached.
func (s *Session) Active() bool {
	return len(s.load()) > 0
}
