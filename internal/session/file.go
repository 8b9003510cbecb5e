package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// record is one stored login
type record struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FileStore keeps tokens per profile in a JSON file readable only by the owner
type FileStore struct {
	path    string
	profile string
	mu      sync.Mutex
}

// NewFileStore creates a store at path for the named profile
func NewFileStore(path, profile string) *FileStore {
	if profile == "" {
		profile = "default"
	}
	return &FileStore{path: path, profile: profile}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Token returns the profile's token or ErrNoSession
func (s *FileStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return "", err
	}
	rec, ok := records[s.profile]
	if !ok || rec.Token == "" {
		return "", ErrNoSession
	}
	return rec.Token, nil
}

// Save stores token for the profile, keeping other profiles
func (s *FileStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records[s.profile] = record{Token: token, SavedAt: time.Now().UTC()}
	return s.write(records)
}

// Clear forgets the profile's token. Clearing a missing session is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[s.profile]; !ok {
		return nil
	}
	delete(records, s.profile)
	if len(records) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}
	return s.write(records)
}

func (s *FileStore) load() (map[string]record, error) {
	records := make(map[string]record)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) write(records map[string]record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
