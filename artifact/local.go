package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists artifacts under <root>/<sessionID>/<artifactID> on the
// local filesystem. Session and artifact ids are restricted to a safe
// character set so an id can never escape the root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the store's base directory.
func (a *LocalStore) Root() string { return a.root }

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return !strings.Contains(id, "..")
}

func (a *LocalStore) path(sessionID, artifactID string) (string, error) {
	if !validID(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	if !validID(artifactID) {
		return "", fmt.Errorf("invalid artifact id %q", artifactID)
	}
	return filepath.Join(a.root, sessionID, artifactID), nil
}

// Save writes the artifact bytes, creating the session directory as needed.
func (a *LocalStore) Save(sessionID, artifactID string, data []byte) error {
	path, err := a.path(sessionID, artifactID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads the artifact bytes or returns ErrNotFound.
func (a *LocalStore) Load(sessionID, artifactID string) ([]byte, error) {
	path, err := a.path(sessionID, artifactID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// List returns the artifact ids stored for the session.
func (a *LocalStore) List(sessionID string) ([]string, error) {
	if !validID(sessionID) {
		return nil, fmt.Errorf("invalid session id %q", sessionID)
	}
	entries, err := os.ReadDir(filepath.Join(a.root, sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *LocalStore) Delete(sessionID, artifactID string) error {
	path, err := a.path(sessionID, artifactID)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}
