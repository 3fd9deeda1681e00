package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/areamap/pkg/errors"
)

// FileStore keeps each saved game as <id>.json in one directory. Writes go
// through a temporary file and a rename, so an interrupted save never
// leaves a half-written game behind.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the store, making dir if needed. An empty dir
// selects ~/.config/areamap/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate home directory")
		}
		dir = filepath.Join(home, ".config", "areamap", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create session directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) file(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, nil
	}
	s.mu.RLock()
	sess, err := readSession(s.file(id))
	s.mu.RUnlock()
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, s.Delete(ctx, id)
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if !ValidID(sess.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid session id %q", sess.ID)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session %s", sess.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, sess.ID+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", sess.ID)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", sess.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", sess.ID)
	}
	if err := os.Rename(tmp.Name(), s.file(sess.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", sess.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.file(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session %s", id)
	}
	return nil
}

// List returns the saved games that have not expired, most recently
// active first. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]*Session, error) {
	var out []*Session
	err := s.scan(func(path string, sess *Session) {
		if !sess.IsExpired() {
			out = append(out, sess)
		}
	})
	slices.SortFunc(out, func(a, b *Session) int { return b.ExpiresAt.Compare(a.ExpiresAt) })
	return out, err
}

// Cleanup deletes expired games.
func (s *FileStore) Cleanup(ctx context.Context) error {
	var expired []string
	err := s.scan(func(path string, sess *Session) {
		if sess.IsExpired() {
			expired = append(expired, path)
		}
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range expired {
		os.Remove(path)
	}
	return nil
}

// scan calls fn for every readable session file.
func (s *FileStore) scan(fn func(path string, sess *Session)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read session directory %s", s.dir)
	}
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || !ValidID(id) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if sess, err := readSession(path); err == nil && sess != nil {
			fn(path, sess)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

// readSession decodes the game at path; a missing file is nil, nil.
func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return &sess, nil
}

var _ Store = (*FileStore)(nil)
