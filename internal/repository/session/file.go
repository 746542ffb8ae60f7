package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/logging"
)

type fileRepo struct {
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// Option customises the file repository.
type Option func(*fileRepo)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *fileRepo) { r.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *fileRepo) { r.logger = logger }
}

// NewFile returns a Repository storing the session as JSON at path.
func NewFile(path string, opts ...Option) Repository {
	r := &fileRepo{path: path, now: time.Now, logger: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *fileRepo) Save(token, email string, issuedAt time.Time) (*domain.Session, error) {
	if token == "" {
		return nil, errors.New("empty session token")
	}
	s := domain.NewSession(token, email, issuedAt)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return &s, nil
}

func (r *fileRepo) Load() (*domain.Session, bool) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("session file unreadable", "path", r.path, "error", err)
		}
		return nil, false
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Debug("session file corrupt", "path", r.path, "error", err)
		return nil, false
	}
	if !s.ValidAt(r.now()) {
		if s.Token != "" {
			r.logger.Debug("session expired", "expiresAt", s.ExpiresAt)
			_ = os.Remove(r.path)
		}
		return nil, false
	}
	return &s, true
}

func (r *fileRepo) Clear() error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// writeFileAtomic replaces path so readers see either the old or the new
// content, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
