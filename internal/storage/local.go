package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
)

// Local stores objects as plain files under a root data directory. It is the
// reference Backend implementation: reads and writes are immediately
// consistent, so verification failures are hard errors.
type Local struct {
	root   string
	logger logging.Logger
}

// NewLocal creates a filesystem backend rooted at dir, creating it if needed.
func NewLocal(dir string, logger logging.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", common.ErrBackend, dir, err)
	}
	return &Local{root: dir, logger: logger.With("backend", "local")}, nil
}

func (l *Local) resolve(p string) (string, error) {
	if err := validatePath(p); err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(p)), nil
}

func (l *Local) Read(ctx context.Context, p string) (string, error) {
	b, err := l.ReadBytes(ctx, p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *Local) ReadBytes(_ context.Context, p string) ([]byte, error) {
	full, err := l.resolve(p)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", p, common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrBackend, p, err)
	}
	return b, nil
}

func (l *Local) Write(ctx context.Context, p string, content string, verify bool) error {
	if err := l.WriteBytes(ctx, p, []byte(content)); err != nil {
		return err
	}
	if verify {
		full, _ := l.resolve(p)
		if _, err := os.Stat(full); err != nil {
			return fmt.Errorf("%w: write %s: object missing after write", common.ErrBackend, p)
		}
	}
	return nil
}

func (l *Local) WriteBytes(_ context.Context, p string, data []byte) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", common.ErrBackend, p, err)
	}
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrBackend, p, err)
	}
	return nil
}

// Exists never propagates unexpected stat errors: they are logged and
// reported as absent so bootstrap-time probes cannot crash the caller.
func (l *Local) Exists(ctx context.Context, p string) (bool, error) {
	full, err := l.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	l.logger.Warn(ctx, "existence check failed, treating as absent", "path", p, "error", err)
	return false, nil
}

func (l *Local) Delete(_ context.Context, p string) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", p, common.ErrNotFound)
		}
		return fmt.Errorf("%w: delete %s: %v", common.ErrBackend, p, err)
	}
	return nil
}

func (l *Local) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	dir := l.root
	if prefix != "" {
		if err := validatePath(prefix); err != nil {
			return nil, err
		}
		dir = filepath.Join(l.root, filepath.FromSlash(prefix))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ObjectInfo{}, nil
		}
		return nil, fmt.Errorf("%w: list %s: %v", common.ErrBackend, prefix, err)
	}
	infos := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ObjectInfo{Name: e.Name(), Size: fi.Size(), ModifiedAt: fi.ModTime()})
	}
	return infos, nil
}

func (l *Local) Stat(_ context.Context, p string) (ObjectInfo, error) {
	full, err := l.resolve(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	fi, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ObjectInfo{}, fmt.Errorf("stat %s: %w", p, common.ErrNotFound)
		}
		return ObjectInfo{}, fmt.Errorf("%w: stat %s: %v", common.ErrBackend, p, err)
	}
	return ObjectInfo{Name: path.Base(p), Size: fi.Size(), ModifiedAt: fi.ModTime()}, nil
}
