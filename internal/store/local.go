package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local keeps every object as a regular file directly inside one directory.
type Local struct {
	dir string
}

// NewLocal creates dir (and parents) if needed.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the backing directory.
func (l *Local) Dir() string { return l.dir }

// Path returns the on-disk path for name.
func (l *Local) Path(name string) string { return filepath.Join(l.dir, name) }

// Put writes data to name, truncating any existing file.
func (l *Local) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(l.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// List stats every entry so symlinks to regular files are included and
// symlinks to directories are not. Dangling links are skipped.
func (l *Local) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	// ReadDir returns entries sorted by filename.
	objs := make([]Object, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(l.Path(e.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		objs = append(objs, Object{Name: e.Name(), SizeBytes: info.Size()})
	}
	return objs, nil
}

// Ping checks the directory still exists.
func (l *Local) Ping(ctx context.Context) error {
	info, err := os.Stat(l.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.dir)
	}
	return nil
}

// Location describes the directory for the upload url hint.
func (l *Local) Location() string {
	return fmt.Sprintf("locally on the server in the '%s' folder", filepath.Base(l.dir))
}
