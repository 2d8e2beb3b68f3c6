package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/models"
)

// Backend stores bytes for one named filesystem. Paths are slash separated
// and relative to the filesystem root.
type Backend interface {
	Write(ctx context.Context, p string, r io.Reader) (int64, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Exists(ctx context.Context, p string) (bool, error)
	Remove(ctx context.Context, p string) error
}

// Filesystems routes WebFile operations to the backend named by the file.
// It is read-only after construction.
type Filesystems struct {
	backends map[string]Backend
}

func NewFilesystems(backends map[string]Backend) *Filesystems {
	f := &Filesystems{backends: make(map[string]Backend, len(backends))}
	for name, b := range backends {
		f.backends[name] = b
	}
	return f
}

// Backend returns the backend for name or ErrFilesystemNotFound.
func (f *Filesystems) Backend(name string) (Backend, error) {
	if f != nil {
		if b, ok := f.backends[name]; ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", common.ErrFilesystemNotFound, name)
}

func (f *Filesystems) Names() []string {
	names := make([]string, 0, len(f.backends))
	for name := range f.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Filesystems) Write(ctx context.Context, file models.WebFile, r io.Reader) (int64, error) {
	b, err := f.Backend(file.Filesystem)
	if err != nil {
		return 0, err
	}
	return b.Write(ctx, file.Path, r)
}

func (f *Filesystems) Open(ctx context.Context, file models.WebFile) (io.ReadCloser, error) {
	b, err := f.Backend(file.Filesystem)
	if err != nil {
		return nil, err
	}
	return b.Open(ctx, file.Path)
}

func (f *Filesystems) Exists(ctx context.Context, file models.WebFile) (bool, error) {
	b, err := f.Backend(file.Filesystem)
	if err != nil {
		return false, err
	}
	return b.Exists(ctx, file.Path)
}

func (f *Filesystems) Remove(ctx context.Context, file models.WebFile) error {
	b, err := f.Backend(file.Filesystem)
	if err != nil {
		return err
	}
	return b.Remove(ctx, file.Path)
}

// LocalFilesystem keeps files below a directory on disk.
type LocalFilesystem struct {
	root string
}

func NewLocalFilesystem(root string) (*LocalFilesystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create filesystem root: %w", err)
	}
	return &LocalFilesystem{root: abs}, nil
}

func (l *LocalFilesystem) Root() string { return l.root }

// resolve maps p below root and rejects anything that would escape it.
func (l *LocalFilesystem) resolve(p string) (string, error) {
	if err := models.ValidatePath(p); err != nil {
		return "", err
	}
	full := filepath.Join(l.root, filepath.FromSlash(p))
	if !strings.HasPrefix(full, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path %q", p)
	}
	return full, nil
}

// Write streams r into a temp file next to the target and renames it into place.
func (l *LocalFilesystem) Write(ctx context.Context, p string, r io.Reader) (int64, error) {
	full, err := l.resolve(p)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, full); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}

func (l *LocalFilesystem) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	full, err := l.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (l *LocalFilesystem) Exists(ctx context.Context, p string) (bool, error) {
	full, err := l.resolve(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (l *LocalFilesystem) Remove(ctx context.Context, p string) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	return os.Remove(full)
}
