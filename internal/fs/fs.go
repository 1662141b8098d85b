package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File is a file opened for writing.
type File interface {
	io.WriteCloser
	Sync() error
	Name() string
}

// FileSystem is the subset of os used to publish snapshot files.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	MkdirAll(path string, perm os.FileMode) error
}

// LocalFS implements FileSystem with the os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Remove(name string) error             { return os.Remove(name) }
func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Default is the local file system.
var Default FileSystem = LocalFS{}

// TempMarker appears in the name of every unpublished snapshot file.
const TempMarker = ".tmp-"

const tempAttempts = 10

// IsTemp reports whether base is the name of an unpublished file.
func IsTemp(base string) bool {
	return strings.HasPrefix(base, ".") && strings.Contains(base, TempMarker)
}

// AtomicFile stages a file next to its destination and renames it into
// place on Close, so readers see either the old snapshot or the complete
// new one.
type AtomicFile struct {
	fs   FileSystem
	f    File
	path string
	done bool
}

// CreateAtomic opens a hidden temporary sibling of path, creating parent
// directories as needed.
func CreateAtomic(fsys FileSystem, path string, perm os.FileMode) (*AtomicFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for range tempAttempts {
		tmp := filepath.Join(dir, "."+base+TempMarker+strconv.FormatUint(rand.Uint64(), 36))
		f, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &AtomicFile{fs: fsys, f: f, path: path}, nil
	}
	return nil, fmt.Errorf("fs: no free temporary name for %s", path)
}

// Path returns the destination path.
func (a *AtomicFile) Path() string { return a.path }

func (a *AtomicFile) Write(p []byte) (int, error) {
	if a.done {
		return 0, os.ErrClosed
	}
	return a.f.Write(p)
}

// Sync flushes the staged file.
func (a *AtomicFile) Sync() error {
	if a.done {
		return os.ErrClosed
	}
	return a.f.Sync()
}

// Close publishes the staged file. On failure the temporary is removed and
// the destination is left as it was. A second call returns os.ErrClosed.
func (a *AtomicFile) Close() error {
	if a.done {
		return os.ErrClosed
	}
	a.done = true
	if err := a.f.Close(); err != nil {
		_ = a.fs.Remove(a.f.Name())
		return err
	}
	if err := a.fs.Rename(a.f.Name(), a.path); err != nil {
		_ = a.fs.Remove(a.f.Name())
		return err
	}
	return nil
}

// Abort discards the staged file. It is a no-op after Close.
func (a *AtomicFile) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	_ = a.f.Close()
	return a.fs.Remove(a.f.Name())
}
