package recovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/birdayz/sigchain/serde"
)

// File keeps the last known good value of T on disk. Writes are atomic: a
// crash leaves either the previous or the new content, never a mix.
type File[T any] struct {
	Path string

	serde serde.Serde[T]
	lock  sync.Mutex
}

// New returns a File stored at path and encoded with s.
func New[T any](path string, s serde.Serde[T]) *File[T] {
	return &File[T]{Path: path, serde: s}
}

// Read loads the stored value. ok is false when no file exists.
func (f *File[T]) Read() (v T, ok bool, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read recovery file: %w", err)
	}
	v, err = f.serde.Deserializer(data)
	if err != nil {
		return v, false, fmt.Errorf("decode recovery file %s: %w", f.Path, err)
	}
	return v, true, nil
}

// Write persists v using write-to-temp, fsync, rename and a directory fsync.
func (f *File[T]) Write(v T) error {
	data, err := f.serde.Serializer(v)
	if err != nil {
		return fmt.Errorf("encode recovery file: %w", err)
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recovery directory: %w", err)
	}

	tmpPath := f.Path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp recovery file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write recovery file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync recovery file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp recovery file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		return fmt.Errorf("rename recovery file: %w", err)
	}

	// The rename is only durable once the directory entry is flushed.
	if runtime.GOOS != "windows" {
		dirFile, err := os.Open(dir)
		if err != nil {
			return fmt.Errorf("open directory for fsync: %w", err)
		}
		defer func() { _ = dirFile.Close() }()
		if err := dirFile.Sync(); err != nil {
			return fmt.Errorf("fsync directory: %w", err)
		}
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (f *File[T]) Delete() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete recovery file: %w", err)
	}
	return nil
}
