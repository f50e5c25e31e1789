// Package iohelper provides bounded reads and atomic writes for the report
// inputs and outputs.
package iohelper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Size limits for inputs read fully into memory.
const (
	// ScanOutputMaxSize bounds a saved scan table (32MB).
	ScanOutputMaxSize int64 = 32 * 1024 * 1024

	// ConfigMaxSize bounds a YAML configuration file (1MB).
	ConfigMaxSize int64 = 1024 * 1024
)

// ErrTooLarge is returned when an input exceeds its size limit.
var ErrTooLarge = errors.New("iohelper: input exceeds size limit")

// ReadLimited reads r fully, failing with ErrTooLarge if more than maxSize
// bytes are available. A nil reader yields an empty slice.
func ReadLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxSize)
	}
	return data, nil
}

// ReadFile opens path and reads it with ReadLimited.
func ReadFile(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ReadLimited(f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// WriteAtomic writes to a temporary file next to path and renames it into
// place once write succeeds. On any error the destination is untouched and
// the temporary file is removed.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteFileAtomic writes data to path with WriteAtomic.
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
