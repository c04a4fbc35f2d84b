// Package atomicfile replaces files through a temp file in the target
// directory, so a reader sees either the old content or the new one.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

type Options struct {
	// FileMode is applied to the temp file before it is renamed.
	FileMode os.FileMode
	// DirMode is used when the parent directory has to be created.
	DirMode os.FileMode
	// TempPattern is the os.CreateTemp pattern of the temp file.
	TempPattern string
}

// Write creates the parent directory if needed and replaces path with data.
// The temp file is removed on every failure path.
func Write(path string, data []byte, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, opts.DirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, opts.TempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(opts.FileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
