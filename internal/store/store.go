// Package store implements the data access layer for the application.
//
// Both stores persist their full state as a single JSON document. Every
// mutation runs under the store's mutex as one read-modify-write-persist
// critical section, and the document is written to a temporary file and
// renamed into place so a crash can never leave a half-written document
// behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// jsonFile loads and saves a whole JSON document on an afero filesystem.
type jsonFile struct {
	fs   afero.Fs
	path string
}

// load reads the full document into dest. Missing files surface as
// os.ErrNotExist so callers can decide whether to seed.
func (f *jsonFile) load(dest any) error {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", f.path, err)
	}
	return nil
}

// save writes the full document atomically: marshal, write to a temporary
// sibling, rename over the target. A failed write is returned to the caller
// and never swallowed; the previous document stays intact.
func (f *jsonFile) save(src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", f.path, err)
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
