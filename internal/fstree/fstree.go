// SPDX-License-Identifier: Apache-2.0

// Package fstree reads the document root directory tree that panels are
// mirrored from. Each immediate subdirectory of the root corresponds to one
// panel; the regular files inside it correspond to that panel's documents.
package fstree

import (
	"fmt"
	"os"
	"path/filepath"
)

// Reader lists the directory tree the reconciler mirrors into the catalog.
type Reader interface {
	// ListDirectories returns the names of the immediate subdirectories of
	// the document root, in lexical order. A missing root yields an empty
	// slice, not an error.
	ListDirectories() ([]string, error)

	// ListFiles returns the names of the regular files directly inside the
	// named subdirectory, in lexical order. A missing directory yields an
	// empty slice, not an error.
	ListFiles(dir string) ([]string, error)
}

type osReader struct {
	root string
}

// NewReader returns a Reader over the given document root directory.
func NewReader(root string) Reader {
	return &osReader{root: root}
}

func (r *osReader) ListDirectories() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("error reading document root %q: %w", r.root, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

func (r *osReader) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("error reading panel directory %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}
