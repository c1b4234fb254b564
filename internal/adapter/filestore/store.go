// Package filestore reads NWIS extracts and lookup files from a data
// directory. Files are opened fresh on every call; nothing is cached between
// requests.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/well-construction-service/internal/rdb"
)

// MissingFileError reports an input file that could not be opened.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return "Can not open file " + e.Path
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// EmptyFileError reports a table file with no column line.
type EmptyFileError struct {
	Path string
}

func (e *EmptyFileError) Error() string {
	return "Empty file " + e.Path
}

// Store reads files under a data directory.
// It implements pipeline.Source.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path resolves name against the data directory. Absolute names are kept.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Open opens the named file for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(name)
	f, err := os.Open(path) //nolint:gosec // path comes from configuration, not the request
	if err != nil {
		return nil, &MissingFileError{Path: path, Err: err}
	}
	return f, nil
}

// Table opens and parses the named RDB file.
func (s *Store) Table(ctx context.Context, name string) (*rdb.Table, error) {
	f, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	t, err := rdb.Parse(f)
	switch {
	case errors.Is(err, rdb.ErrEmptyTable):
		return nil, &EmptyFileError{Path: s.Path(name)}
	case err != nil:
		return nil, fmt.Errorf("parse %s: %w", s.Path(name), err)
	}
	return t, nil
}

// Check verifies that the data directory exists and that every named file
// can be opened.
func (s *Store) Check(ctx context.Context, names ...string) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}
	for _, name := range names {
		f, err := s.Open(ctx, name)
		if err != nil {
			return err
		}
		f.Close() //nolint:errcheck,gosec // read-only probe
	}
	return nil
}
