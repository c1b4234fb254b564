package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/well-construction-service/internal/codes"
)

// loadDictionary assembles the code dictionary from the nested lookup, the
// optional flat definitions table and the aquifer table.
func (s *Service) loadDictionary(ctx context.Context) (*codes.Dictionary, error) {
	dict := codes.New()

	if err := s.loadLookup(ctx, dict); err != nil {
		return nil, err
	}

	if s.opts.DefinitionsFile != "" {
		t, err := s.source.Table(ctx, s.opts.DefinitionsFile)
		if err != nil {
			return nil, err
		}
		if err := dict.LoadTable(t); err != nil {
			return nil, wrapParse(s.source.Path(s.opts.DefinitionsFile), err)
		}
	}

	if dict.Len() == 0 {
		return nil, &NoDefinitionsError{Path: s.source.Path(s.opts.LookupFile)}
	}

	if s.opts.AquiferFile != "" {
		t, err := s.source.Table(ctx, s.opts.AquiferFile)
		if err != nil {
			return nil, err
		}
		if err := dict.LoadAquifers(t); err != nil {
			return nil, wrapParse(s.source.Path(s.opts.AquiferFile), err)
		}
	}
	return dict, nil
}

func (s *Service) loadLookup(ctx context.Context, dict *codes.Dictionary) error {
	path := s.source.Path(s.opts.LookupFile)
	f, err := s.source.Open(ctx, s.opts.LookupFile)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only

	if isYAML(s.opts.LookupFile) {
		err = dict.LoadNestedYAML(f)
	} else {
		err = dict.LoadNested(f)
	}
	switch {
	case errors.Is(err, io.EOF):
		return &NoDefinitionsError{Path: path}
	case err != nil:
		return wrapParse(path, err)
	}
	return nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
