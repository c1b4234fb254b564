package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/well-construction-service/internal/adapter/filestore"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/couchcryptid/well-construction-service/internal/rdb"
)

// NoDefinitionsError reports a lookup source that yielded no definitions.
type NoDefinitionsError struct {
	Path string
}

func (e *NoDefinitionsError) Error() string {
	return "No definitions found in file " + e.Path
}

// Error kinds reported by Kind.
const (
	KindNoSiteNumber   = "no_site_number"
	KindMissingFile    = "missing_file"
	KindEmptyFile      = "empty_file"
	KindNoDefinitions  = "no_definitions"
	KindMissingColumn  = "missing_column"
	KindSiteNotFound   = "site_not_found"
	KindNoConstruction = "no_construction"
	KindCanceled       = "canceled"
	KindInternal       = "internal"
)

// Kind classifies a Build error for metrics and status mapping.
func Kind(err error) string {
	var (
		missingFile   *filestore.MissingFileError
		emptyFile     *filestore.EmptyFileError
		noDefs        *NoDefinitionsError
		missingColumn *rdb.MissingColumnError
		siteNotFound  *domain.SiteNotFoundError
		noCons        *domain.NoConstructionError
	)
	switch {
	case errors.Is(err, domain.ErrNoSiteNumber):
		return KindNoSiteNumber
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &missingFile):
		return KindMissingFile
	case errors.As(err, &emptyFile):
		return KindEmptyFile
	case errors.As(err, &noDefs):
		return KindNoDefinitions
	case errors.As(err, &missingColumn):
		return KindMissingColumn
	case errors.As(err, &siteNotFound):
		return KindSiteNotFound
	case errors.As(err, &noCons):
		return KindNoConstruction
	default:
		return KindInternal
	}
}
