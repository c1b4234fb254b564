package domain

import (
	"errors"
	"fmt"
)

// ErrNoSiteNumber is returned when a request carries no site identifier.
var ErrNoSiteNumber = errors.New("Requires a NWIS site number") //nolint:staticcheck // user-facing message

// SiteNotFoundError reports a site absent from the site table.
type SiteNotFoundError struct {
	SiteNo string
	Source string
}

func (e *SiteNotFoundError) Error() string {
	return fmt.Sprintf("Site %s missing information in %s file", e.SiteNo, e.Source)
}

// NoConstructionError reports a site with no gw_cons rows.
type NoConstructionError struct {
	SiteNo string
}

func (e *NoConstructionError) Error() string {
	return fmt.Sprintf("Site %s missing well construction information", e.SiteNo)
}
