package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/well-construction-service/internal/adapter/filestore"
	"github.com/couchcryptid/well-construction-service/internal/axis"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/couchcryptid/well-construction-service/internal/observability"
	"github.com/couchcryptid/well-construction-service/internal/rdb"
	"github.com/jonboulle/clockwork"
)

// Source reads the input files of a build, relative to a data directory.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Table(ctx context.Context, name string) (*rdb.Table, error)
	Path(name string) string
	Check(ctx context.Context, names ...string) error
}

// Publisher receives every successfully built document.
type Publisher interface {
	Publish(ctx context.Context, pub domain.Publication) error
}

// Options names the input files and join behaviour.
type Options struct {
	TableSuffix     string
	LookupFile      string
	AquiferFile     string
	DefinitionsFile string
	InputSorted     bool
}

// Axes are the scaled plot axes for a document. A nil axis means the
// corresponding extreme was never observed.
type Axes struct {
	Depth    *axis.Range `json:"depth,omitempty"`
	Diameter *axis.Range `json:"diameter,omitempty"`
}

// Result is the outcome of one successful build.
type Result struct {
	Document    domain.Document
	Axes        Axes
	Stats       domain.JoinStats
	GeneratedAt time.Time
}

// Service builds well construction documents. Every Build reads the data
// files afresh and shares no mutable state with concurrent builds.
type Service struct {
	source    Source
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	opts      Options
}

// New creates a Service. Pass a nil publisher to disable publication.
func New(source Source, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Service {
	return &Service{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		opts:      opts,
	}
}

// WithClock replaces the clock used for timing and timestamps.
func (s *Service) WithClock(c clockwork.Clock) *Service {
	s.clock = c
	return s
}

// CheckReadiness reports whether the data directory and the lookup file are
// readable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.source.Check(ctx, s.opts.LookupFile)
}

// Build produces the document for siteNo. A returned error is fatal for the
// request and should be rendered as a domain.ErrorDocument.
func (s *Service) Build(ctx context.Context, siteNo string) (*Result, error) {
	start := s.clock.Now()
	siteNo = strings.TrimSpace(siteNo)
	logger := observability.RequestLogger(ctx, s.logger).With("site_no", siteNo)

	res, err := s.build(ctx, siteNo, logger)
	s.metrics.BuildDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		kind := Kind(err)
		s.metrics.Requests.WithLabelValues("error").Inc()
		s.metrics.FatalErrors.WithLabelValues(kind).Inc()
		logger.Warn("build failed", "kind", kind, "error", err)
		return nil, err
	}
	s.metrics.Requests.WithLabelValues("success").Inc()

	if s.publisher != nil {
		s.publish(ctx, logger, siteNo, res)
	}
	return res, nil
}

func (s *Service) build(ctx context.Context, siteNo string, logger *slog.Logger) (*Result, error) {
	if siteNo == "" {
		return nil, domain.ErrNoSiteNumber
	}

	dict, err := s.loadDictionary(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := s.loadTables(ctx, logger)
	if err != nil {
		return nil, err
	}

	joiner := domain.NewJoiner(dict, logger, domain.JoinOptions{
		SortedInput: s.opts.InputSorted,
		SiteSource:  s.source.Path(s.tableFile(domain.TableSite)),
	})
	rec, err := joiner.Join(siteNo, tables)
	if err != nil {
		return nil, err
	}
	s.recordStats(rec.Stats)

	res := &Result{
		Document:    domain.Assemble(rec),
		Axes:        scaleAxes(rec.Extrema),
		Stats:       rec.Stats,
		GeneratedAt: s.clock.Now().UTC(),
	}
	logger.Debug("document built",
		"construction_events", len(rec.Construction),
		"geology_intervals", len(rec.Geology),
		"depth_axis", res.Axes.Depth,
		"diameter_axis", res.Axes.Diameter,
	)
	return res, nil
}

// loadTables reads the site and construction tables, which must be
// non-empty, and the interval tables, which may be empty.
func (s *Service) loadTables(ctx context.Context, logger *slog.Logger) (domain.Tables, error) {
	var t domain.Tables
	var err error

	if t.Site, err = s.primaryTable(ctx, domain.TableSite); err != nil {
		return t, err
	}
	if t.Cons, err = s.primaryTable(ctx, domain.TableCons); err != nil {
		return t, err
	}

	for _, st := range []struct {
		name string
		dst  **rdb.Table
	}{
		{domain.TableGeoh, &t.Geoh},
		{domain.TableHole, &t.Hole},
		{domain.TableCsng, &t.Csng},
		{domain.TableOpen, &t.Open},
	} {
		tbl, err := s.source.Table(ctx, s.tableFile(st.name))
		var empty *filestore.EmptyFileError
		if errors.As(err, &empty) {
			logger.Info("empty table", "table", st.name, "path", empty.Path)
			continue
		}
		if err != nil {
			return t, err
		}
		*st.dst = tbl
	}
	return t, nil
}

func (s *Service) primaryTable(ctx context.Context, name string) (*rdb.Table, error) {
	file := s.tableFile(name)
	tbl, err := s.source.Table(ctx, file)
	if err != nil {
		return nil, err
	}
	if len(tbl.Rows) == 0 {
		return nil, &filestore.EmptyFileError{Path: s.source.Path(file)}
	}
	return tbl, nil
}

func (s *Service) tableFile(name string) string {
	return name + s.opts.TableSuffix
}

func (s *Service) recordStats(stats domain.JoinStats) {
	for table, n := range stats.Joined {
		s.metrics.JoinedRows.WithLabelValues(table).Add(float64(n))
	}
	for table, n := range stats.Dropped {
		s.metrics.DroppedRows.WithLabelValues(table).Add(float64(n))
	}
}

func (s *Service) publish(ctx context.Context, logger *slog.Logger, siteNo string, res *Result) {
	err := s.publisher.Publish(ctx, domain.Publication{
		SiteNo:      siteNo,
		Document:    res.Document,
		GeneratedAt: res.GeneratedAt,
	})
	if err != nil {
		s.metrics.DocumentsPublished.WithLabelValues("error").Inc()
		logger.Error("publish document failed", "error", err)
		return
	}
	s.metrics.DocumentsPublished.WithLabelValues("success").Inc()
}

func scaleAxes(e domain.Extrema) Axes {
	var axes Axes
	if v, ok := e.DepthMax.Value(); ok {
		r := axis.Scale(domain.DepthMin, v)
		axes.Depth = &r
	}
	if v, ok := e.DiaMax.Value(); ok {
		r := axis.Scale(0, v)
		axes.Diameter = &r
	}
	return axes
}

// wrapParse annotates a decode failure with the offending file.
func wrapParse(path string, err error) error {
	return fmt.Errorf("parse %s: %w", path, err)
}
