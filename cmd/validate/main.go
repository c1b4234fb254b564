// Command validate checks an NWIS data directory before it is served: every
// table parses and carries site_no, the lookup yields definitions, interval
// rows reference known sites and construction events, and every site in
// gw_cons builds a document.
//
// Usage:
//
//	go run ./cmd/validate --data-dir data
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/well-construction-service/internal/adapter/filestore"
	"github.com/couchcryptid/well-construction-service/internal/config"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/couchcryptid/well-construction-service/internal/observability"
	"github.com/couchcryptid/well-construction-service/internal/pipeline"
	"github.com/couchcryptid/well-construction-service/internal/rdb"
	"github.com/spf13/cobra"
)

// maxErrorsShown caps the detail printed per failed phase.
const maxErrorsShown = 20

var tableNames = []string{
	domain.TableSite,
	domain.TableCons,
	domain.TableHole,
	domain.TableCsng,
	domain.TableOpen,
	domain.TableGeoh,
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Check the integrity of an NWIS data directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if !run(cmd.Context(), cfg, observability.NewMetrics(), stdout) {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (overrides DATA_DIR)")
	return cmd
}

// run executes every phase and prints a report. It returns true when all
// phases pass.
func run(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, out io.Writer) bool {
	store := filestore.New(cfg.DataDir)

	// ── Load tables ──
	fmt.Fprintln(out, "=== Well Construction Data Validation ===")
	fmt.Fprintln(out)

	files := &phase{name: "Table files"}
	tables := make(map[string]*rdb.Table, len(tableNames))
	for _, name := range tableNames {
		t, ok := loadTable(ctx, store, cfg.TableFile(name), name, files)
		if ok {
			tables[name] = t
		}
	}

	svc := pipeline.New(store, nil, observability.NewLogger(cfg), metrics, pipeline.Options{
		TableSuffix:     cfg.TableSuffix,
		LookupFile:      cfg.LookupFile,
		AquiferFile:     cfg.AquiferFile,
		DefinitionsFile: cfg.DefinitionsFile,
		InputSorted:     cfg.InputSorted,
	})

	// ── Run validation phases ──
	phases := []*phase{
		files,
		validateReadiness(ctx, svc),
		validateReferences(tables),
	}
	builds, dropped := validateBuilds(ctx, svc, tables[domain.TableCons])
	phases = append(phases, builds)

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %s\n", rowCounts(tables))
	if len(dropped) > 0 {
		fmt.Fprintf(out, "Dropped rows: %s\n", formatCounts(dropped))
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsShown {
				fmt.Fprintf(out, "  ... and %d more\n", len(p.errors)-maxErrorsShown)
				break
			}
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
	return allPassed
}

// loadTable reads one extract and checks its columns. An empty sitefile or
// gw_cons is a failure; the other tables may be empty.
func loadTable(ctx context.Context, store *filestore.Store, file, name string, p *phase) (*rdb.Table, bool) {
	primary := name == domain.TableSite || name == domain.TableCons

	t, err := store.Table(ctx, file)
	var empty *filestore.EmptyFileError
	switch {
	case errors.As(err, &empty) && !primary:
		return nil, false
	case err != nil:
		p.errorf("%s: %v", name, err)
		return nil, false
	case primary && len(t.Rows) == 0:
		p.errorf("%s: %v", name, &filestore.EmptyFileError{Path: store.Path(file)})
		return nil, false
	}

	for _, col := range domain.RequiredColumns(name) {
		if !t.HasColumn(col) {
			p.errorf("%s: %v", name, &rdb.MissingColumnError{Column: col})
			return nil, false
		}
	}
	return t, true
}

func validateReadiness(ctx context.Context, svc *pipeline.Service) *phase {
	p := &phase{name: "Data directory and lookup"}
	if err := svc.CheckReadiness(ctx); err != nil {
		p.errorf("%v", err)
	}
	return p
}

// validateReferences checks that interval rows point at a site in the
// sitefile and at a construction event in gw_cons.
func validateReferences(tables map[string]*rdb.Table) *phase {
	p := &phase{name: "Referential integrity"}

	sites := map[string]bool{}
	if t := tables[domain.TableSite]; t != nil {
		for _, row := range t.Rows {
			sites[row[domain.SiteKey]] = true
		}
	}
	events := map[string]bool{}
	if t := tables[domain.TableCons]; t != nil {
		for _, row := range t.Rows {
			events[row[domain.SiteKey]+"/"+row["cons_seq_nu"]] = true
		}
	}

	for _, name := range tableNames[1:] {
		t := tables[name]
		if t == nil {
			continue
		}
		for i, row := range t.Rows {
			site := row[domain.SiteKey]
			if !sites[site] {
				p.errorf("%s row %d: site %s not in %s", name, i+1, site, domain.TableSite)
				continue
			}
			if name == domain.TableGeoh || name == domain.TableCons {
				continue
			}
			if !events[site+"/"+row["cons_seq_nu"]] {
				p.errorf("%s row %d: site %s event %s not in %s", name, i+1, site, row["cons_seq_nu"], domain.TableCons)
			}
		}
	}
	return p
}

// validateBuilds builds every site listed in gw_cons and totals dropped rows.
func validateBuilds(ctx context.Context, svc *pipeline.Service, cons *rdb.Table) (*phase, map[string]int) {
	p := &phase{name: "Document builds"}
	dropped := map[string]int{}
	if cons == nil {
		p.errorf("%s unavailable", domain.TableCons)
		return p, dropped
	}

	seen := map[string]bool{}
	for _, row := range cons.Rows {
		site := row[domain.SiteKey]
		if seen[site] {
			continue
		}
		seen[site] = true

		res, err := svc.Build(ctx, site)
		if err != nil {
			p.errorf("site %s: %v", site, err)
			continue
		}
		for table, n := range res.Stats.Dropped {
			dropped[table] += n
		}
	}
	return p, dropped
}

func rowCounts(tables map[string]*rdb.Table) string {
	counts := map[string]int{}
	for name, t := range tables {
		counts[name] = len(t.Rows)
	}
	return formatCounts(counts)
}

func formatCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", counts[name], name))
	}
	return strings.Join(parts, ", ")
}
