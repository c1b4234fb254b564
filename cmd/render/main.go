// Command render builds one well construction document and prints it to
// stdout, the way the service would answer GET /well-construction.
//
// Usage:
//
//	go run ./cmd/render --site 422508121161501 --data-dir data --axes
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/well-construction-service/internal/adapter/filestore"
	"github.com/couchcryptid/well-construction-service/internal/config"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/couchcryptid/well-construction-service/internal/observability"
	"github.com/couchcryptid/well-construction-service/internal/pipeline"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(observability.NewMetrics(), os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type renderOptions struct {
	site    string
	dataDir string
	lookup  string
	axes    bool
	pretty  bool
}

func newRootCmd(metrics *observability.Metrics, stdout, stderr io.Writer) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the well construction document for one NWIS site",
		Long: `Render reads the NWIS extracts in the data directory and prints the
well construction document for one site as JSON. Fatal errors are printed as
{"message": "..."} and exit non-zero.

Settings not given as flags come from the service environment variables
(DATA_DIR, TABLE_SUFFIX, LOOKUP_FILE, AQUIFER_FILE, DEFINITIONS_FILE, ...).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), opts, metrics, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.site, "site", "", "NWIS site number (site_no)")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides DATA_DIR)")
	cmd.Flags().StringVar(&opts.lookup, "lookup", "", "nested lookup file, JSON or YAML (overrides LOOKUP_FILE)")
	cmd.Flags().BoolVar(&opts.axes, "axes", false, "print the scaled depth and diameter axes to stderr")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

func runRender(ctx context.Context, opts renderOptions, metrics *observability.Metrics, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.lookup != "" {
		cfg.LookupFile = opts.lookup
	}
	cfg.LogFormat = "text"

	svc := pipeline.New(
		filestore.New(cfg.DataDir),
		nil,
		observability.NewLogger(cfg),
		metrics,
		pipeline.Options{
			TableSuffix:     cfg.TableSuffix,
			LookupFile:      cfg.LookupFile,
			AquiferFile:     cfg.AquiferFile,
			DefinitionsFile: cfg.DefinitionsFile,
			InputSorted:     cfg.InputSorted,
		},
	)

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}

	res, err := svc.Build(ctx, opts.site)
	if err != nil {
		if encErr := enc.Encode(domain.ErrorDocument{Message: err.Error()}); encErr != nil {
			return encErr
		}
		return err
	}

	if opts.axes {
		axes, err := json.Marshal(res.Axes)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "axes: %s\n", axes)
	}
	return enc.Encode(res.Document)
}
