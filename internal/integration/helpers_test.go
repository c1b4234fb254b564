//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("well-construction-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// writeDataDir writes a small NWIS extract for one site. Columns are given
// '|'-separated.
func writeDataDir(t *testing.T, siteNo string) string {
	t.Helper()
	rdb := func(header string, rows ...string) string {
		lines := append([]string{"# test extract", header, "5s"}, rows...)
		return strings.ReplaceAll(strings.Join(lines, "\n")+"\n", "|", "\t")
	}
	files := map[string]string{
		"sitefile_01.txt": rdb("site_no|alt_va|well_depth_va", siteNo+"|4195.5|200"),
		"gw_cons_01.txt":  rdb("site_no|cons_seq_nu|seal_cd", siteNo+"|1|C"),
		"gw_hole_01.txt":  rdb("site_no|cons_seq_nu|hole_seq_nu|hole_top_va|hole_bottom_va|hole_dia_va", siteNo+"|1|1|0|210|8"),
		"gw_csng_01.txt":  rdb("site_no|cons_seq_nu|csng_seq_nu|csng_top_va|csng_bottom_va|csng_dia_va"),
		"gw_open_01.txt":  rdb("site_no|cons_seq_nu|open_seq_nu|open_top_va|open_bottom_va|open_dia_va"),
		"gw_geoh_01.txt":  rdb("site_no|geoh_seq_nu|lith_cd|lith_top_va|lith_bottom_va"),
		"lookup.json":     `{"seal_cd": {"C Number": 716, "Codes": {"C": ["Cement", "#c0c0c0"]}}}`,
	}

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}
