package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/well-construction-service/internal/config"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	pub := domain.Publication{
		SiteNo: "422508121161501",
		Document: domain.Assemble(&domain.WellRecord{
			Site: domain.Site{SiteNo: "422508121161501", LandSurface: 4195.5},
		}),
		GeneratedAt: now,
	}
	id := uuid.NewString()

	msg, err := serializeToMessage(pub, id)
	require.NoError(t, err)

	assert.Equal(t, []byte("422508121161501"), msg.Key)
	assert.Equal(t, now, msg.Time)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "4195.500000", string(body["land_surface"]))

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "site_no", msg.Headers[0].Key)
	assert.Equal(t, []byte("422508121161501"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
	assert.Equal(t, "document_id", msg.Headers[2].Key)
	assert.Equal(t, []byte(id), msg.Headers[2].Value)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"b1:9092", "b2:9092"}, KafkaTopic: "docs"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "docs", w.writer.Topic)
	assert.Equal(t, "tcp", w.writer.Addr.Network())
}
