package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/well-construction-service/internal/config"
	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces built documents to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured document topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one document keyed by site number, so every version of a
// site's document lands on the same partition.
func (w *Writer) Publish(ctx context.Context, pub domain.Publication) error {
	msg, err := serializeToMessage(pub, uuid.NewString())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish document for site %s: %w", pub.SiteNo, err)
	}
	w.logger.Debug("document published", "site_no", pub.SiteNo, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a document into a Kafka message.
func serializeToMessage(pub domain.Publication, documentID string) (kafkago.Message, error) {
	data, err := json.Marshal(pub.Document)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize well construction document: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(pub.SiteNo),
		Value: data,
		Time:  pub.GeneratedAt,
		Headers: []kafkago.Header{
			{Key: "site_no", Value: []byte(pub.SiteNo)},
			{Key: "generated_at", Value: []byte(pub.GeneratedAt.Format(time.RFC3339))},
			{Key: "document_id", Value: []byte(documentID)},
		},
	}, nil
}
