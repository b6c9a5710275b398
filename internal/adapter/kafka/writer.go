package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-report/internal/config"
	"github.com/couchcryptid/climate-report/internal/domain"
)

// Writer publishes long-form emission records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured emissions topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes the records in a single WriteMessages call.
// Records for one country share a key and therefore a partition.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.EmissionRecord) error {
	if len(records) == 0 {
		return nil
	}
	publishedAt := domain.Now()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], publishedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d emission records: %w", len(msgs), err)
	}
	w.logger.Debug("emission batch written", "topic", w.writer.Topic, "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an EmissionRecord into a Kafka message keyed by
// country code.
func serializeToMessage(record domain.EmissionRecord, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize emission record: %w", err)
	}
	key := record.Code
	if key == "" {
		key = record.Country
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "country", Value: []byte(record.Country)},
			{Key: "year", Value: []byte(strconv.Itoa(record.Year))},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
