// Package kafka publishes completed risk assessments to a sink topic for
// downstream notifier services.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Writer produces alert events to the configured Kafka topic.
// It implements pipeline.AlertPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the alerts topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one alert event, keyed by the normalized location so a
// partition sees a stable ordering per place.
func (w *Writer) Publish(ctx context.Context, alert domain.AlertEvent) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("serialize alert event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(alert.Location.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "tier", Value: []byte(alert.Assessment.Tier)},
			{Key: "assessed_at", Value: []byte(alert.Assessment.AssessedAt.Format(time.RFC3339))},
		},
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}
