//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

const testAlertsTopic = "test-flood-risk-alerts"

// TestAlertWriterRoundTrip publishes an alert through kafka.Writer against a
// real broker and verifies the key, headers, and payload on the other side.
func TestAlertWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertsTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaAlertsTopic: testAlertsTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	assessedAt := time.Date(2026, time.August, 30, 6, 0, 0, 0, time.UTC)
	alert := domain.AlertEvent{
		Location: domain.ResolvedLocation{
			Point:  domain.Point{Lat: 14.6507, Lon: 121.1029},
			Name:   "marikina",
			Source: domain.SourceNominatim,
		},
		Assessment: domain.RiskAssessment{
			Tier:  domain.TierCritical,
			Score: 12,
			Susceptibility: domain.Susceptibility{
				Level:  4,
				Label:  "Very High",
				Source: domain.SusceptibilitySourceMGB,
			},
			RainTrigger:       3,
			RainLabel:         "Intense",
			RainSource:        domain.RainSourcePagasa,
			RainMM:            150,
			ForecastAvailable: true,
			AssessedAt:        assessedAt,
		},
	}

	require.NoError(t, writer.Publish(ctx, alert))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertsTopic,
		GroupID:     fmt.Sprintf("test-alerts-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alerts topic")

	assert.Equal(t, "marikina", string(msg.Key), "key is the normalized location")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "CRITICAL", headers["tier"])
	assert.Equal(t, assessedAt.Format(time.RFC3339), headers["assessed_at"])

	var decoded domain.AlertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, domain.TierCritical, decoded.Assessment.Tier)
	assert.Equal(t, 12, decoded.Assessment.Score)
	assert.Equal(t, "marikina", decoded.Location.Name)
	assert.Equal(t, 14.6507, decoded.Location.Lat)
	assert.Equal(t, domain.RainSourcePagasa, decoded.Assessment.RainSource)
}

// TestAlertWriterOrderingPerLocation checks that alerts for the same place
// land on the same partition in publish order.
func TestAlertWriterOrderingPerLocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertsTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaAlertsTopic: testAlertsTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	tiers := []domain.Tier{domain.TierWatch, domain.TierWarning, domain.TierCritical}
	for i, tier := range tiers {
		alert := domain.AlertEvent{
			Location: domain.ResolvedLocation{Name: "marikina"},
			Assessment: domain.RiskAssessment{
				Tier:       tier,
				Score:      i,
				AssessedAt: time.Now().UTC(),
			},
		}
		require.NoError(t, writer.Publish(ctx, alert))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertsTopic,
		GroupID:     fmt.Sprintf("test-ordering-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for _, want := range tiers {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err)

		var decoded domain.AlertEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, want, decoded.Assessment.Tier)
	}
}
