// Package kafka publishes analysed trajectory points to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/firerisk-etl/internal/config"
	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

// SinkName labels this sink in logs and metrics.
const SinkName = "kafka"

// Writer produces trajectory point messages to a Kafka topic.
// It implements pipeline.PointSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured points topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name implements pipeline.PointSink.
func (w *Writer) Name() string { return SinkName }

// PublishPoints serializes a location's points and publishes them in a single
// WriteMessages call. Messages are keyed by location and date so a re-run
// lands on the same partition.
func (w *Writer) PublishPoints(ctx context.Context, runID string, points []domain.TrajectoryPoint) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(points))
	for i := range points {
		msg, err := serializeToMessage(points[i], runID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d points: %w", len(msgs), err)
	}
	w.logger.Debug("points published", "location", points[0].Location, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// MessageKey is the Kafka key of a point: "<location>|<date>".
func MessageKey(p domain.TrajectoryPoint) string {
	return p.Location + "|" + p.Date.Format(domain.RiskDateLayout)
}

// serializeToMessage marshals a TrajectoryPoint into a Kafka message.
func serializeToMessage(p domain.TrajectoryPoint, runID string) (kafkago.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize trajectory point: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey(p)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(p.Location)},
			{Key: "tier", Value: []byte(p.Tier)},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}
