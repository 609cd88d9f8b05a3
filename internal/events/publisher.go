// Package events publishes scan events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/storage"
)

// DefaultTopic receives scan events when none is configured.
const DefaultTopic = "qr-scans"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ScanEvent is the payload of a scan message.
type ScanEvent struct {
	QRCodeID     string    `json:"qr_code_id"`
	CampaignName string    `json:"campaign_name"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Device       string    `json:"device"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// KafkaPublisher writes one message per scan, keyed by QR code id so that
// scans of one code stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaPublisher{
		writer: w,
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, scans []storage.Scan) error {
	msgs := make([]kafka.Message, 0, len(scans))
	for _, s := range scans {
		value, err := json.Marshal(ScanEvent{
			QRCodeID:     s.QRCodeID,
			CampaignName: s.CampaignName,
			City:         s.City,
			State:        s.State,
			Device:       s.Device,
			ScannedAt:    s.ScannedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(s.QRCodeID), Value: value})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}

	p.logger.Debug("scan events published", zap.Int("count", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
