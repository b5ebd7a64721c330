// Package events публикует итоги запусков синхронизации в Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"wpbreez_sync/config"
	"wpbreez_sync/pkg/logger"
)

type SyncEvent struct {
	RunID      string    `json:"run_id"`
	Operation  string    `json:"operation"`
	Page       int       `json:"page,omitempty"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event SyncEvent) error
	Close() error
}

// messageWriter - часть kafka.Writer, нужная публикатору.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    logger.Logger
}

// NewPublisher возвращает Nop, если брокеры не заданы.
func NewPublisher(cfg config.KafkaConfig, writer io.Writer) Publisher {
	if len(cfg.Brokers) == 0 {
		return Nop{}
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}, writer)
}

func newKafkaPublisher(w messageWriter, writer io.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: logger.NewLogger(writer, "[Events]")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event SyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sync event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Operation),
		Value: payload,
		Time:  event.FinishedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish sync event %s: %w", event.RunID, err)
	}
	p.log.Debug("published %s run %s", event.Operation, event.RunID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type Nop struct{}

func (Nop) Publish(context.Context, SyncEvent) error { return nil }

func (Nop) Close() error { return nil }
