package event

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProfileEventHandler processes one decoded event. Returning an error leaves
// the message uncommitted so it is redelivered.
type ProfileEventHandler func(ctx context.Context, ev service.ProfileEvent) error

type ProfileEventConsumer struct {
	reader messageReader
	logger logger.Logger
}

func NewProfileEventConsumer(cfg config.Config, log logger.Logger) *ProfileEventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &ProfileEventConsumer{reader: reader, logger: log}
}

// Run blocks until ctx is cancelled or the reader fails permanently.
func (c *ProfileEventConsumer) Run(ctx context.Context, handle ProfileEventHandler) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicProfileEvents))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		var ev service.ProfileEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("Skipping undecodable event", zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		log := c.logger.With(
			zap.String("event_type", string(ev.EventType)),
			zap.String("user_id", ev.UserID.String()),
		)
		if err := handle(ctx, ev); err != nil {
			log.Error("Failed to process event", err)
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *ProfileEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}

func (c *ProfileEventConsumer) Close() error {
	return c.reader.Close()
}
