package handler

import (
	"context"
	"encoding/json"

	"librarymgmt/internal/model"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type applyEvent func(ctx context.Context, ev model.Event) error

// Consumer folds library-events messages into borrower_stats.
type Consumer struct {
	applyEventHandler applyEvent
	log               *zap.Logger
	ready             chan bool
}

func NewConsumer(applyEvent applyEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		applyEventHandler: applyEvent,
		log:               log.Named("consumer"),
		ready:             make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var ev model.Event
			if err := json.Unmarshal(message.Value, &ev); err != nil {
				consumer.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.applyEventHandler(context.Background(), ev); err != nil {
				consumer.log.Error("apply event", zap.String("type", string(ev.Type)), zap.Error(err))
				continue
			}

			consumer.log.Debug("event applied",
				zap.String("type", string(ev.Type)),
				zap.String("username", ev.Username),
				zap.Time("timestamp", message.Timestamp))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
