package service

import (
	"context"
	"encoding/json"

	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/pkg/logger"
	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the query.processed topic and records
// per-session turn counts for observability.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishQueryProcessedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	turnCount, err := uow.QueryRepository().Count(ctx, specification.BySessionID{SessionID: payload.SessionId})
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to count session turns", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("CONSUMER", "Query processed", map[string]interface{}{
		"query_id":     payload.QueryId,
		"session_id":   payload.SessionId,
		"topic":        payload.Topic,
		"input_mode":   payload.InputMode,
		"source_count": payload.SourceCount,
		"turn_count":   turnCount,
	})
	msg.Ack()
}
