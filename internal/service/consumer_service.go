package service

import (
	"context"
	"encoding/json"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the activity topic and writes the audit trail
// through the structured logger. Activity recording is auxiliary: its
// failures never surface to the request that published the event.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event events.ActivityEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.log.Error("activity", "failed to unmarshal activity event", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"occurred_at": event.OccurredAt,
	}
	for k, v := range event.Data {
		details[k] = v
	}

	cs.log.Info("activity", event.Type, details)
	msg.Ack()
}
