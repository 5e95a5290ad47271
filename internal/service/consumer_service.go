package service

import (
	"context"
	"encoding/json"

	"scitech-bot/internal/pkg/logger"
	"scitech-bot/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventForwarder ships events outside the process (NATS in production)
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// TranscriptDelivery mirrors turns to live listeners of a session
type TranscriptDelivery interface {
	SendToSession(sessionID string, payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	stats     IStatsService
	forwarder EventForwarder
	delivery  TranscriptDelivery
	logger    logger.ILogger
}

// NewConsumerService wires the in-process event fan-out. forwarder and
// delivery are optional.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	stats IStatsService,
	forwarder EventForwarder,
	delivery TranscriptDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		stats:     stats,
		forwarder: forwarder,
		delivery:  delivery,
		logger:    log,
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
	var event events.TurnEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal turn event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		// invalid payloads would be redelivered forever
		msg.Ack()
		return
	}

	cs.stats.Record(event)

	if cs.delivery != nil && event.Channel == events.ChannelHTTP && event.Type == events.TypeTurnCompleted {
		cs.delivery.SendToSession(event.SessionID, msg.Payload)
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"error":      err.Error(),
				"session_id": event.SessionID,
				"type":       event.Type,
			})
		}
	}

	msg.Ack()
}
