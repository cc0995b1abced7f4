package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderConfirmed publishes an OrderConfirmed event carrying the
// full order snapshot
func (ep *EventPublisher) PublishOrderConfirmed(ctx context.Context, order models.ConfirmedOrder) error {
	event := models.OrderConfirmedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderConfirmed),
		Order:     order,
	}
	key := fmt.Sprintf("order-%d", order.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishNotificationDispatched records the outcome of a notification
// dispatch attempt
func (ep *EventPublisher) PublishNotificationDispatched(ctx context.Context, orderID int64, method, outcome string) error {
	event := models.NotificationDispatchedEvent{
		BaseEvent: newBaseEvent(models.EventTypeNotificationDispatch),
		OrderID:   orderID,
		Method:    method,
		Outcome:   outcome,
	}
	key := fmt.Sprintf("order-%d", orderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishNotificationFailed records a notification that could not be
// handed to any sink
func (ep *EventPublisher) PublishNotificationFailed(ctx context.Context, orderID int64, method, reason string) error {
	event := models.NotificationFailedEvent{
		BaseEvent: newBaseEvent(models.EventTypeNotificationFailed),
		OrderID:   orderID,
		Method:    method,
		Reason:    reason,
	}
	key := fmt.Sprintf("order-%d", orderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductRemoved publishes a catalog removal, direct or via a
// cascading category delete
func (ep *EventPublisher) PublishProductRemoved(ctx context.Context, productID int64, category, reason string) error {
	event := models.CatalogProductRemovedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCatalogProductRemoved),
		ProductID: productID,
		Category:  category,
		Reason:    reason,
	}
	key := fmt.Sprintf("product-%d", productID)
	return ep.producer.PublishEvent(ctx, key, event)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onOrderConfirmed func(context.Context, *models.OrderConfirmedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderConfirmed registers a handler for OrderConfirmed events
func (eh *EventHandler) OnOrderConfirmed(handler func(context.Context, *models.OrderConfirmedEvent) error) {
	eh.onOrderConfirmed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderConfirmed:
		if eh.onOrderConfirmed != nil {
			var event models.OrderConfirmedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderConfirmed event: %w", err)
			}
			return eh.onOrderConfirmed(ctx, &event)
		}

	default:
		logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
