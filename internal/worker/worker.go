package worker

import (
	"context"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// resultPublisher records notification outcomes on the event stream
type resultPublisher interface {
	PublishNotificationDispatched(ctx context.Context, orderID int64, method, outcome string) error
	PublishNotificationFailed(ctx context.Context, orderID int64, method, reason string) error
}

// NotificationWorker consumes OrderConfirmed events and routes each
// order through the configured notification sink
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     *notify.Notifier
	settings     *store.SettingsStore
	events       resultPublisher
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	consumer *broker.Consumer,
	notifier *notify.Notifier,
	settings *store.SettingsStore,
	events resultPublisher,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		notifier:     notifier,
		settings:     settings,
		events:       events,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOrderConfirmed(w.handleOrderConfirmed)
	return w
}

func (w *NotificationWorker) handleOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	settings := w.settings.Settings()

	dispatch := w.notifier.Dispatch(settings.Notifications, settings.StoreName, event.Order)

	if dispatch.Outcome == notify.OutcomeNotConfigured {
		w.logger.Warn("Order notification has no sink",
			zap.Int64("order_id", event.Order.OrderID),
			zap.String("method", dispatch.Method))

		if w.events != nil {
			if err := w.events.PublishNotificationFailed(ctx, event.Order.OrderID, dispatch.Method, "no notification method configured"); err != nil {
				w.logger.Error("Failed to publish NotificationFailed event", zap.Error(err))
			}
		}
		return nil
	}

	w.logger.Info("Order notification dispatched",
		zap.Int64("order_id", event.Order.OrderID),
		zap.String("method", dispatch.Method),
		zap.String("outcome", dispatch.Outcome))

	if w.events != nil {
		if err := w.events.PublishNotificationDispatched(ctx, event.Order.OrderID, dispatch.Method, dispatch.Outcome); err != nil {
			w.logger.Error("Failed to publish NotificationDispatched event", zap.Error(err))
		}
	}
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
