package models

import "time"

// Event types
const (
	EventTypeOrderConfirmed        = "ORDER_CONFIRMED"
	EventTypeNotificationDispatch  = "NOTIFICATION_DISPATCHED"
	EventTypeNotificationFailed    = "NOTIFICATION_FAILED"
	EventTypeCatalogProductRemoved = "CATALOG_PRODUCT_REMOVED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderConfirmedEvent published when a checkout reaches confirmation.
// Carries the full snapshot so consumers never read back mutable state.
type OrderConfirmedEvent struct {
	BaseEvent
	Order ConfirmedOrder `json:"order"`
}

// NotificationDispatchedEvent published after an order notification has
// been handed to its sink
type NotificationDispatchedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Method  string `json:"method"`
	Outcome string `json:"outcome"`
}

// NotificationFailedEvent published when an order notification could
// not be handed to any sink, e.g. no method is configured
type NotificationFailedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Method  string `json:"method"`
	Reason  string `json:"reason"`
}

// CatalogProductRemovedEvent published when a product is deleted, either
// directly or by a cascading category delete
type CatalogProductRemovedEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	Category  string `json:"category"`
	Reason    string `json:"reason"`
}
