package notify

import (
	"fmt"
	"net/url"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Dispatch outcomes
const (
	OutcomePrefilledLink = "prefilled_link"
	OutcomeManualPaste   = "manual_paste"
	OutcomeWebhookStub   = "webhook_stub"
	OutcomeNotConfigured = "not_configured"
)

// Dispatch is the result of routing an order notification to its sink.
// The service never talks to the chat apps itself: it hands the caller
// a link with the message prefilled where the target supports it.
type Dispatch struct {
	Method  string `json:"method"`
	Outcome string `json:"outcome"`
	Link    string `json:"link,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	Note    string `json:"note,omitempty"`
}

// Notifier builds order notifications for the configured dispatch method
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{logger: util.GetLogger()}
}

// Dispatch formats the order once and routes it by the notification
// method. Unrecognized methods and "none" yield a not-configured result
// instead of sending anything.
func (n *Notifier) Dispatch(settings models.NotificationSettings, storeName string, order models.ConfirmedOrder) Dispatch {
	body := FormatOrder(storeName, order)
	destination := settings.Destination

	var d Dispatch
	switch settings.Method {
	case models.NotifyWhatsApp:
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomePrefilledLink,
			Link:    fmt.Sprintf("https://wa.me/%s?text=%s", destination, url.QueryEscape(body)),
			Body:    body,
		}

	case models.NotifyEmail:
		subject := fmt.Sprintf("New order from store: %s", storeName)
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomePrefilledLink,
			Link: fmt.Sprintf("mailto:%s?subject=%s&body=%s",
				destination, url.QueryEscape(subject), url.QueryEscape(body)),
			Subject: subject,
			Body:    body,
		}

	case models.NotifyTelegram:
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomeManualPaste,
			Link:    fmt.Sprintf("https://t.me/%s", destination),
			Body:    body,
			Note:    "Telegram will open; paste the order details manually.",
		}

	case models.NotifyMessenger:
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomeManualPaste,
			Link:    fmt.Sprintf("https://m.me/%s", destination),
			Body:    body,
			Note:    "Messenger will open; paste the order details manually.",
		}

	case models.NotifyWebhook:
		// Intentionally not wired to a transport: the payload is
		// surfaced so the operator can see what would have been sent.
		n.logger.Info("Webhook notification payload (no transport configured)",
			zap.Int64("order_id", order.OrderID),
			zap.String("destination", destination))
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomeWebhookStub,
			Body:    body,
			Note:    fmt.Sprintf("The following payload would be sent to the webhook %s.", destination),
		}

	default:
		d = Dispatch{
			Method:  settings.Method,
			Outcome: OutcomeNotConfigured,
			Body:    body,
			Note:    "No notification method is configured in the admin panel.",
		}
	}

	util.NotificationsDispatched.WithLabelValues(d.Method, d.Outcome).Inc()
	return d
}
