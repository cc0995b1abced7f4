package notify

import (
	"strings"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleOrder() models.ConfirmedOrder {
	return models.ConfirmedOrder{
		OrderID: 42,
		Customer: models.CustomerDetails{
			Name:   "Amine B",
			Phone:  "0551234567",
			Region: "الجزائر",
			City:   "Bab Ezzouar",
		},
		Items: []models.CartItem{
			{Product: models.Product{ID: 1, Name: "Sneakers", Price: 12000}, Quantity: 2},
			{Product: models.Product{ID: 2, Name: "Watch", Price: 15000}, Quantity: 1},
		},
		Subtotal:        39000,
		Shipping:        250,
		DeliveryFee:     200,
		Total:           39450,
		DeliveryCompany: "Express",
		ConfirmedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatOrderDeterministic(t *testing.T) {
	order := sampleOrder()

	a := FormatOrder("Platinum Store", order)
	b := FormatOrder("Platinum Store", order)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "New order from store: Platinum Store")
	assert.Contains(t, a, "Name: Amine B")
	assert.Contains(t, a, "Phone: 0551234567")
	assert.Contains(t, a, "- Sneakers (x2) - 12000 DZD")
	assert.Contains(t, a, "- Watch (x1) - 15000 DZD")
	assert.Contains(t, a, "Subtotal: 39000 DZD")
	assert.Contains(t, a, "Region shipping: 250 DZD")
	assert.Contains(t, a, "Delivery company fee: 200 DZD")
	assert.Contains(t, a, "Grand total: 39450 DZD")
	assert.Contains(t, a, "Email: not provided")
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "order-0551234567.txt", DownloadFilename(sampleOrder()))
}

func TestDispatchWhatsApp(t *testing.T) {
	n := NewNotifier()

	d := n.Dispatch(models.NotificationSettings{
		Method:      models.NotifyWhatsApp,
		Destination: "213550000000",
	}, "Platinum Store", sampleOrder())

	assert.Equal(t, OutcomePrefilledLink, d.Outcome)
	assert.True(t, strings.HasPrefix(d.Link, "https://wa.me/213550000000?text="))
	// Message is URL-encoded into the link
	assert.NotContains(t, d.Link, " ")
	assert.Contains(t, d.Body, "Grand total")
}

func TestDispatchEmail(t *testing.T) {
	n := NewNotifier()

	d := n.Dispatch(models.NotificationSettings{
		Method:      models.NotifyEmail,
		Destination: "orders@example.com",
	}, "Platinum Store", sampleOrder())

	assert.Equal(t, OutcomePrefilledLink, d.Outcome)
	assert.True(t, strings.HasPrefix(d.Link, "mailto:orders@example.com?subject="))
	assert.Equal(t, "New order from store: Platinum Store", d.Subject)
}

func TestDispatchManualPasteSinks(t *testing.T) {
	n := NewNotifier()

	tg := n.Dispatch(models.NotificationSettings{Method: models.NotifyTelegram, Destination: "shop"},
		"S", sampleOrder())
	assert.Equal(t, OutcomeManualPaste, tg.Outcome)
	assert.Equal(t, "https://t.me/shop", tg.Link)
	assert.NotEmpty(t, tg.Note)

	ms := n.Dispatch(models.NotificationSettings{Method: models.NotifyMessenger, Destination: "shop"},
		"S", sampleOrder())
	assert.Equal(t, OutcomeManualPaste, ms.Outcome)
	assert.Equal(t, "https://m.me/shop", ms.Link)
}

func TestDispatchWebhookIsStub(t *testing.T) {
	n := NewNotifier()

	d := n.Dispatch(models.NotificationSettings{
		Method:      models.NotifyWebhook,
		Destination: "https://hooks.example.com/orders",
	}, "S", sampleOrder())

	assert.Equal(t, OutcomeWebhookStub, d.Outcome)
	assert.Empty(t, d.Link, "webhook must not produce an outbound target")
	assert.Contains(t, d.Note, "https://hooks.example.com/orders")
}

func TestDispatchNotConfigured(t *testing.T) {
	n := NewNotifier()

	for _, method := range []string{models.NotifyNone, "", "carrier-pigeon"} {
		d := n.Dispatch(models.NotificationSettings{Method: method}, "S", sampleOrder())
		assert.Equal(t, OutcomeNotConfigured, d.Outcome, "method %q", method)
		assert.Empty(t, d.Link)
	}
}
