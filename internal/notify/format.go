package notify

import (
	"fmt"
	"strings"

	"storefront-service/internal/models"
)

const currency = "DZD"

const divider = "================================"

// FormatOrder renders a confirmed order into the text block used by
// every sink: on-screen display, downloadable file and outbound message
// bodies. Deterministic for a given order.
func FormatOrder(storeName string, order models.ConfirmedOrder) string {
	var b strings.Builder

	email := order.Customer.Email
	if email == "" {
		email = "not provided"
	}
	company := order.DeliveryCompany
	if company == "" {
		company = "N/A"
	}

	fmt.Fprintf(&b, "New order from store: %s\n", storeName)
	b.WriteString(divider + "\n")
	b.WriteString("** Customer **\n")
	fmt.Fprintf(&b, "Name: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "Region: %s, %s\n", order.Customer.Region, order.Customer.City)
	fmt.Fprintf(&b, "Email: %s\n", email)
	fmt.Fprintf(&b, "Delivery company: %s\n", company)
	b.WriteString(divider + "\n")
	b.WriteString("** Items **\n")

	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (x%d) - %d %s\n", item.Name, item.Quantity, item.Price, currency)
	}

	b.WriteString(divider + "\n")
	b.WriteString("** Payment summary **\n")
	fmt.Fprintf(&b, "Subtotal: %d %s\n", order.Subtotal, currency)
	fmt.Fprintf(&b, "Region shipping: %d %s\n", order.Shipping, currency)
	fmt.Fprintf(&b, "Delivery company fee: %d %s\n", order.DeliveryFee, currency)
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Grand total: %d %s\n", order.Total, currency)
	b.WriteString(divider)

	return b.String()
}

// DownloadFilename names the downloadable order artifact by the
// customer's phone number
func DownloadFilename(order models.ConfirmedOrder) string {
	return fmt.Sprintf("order-%s.txt", order.Customer.Phone)
}
