package models

import "time"

// ProductVariant is a color option for a product. Variants are owned by
// their product and have no identity of their own.
type ProductVariant struct {
	Color string   `json:"color"`
	Image string   `json:"image"`
	Sizes []string `json:"sizes"`
}

// Product represents a sellable product in the catalog
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Price       int64            `json:"price"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Variants    []ProductVariant `json:"variants"`
}

// Clone returns a deep copy of the product. Cart lines hold clones so
// later catalog edits never reach items already in the cart.
func (p Product) Clone() Product {
	cp := p
	if p.Variants != nil {
		cp.Variants = make([]ProductVariant, len(p.Variants))
		for i, v := range p.Variants {
			cv := v
			if v.Sizes != nil {
				cv.Sizes = append([]string(nil), v.Sizes...)
			}
			cp.Variants[i] = cv
		}
	}
	return cp
}

// CartItem is a product snapshot plus a quantity. The cart holds at most
// one line per product id.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// DeliveryCompany is a configurable carrier with a flat fee, charged on
// top of the region shipping cost.
type DeliveryCompany struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Fee  int64  `json:"fee"`
}

// Notification methods
const (
	NotifyWhatsApp  = "whatsapp"
	NotifyEmail     = "email"
	NotifyTelegram  = "telegram"
	NotifyMessenger = "messenger"
	NotifyWebhook   = "webhook"
	NotifyNone      = "none"
)

// NotificationSettings selects where confirmed orders are dispatched
type NotificationSettings struct {
	Method      string `json:"method"`
	Destination string `json:"destination"`
}

// AppSettings is the single mutable store configuration record
type AppSettings struct {
	StoreName         string               `json:"store_name"`
	HeroTitle         string               `json:"hero_title"`
	Logo              string               `json:"logo"`
	HeroColor         string               `json:"hero_color"`
	HeroFont          string               `json:"hero_font"`
	HeroSize          string               `json:"hero_size"`
	BgImage           string               `json:"bg_image"`
	BgColor           string               `json:"bg_color"`
	HeroAnimation     string               `json:"hero_animation"`
	LogoAnimation     string               `json:"logo_animation"`
	CardBgColor       string               `json:"card_bg_color"`
	CardTextColor     string               `json:"card_text_color"`
	CardBorderRadius  string               `json:"card_border_radius"`
	CardShadow        string               `json:"card_shadow"`
	BgOverlayColor    string               `json:"bg_overlay_color"`
	BgOverlayOpacity  float64              `json:"bg_overlay_opacity"`
	CardAnimation     string               `json:"card_animation"`
	DeliveryCompanies []DeliveryCompany    `json:"delivery_companies"`
	Notifications     NotificationSettings `json:"notifications"`
}

// SettingsPatch is a partial AppSettings update. Nil fields are left
// untouched; set fields replace the current value wholesale, including
// Notifications (shallow merge, not deep).
type SettingsPatch struct {
	StoreName        *string               `json:"store_name,omitempty"`
	HeroTitle        *string               `json:"hero_title,omitempty"`
	Logo             *string               `json:"logo,omitempty"`
	HeroColor        *string               `json:"hero_color,omitempty"`
	HeroFont         *string               `json:"hero_font,omitempty"`
	HeroSize         *string               `json:"hero_size,omitempty"`
	BgImage          *string               `json:"bg_image,omitempty"`
	BgColor          *string               `json:"bg_color,omitempty"`
	HeroAnimation    *string               `json:"hero_animation,omitempty"`
	LogoAnimation    *string               `json:"logo_animation,omitempty"`
	CardBgColor      *string               `json:"card_bg_color,omitempty"`
	CardTextColor    *string               `json:"card_text_color,omitempty"`
	CardBorderRadius *string               `json:"card_border_radius,omitempty"`
	CardShadow       *string               `json:"card_shadow,omitempty"`
	BgOverlayColor   *string               `json:"bg_overlay_color,omitempty"`
	BgOverlayOpacity *float64              `json:"bg_overlay_opacity,omitempty"`
	CardAnimation    *string               `json:"card_animation,omitempty"`
	Notifications    *NotificationSettings `json:"notifications,omitempty"`
}

// ToastState is the transient save-confirmation message
type ToastState struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// CustomerDetails are the checkout info-step fields
type CustomerDetails struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Region            string `json:"region"`
	City              string `json:"city"`
	Email             string `json:"email"`
	DeliveryCompanyID int64  `json:"delivery_company_id"`
}

// SavedDetails are customer details persisted between checkouts when the
// customer opts in
type SavedDetails struct {
	CustomerDetails
	Remember bool `json:"remember"`
}

// Checkout steps, strictly forward-only
const (
	StepInfo         = "info"
	StepPayment      = "payment"
	StepConfirmation = "confirmation"
)

// Order statuses
const (
	OrderStatusConfirmed = "CONFIRMED"
)

// ConfirmedOrder is an immutable snapshot of cart, pricing and customer
// data taken at the moment checkout is finalized
type ConfirmedOrder struct {
	OrderID         int64           `json:"order_id"`
	Customer        CustomerDetails `json:"customer"`
	Items           []CartItem      `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Shipping        int64           `json:"shipping"`
	DeliveryFee     int64           `json:"delivery_fee"`
	Total           int64           `json:"total"`
	DeliveryCompany string          `json:"delivery_company"`
	ConfirmedAt     time.Time       `json:"confirmed_at"`
}
