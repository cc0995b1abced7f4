package store

import (
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

const toastDuration = 4 * time.Second

// SettingsStore holds the single mutable store configuration record and
// the transient toast message. Constructed once at startup and passed by
// reference to every consumer.
type SettingsStore struct {
	mu         sync.RWMutex
	settings   models.AppSettings
	toast      models.ToastState
	toastTimer *time.Timer
	toastGen   uint64
	toastTTL   time.Duration
}

// NewSettingsStore creates the settings store seeded with defaults
func NewSettingsStore(defaults models.AppSettings) *SettingsStore {
	return &SettingsStore{
		settings: defaults,
		toastTTL: toastDuration,
	}
}

// DefaultSettings returns the out-of-the-box store configuration
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		StoreName:        "Platinum Store",
		HeroTitle:        "Platinum quality, modern style",
		Logo:             "https://via.placeholder.com/150?text=Logo",
		HeroColor:        "#ffffff",
		HeroFont:         "'Tajawal', sans-serif",
		HeroSize:         "4rem",
		BgImage:          "https://picsum.photos/1920/1080?grayscale&blur=3",
		BgColor:          "#0f172a",
		HeroAnimation:    "slide",
		LogoAnimation:    "none",
		CardBgColor:      "#ffffff",
		CardTextColor:    "#1e293b",
		CardBorderRadius: "1.5rem",
		CardShadow:       "0 10px 15px -3px rgb(0 0 0 / 0.1)",
		BgOverlayColor:   "#000000",
		BgOverlayOpacity: 0.3,
		CardAnimation:    "fade",
		DeliveryCompanies: []models.DeliveryCompany{
			{ID: 1, Name: "Yalidine Express", Fee: 200},
			{ID: 2, Name: "Other", Fee: 250},
		},
		Notifications: models.NotificationSettings{
			Method:      models.NotifyNone,
			Destination: "",
		},
	}
}

// Settings returns a copy of the current configuration
func (s *SettingsStore) Settings() models.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySettings()
}

func (s *SettingsStore) copySettings() models.AppSettings {
	cp := s.settings
	cp.DeliveryCompanies = append([]models.DeliveryCompany(nil), s.settings.DeliveryCompanies...)
	return cp
}

// UpdateSettings merges set fields of the patch into the settings record,
// leaving nil fields untouched. Notifications is replaced wholesale when
// present; no field validation happens here, callers own constraints.
func (s *SettingsStore) UpdateSettings(patch models.SettingsPatch) models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.StoreName != nil {
		s.settings.StoreName = *patch.StoreName
	}
	if patch.HeroTitle != nil {
		s.settings.HeroTitle = *patch.HeroTitle
	}
	if patch.Logo != nil {
		s.settings.Logo = *patch.Logo
	}
	if patch.HeroColor != nil {
		s.settings.HeroColor = *patch.HeroColor
	}
	if patch.HeroFont != nil {
		s.settings.HeroFont = *patch.HeroFont
	}
	if patch.HeroSize != nil {
		s.settings.HeroSize = *patch.HeroSize
	}
	if patch.BgImage != nil {
		s.settings.BgImage = *patch.BgImage
	}
	if patch.BgColor != nil {
		s.settings.BgColor = *patch.BgColor
	}
	if patch.HeroAnimation != nil {
		s.settings.HeroAnimation = *patch.HeroAnimation
	}
	if patch.LogoAnimation != nil {
		s.settings.LogoAnimation = *patch.LogoAnimation
	}
	if patch.CardBgColor != nil {
		s.settings.CardBgColor = *patch.CardBgColor
	}
	if patch.CardTextColor != nil {
		s.settings.CardTextColor = *patch.CardTextColor
	}
	if patch.CardBorderRadius != nil {
		s.settings.CardBorderRadius = *patch.CardBorderRadius
	}
	if patch.CardShadow != nil {
		s.settings.CardShadow = *patch.CardShadow
	}
	if patch.BgOverlayColor != nil {
		s.settings.BgOverlayColor = *patch.BgOverlayColor
	}
	if patch.BgOverlayOpacity != nil {
		s.settings.BgOverlayOpacity = *patch.BgOverlayOpacity
	}
	if patch.CardAnimation != nil {
		s.settings.CardAnimation = *patch.CardAnimation
	}
	if patch.Notifications != nil {
		s.settings.Notifications = *patch.Notifications
	}

	return s.copySettings()
}

// AddDeliveryCompany appends a company with a freshly minted id
func (s *SettingsStore) AddDeliveryCompany(name string, fee int64) models.DeliveryCompany {
	s.mu.Lock()
	defer s.mu.Unlock()

	company := models.DeliveryCompany{ID: util.NextID(), Name: name, Fee: fee}
	s.settings.DeliveryCompanies = append(s.settings.DeliveryCompanies, company)
	return company
}

// UpdateDeliveryCompany replaces the entry matching the company id.
// No-op when the id is absent.
func (s *SettingsStore) UpdateDeliveryCompany(company models.DeliveryCompany) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.settings.DeliveryCompanies {
		if c.ID == company.ID {
			s.settings.DeliveryCompanies[i] = company
			return true
		}
	}
	return false
}

// DeleteDeliveryCompany removes the matching entry. No-op when absent.
func (s *SettingsStore) DeleteDeliveryCompany(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.settings.DeliveryCompanies {
		if c.ID == id {
			s.settings.DeliveryCompanies = append(
				s.settings.DeliveryCompanies[:i],
				s.settings.DeliveryCompanies[i+1:]...)
			return true
		}
	}
	return false
}

// DeliveryCompany looks up a company by id
func (s *SettingsStore) DeliveryCompany(id int64) (models.DeliveryCompany, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.settings.DeliveryCompanies {
		if c.ID == id {
			return c, true
		}
	}
	return models.DeliveryCompany{}, false
}

// ShowToast sets the toast visible and schedules dismissal. A new show
// cancels any pending dismissal first, so at most one timer is pending.
// The generation counter guards against a timer callback that already
// fired and is waiting on the lock when the toast is re-shown.
func (s *SettingsStore) ShowToast(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.toastTimer != nil {
		s.toastTimer.Stop()
	}
	s.toastGen++
	gen := s.toastGen
	s.toast = models.ToastState{Message: message, Visible: true}
	s.toastTimer = time.AfterFunc(s.toastTTL, func() { s.dismissToast(gen) })
}

func (s *SettingsStore) dismissToast(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer show superseded this timer while it was firing.
	if gen != s.toastGen {
		return
	}
	s.toast.Visible = false
	s.toastTimer = nil
}

// Toast returns the current toast state
func (s *SettingsStore) Toast() models.ToastState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toast
}

// Close stops any pending toast timer
func (s *SettingsStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toastTimer != nil {
		s.toastTimer.Stop()
		s.toastTimer = nil
	}
}
