package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown checkout session ids
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrInvalidTransition is returned when a step is requested out of
	// order; the flow is strictly info -> payment -> confirmation
	ErrInvalidTransition = errors.New("invalid checkout step transition")
)

var (
	phonePattern = regexp.MustCompile(`^0[5-7][0-9]{8}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// FieldErrors maps field names to validation messages. All failing
// fields are reported at once.
type FieldErrors map[string]string

// DetailsStore persists remember-me customer details between checkouts
type DetailsStore interface {
	SaveCheckoutDetails(ctx context.Context, owner string, details models.SavedDetails) error
	LoadCheckoutDetails(ctx context.Context, owner string) (*models.SavedDetails, error)
	ClearCheckoutDetails(ctx context.Context, owner string) error
}

// OrderArchiver persists confirmed order snapshots
type OrderArchiver interface {
	SaveOrder(ctx context.Context, order *models.ConfirmedOrder) error
}

// OrderPublisher publishes order lifecycle events
type OrderPublisher interface {
	PublishOrderConfirmed(ctx context.Context, order models.ConfirmedOrder) error
}

// checkoutSessionTTL bounds how long an untouched session is kept.
// Sessions live in process memory, so idle ones must not pile up.
const checkoutSessionTTL = 2 * time.Hour

type checkoutSession struct {
	id        string
	owner     string
	step      string
	customer  models.CustomerDetails
	remember  bool
	confirmed *models.ConfirmedOrder
	touched   time.Time
}

// SessionView is the externally visible state of a checkout session
type SessionView struct {
	ID       string                 `json:"id"`
	Step     string                 `json:"step"`
	Customer models.CustomerDetails `json:"customer"`
	Remember bool                   `json:"remember"`
}

// CheckoutService runs the staged checkout flow over the shared cart
// and settings stores
type CheckoutService struct {
	cart     *store.CartStore
	settings *store.SettingsStore
	details  DetailsStore
	archive  OrderArchiver
	events   OrderPublisher
	logger   *zap.Logger

	mu         sync.Mutex
	sessions   map[string]*checkoutSession
	sessionTTL time.Duration
}

// NewCheckoutService creates a new checkout service. Archive and events
// may be nil; confirmation then skips persistence and publishing.
func NewCheckoutService(
	cart *store.CartStore,
	settings *store.SettingsStore,
	details DetailsStore,
	archive OrderArchiver,
	events OrderPublisher,
) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		settings:   settings,
		details:    details,
		archive:    archive,
		events:     events,
		logger:     util.GetLogger(),
		sessions:   make(map[string]*checkoutSession),
		sessionTTL: checkoutSessionTTL,
	}
}

// StartSession opens a checkout session in the info step. The owner key
// identifies the returning customer for saved details; an empty owner
// gets a fresh one. Saved details, when present and opted in, prefill
// the customer fields.
func (s *CheckoutService) StartSession(ctx context.Context, owner string) (SessionView, error) {
	if owner == "" {
		owner = uuid.New().String()
	}

	session := &checkoutSession{
		id:       uuid.New().String(),
		owner:    owner,
		step:     models.StepInfo,
		remember: true,
	}

	if s.details != nil {
		saved, err := s.details.LoadCheckoutDetails(ctx, owner)
		if err != nil {
			// Storage trouble degrades to an empty form
			s.logger.Warn("Failed to load saved checkout details", zap.Error(err))
		} else if saved != nil {
			session.remember = saved.Remember
			if saved.Remember {
				session.customer = saved.CustomerDetails
			}
		}
	}

	s.mu.Lock()
	session.touched = time.Now()
	s.evictExpired(session.touched)
	s.sessions[session.id] = session
	s.mu.Unlock()

	return s.viewOf(session), nil
}

// evictExpired drops sessions idle past the TTL, confirmed snapshots
// included. Caller must hold s.mu.
func (s *CheckoutService) evictExpired(now time.Time) {
	for id, session := range s.sessions {
		if now.Sub(session.touched) > s.sessionTTL {
			delete(s.sessions, id)
		}
	}
}

// lookup finds a session and refreshes its idle clock. Caller must
// hold s.mu.
func (s *CheckoutService) lookup(sessionID string) (*checkoutSession, bool) {
	session, ok := s.sessions[sessionID]
	if ok {
		session.touched = time.Now()
	}
	return session, ok
}

// Session returns the current state of a checkout session
func (s *CheckoutService) Session(sessionID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.lookup(sessionID)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return s.viewOf(session), nil
}

func (s *CheckoutService) viewOf(session *checkoutSession) SessionView {
	return SessionView{
		ID:       session.id,
		Step:     session.step,
		Customer: session.customer,
		Remember: session.remember,
	}
}

// Owner returns the owner key of a session, for handing back to the
// caller as its saved-details identity
func (s *CheckoutService) Owner(sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.lookup(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}
	return session.owner, nil
}

// ValidateDetails checks the customer info-step fields and reports
// every failing field
func ValidateDetails(details models.CustomerDetails) FieldErrors {
	errs := FieldErrors{}

	if details.Name == "" {
		errs["name"] = "name is required"
	}
	if !phonePattern.MatchString(details.Phone) {
		errs["phone"] = "phone must be a 10-digit mobile number starting with 05, 06 or 07"
	}
	if details.Region == "" {
		errs["region"] = "region is required"
	}
	if details.City == "" {
		errs["city"] = "city is required"
	}
	if details.DeliveryCompanyID == 0 {
		errs["delivery_company"] = "delivery company is required"
	}
	if details.Email != "" && !emailPattern.MatchString(details.Email) {
		errs["email"] = "email format is invalid"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SubmitDetails advances info -> payment when the customer details
// validate. On failure the session stays in info and all field errors
// are returned. Advancing writes or clears the saved details according
// to the remember flag.
func (s *CheckoutService) SubmitDetails(ctx context.Context, sessionID string, details models.CustomerDetails, remember bool) (FieldErrors, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.SubmitDetails")
	defer span.End()

	s.mu.Lock()
	session, ok := s.lookup(sessionID)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.step != models.StepInfo {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	s.mu.Unlock()

	if errs := ValidateDetails(details); errs != nil {
		for field := range errs {
			util.CheckoutValidationFailures.WithLabelValues(field).Inc()
		}
		return errs, nil
	}

	if s.details != nil {
		if remember {
			err := s.details.SaveCheckoutDetails(ctx, session.owner, models.SavedDetails{
				CustomerDetails: details,
				Remember:        true,
			})
			if err != nil {
				s.logger.Warn("Failed to save checkout details", zap.Error(err))
			}
		} else if err := s.details.ClearCheckoutDetails(ctx, session.owner); err != nil {
			s.logger.Warn("Failed to clear checkout details", zap.Error(err))
		}
	}

	s.mu.Lock()
	session.customer = details
	session.remember = remember
	session.step = models.StepPayment
	s.mu.Unlock()

	return nil, nil
}

// Quote prices the session's checkout from the current cart subtotal
// and the customer's region and delivery company selections
func (s *CheckoutService) Quote(sessionID string) (pricing.Breakdown, error) {
	s.mu.Lock()
	session, ok := s.lookup(sessionID)
	if !ok {
		s.mu.Unlock()
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	customer := session.customer
	s.mu.Unlock()

	settings := s.settings.Settings()
	return pricing.Quote(
		s.cart.Subtotal(),
		customer.Region,
		settings.DeliveryCompanies,
		customer.DeliveryCompanyID,
	), nil
}

// ConfirmOrder advances payment -> confirmation unconditionally,
// snapshotting cart, pricing and customer data into an immutable
// ConfirmedOrder. Later cart mutations never change it. The snapshot is
// archived and an OrderConfirmed event is published; neither failure
// undoes the confirmation.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, sessionID string) (models.ConfirmedOrder, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.ConfirmOrder")
	defer span.End()

	s.mu.Lock()
	session, ok := s.lookup(sessionID)
	if !ok {
		s.mu.Unlock()
		return models.ConfirmedOrder{}, ErrSessionNotFound
	}
	if session.step != models.StepPayment {
		s.mu.Unlock()
		return models.ConfirmedOrder{}, ErrInvalidTransition
	}
	customer := session.customer
	s.mu.Unlock()

	// Snapshot once; subtotal is computed from the same item copies so
	// a concurrent cart mutation cannot skew the totals
	items := s.cart.Items()
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}

	settings := s.settings.Settings()
	quote := pricing.Quote(subtotal, customer.Region, settings.DeliveryCompanies, customer.DeliveryCompanyID)

	companyName := "N/A"
	if company, ok := s.settings.DeliveryCompany(customer.DeliveryCompanyID); ok {
		companyName = company.Name
	}

	order := models.ConfirmedOrder{
		Customer:        customer,
		Items:           items,
		Subtotal:        quote.Subtotal,
		Shipping:        quote.Shipping,
		DeliveryFee:     quote.DeliveryFee,
		Total:           quote.Total,
		DeliveryCompany: companyName,
		ConfirmedAt:     time.Now(),
	}

	if s.archive != nil {
		if err := s.archive.SaveOrder(ctx, &order); err != nil {
			// Confirmation stands; the archive write is reported, not fatal
			util.OrderArchiveFailures.Inc()
			s.logger.Error("Failed to archive confirmed order", zap.Error(err))
		} else {
			util.OrdersArchivedTotal.Inc()
		}
	}

	if s.events != nil {
		if err := s.events.PublishOrderConfirmed(ctx, order); err != nil {
			s.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
		}
	}

	s.mu.Lock()
	session.step = models.StepConfirmation
	session.confirmed = &order
	s.mu.Unlock()

	util.OrdersConfirmedTotal.Inc()
	s.logger.Info("Order confirmed",
		zap.Int64("order_id", order.OrderID),
		zap.Int64("total", order.Total))

	return cloneOrder(order), nil
}

// ConfirmedOrder returns the session's confirmed order snapshot
func (s *CheckoutService) ConfirmedOrder(sessionID string) (models.ConfirmedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.lookup(sessionID)
	if !ok {
		return models.ConfirmedOrder{}, ErrSessionNotFound
	}
	if session.confirmed == nil {
		return models.ConfirmedOrder{}, ErrInvalidTransition
	}
	return cloneOrder(*session.confirmed), nil
}

// cloneOrder deep-copies an order so callers can never reach the stored
// snapshot
func cloneOrder(order models.ConfirmedOrder) models.ConfirmedOrder {
	cp := order
	cp.Items = make([]models.CartItem, len(order.Items))
	for i, item := range order.Items {
		cp.Items[i] = models.CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return cp
}
