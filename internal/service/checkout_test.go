package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetails struct {
	saved map[string]models.SavedDetails
}

func newFakeDetails() *fakeDetails {
	return &fakeDetails{saved: make(map[string]models.SavedDetails)}
}

func (f *fakeDetails) SaveCheckoutDetails(_ context.Context, owner string, d models.SavedDetails) error {
	f.saved[owner] = d
	return nil
}

func (f *fakeDetails) LoadCheckoutDetails(_ context.Context, owner string) (*models.SavedDetails, error) {
	if d, ok := f.saved[owner]; ok {
		return &d, nil
	}
	return nil, nil
}

func (f *fakeDetails) ClearCheckoutDetails(_ context.Context, owner string) error {
	delete(f.saved, owner)
	return nil
}

type fakeArchive struct {
	orders []models.ConfirmedOrder
	fail   bool
}

func (f *fakeArchive) SaveOrder(_ context.Context, order *models.ConfirmedOrder) error {
	if f.fail {
		return errors.New("archive down")
	}
	order.OrderID = int64(len(f.orders) + 1)
	f.orders = append(f.orders, *order)
	return nil
}

type fakePublisher struct {
	events []models.ConfirmedOrder
}

func (f *fakePublisher) PublishOrderConfirmed(_ context.Context, order models.ConfirmedOrder) error {
	f.events = append(f.events, order)
	return nil
}

func validDetails(companyID int64) models.CustomerDetails {
	return models.CustomerDetails{
		Name:              "Amine B",
		Phone:             "0551234567",
		Region:            "تيبازة",
		City:              "Kolea",
		DeliveryCompanyID: companyID,
	}
}

func newCheckoutFixture(t *testing.T) (*CheckoutService, *store.CartStore, *store.SettingsStore, *fakeArchive, *fakePublisher, int64) {
	t.Helper()

	settings := store.NewSettingsStore(models.AppSettings{StoreName: "Test Store"})
	t.Cleanup(settings.Close)
	company := settings.AddDeliveryCompany("Express", 200)

	cart := store.NewCartStore()
	archive := &fakeArchive{}
	publisher := &fakePublisher{}

	svc := NewCheckoutService(cart, settings, newFakeDetails(), archive, publisher)
	return svc, cart, settings, archive, publisher, company.ID
}

func TestValidateDetails(t *testing.T) {
	errs := ValidateDetails(models.CustomerDetails{})
	// Every failing field is reported at once
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "region")
	assert.Contains(t, errs, "city")
	assert.Contains(t, errs, "delivery_company")
	assert.NotContains(t, errs, "email", "empty email is allowed")

	assert.Nil(t, ValidateDetails(validDetails(1)))
}

func TestValidateDetailsPhonePattern(t *testing.T) {
	valid := []string{"0551234567", "0661234567", "0771234567"}
	invalid := []string{"0123456789", "0851234567", "055123456", "05512345678", "5551234567", ""}

	for _, phone := range valid {
		d := validDetails(1)
		d.Phone = phone
		assert.Nil(t, ValidateDetails(d), "phone %q should be valid", phone)
	}
	for _, phone := range invalid {
		d := validDetails(1)
		d.Phone = phone
		assert.Contains(t, ValidateDetails(d), "phone", "phone %q should be invalid", phone)
	}
}

func TestValidateDetailsEmailOptionalButChecked(t *testing.T) {
	d := validDetails(1)
	d.Email = "not-an-email"
	assert.Contains(t, ValidateDetails(d), "email")

	d.Email = "a@b.com"
	assert.Nil(t, ValidateDetails(d))
}

func TestSubmitDetailsRejectsInvalidAndStaysInInfo(t *testing.T) {
	svc, _, _, _, _, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, models.StepInfo, session.Step)

	bad := validDetails(companyID)
	bad.Phone = "0123456789"
	errs, err := svc.SubmitDetails(ctx, session.ID, bad, true)
	require.NoError(t, err)
	assert.Contains(t, errs, "phone")

	view, _ := svc.Session(session.ID)
	assert.Equal(t, models.StepInfo, view.Step)
}

func TestSubmitDetailsAdvancesToPayment(t *testing.T) {
	svc, _, _, _, _, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "")

	errs, err := svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)
	assert.Nil(t, errs)

	view, _ := svc.Session(session.ID)
	assert.Equal(t, models.StepPayment, view.Step)
}

func TestCheckoutFlowIsForwardOnly(t *testing.T) {
	svc, _, _, _, _, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "")

	// Cannot confirm from info
	_, err := svc.ConfirmOrder(ctx, session.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)

	// Cannot resubmit details from payment
	_, err = svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ConfirmOrder(ctx, session.ID)
	require.NoError(t, err)

	// Cannot confirm twice
	_, err = svc.ConfirmOrder(ctx, session.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestQuoteRecomputesFromInputs(t *testing.T) {
	svc, cart, _, _, _, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	cart.AddToCart(models.Product{ID: 1, Name: "Sneakers", Price: 12000})

	session, _ := svc.StartSession(ctx, "")
	_, err := svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)

	q, err := svc.Quote(session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), q.Subtotal)
	assert.Equal(t, int64(300), q.Shipping)
	assert.Equal(t, int64(200), q.DeliveryFee)
	assert.Equal(t, int64(12500), q.Total)

	// Quote follows cart changes until confirmation
	cart.AddToCart(models.Product{ID: 2, Name: "Watch", Price: 1000})
	q, _ = svc.Quote(session.ID)
	assert.Equal(t, int64(13500), q.Total)
}

func TestConfirmOrderSnapshot(t *testing.T) {
	svc, cart, _, archive, publisher, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	cart.AddToCart(models.Product{ID: 1, Name: "Sneakers", Price: 12000})

	session, _ := svc.StartSession(ctx, "")
	_, err := svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)

	order, err := svc.ConfirmOrder(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(12000), order.Subtotal)
	assert.Equal(t, int64(300), order.Shipping)
	assert.Equal(t, int64(200), order.DeliveryFee)
	assert.Equal(t, int64(12500), order.Total)
	assert.Equal(t, "Express", order.DeliveryCompany)
	require.Len(t, order.Items, 1)

	require.Len(t, archive.orders, 1)
	require.Len(t, publisher.events, 1)
	assert.NotZero(t, order.OrderID)
}

func TestConfirmedOrderImmutableAfterCartMutation(t *testing.T) {
	svc, cart, _, _, _, companyID := newCheckoutFixture(t)
	ctx := context.Background()

	cart.AddToCart(models.Product{ID: 1, Name: "Sneakers", Price: 12000})

	session, _ := svc.StartSession(ctx, "")
	_, err := svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)

	confirmed, err := svc.ConfirmOrder(ctx, session.ID)
	require.NoError(t, err)

	// Mutate the cart after confirmation
	cart.AddToCart(models.Product{ID: 2, Name: "Watch", Price: 99999})
	cart.RemoveFromCart(1)

	got, err := svc.ConfirmedOrder(session.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.Total, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Sneakers", got.Items[0].Name)

	// Mutating the returned copy does not touch the stored snapshot
	got.Items[0].Name = "tampered"
	again, _ := svc.ConfirmedOrder(session.ID)
	assert.Equal(t, "Sneakers", again.Items[0].Name)
}

func TestConfirmOrderSurvivesArchiveFailure(t *testing.T) {
	svc, cart, _, archive, _, companyID := newCheckoutFixture(t)
	archive.fail = true
	ctx := context.Background()

	cart.AddToCart(models.Product{ID: 1, Name: "Sneakers", Price: 12000})

	session, _ := svc.StartSession(ctx, "")
	_, err := svc.SubmitDetails(ctx, session.ID, validDetails(companyID), true)
	require.NoError(t, err)

	order, err := svc.ConfirmOrder(ctx, session.ID)
	require.NoError(t, err, "archive trouble must not abort confirmation")
	assert.Zero(t, order.OrderID)

	view, _ := svc.Session(session.ID)
	assert.Equal(t, models.StepConfirmation, view.Step)
}

func TestSavedDetailsRoundTrip(t *testing.T) {
	settings := store.NewSettingsStore(models.AppSettings{})
	defer settings.Close()
	company := settings.AddDeliveryCompany("Express", 200)

	details := newFakeDetails()
	svc := NewCheckoutService(store.NewCartStore(), settings, details, nil, nil)
	ctx := context.Background()

	first, _ := svc.StartSession(ctx, "device-1")
	_, err := svc.SubmitDetails(ctx, first.ID, validDetails(company.ID), true)
	require.NoError(t, err)

	// A later session for the same owner is prefilled
	second, err := svc.StartSession(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, "Amine B", second.Customer.Name)
	assert.True(t, second.Remember)
}

func TestSavedDetailsClearedOnOptOut(t *testing.T) {
	settings := store.NewSettingsStore(models.AppSettings{})
	defer settings.Close()
	company := settings.AddDeliveryCompany("Express", 200)

	details := newFakeDetails()
	svc := NewCheckoutService(store.NewCartStore(), settings, details, nil, nil)
	ctx := context.Background()

	first, _ := svc.StartSession(ctx, "device-1")
	_, err := svc.SubmitDetails(ctx, first.ID, validDetails(company.ID), true)
	require.NoError(t, err)
	require.Contains(t, details.saved, "device-1")

	second, _ := svc.StartSession(ctx, "device-1")
	_, err = svc.SubmitDetails(ctx, second.ID, validDetails(company.ID), false)
	require.NoError(t, err)
	assert.NotContains(t, details.saved, "device-1")

	third, _ := svc.StartSession(ctx, "device-1")
	assert.Empty(t, third.Customer.Name)
}

func TestUnknownSession(t *testing.T) {
	svc, _, _, _, _, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := svc.Session("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SubmitDetails(ctx, "nope", validDetails(1), true)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.ConfirmOrder(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Quote("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIdleSessionsEvicted(t *testing.T) {
	svc, _, _, _, _, _ := newCheckoutFixture(t)
	ctx := context.Background()

	stale, err := svc.StartSession(ctx, "device-1")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.sessions[stale.ID].touched = time.Now().Add(-svc.sessionTTL - time.Minute)
	svc.mu.Unlock()

	// Starting a session sweeps anything idle past the TTL
	fresh, err := svc.StartSession(ctx, "device-2")
	require.NoError(t, err)

	_, err = svc.Session(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Session(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionAccessRefreshesIdleClock(t *testing.T) {
	svc, _, _, _, _, _ := newCheckoutFixture(t)
	ctx := context.Background()

	active, err := svc.StartSession(ctx, "device-1")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.sessions[active.ID].touched = time.Now().Add(-svc.sessionTTL + time.Minute)
	svc.mu.Unlock()

	// Reading the session counts as activity
	_, err = svc.Session(active.ID)
	require.NoError(t, err)

	svc.mu.Lock()
	svc.evictExpired(time.Now())
	svc.mu.Unlock()

	_, err = svc.Session(active.ID)
	assert.NoError(t, err)
}
