package service

import (
	"testing"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRegistrationService(db *gorm.DB, gateway *stubGateway, mailer *stubMailer) *RegistrationService {
	return NewRegistrationService(
		repository.NewRegistrationRepository(db),
		repository.NewEventRepository(db),
		repository.NewUserRepository(db),
		gateway,
		mailer,
		testConfig(),
		zap.NewNop(),
	)
}

func TestRegisterFreeEvent(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	gateway := newStubGateway()
	mailer := &stubMailer{}
	svc := newRegistrationService(db, gateway, mailer)

	result, err := svc.Register(event.ID, nil, models.RegistrationRequest{
		Name:          "Alice",
		Email:         "alice@example.com",
		SessionIDs:    []uint{event.Sessions[0].ID},
		PartyAdults:   2,
		PartyChildren: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationResultRegistered, result.Status)
	assert.Empty(t, result.CheckoutURL)
	assert.Empty(t, gateway.created)

	var reg models.Registration
	require.NoError(t, db.Preload("Sessions").First(&reg, result.RegistrationID).Error)
	assert.Equal(t, models.RegistrationStatusFree, reg.Status)
	assert.Equal(t, int64(0), reg.Amount)
	assert.Equal(t, 2, reg.PartyAdults)
	assert.Equal(t, 1, reg.PartyChildren)
	assert.Len(t, reg.Sessions, 1)

	// Registrant confirmation plus organizer notification.
	require.Len(t, mailer.sentOfKind("confirmation"), 1)
	assert.Equal(t, "alice@example.com", mailer.sentOfKind("confirmation")[0].to)
	require.Len(t, mailer.sentOfKind("organizer"), 1)
	assert.Equal(t, "organizer@example.com", mailer.sentOfKind("organizer")[0].to)
}

func TestRegisterPaidEventOpensCheckout(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 1000)

	gateway := newStubGateway()
	mailer := &stubMailer{}
	svc := newRegistrationService(db, gateway, mailer)

	result, err := svc.Register(event.ID, nil, models.RegistrationRequest{
		Name:       "Bob",
		Email:      "bob@example.com",
		SessionIDs: []uint{event.Sessions[0].ID, event.Sessions[1].ID},
		Quantity:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationResultCheckout, result.Status)
	assert.NotEmpty(t, result.CheckoutURL)

	var reg models.Registration
	require.NoError(t, db.First(&reg, result.RegistrationID).Error)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	assert.Equal(t, int64(2000), reg.Amount)
	assert.Equal(t, 2, reg.Quantity)
	assert.Equal(t, "cs_test_1", reg.StripeSessionID)

	require.Len(t, gateway.created, 1)
	params := gateway.created[0]
	assert.Equal(t, int64(1000), params.UnitAmount)
	assert.Equal(t, int64(2), params.Quantity)
	assert.Equal(t, "bob@example.com", params.CustomerEmail)
	assert.Contains(t, params.SuccessURL, "paid=1")
	assert.Contains(t, params.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Contains(t, params.CancelURL, "canceled=1")

	// No confirmation email until the payment settles.
	assert.Empty(t, mailer.sentOfKind("confirmation"))
}

func TestRegisterRejectsForeignSessions(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)
	other := createTestEvent(t, db, organizer.ID, 0)

	svc := newRegistrationService(db, newStubGateway(), &stubMailer{})

	_, err := svc.Register(event.ID, nil, models.RegistrationRequest{
		Name:       "Carol",
		Email:      "carol@example.com",
		SessionIDs: []uint{other.Sessions[0].ID},
	})
	assert.ErrorIs(t, err, ErrNoValidSessions)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	svc := newRegistrationService(db, newStubGateway(), &stubMailer{})

	req := models.RegistrationRequest{
		Name:       "Dave",
		Email:      "dave@example.com",
		SessionIDs: []uint{event.Sessions[0].ID},
	}
	_, err := svc.Register(event.ID, nil, req)
	require.NoError(t, err)

	_, err = svc.Register(event.ID, nil, req)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterDuplicateUser(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	attendee := createTestUser(t, db, "attendee@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	svc := newRegistrationService(db, newStubGateway(), &stubMailer{})

	_, err := svc.Register(event.ID, &attendee.ID, models.RegistrationRequest{
		Name:       "Eve",
		Email:      "first@example.com",
		SessionIDs: []uint{event.Sessions[0].ID},
	})
	require.NoError(t, err)

	// Same account, different email: still one registration per user.
	_, err = svc.Register(event.ID, &attendee.ID, models.RegistrationRequest{
		Name:       "Eve",
		Email:      "second@example.com",
		SessionIDs: []uint{event.Sessions[0].ID},
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	svc := newRegistrationService(db, newStubGateway(), &stubMailer{})

	_, err := svc.Register(999, nil, models.RegistrationRequest{
		Name:       "Frank",
		Email:      "frank@example.com",
		SessionIDs: []uint{1},
	})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterFreeEventSurvivesMailerOutage(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	svc := newRegistrationService(db, newStubGateway(), &stubMailer{failAll: true})

	result, err := svc.Register(event.ID, nil, models.RegistrationRequest{
		Name:       "Grace",
		Email:      "grace@example.com",
		SessionIDs: []uint{event.Sessions[0].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationResultRegistered, result.Status)
}
