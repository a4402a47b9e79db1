package service

import (
	"testing"
	"time"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB, gateway *stubGateway) *PaymentService {
	return NewPaymentService(
		gateway,
		repository.NewRegistrationRepository(db),
		repository.NewEventUnlockRepository(db),
		zap.NewNop(),
	)
}

func pendingRegistration(t *testing.T, db *gorm.DB, eventID uint, sessionID string) *models.Registration {
	t.Helper()
	reg := &models.Registration{
		EventID:         eventID,
		Name:            "Pending Pete",
		Email:           "pete@example.com",
		Status:          models.RegistrationStatusPending,
		Amount:          1000,
		Quantity:        1,
		StripeSessionID: sessionID,
	}
	require.NoError(t, db.Create(reg).Error)
	return reg
}

func TestConfirmRegistration(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 1000)
	reg := pendingRegistration(t, db, event.ID, "cs_abc")

	gateway := newStubGateway()
	gateway.sessions["cs_abc"] = &payment.SessionStatus{
		ID:            "cs_abc",
		PaymentStatus: payment.PaymentStatusPaid,
		AmountTotal:   1100, // gateway total wins over the stored amount
	}
	svc := newPaymentService(db, gateway)

	require.NoError(t, svc.ConfirmRegistration("cs_abc"))

	var got models.Registration
	require.NoError(t, db.First(&got, reg.ID).Error)
	assert.Equal(t, models.RegistrationStatusPaid, got.Status)
	assert.Equal(t, int64(1100), got.Amount)
}

func TestConfirmRegistrationIdempotent(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 1000)
	pendingRegistration(t, db, event.ID, "cs_abc")

	gateway := newStubGateway()
	gateway.sessions["cs_abc"] = &payment.SessionStatus{
		ID:            "cs_abc",
		PaymentStatus: payment.PaymentStatusPaid,
		AmountTotal:   1000,
	}
	svc := newPaymentService(db, gateway)

	require.NoError(t, svc.ConfirmRegistration("cs_abc"))
	// Second trigger (redirect after webhook, or a reload) stays a no-op.
	require.NoError(t, svc.ConfirmRegistration("cs_abc"))
}

func TestConfirmRegistrationUnpaidSession(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 1000)
	reg := pendingRegistration(t, db, event.ID, "cs_abc")

	gateway := newStubGateway()
	gateway.sessions["cs_abc"] = &payment.SessionStatus{
		ID:            "cs_abc",
		PaymentStatus: "unpaid",
	}
	svc := newPaymentService(db, gateway)

	assert.ErrorIs(t, svc.ConfirmRegistration("cs_abc"), ErrPaymentNotVerified)

	var got models.Registration
	require.NoError(t, db.First(&got, reg.ID).Error)
	assert.Equal(t, models.RegistrationStatusPending, got.Status)
}

func TestConfirmRegistrationUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, newStubGateway())
	assert.ErrorIs(t, svc.ConfirmRegistration("cs_missing"), ErrPaymentNotVerified)
}

func TestConfirmRegistrationSessionWithoutRegistration(t *testing.T) {
	db := newTestDB(t)

	// The gateway vouches for the session, but no registration carries it
	// (an unlock session id pasted into the result URL, say). That must not
	// read as a confirmed ticket.
	gateway := newStubGateway()
	gateway.sessions["cs_unlock"] = &payment.SessionStatus{
		ID:            "cs_unlock",
		PaymentStatus: payment.PaymentStatusPaid,
		AmountTotal:   900,
	}
	svc := newPaymentService(db, gateway)

	assert.ErrorIs(t, svc.ConfirmRegistration("cs_unlock"), ErrPaymentNotVerified)
}

func TestWebhookMarksRegistrationPaid(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 1000)
	reg := pendingRegistration(t, db, event.ID, "cs_abc")

	svc := newPaymentService(db, newStubGateway())

	err := svc.HandleCheckoutCompleted(&payment.SessionStatus{
		ID:            "cs_abc",
		PaymentStatus: payment.PaymentStatusPaid,
	})
	require.NoError(t, err)

	var got models.Registration
	require.NoError(t, db.First(&got, reg.ID).Error)
	assert.Equal(t, models.RegistrationStatusPaid, got.Status)
	// The webhook path leaves the stored amount alone.
	assert.Equal(t, int64(1000), got.Amount)
}

func TestWebhookUnknownSessionIsAcknowledged(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, newStubGateway())

	err := svc.HandleCheckoutCompleted(&payment.SessionStatus{
		ID:            "cs_nobody_knows",
		PaymentStatus: payment.PaymentStatusPaid,
	})
	assert.NoError(t, err)
}

func TestWebhookConfirmsUnlock(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	unlock := &models.EventUnlock{
		EventID:         event.ID,
		UserID:          organizer.ID,
		StripeSessionID: "cs_unlock",
		Amount:          900,
		Currency:        "gbp",
	}
	require.NoError(t, db.Create(unlock).Error)

	svc := newPaymentService(db, newStubGateway())

	err := svc.HandleCheckoutCompleted(&payment.SessionStatus{
		ID:              "cs_unlock",
		PaymentStatus:   payment.PaymentStatusPaid,
		PaymentIntentID: "pi_123",
		Metadata:        map[string]string{"purpose": UnlockPurpose},
	})
	require.NoError(t, err)

	var got models.EventUnlock
	require.NoError(t, db.First(&got, unlock.ID).Error)
	assert.True(t, got.IsUnlocked())
	assert.Equal(t, "pi_123", got.StripePaymentIntentID)
}

func TestConfirmUnlock(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	unlock := &models.EventUnlock{
		EventID:         event.ID,
		UserID:          organizer.ID,
		StripeSessionID: "cs_unlock",
		Amount:          900,
		Currency:        "gbp",
	}
	require.NoError(t, db.Create(unlock).Error)

	gateway := newStubGateway()
	gateway.sessions["cs_unlock"] = &payment.SessionStatus{
		ID:            "cs_unlock",
		PaymentStatus: payment.PaymentStatusPaid,
	}
	svc := newPaymentService(db, gateway)

	require.NoError(t, svc.ConfirmUnlock(event.ID, organizer.ID, "cs_unlock"))

	var got models.EventUnlock
	require.NoError(t, db.First(&got, unlock.ID).Error)
	assert.True(t, got.IsUnlocked())
}

func TestConfirmUnlockRejectsForeignSession(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	require.NoError(t, db.Create(&models.EventUnlock{
		EventID:         event.ID,
		UserID:          organizer.ID,
		StripeSessionID: "cs_unlock",
		Amount:          900,
		Currency:        "gbp",
	}).Error)

	gateway := newStubGateway()
	gateway.sessions["cs_other"] = &payment.SessionStatus{
		ID:            "cs_other",
		PaymentStatus: payment.PaymentStatusPaid,
	}
	svc := newPaymentService(db, gateway)

	// Paid session, but it is not the one recorded for this unlock.
	assert.ErrorIs(t, svc.ConfirmUnlock(event.ID, organizer.ID, "cs_other"), ErrPaymentNotVerified)
}

func TestConfirmUnlockIdempotent(t *testing.T) {
	db := newTestDB(t)
	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, organizer.ID, 0)

	now := time.Now()
	require.NoError(t, db.Create(&models.EventUnlock{
		EventID:         event.ID,
		UserID:          organizer.ID,
		StripeSessionID: "cs_unlock",
		Amount:          900,
		Currency:        "gbp",
		UnlockedAt:      &now,
	}).Error)

	gateway := newStubGateway()
	gateway.sessions["cs_unlock"] = &payment.SessionStatus{
		ID:            "cs_unlock",
		PaymentStatus: payment.PaymentStatusPaid,
	}
	svc := newPaymentService(db, gateway)

	assert.NoError(t, svc.ConfirmUnlock(event.ID, organizer.ID, "cs_unlock"))
}
