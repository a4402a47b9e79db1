package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testPayout(eventID, userID uint, status string) *models.EventPayout {
	return &models.EventPayout{
		EventID:    eventID,
		UserID:     userID,
		Reference:  uuid.NewString(),
		Gross:      2000,
		Commission: 400,
		Net:        1600,
		Currency:   "gbp",
		Status:     status,
	}
}

func TestOneProcessingPayoutPerEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventPayoutRepository(db)

	require.NoError(t, repo.Create(testPayout(1, 1, models.PayoutStatusProcessing)))

	// The partial unique index blocks a second processing payout even if the
	// application-level check was raced past.
	err := repo.Create(testPayout(1, 1, models.PayoutStatusProcessing))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// A settled payout does not block a new one.
	require.NoError(t, db.Model(&models.EventPayout{}).
		Where("event_id = ?", 1).
		Update("status", models.PayoutStatusPaid).Error)
	assert.NoError(t, repo.Create(testPayout(1, 1, models.PayoutStatusProcessing)))

	// Other events are unaffected.
	assert.NoError(t, repo.Create(testPayout(2, 1, models.PayoutStatusProcessing)))
}

func TestHasProcessing(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventPayoutRepository(db)

	processing, err := repo.HasProcessing(1)
	require.NoError(t, err)
	assert.False(t, processing)

	require.NoError(t, repo.Create(testPayout(1, 1, models.PayoutStatusProcessing)))

	processing, err = repo.HasProcessing(1)
	require.NoError(t, err)
	assert.True(t, processing)
}

func TestGetUserPayouts(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventPayoutRepository(db)

	require.NoError(t, repo.Create(testPayout(1, 1, models.PayoutStatusProcessing)))
	require.NoError(t, repo.Create(testPayout(2, 2, models.PayoutStatusProcessing)))

	payouts, err := repo.GetUserPayouts(1)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, uint(1), payouts[0].EventID)
}
