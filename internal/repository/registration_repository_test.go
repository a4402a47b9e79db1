package repository

import (
	"testing"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testRegistration(eventID uint, email string, userID *uint) *models.Registration {
	return &models.Registration{
		EventID:  eventID,
		UserID:   userID,
		Name:     "Test",
		Email:    email,
		Status:   models.RegistrationStatusFree,
		Quantity: 1,
	}
}

func TestRegistrationUniqueEmailPerEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	require.NoError(t, repo.Create(testRegistration(1, "a@example.com", nil)))

	// Same email on the same event hits the unique index.
	err := repo.Create(testRegistration(1, "a@example.com", nil))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Same email on another event is fine.
	assert.NoError(t, repo.Create(testRegistration(2, "a@example.com", nil)))
}

func TestRegistrationUniqueUserPerEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	userID := uint(7)
	require.NoError(t, repo.Create(testRegistration(1, "first@example.com", &userID)))

	err := repo.Create(testRegistration(1, "second@example.com", &userID))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Anonymous registrations carry a NULL user id, which never collides.
	require.NoError(t, repo.Create(testRegistration(1, "anon1@example.com", nil)))
	require.NoError(t, repo.Create(testRegistration(1, "anon2@example.com", nil)))
}

func TestExistsForEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	userID := uint(7)
	require.NoError(t, repo.Create(testRegistration(1, "a@example.com", &userID)))

	exists, err := repo.ExistsForEvent(1, "a@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	// Different email but same user still counts.
	exists, err = repo.ExistsForEvent(1, "other@example.com", &userID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForEvent(1, "other@example.com", nil)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsForEvent(2, "a@example.com", &userID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMarkPaidFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	reg := testRegistration(1, "a@example.com", nil)
	reg.Status = models.RegistrationStatusPending
	require.NoError(t, repo.Create(reg))
	require.NoError(t, repo.SetStripeSessionID(reg.ID, "cs_123"))

	amount := int64(1234)
	rows, err := repo.MarkPaid("cs_123", &amount)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPaid, got.Status)
	assert.Equal(t, int64(1234), got.Amount)

	// The second trigger changes nothing, including the amount.
	other := int64(9999)
	rows, err = repo.MarkPaid("cs_123", &other)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err = repo.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), got.Amount)
}

func TestMarkPaidUnknownSession(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	rows, err := repo.MarkPaid("cs_unknown", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestEmailsForEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistrationRepository(db)

	require.NoError(t, repo.Create(testRegistration(1, "a@example.com", nil)))
	require.NoError(t, repo.Create(testRegistration(1, "b@example.com", nil)))
	require.NoError(t, repo.Create(testRegistration(2, "c@example.com", nil)))

	emails, err := repo.EmailsForEvent(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, emails)
}
