package repository

import (
	"time"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventUnlockRepository struct {
	db *gorm.DB
}

func NewEventUnlockRepository(db *gorm.DB) *EventUnlockRepository {
	return &EventUnlockRepository{db: db}
}

func (r *EventUnlockRepository) GetByEventAndUser(eventID, userID uint) (*models.EventUnlock, error) {
	var unlock models.EventUnlock
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&unlock).Error
	if err != nil {
		return nil, err
	}
	return &unlock, nil
}

// IsUnlocked reports whether the organizer holds a confirmed unlock for the
// event.
func (r *EventUnlockRepository) IsUnlocked(eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventUnlock{}).
		Where("event_id = ? AND user_id = ? AND unlocked_at IS NOT NULL", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// Upsert writes the pending unlock row for (event, user), replacing the
// checkout session reference if a new checkout was started.
func (r *EventUnlockRepository) Upsert(unlock *models.EventUnlock) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_session_id", "amount", "currency", "updated_at",
		}),
	}).Create(unlock).Error
}

// Confirm sets unlocked_at for the session's unlock row if it is not set
// yet. Safe to call from both the redirect callback and the webhook.
func (r *EventUnlockRepository) Confirm(sessionID, paymentIntentID string, at time.Time) (int64, error) {
	result := r.db.Model(&models.EventUnlock{}).
		Where("stripe_session_id = ? AND unlocked_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"unlocked_at":              at,
			"stripe_payment_intent_id": paymentIntentID,
		})
	return result.RowsAffected, result.Error
}
