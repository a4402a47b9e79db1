package repository

import (
	"github.com/sefazor/ticketgate-backend/internal/models"
	"gorm.io/gorm"
)

type EventPayoutRepository struct {
	db *gorm.DB
}

func NewEventPayoutRepository(db *gorm.DB) *EventPayoutRepository {
	return &EventPayoutRepository{db: db}
}

// Create inserts a payout request. The partial unique index on processing
// payouts makes this fail with gorm.ErrDuplicatedKey when one is already in
// flight for the event.
func (r *EventPayoutRepository) Create(payout *models.EventPayout) error {
	return r.db.Create(payout).Error
}

func (r *EventPayoutRepository) HasProcessing(eventID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventPayout{}).
		Where("event_id = ? AND status = ?", eventID, models.PayoutStatusProcessing).
		Count(&count).Error
	return count > 0, err
}

func (r *EventPayoutRepository) GetUserPayouts(userID uint) ([]models.EventPayout, error) {
	var payouts []models.EventPayout
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}
