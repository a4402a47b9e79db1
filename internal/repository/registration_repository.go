package repository

import (
	"github.com/sefazor/ticketgate-backend/internal/models"
	"gorm.io/gorm"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create persists the registration and its session links as one unit; a
// failure on the join rows rolls the registration back too.
func (r *RegistrationRepository) Create(registration *models.Registration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(registration).Error
	})
}

// ExistsForEvent reports whether the event already has a registration for
// this email, or for this user when one is logged in.
func (r *RegistrationRepository) ExistsForEvent(eventID uint, email string, userID *uint) (bool, error) {
	query := r.db.Model(&models.Registration{}).Where("event_id = ?", eventID)
	if userID != nil {
		query = query.Where("email = ? OR user_id = ?", email, *userID)
	} else {
		query = query.Where("email = ?", email)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *RegistrationRepository) GetByID(id uint) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.First(&registration, id).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationRepository) GetBySessionID(sessionID string) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.Where("stripe_session_id = ?", sessionID).First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationRepository) SetStripeSessionID(id uint, sessionID string) error {
	return r.db.Model(&models.Registration{}).
		Where("id = ?", id).
		Update("stripe_session_id", sessionID).Error
}

// MarkPaid flips a registration to paid, first writer wins: the guard on
// status makes a second call (webhook after redirect, or vice versa) a
// no-op. When amount is non-nil the gateway's captured total replaces the
// stored amount. Returns the number of rows changed; 0 means the session id
// is unknown or the registration was already paid.
func (r *RegistrationRepository) MarkPaid(sessionID string, amount *int64) (int64, error) {
	updates := map[string]interface{}{
		"status": models.RegistrationStatusPaid,
	}
	if amount != nil {
		updates["amount"] = *amount
	}

	result := r.db.Model(&models.Registration{}).
		Where("stripe_session_id = ? AND status <> ?", sessionID, models.RegistrationStatusPaid).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *RegistrationRepository) GetEventRegistrations(eventID uint) ([]models.Registration, error) {
	var registrations []models.Registration
	err := r.db.Where("event_id = ?", eventID).
		Preload("Sessions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("starts_at ASC")
		}).
		Order("created_at DESC").
		Find(&registrations).Error
	return registrations, err
}

// EmailsForEvent returns the deduplicated, non-empty registrant addresses
// for bulk mailing.
func (r *RegistrationRepository) EmailsForEvent(eventID uint) ([]string, error) {
	var emails []string
	err := r.db.Model(&models.Registration{}).
		Where("event_id = ? AND email <> ''", eventID).
		Distinct("email").
		Pluck("email", &emails).Error
	return emails, err
}

func (r *RegistrationRepository) CountByEventID(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
