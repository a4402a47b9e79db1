package models

import (
	"time"
)

const (
	RegistrationStatusPending = "pending"
	RegistrationStatusFree    = "free"
	RegistrationStatusPaid    = "paid"
)

// Registration is one attendee record for an event. The composite unique
// indexes back the duplicate check in the service, so two concurrent
// submissions for the same email (or user) cannot both land.
type Registration struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	EventID         uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_registrations_event_email;uniqueIndex:idx_registrations_event_user"`
	UserID          *uint     `json:"user_id,omitempty" gorm:"uniqueIndex:idx_registrations_event_user"`
	Name            string    `json:"name" gorm:"not null"`
	Email           string    `json:"email" gorm:"not null;uniqueIndex:idx_registrations_event_email"`
	Mobile          string    `json:"mobile"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"`
	Amount          int64     `json:"amount_pence" gorm:"not null;default:0"` // minor units
	Quantity        int       `json:"quantity" gorm:"not null;default:1"`
	PartyAdults     int       `json:"party_adults" gorm:"not null;default:0"`
	PartyChildren   int       `json:"party_children" gorm:"not null;default:0"`
	StripeSessionID string    `json:"stripe_session_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Sessions []EventSession `json:"sessions,omitempty" gorm:"many2many:registration_sessions"`
}

type RegistrationRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Mobile     string `json:"mobile" validate:"max=30"`
	SessionIDs []uint `json:"session_ids" validate:"required,min=1"`

	// Paid events only.
	Quantity int `json:"quantity" validate:"omitempty,min=1,max=10"`

	// Free events only.
	PartyAdults   int `json:"party_adults" validate:"omitempty,min=0,max=20"`
	PartyChildren int `json:"party_children" validate:"omitempty,min=0,max=20"`
}

const (
	RegistrationResultRegistered = "registered"
	RegistrationResultCheckout   = "checkout"
)

type RegistrationResult struct {
	Status         string `json:"status"` // registered | checkout
	RegistrationID uint   `json:"registration_id"`
	CheckoutURL    string `json:"checkout_url,omitempty"`
}

type BulkEmailRequest struct {
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required,max=10000"`
}

type RegistrantListResponse struct {
	Registrants []Registration   `json:"registrants"`
	Earnings    *EarningsSummary `json:"earnings,omitempty"`
}
