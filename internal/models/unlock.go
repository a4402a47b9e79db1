package models

import (
	"time"
)

// EventUnlock tracks the one-time payment that lets an organizer see
// registrant contact details for a free event. One row per (event, user);
// UnlockedAt is set only on confirmed payment.
type EventUnlock struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	EventID               uint       `json:"event_id" gorm:"not null;uniqueIndex:idx_unlocks_event_user"`
	UserID                uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_unlocks_event_user"`
	StripeSessionID       string     `json:"stripe_session_id" gorm:"index"`
	StripePaymentIntentID string     `json:"stripe_payment_intent_id"`
	Amount                int64      `json:"amount_pence" gorm:"not null"` // minor units
	Currency              string     `json:"currency" gorm:"not null;default:'gbp'"`
	UnlockedAt            *time.Time `json:"unlocked_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsUnlocked reports whether the payment behind this row was confirmed.
func (u *EventUnlock) IsUnlocked() bool {
	return u.UnlockedAt != nil
}
