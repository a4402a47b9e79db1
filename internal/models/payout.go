package models

import (
	"time"
)

const (
	PayoutStatusProcessing = "processing"
	PayoutStatusPaid       = "paid"
)

// EventPayout is one payout request. The partial unique index keeps at most
// one processing payout per event, whatever the application-level check saw.
type EventPayout struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"event_id" gorm:"not null;index:idx_payouts_event_processing,unique,where:status = 'processing'"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Reference  string    `json:"reference" gorm:"uniqueIndex;not null"`
	Gross      int64     `json:"gross_pence" gorm:"not null"`
	Commission int64     `json:"commission_pence" gorm:"not null"`
	Net        int64     `json:"net_pence" gorm:"not null"`
	Currency   string    `json:"currency" gorm:"not null;default:'gbp'"`
	Status     string    `json:"status" gorm:"not null;default:'processing'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type EarningsSummary struct {
	Gross               int64  `json:"gross_pence"`
	Commission          int64  `json:"commission_pence"`
	Net                 int64  `json:"net_pence"`
	Currency            string `json:"currency"`
	HasProcessingPayout bool   `json:"has_processing_payout"`
}
