package models

import (
	"time"
)

type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Organizer   string    `json:"organizer"`
	Category    string    `json:"category" gorm:"index"`
	Tags        []string  `json:"tags" gorm:"type:json;serializer:json"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	TicketCost  int64     `json:"ticket_cost_pence" gorm:"not null;default:0"` // minor units, 0 = free
	AvatarKey   string    `json:"avatar_key"`
	BannerKey   string    `json:"banner_key"`
	IsPromoted  bool      `json:"is_promoted" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Sessions []EventSession `json:"sessions,omitempty"`
}

// IsPaid reports whether registering for the event costs money.
func (e *Event) IsPaid() bool {
	return e.TicketCost > 0
}

type EventSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionInput struct {
	Name     string    `json:"name" validate:"required,max=255"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
}

type EventRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Organizer   string         `json:"organizer" validate:"max=255"`
	Category    string         `json:"category" validate:"max=100"`
	Tags        []string       `json:"tags" validate:"dive,max=50"`
	Location    string         `json:"location" validate:"max=255"`
	Description string         `json:"description"`
	TicketCost  float64        `json:"ticket_cost" validate:"min=0"` // major units (pounds)
	Sessions    []SessionInput `json:"sessions" validate:"required,min=1,dive"`
}

// Sessions are created with the event and have no edit path, so the
// update request carries event fields only.
type UpdateEventRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Organizer   string   `json:"organizer" validate:"max=255"`
	Category    string   `json:"category" validate:"max=100"`
	Tags        []string `json:"tags" validate:"dive,max=50"`
	Location    string   `json:"location" validate:"max=255"`
	Description string   `json:"description"`
	TicketCost  float64  `json:"ticket_cost" validate:"min=0"`
}

// Price filter values for the public listing.
const (
	PriceFilterAll  = "all"
	PriceFilterFree = "free"
	PriceFilterPaid = "paid"
)

type EventListQuery struct {
	Search    string
	Category  string
	Price     string // all | free | paid
	StartDate *time.Time
	EndDate   *time.Time

	FeaturedPage int
	UpcomingPage int
	PastPage     int
}

type EventPage struct {
	Items   []Event `json:"items"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Total   int64   `json:"total"`
}

type EventListResponse struct {
	Categories []string  `json:"categories"`
	Featured   EventPage `json:"featured"`
	Upcoming   EventPage `json:"upcoming"`
	Past       EventPage `json:"past"`
}

type DashboardEvent struct {
	Event             Event `json:"event"`
	RegistrationCount int64 `json:"registration_count"`
	Unlocked          bool  `json:"unlocked"`
}
