package repository

import (
	"time"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"gorm.io/gorm"
)

const (
	featuredPerPage = 8
	listingPerPage  = 12
)

const (
	futureSessionExists = "EXISTS (SELECT 1 FROM event_sessions s WHERE s.event_id = events.id AND s.starts_at >= ?)"
	pastSessionExists   = "EXISTS (SELECT 1 FROM event_sessions s WHERE s.event_id = events.id AND s.starts_at < ?)"
	firstSessionExpr    = "(SELECT MIN(starts_at) FROM event_sessions s WHERE s.event_id = events.id)"
	lastSessionExpr     = "(SELECT MAX(starts_at) FROM event_sessions s WHERE s.event_id = events.id)"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists the event together with its sessions in one transaction.
func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Sessions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("starts_at ASC")
	}).First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete removes the event and everything hanging off it.
func (r *EventRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM registration_sessions WHERE event_session_id IN (SELECT id FROM event_sessions WHERE event_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventUnlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

// GetSessionsByIDs returns only the sessions from ids that actually belong
// to the event; anything else is silently dropped.
func (r *EventRepository) GetSessionsByIDs(eventID uint, ids []uint) ([]models.EventSession, error) {
	var sessions []models.EventSession
	if len(ids) == 0 {
		return sessions, nil
	}
	err := r.db.Where("event_id = ? AND id IN ?", eventID, ids).
		Order("starts_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *EventRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Event{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// GetUserEventsWithStats backs the organizer dashboard: the user's events
// plus registration counts and whether registrant details are unlocked.
func (r *EventRepository) GetUserEventsWithStats(userID uint) ([]models.DashboardEvent, error) {
	var events []models.Event
	err := r.db.Where("user_id = ?", userID).
		Preload("Sessions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("starts_at ASC")
		}).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []models.DashboardEvent{}, nil
	}

	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	type regCount struct {
		EventID uint
		Cnt     int64
	}
	var counts []regCount
	err = r.db.Model(&models.Registration{}).
		Select("event_id, COUNT(*) AS cnt").
		Where("event_id IN ?", ids).
		Group("event_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByEvent := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByEvent[c.EventID] = c.Cnt
	}

	var unlockedIDs []uint
	err = r.db.Model(&models.EventUnlock{}).
		Where("event_id IN ? AND user_id = ? AND unlocked_at IS NOT NULL", ids, userID).
		Pluck("event_id", &unlockedIDs).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	dashboard := make([]models.DashboardEvent, 0, len(events))
	for _, e := range events {
		dashboard = append(dashboard, models.DashboardEvent{
			Event:             e,
			RegistrationCount: countByEvent[e.ID],
			Unlocked:          unlocked[e.ID],
		})
	}
	return dashboard, nil
}

// PublicList builds the three public listing groups: featured (promoted or
// free, with a future session), upcoming (future session, not featured) and
// past (only past sessions). Search and filters apply to all groups.
func (r *EventRepository) PublicList(q models.EventListQuery, now time.Time) (*models.EventListResponse, error) {
	categories, err := r.Categories()
	if err != nil {
		return nil, err
	}

	var featuredIDs []uint
	err = r.filtered(q).
		Where("(is_promoted = ? OR ticket_cost = 0)", true).
		Where(futureSessionExists, now).
		Pluck("events.id", &featuredIDs).Error
	if err != nil {
		return nil, err
	}

	featured, err := r.pageOf(
		r.filtered(q).Where("events.id IN ?", idsOrZero(featuredIDs)),
		firstSessionExpr+" ASC",
		q.FeaturedPage, featuredPerPage,
	)
	if err != nil {
		return nil, err
	}

	upcomingQuery := r.filtered(q).Where(futureSessionExists, now)
	if len(featuredIDs) > 0 {
		upcomingQuery = upcomingQuery.Where("events.id NOT IN ?", featuredIDs)
	}
	upcoming, err := r.pageOf(upcomingQuery, firstSessionExpr+" ASC", q.UpcomingPage, listingPerPage)
	if err != nil {
		return nil, err
	}

	past, err := r.pageOf(
		r.filtered(q).
			Where("NOT "+futureSessionExists, now).
			Where(pastSessionExists, now),
		lastSessionExpr+" DESC",
		q.PastPage, listingPerPage,
	)
	if err != nil {
		return nil, err
	}

	return &models.EventListResponse{
		Categories: categories,
		Featured:   featured,
		Upcoming:   upcoming,
		Past:       past,
	}, nil
}

func (r *EventRepository) filtered(q models.EventListQuery) *gorm.DB {
	db := r.db.Model(&models.Event{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where(
			"(name LIKE ? OR organizer LIKE ? OR location LIKE ? OR category LIKE ? OR description LIKE ? OR tags LIKE ?)",
			like, like, like, like, like, like,
		)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	switch q.Price {
	case models.PriceFilterFree:
		db = db.Where("ticket_cost = 0")
	case models.PriceFilterPaid:
		db = db.Where("ticket_cost > 0")
	}
	if q.StartDate != nil {
		db = db.Where(futureSessionExists, *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("EXISTS (SELECT 1 FROM event_sessions s WHERE s.event_id = events.id AND s.starts_at <= ?)", *q.EndDate)
	}

	return db
}

func (r *EventRepository) pageOf(query *gorm.DB, orderExpr string, page, perPage int) (models.EventPage, error) {
	if page < 1 {
		page = 1
	}

	result := models.EventPage{
		Items:   []models.Event{},
		Page:    page,
		PerPage: perPage,
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	err := query.
		Order(orderExpr).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("Sessions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("starts_at ASC")
		}).
		Find(&result.Items).Error
	return result, err
}

// idsOrZero keeps "IN ?" valid when the id list is empty.
func idsOrZero(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
