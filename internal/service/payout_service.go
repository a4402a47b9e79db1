package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PayoutService struct {
	payoutRepo *repository.EventPayoutRepository
	regRepo    *repository.RegistrationRepository
	eventRepo  *repository.EventRepository
	cfg        *config.Config
	logger     *zap.Logger
}

func NewPayoutService(
	payoutRepo *repository.EventPayoutRepository,
	regRepo *repository.RegistrationRepository,
	eventRepo *repository.EventRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		payoutRepo: payoutRepo,
		regRepo:    regRepo,
		eventRepo:  eventRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

// RequestPayout creates a processing payout for the event's current net
// earnings. Allowed only for paid events with something to pay out and no
// payout already in flight; the partial unique index backs the in-flight
// check against concurrent requests.
func (s *PayoutService) RequestPayout(eventID, userID uint) (*models.EventPayout, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrNotEventOwner
	}
	if !event.IsPaid() {
		return nil, ErrFreeEventPayout
	}

	registrations, err := s.regRepo.GetEventRegistrations(eventID)
	if err != nil {
		return nil, err
	}

	summary := SummarizeEarnings(event, registrations, s.cfg.Currency)
	if summary.Net <= 0 {
		return nil, ErrNothingToPayOut
	}

	processing, err := s.payoutRepo.HasProcessing(eventID)
	if err != nil {
		return nil, err
	}
	if processing {
		return nil, ErrPayoutInFlight
	}

	payout := &models.EventPayout{
		EventID:    eventID,
		UserID:     userID,
		Reference:  uuid.NewString(),
		Gross:      summary.Gross,
		Commission: summary.Commission,
		Net:        summary.Net,
		Currency:   summary.Currency,
		Status:     models.PayoutStatusProcessing,
	}

	if err := s.payoutRepo.Create(payout); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPayoutInFlight
		}
		return nil, err
	}

	s.logger.Info("payout requested",
		zap.Uint("event_id", eventID),
		zap.String("reference", payout.Reference),
		zap.Int64("net_pence", payout.Net),
	)

	return payout, nil
}

func (s *PayoutService) GetUserPayouts(userID uint) ([]models.EventPayout, error) {
	return s.payoutRepo.GetUserPayouts(userID)
}
