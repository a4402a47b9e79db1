package service

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegistrantService gives organizers access to their registrants: the list
// itself (behind the unlock gate for free events), earnings figures, the
// unlock purchase, and bulk email.
type RegistrantService struct {
	regRepo    *repository.RegistrationRepository
	eventRepo  *repository.EventRepository
	unlockRepo *repository.EventUnlockRepository
	payoutRepo *repository.EventPayoutRepository
	gateway    CheckoutGateway
	mailer     Mailer
	cfg        *config.Config
	logger     *zap.Logger
}

func NewRegistrantService(
	regRepo *repository.RegistrationRepository,
	eventRepo *repository.EventRepository,
	unlockRepo *repository.EventUnlockRepository,
	payoutRepo *repository.EventPayoutRepository,
	gateway CheckoutGateway,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) *RegistrantService {
	return &RegistrantService{
		regRepo:    regRepo,
		eventRepo:  eventRepo,
		unlockRepo: unlockRepo,
		payoutRepo: payoutRepo,
		gateway:    gateway,
		mailer:     mailer,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *RegistrantService) ownedEvent(eventID, userID uint) (*models.Event, error) {
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
	return event, nil
}

// ListRegistrants returns the registrant list plus, for paid events, the
// earnings summary. Free events require a confirmed unlock first.
func (s *RegistrantService) ListRegistrants(eventID, userID uint) (*models.RegistrantListResponse, error) {
	event, err := s.ownedEvent(eventID, userID)
	if err != nil {
		return nil, err
	}

	if !event.IsPaid() {
		unlocked, err := s.unlockRepo.IsUnlocked(eventID, userID)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, ErrUnlockRequired
		}
	}

	registrations, err := s.regRepo.GetEventRegistrations(eventID)
	if err != nil {
		return nil, err
	}

	response := &models.RegistrantListResponse{
		Registrants: registrations,
	}

	if event.IsPaid() {
		summary := SummarizeEarnings(event, registrations, s.cfg.Currency)
		summary.HasProcessingPayout, err = s.payoutRepo.HasProcessing(eventID)
		if err != nil {
			return nil, err
		}
		response.Earnings = &summary
	}

	return response, nil
}

// UnlockCheckout opens the fixed-price checkout that unlocks registrant
// details for a free event, and upserts the pending unlock row.
func (s *RegistrantService) UnlockCheckout(eventID, userID uint) (*models.CheckoutSession, error) {
	event, err := s.ownedEvent(eventID, userID)
	if err != nil {
		return nil, err
	}
	if event.IsPaid() {
		return nil, ErrUnlockNotNeeded
	}

	unlock, err := s.unlockRepo.GetByEventAndUser(eventID, userID)
	if err == nil && unlock.IsUnlocked() {
		return nil, ErrAlreadyUnlocked
	}

	confirmBase := fmt.Sprintf("%s/events/%d/registrants/unlock", s.cfg.AppURL, event.ID)

	checkout, err := s.gateway.CreateCheckoutSession(payment.CheckoutParams{
		ProductName: "Unlock registrant details",
		Description: "One-time unlock for event: " + event.Name,
		Currency:    s.cfg.Currency,
		UnitAmount:  s.cfg.UnlockAmount,
		Quantity:    1,
		SuccessURL:  confirmBase + "/confirm?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   confirmBase,
		Metadata: map[string]string{
			"purpose":  UnlockPurpose,
			"event_id": strconv.FormatUint(uint64(event.ID), 10),
			"user_id":  strconv.FormatUint(uint64(userID), 10),
		},
	})
	if err != nil {
		return nil, err
	}

	err = s.unlockRepo.Upsert(&models.EventUnlock{
		EventID:         eventID,
		UserID:          userID,
		StripeSessionID: checkout.ID,
		Amount:          s.cfg.UnlockAmount,
		Currency:        s.cfg.Currency,
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckoutSession{
		ID:  checkout.ID,
		URL: checkout.URL,
	}, nil
}

// EmailRegistrants sends the organizer's message to every distinct
// registrant address, one email each so addresses are never exposed to each
// other. Returns the number of successful sends.
func (s *RegistrantService) EmailRegistrants(eventID, userID uint, req models.BulkEmailRequest) (int, error) {
	event, err := s.ownedEvent(eventID, userID)
	if err != nil {
		return 0, err
	}

	emails, err := s.regRepo.EmailsForEvent(eventID)
	if err != nil {
		return 0, err
	}
	if len(emails) == 0 {
		return 0, ErrNoRegistrants
	}

	// Plain text in, safe HTML out.
	body := template.HTML(strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>"))

	sent := 0
	for _, address := range emails {
		if err := s.mailer.SendRegistrantMessage(address, event.Name, req.Subject, body); err != nil {
			s.logger.Warn("bulk email send failed",
				zap.Uint("event_id", eventID),
				zap.String("to", address),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent, nil
}
