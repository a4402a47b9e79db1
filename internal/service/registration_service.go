package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistrationService struct {
	regRepo   *repository.RegistrationRepository
	eventRepo *repository.EventRepository
	userRepo  *repository.UserRepository
	gateway   CheckoutGateway
	mailer    Mailer
	cfg       *config.Config
	logger    *zap.Logger
}

func NewRegistrationService(
	regRepo *repository.RegistrationRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	gateway CheckoutGateway,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Register handles a registration submission. Free events are finalized on
// the spot; paid events get a pending registration plus a checkout session
// to redirect the registrant to.
func (s *RegistrationService) Register(eventID uint, userID *uint, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	// Only sessions that belong to this event count.
	validSessions, err := s.eventRepo.GetSessionsByIDs(eventID, req.SessionIDs)
	if err != nil {
		return nil, err
	}
	if len(validSessions) == 0 {
		return nil, ErrNoValidSessions
	}

	already, err := s.regRepo.ExistsForEvent(eventID, req.Email, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyRegistered
	}

	isPaid := event.IsPaid()

	quantity := 1
	partyAdults := 0
	partyChildren := 0
	if isPaid {
		if req.Quantity > 0 {
			quantity = req.Quantity
		}
	} else {
		partyAdults = req.PartyAdults
		partyChildren = req.PartyChildren
	}

	registration := &models.Registration{
		EventID:       eventID,
		UserID:        userID,
		Name:          req.Name,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Status:        models.RegistrationStatusFree,
		Amount:        0,
		Quantity:      quantity,
		PartyAdults:   partyAdults,
		PartyChildren: partyChildren,
		Sessions:      validSessions,
	}
	if isPaid {
		registration.Status = models.RegistrationStatusPending
		registration.Amount = event.TicketCost * int64(quantity)
	}

	if err := s.regRepo.Create(registration); err != nil {
		// The unique indexes close the window the ExistsForEvent check
		// leaves open under concurrent submissions.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	s.notifyOrganizer(event, registration)

	if !isPaid {
		if err := s.mailer.SendRegistrationConfirmed(registration.Email, registration.Name, event.Name); err != nil {
			s.logger.Warn("confirmation email failed",
				zap.Uint("registration_id", registration.ID),
				zap.Error(err),
			)
		}
		return &models.RegistrationResult{
			Status:         models.RegistrationResultRegistered,
			RegistrationID: registration.ID,
		}, nil
	}

	checkout, err := s.createRegistrationCheckout(event, registration, validSessions, userID)
	if err != nil {
		return nil, err
	}

	if err := s.regRepo.SetStripeSessionID(registration.ID, checkout.ID); err != nil {
		return nil, err
	}

	return &models.RegistrationResult{
		Status:         models.RegistrationResultCheckout,
		RegistrationID: registration.ID,
		CheckoutURL:    checkout.URL,
	}, nil
}

func (s *RegistrationService) createRegistrationCheckout(
	event *models.Event,
	registration *models.Registration,
	sessions []models.EventSession,
	userID *uint,
) (*payment.CheckoutSession, error) {
	sessionIDs := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		sessionIDs = append(sessionIDs, strconv.FormatUint(uint64(sess.ID), 10))
	}

	metadata := map[string]string{
		"event_id":        strconv.FormatUint(uint64(event.ID), 10),
		"registration_id": strconv.FormatUint(uint64(registration.ID), 10),
		"session_ids":     strings.Join(sessionIDs, ","),
		"email":           registration.Email,
		"name":            registration.Name,
		"quantity":        strconv.Itoa(registration.Quantity),
	}
	if userID != nil {
		metadata["user_id"] = strconv.FormatUint(uint64(*userID), 10)
	}

	resultBase := fmt.Sprintf("%s/events/%d/register/result", s.cfg.AppURL, event.ID)

	return s.gateway.CreateCheckoutSession(payment.CheckoutParams{
		CustomerEmail: registration.Email,
		ProductName:   event.Name,
		Currency:      s.cfg.Currency,
		UnitAmount:    event.TicketCost,
		Quantity:      int64(registration.Quantity),
		SuccessURL:    resultBase + "?paid=1&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     resultBase + "?canceled=1",
		Metadata:      metadata,
	})
}

func (s *RegistrationService) notifyOrganizer(event *models.Event, registration *models.Registration) {
	owner, err := s.userRepo.GetByID(event.UserID)
	if err != nil {
		s.logger.Warn("organizer lookup failed",
			zap.Uint("event_id", event.ID),
			zap.Error(err),
		)
		return
	}
	if err := s.mailer.SendOrganizerNotification(owner.Email, event.Name, registration.Name, registration.Email); err != nil {
		s.logger.Warn("organizer notification failed",
			zap.Uint("event_id", event.ID),
			zap.Error(err),
		)
	}
}
