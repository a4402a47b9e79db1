package service

import (
	"errors"
	"time"

	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Metadata marker distinguishing registrant-unlock checkouts from ticket
// checkouts on the shared webhook.
const UnlockPurpose = "registrants_unlock"

// PaymentService is the reconciliation core: it moves registrations (and
// unlocks) from pending to paid off either the redirect callback or the
// webhook, whichever lands first. Both paths funnel into the same
// conditional updates, so running them redundantly is harmless.
type PaymentService struct {
	gateway    CheckoutGateway
	regRepo    *repository.RegistrationRepository
	unlockRepo *repository.EventUnlockRepository
	logger     *zap.Logger
}

func NewPaymentService(
	gateway CheckoutGateway,
	regRepo *repository.RegistrationRepository,
	unlockRepo *repository.EventUnlockRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:    gateway,
		regRepo:    regRepo,
		unlockRepo: unlockRepo,
		logger:     logger,
	}
}

// ConfirmRegistration is the redirect-callback trigger: the registrant came
// back with a session id, so ask the gateway whether it was actually paid.
// The stored amount is replaced with the gateway's captured total.
func (s *PaymentService) ConfirmRegistration(sessionID string) error {
	status, err := s.gateway.RetrieveSession(sessionID)
	if err != nil {
		s.logger.Warn("checkout session retrieval failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return ErrPaymentNotVerified
	}
	if !status.Paid() {
		return ErrPaymentNotVerified
	}

	amount := status.AmountTotal
	rows, err := s.regRepo.MarkPaid(sessionID, &amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Zero rows means either the webhook already settled it, or the
		// session id is not a registration's at all. Only the former is a
		// success for the caller.
		if _, err := s.regRepo.GetBySessionID(sessionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotVerified
			}
			return err
		}
		s.logger.Info("registration already settled",
			zap.String("session_id", sessionID),
		)
	}
	return nil
}

// HandleCheckoutCompleted is the webhook trigger. Unknown session ids are
// acknowledged without side effects: the gateway retries on error statuses
// and there is nothing to retry here.
func (s *PaymentService) HandleCheckoutCompleted(status *payment.SessionStatus) error {
	if status.Metadata["purpose"] == UnlockPurpose {
		rows, err := s.unlockRepo.Confirm(status.ID, status.PaymentIntentID, time.Now())
		if err != nil {
			return err
		}
		s.logger.Info("unlock webhook processed",
			zap.String("session_id", status.ID),
			zap.Int64("rows", rows),
		)
		return nil
	}

	rows, err := s.regRepo.MarkPaid(status.ID, nil)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.logger.Info("webhook for unknown or settled session",
			zap.String("session_id", status.ID),
		)
	}
	return nil
}

// ConfirmUnlock is the redirect-callback trigger for the registrant-unlock
// purchase, same shape as ConfirmRegistration.
func (s *PaymentService) ConfirmUnlock(eventID, userID uint, sessionID string) error {
	status, err := s.gateway.RetrieveSession(sessionID)
	if err != nil {
		s.logger.Warn("unlock session retrieval failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return ErrPaymentNotVerified
	}
	if !status.Paid() {
		return ErrPaymentNotVerified
	}

	unlock, err := s.unlockRepo.GetByEventAndUser(eventID, userID)
	if err != nil || unlock.StripeSessionID != sessionID {
		return ErrPaymentNotVerified
	}

	if _, err := s.unlockRepo.Confirm(sessionID, status.PaymentIntentID, time.Now()); err != nil {
		return err
	}
	return nil
}
