package service

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrNotEventOwner      = errors.New("you don't have permission to manage this event")
	ErrNoValidSessions    = errors.New("please select at least one valid session for this event")
	ErrAlreadyRegistered  = errors.New("you are already registered for this event")
	ErrPaymentNotVerified = errors.New("could not verify payment")
	ErrUnlockRequired     = errors.New("unlock registrant details for this free event")
	ErrUnlockNotNeeded    = errors.New("registrants for paid events are always visible")
	ErrAlreadyUnlocked    = errors.New("registrants already unlocked")
	ErrNoRegistrants      = errors.New("no registrants with an email address")
	ErrFreeEventPayout    = errors.New("free events have no ticket revenue to pay out")
	ErrNothingToPayOut    = errors.New("nothing to pay out yet")
	ErrPayoutInFlight     = errors.New("a payout for this event is already being processed")
	ErrCaptchaFailed      = errors.New("captcha verification failed")
)
