package service

import (
	"html/template"

	"github.com/sefazor/ticketgate-backend/pkg/payment"
)

// CheckoutGateway is the slice of the payment provider the services use:
// open a checkout session, ask what happened to one. Implemented by
// payment.StripeService; tests substitute a stub.
type CheckoutGateway interface {
	CreateCheckoutSession(p payment.CheckoutParams) (*payment.CheckoutSession, error)
	RetrieveSession(id string) (*payment.SessionStatus, error)
}

// Mailer covers the outbound email the registration and registrant flows
// send. Implemented by email.EmailService.
type Mailer interface {
	SendRegistrationConfirmed(to, name, eventName string) error
	SendOrganizerNotification(to, eventName, registrantName, registrantEmail string) error
	SendRegistrantMessage(to, eventName, subject string, body template.HTML) error
}
