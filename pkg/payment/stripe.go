package payment

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

// PaymentStatusPaid is Stripe's payment_status value for a captured session.
const PaymentStatusPaid = "paid"

type CheckoutParams struct {
	CustomerEmail string
	ProductName   string
	Description   string
	Currency      string
	UnitAmount    int64 // minor units
	Quantity      int64
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the slice of a checkout session the reconciliation flow
// cares about. AmountTotal is in minor units, as Stripe reports it.
type SessionStatus struct {
	ID              string
	PaymentStatus   string
	AmountTotal     int64
	PaymentIntentID string
	Metadata        map[string]string
}

func (s *SessionStatus) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

type StripeService struct {
	secretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey: secretKey,
	}
}

// CreateCheckoutSession opens a one-off payment session with an inline
// price, so no product has to be pre-registered on the Stripe side.
func (s *StripeService) CreateCheckoutSession(p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(p.UnitAmount),
				},
				Quantity: stripe.Int64(p.Quantity),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}

	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	if p.Description != "" {
		params.LineItems[0].PriceData.ProductData.Description = stripe.String(p.Description)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// RetrieveSession fetches the current payment state of a checkout session,
// used by the redirect-callback side of reconciliation.
func (s *StripeService) RetrieveSession(id string) (*SessionStatus, error) {
	sess, err := session.Get(id, nil)
	if err != nil {
		return nil, err
	}
	return SessionStatusFrom(sess), nil
}

// SessionStatusFrom maps a Stripe checkout session onto the internal status
// type. Shared by RetrieveSession and the webhook handler.
func SessionStatusFrom(sess *stripe.CheckoutSession) *SessionStatus {
	st := &SessionStatus{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		st.PaymentIntentID = sess.PaymentIntent.ID
	}
	return st
}
