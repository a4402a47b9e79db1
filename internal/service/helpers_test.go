package service

import (
	"errors"
	"fmt"
	"html/template"
	"testing"
	"time"

	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SocialAccount{},
		&models.Event{},
		&models.EventSession{},
		&models.Registration{},
		&models.EventUnlock{},
		&models.EventPayout{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppURL:       "http://localhost:3000",
		Currency:     "gbp",
		UnlockAmount: 900,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FullName: "Test Organizer",
		Email:    email,
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, ownerID uint, ticketCost int64) *models.Event {
	t.Helper()
	event := &models.Event{
		UserID:     ownerID,
		Name:       "Test Event",
		Category:   "music",
		TicketCost: ticketCost,
		Sessions: []models.EventSession{
			{Name: "Day 1", StartsAt: time.Now().Add(48 * time.Hour)},
			{Name: "Day 2", StartsAt: time.Now().Add(72 * time.Hour)},
		},
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// stubGateway satisfies CheckoutGateway without talking to Stripe.
type stubGateway struct {
	createErr error
	sessions  map[string]*payment.SessionStatus
	created   []payment.CheckoutParams
}

func newStubGateway() *stubGateway {
	return &stubGateway{sessions: make(map[string]*payment.SessionStatus)}
}

func (g *stubGateway) CreateCheckoutSession(p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, p)
	id := fmt.Sprintf("cs_test_%d", len(g.created))
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (g *stubGateway) RetrieveSession(id string) (*payment.SessionStatus, error) {
	status, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return status, nil
}

type sentEmail struct {
	kind    string
	to      string
	subject string
	body    template.HTML
}

// stubMailer satisfies Mailer and records every send.
type stubMailer struct {
	failAll bool
	sent    []sentEmail
}

func (m *stubMailer) SendRegistrationConfirmed(to, name, eventName string) error {
	if m.failAll {
		return errors.New("mailer down")
	}
	m.sent = append(m.sent, sentEmail{kind: "confirmation", to: to})
	return nil
}

func (m *stubMailer) SendOrganizerNotification(to, eventName, registrantName, registrantEmail string) error {
	if m.failAll {
		return errors.New("mailer down")
	}
	m.sent = append(m.sent, sentEmail{kind: "organizer", to: to})
	return nil
}

func (m *stubMailer) SendRegistrantMessage(to, eventName, subject string, body template.HTML) error {
	if m.failAll {
		return errors.New("mailer down")
	}
	m.sent = append(m.sent, sentEmail{kind: "bulk", to: to, subject: subject, body: body})
	return nil
}

func (m *stubMailer) sentOfKind(kind string) []sentEmail {
	var out []sentEmail
	for _, e := range m.sent {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}
