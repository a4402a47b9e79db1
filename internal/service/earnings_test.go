package service

import (
	"testing"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMajorToMinor(t *testing.T) {
	assert.Equal(t, int64(1000), MajorToMinor(10.00))
	assert.Equal(t, int64(999), MajorToMinor(9.99))
	assert.Equal(t, int64(1), MajorToMinor(0.01))
	assert.Equal(t, int64(0), MajorToMinor(0))
	// Float representation of 29.99 is slightly below; rounding must fix it.
	assert.Equal(t, int64(2999), MajorToMinor(29.99))
}

func TestCommissionMinor(t *testing.T) {
	assert.Equal(t, int64(400), CommissionMinor(2000))
	assert.Equal(t, int64(200), CommissionMinor(999)) // 199.8 rounds up
	assert.Equal(t, int64(0), CommissionMinor(0))
	assert.Equal(t, int64(1), CommissionMinor(3)) // 0.6 rounds up
	assert.Equal(t, int64(0), CommissionMinor(2)) // 0.4 rounds down
}

func TestNetMinor(t *testing.T) {
	assert.Equal(t, int64(1600), NetMinor(2000, 400))
	assert.Equal(t, int64(0), NetMinor(100, 150))
}

func TestCountsAsPaid(t *testing.T) {
	paidEvent := &models.Event{TicketCost: 1000}
	freeEvent := &models.Event{TicketCost: 0}

	assert.True(t, CountsAsPaid(paidEvent, &models.Registration{Status: models.RegistrationStatusPaid}))
	assert.True(t, CountsAsPaid(paidEvent, &models.Registration{
		Status:          models.RegistrationStatusPending,
		StripeSessionID: "cs_123",
	}))
	assert.False(t, CountsAsPaid(paidEvent, &models.Registration{Status: models.RegistrationStatusPending}))
	assert.False(t, CountsAsPaid(freeEvent, &models.Registration{Status: models.RegistrationStatusPaid}))
}

func TestSummarizeEarnings(t *testing.T) {
	event := &models.Event{TicketCost: 1000}
	regs := []models.Registration{
		{Status: models.RegistrationStatusPaid, Amount: 1000},
		{Status: models.RegistrationStatusPaid, Amount: 1000},
		{Status: models.RegistrationStatusPending}, // never paid, does not count
	}

	summary := SummarizeEarnings(event, regs, "gbp")
	assert.Equal(t, int64(2000), summary.Gross)
	assert.Equal(t, int64(400), summary.Commission)
	assert.Equal(t, int64(1600), summary.Net)
	assert.Equal(t, "gbp", summary.Currency)
}

func TestSummarizeEarningsAmountFallback(t *testing.T) {
	// A paid registration that never had its amount recorded falls back to
	// the event's ticket price.
	event := &models.Event{TicketCost: 1500}
	regs := []models.Registration{
		{Status: models.RegistrationStatusPaid, Amount: 0},
	}

	summary := SummarizeEarnings(event, regs, "gbp")
	assert.Equal(t, int64(1500), summary.Gross)
	assert.Equal(t, int64(300), summary.Commission)
	assert.Equal(t, int64(1200), summary.Net)
}
