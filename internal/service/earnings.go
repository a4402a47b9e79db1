package service

import (
	"math"

	"github.com/sefazor/ticketgate-backend/internal/models"
)

// Platform cut of gross ticket revenue, in percent.
const CommissionRatePercent = 20

// MajorToMinor converts a decimal amount in major currency units (pounds)
// to minor units (pence). Conversion happens once, at the API boundary;
// everything past it is integer pence.
func MajorToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CountsAsPaid decides whether a registration contributes to earnings.
// Besides status, a stored checkout session reference counts as a paid
// signal, to tolerate a missed status update from either reconciliation
// trigger.
func CountsAsPaid(event *models.Event, reg *models.Registration) bool {
	if !event.IsPaid() {
		return false
	}
	if reg.Status == models.RegistrationStatusPaid {
		return true
	}
	return reg.StripeSessionID != ""
}

// registrationAmount is the registration's contribution in minor units,
// falling back to the event's ticket price when no amount was recorded.
func registrationAmount(event *models.Event, reg *models.Registration) int64 {
	if reg.Amount > 0 {
		return reg.Amount
	}
	return event.TicketCost
}

// GrossMinor sums the paid registrations' amounts in minor units.
func GrossMinor(event *models.Event, regs []models.Registration) int64 {
	var gross int64
	for i := range regs {
		if CountsAsPaid(event, &regs[i]) {
			gross += registrationAmount(event, &regs[i])
		}
	}
	return gross
}

// CommissionMinor is 20% of gross, rounded to the nearest minor unit.
// Integer arithmetic only; gross is never negative.
func CommissionMinor(gross int64) int64 {
	return (gross*CommissionRatePercent + 50) / 100
}

// NetMinor is what the organizer receives, floored at zero.
func NetMinor(gross, commission int64) int64 {
	net := gross - commission
	if net < 0 {
		return 0
	}
	return net
}

// SummarizeEarnings computes the full earnings figure set for an event.
func SummarizeEarnings(event *models.Event, regs []models.Registration, currency string) models.EarningsSummary {
	gross := GrossMinor(event, regs)
	commission := CommissionMinor(gross)
	return models.EarningsSummary{
		Gross:      gross,
		Commission: commission,
		Net:        NetMinor(gross, commission),
		Currency:   currency,
	}
}
