/*
Package export turns engine schedules into presentation documents.

PURPOSE:
  The engine works in float64 and never rounds. Anything a person reads or
  downloads is rounded to cents here, using decimal arithmetic so that the
  rounded ledger still adds up.

ROUNDING POLICY:
  - Interest and principal of each period are rounded half-up to cents.
  - The balance is carried in cents: previous rounded balance minus the
    rounded principal, never recomputed from the float balance.
  - The last period's principal absorbs the accumulated drift, so the
    principal column sums to the rounded principal and the final balance
    is exactly 0.00.

FORMATS:
  csv:  period,payment,interest,principal,balance
  json: {"periodic_payment": "...", "entries": [...], ...}

  Amounts are plain decimal strings with two places. Currency symbols and
  locale separators are the caller's job.

SEE ALSO:
  - amortization/schedule.go: Float ledger being rounded
  - api/handlers.go: ExportSchedule serves these documents
*/
package export

import (
	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/amortization"
)

// =============================================================================
// ROUNDED SCHEDULE
// =============================================================================

// RoundedEntry is an Entry rounded to cents.
type RoundedEntry struct {
	Period    int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// RoundedSchedule is a Schedule rounded to cents.
type RoundedSchedule struct {
	PeriodicPayment decimal.Decimal
	Entries         []RoundedEntry
	TotalInterest   decimal.Decimal
	TotalPrincipal  decimal.Decimal
	TotalPaid       decimal.Decimal
}

// RoundSchedule rounds s to cents, reconciling drift into the final period.
func RoundSchedule(s *amortization.Schedule) RoundedSchedule {
	rs := RoundedSchedule{
		PeriodicPayment: cents(s.PeriodicPayment),
		Entries:         make([]RoundedEntry, 0, len(s.Entries)),
		TotalInterest:   decimal.Zero,
		TotalPrincipal:  decimal.Zero,
		TotalPaid:       decimal.Zero,
	}

	balance := cents(s.TotalPrincipal)
	last := len(s.Entries) - 1

	for i, e := range s.Entries {
		interest := cents(e.Interest)
		principal := cents(e.Principal)
		if i == last || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)
		payment := interest.Add(principal)

		rs.Entries = append(rs.Entries, RoundedEntry{
			Period:    e.Period,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
		rs.TotalInterest = rs.TotalInterest.Add(interest)
		rs.TotalPrincipal = rs.TotalPrincipal.Add(principal)
		rs.TotalPaid = rs.TotalPaid.Add(payment)
	}

	return rs
}

// Cents rounds a float amount half-up to two decimal places.
func Cents(v float64) decimal.Decimal {
	return cents(v)
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
