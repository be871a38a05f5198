/*
schedule.go - Period-by-period amortization ledger

ALGORITHM:
  balance = principal
  for period 1..term:
      interest  = balance * rate
      principal = payment - interest      (capped at balance)
      balance  -= principal
      append entry
      stop early once balance reaches zero

KEY INSIGHT:
  Each period depends on the previous balance, so the loop is strictly
  sequential. Independent schedules can run in parallel (see
  CompareScenarios), a single schedule cannot.

RESIDUAL DRIFT:
  Float64 accumulation leaves a tiny positive or negative residual after
  the final annuity payment. Any post-payment balance within
  residualTolerance * principal is settled in full, so the ledger always
  ends at exactly 0 and the principal column sums to the principal.

  The drift compounds with (1+r)^n, so on the ceiling period the
  tolerance widens to roundingBound (payment.go). validateLoan rejects
  loans where that bound is no longer small.

FAILURE MODES:
  - Payment <= first period interest: DivergenceError (never loops)
  - Ceiling reached with balance left: IterationLimitError
  No partial schedule is returned on failure.
*/
package amortization

import "math"

// residualTolerance is relative to the principal.
const residualTolerance = 1e-9

// GenerateSchedule expands periodicPayment into a full amortization ledger.
// The schedule never exceeds termPeriods entries and stops as soon as the
// balance reaches zero.
func GenerateSchedule(principal, periodicRate float64, termPeriods int, periodicPayment float64) (*Schedule, error) {
	if err := validateLoan(principal, periodicRate, termPeriods); err != nil {
		return nil, err
	}
	return amortize(principal, periodicRate, termPeriods, periodicPayment)
}

// amortize runs the ledger loop with termPeriods as the hard ceiling.
// Inputs other than the payment are assumed validated.
func amortize(principal, periodicRate float64, ceiling int, payment float64) (*Schedule, error) {
	if !isFinite(payment) {
		return nil, &InputError{Field: "periodic_payment", Value: payment, Reason: "must be a finite number"}
	}

	firstInterest := principal * periodicRate
	if payment <= firstInterest {
		return nil, &DivergenceError{Payment: payment, Interest: firstInterest}
	}

	tolerance := principal * residualTolerance
	ceilingTolerance := principal * math.Max(residualTolerance, roundingBound(periodicRate, ceiling))
	schedule := &Schedule{
		PeriodicPayment: payment,
		Entries:         make([]Entry, 0, ceiling),
	}

	balance := principal
	for period := 1; period <= ceiling; period++ {
		interest := balance * periodicRate
		principalPart := payment - interest

		settle := tolerance
		if period == ceiling {
			settle = ceilingTolerance
		}

		if balance-principalPart <= settle {
			// Final period: settle what is left. The payment may differ from
			// a full payment by the settled residual.
			principalPart = balance
			balance = 0
		} else {
			balance -= principalPart
		}

		schedule.Entries = append(schedule.Entries, Entry{
			Period:    period,
			Payment:   interest + principalPart,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
		schedule.TotalInterest += interest
		schedule.TotalPrincipal += principalPart
		schedule.TotalPaid += interest + principalPart

		if balance == 0 {
			return schedule, nil
		}
	}

	return nil, &IterationLimitError{Limit: ceiling, Balance: balance}
}
