/*
scenario.go - What-if extra payment analysis

PURPOSE:
  Answers "what if I pay X more every period?" by re-running the ledger
  with the augmented payment and comparing it to the baseline.

KEY INSIGHT:
  A zero extra payment is not special-cased. Running the same algorithm
  with payment + 0 reproduces the baseline bit for bit, so MonthsSaved
  and InterestSaved come out as exactly 0.

CEILING:
  The accelerated run uses the loan term as its ceiling. A larger payment
  under a fixed non-negative rate can only shorten amortization, never
  lengthen it.

SEE ALSO:
  - schedule.go: The ledger loop both runs share
  - calculator.go: Scenario() convenience wrapper
*/
package amortization

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AnalyzeScenario measures the payoff acceleration of paying extraPayment on
// top of periodicPayment every period.
func AnalyzeScenario(principal, periodicRate float64, termPeriods int, periodicPayment, extraPayment float64) (*ScenarioResult, error) {
	if err := validateExtra(extraPayment); err != nil {
		return nil, err
	}

	baseline, err := GenerateSchedule(principal, periodicRate, termPeriods, periodicPayment)
	if err != nil {
		return nil, err
	}
	return accelerate(baseline, principal, periodicRate, termPeriods, extraPayment)
}

// CompareScenarios analyzes several extra payments against the same loan.
// The baseline is generated once; each accelerated run is independent and
// runs on its own goroutine. Results are returned in the order of extras.
func CompareScenarios(ctx context.Context, principal, periodicRate float64, termPeriods int, periodicPayment float64, extras []float64) ([]ScenarioResult, error) {
	for _, extra := range extras {
		if err := validateExtra(extra); err != nil {
			return nil, err
		}
	}

	baseline, err := GenerateSchedule(principal, periodicRate, termPeriods, periodicPayment)
	if err != nil {
		return nil, err
	}

	results := make([]ScenarioResult, len(extras))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, extra := range extras {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := accelerate(baseline, principal, periodicRate, termPeriods, extra)
			if err != nil {
				return fmt.Errorf("extra payment %v: %w", extra, err)
			}
			results[i] = *r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// accelerate runs a fresh ledger with the augmented payment. The baseline
// is only read.
func accelerate(baseline *Schedule, principal, periodicRate float64, termPeriods int, extraPayment float64) (*ScenarioResult, error) {
	payment := baseline.PeriodicPayment + extraPayment

	accelerated, err := amortize(principal, periodicRate, termPeriods, payment)
	if err != nil {
		return nil, err
	}

	return &ScenarioResult{
		ExtraPayment:             extraPayment,
		AcceleratedPayment:       payment,
		OriginalPeriods:          baseline.Periods(),
		PeriodsToPayoff:          accelerated.Periods(),
		MonthsSaved:              baseline.Periods() - accelerated.Periods(),
		OriginalTotalInterest:    baseline.TotalInterest,
		AcceleratedTotalInterest: accelerated.TotalInterest,
		InterestSaved:            baseline.TotalInterest - accelerated.TotalInterest,
		Schedule:                 accelerated,
	}, nil
}

func validateExtra(extra float64) error {
	if !isFinite(extra) || extra < 0 {
		return &InputError{Field: "extra_payment", Value: extra, Reason: "must be zero or positive"}
	}
	return nil
}
