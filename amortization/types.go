/*
Package amortization provides the loan payment and amortization engine.

PURPOSE:
  Computes the fixed periodic payment of a loan, expands it into a
  period-by-period amortization ledger, and measures how much a constant
  extra payment accelerates payoff. Everything here is a pure function of
  its inputs: no component keeps state between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - LoanParameters: principal, annual rate and term (in periods)
  - Entry: one row of the amortization ledger
  - Schedule: the ledger plus its aggregates
  - ScenarioResult: payoff acceleration from an extra payment

PIPELINE:
  LoanParameters
      -> PeriodicRate()      (payment.go)
      -> ComputePayment()    (payment.go)
      -> GenerateSchedule()  (schedule.go)
      -> AnalyzeScenario()   (scenario.go, optional)

PRECISION:
  All math is float64. Rounding to cents is a presentation concern and
  lives in the export package.

SEE ALSO:
  - calculator.go: Compute() entry point wiring the pipeline
  - errors.go: Error taxonomy
  - export/round.go: Cents rounding for display and download
*/
package amortization

import "math"

// =============================================================================
// LOAN PARAMETERS
// =============================================================================

// DefaultPeriodsPerYear is used when LoanParameters.PeriodsPerYear is zero.
const DefaultPeriodsPerYear = 12

// MaxTermPeriods caps the number of periods a single schedule may contain.
// 100 years of monthly payments.
const MaxTermPeriods = 12000

// LoanParameters describes a loan as validated by the caller.
// TermPeriods is already a period count; converting years is the caller's job.
type LoanParameters struct {
	Principal         float64
	AnnualRatePercent float64
	TermPeriods       int
	PeriodsPerYear    int
}

// Periods returns the effective number of payment periods per year.
func (p LoanParameters) Periods() int {
	if p.PeriodsPerYear == 0 {
		return DefaultPeriodsPerYear
	}
	return p.PeriodsPerYear
}

// Validate re-checks the parameter ranges. Callers are expected to have
// validated already, but the engine never trusts them.
func (p LoanParameters) Validate() error {
	if !isFinite(p.Principal) || p.Principal <= 0 {
		return &InputError{Field: "principal", Value: p.Principal, Reason: "must be a positive number"}
	}
	if !isFinite(p.AnnualRatePercent) || p.AnnualRatePercent < 0 {
		return &InputError{Field: "annual_rate_percent", Value: p.AnnualRatePercent, Reason: "must be zero or positive"}
	}
	if p.TermPeriods <= 0 {
		return &InputError{Field: "term_periods", Value: float64(p.TermPeriods), Reason: "must be positive"}
	}
	if p.TermPeriods > MaxTermPeriods {
		return &InputError{Field: "term_periods", Value: float64(p.TermPeriods), Reason: "exceeds maximum term"}
	}
	if p.PeriodsPerYear < 0 {
		return &InputError{Field: "periods_per_year", Value: float64(p.PeriodsPerYear), Reason: "must be positive"}
	}
	return nil
}

// =============================================================================
// SCHEDULE
// =============================================================================

// Entry is one period of the amortization ledger.
// Interest + Principal == Payment; Payment equals the periodic payment for
// every period except possibly the last one. The last payment settles the
// remaining balance: less than a full payment on early payoff, otherwise
// off from it by at most the float64 residual that was settled.
type Entry struct {
	Period    int     // 1-based
	Payment   float64 // Interest + Principal
	Interest  float64
	Principal float64
	Balance   float64 // remaining balance after this period, never negative
}

// Schedule is an immutable amortization ledger.
type Schedule struct {
	PeriodicPayment float64
	Entries         []Entry
	TotalInterest   float64
	TotalPrincipal  float64
	TotalPaid       float64
}

// Periods returns the number of periods until the balance reached zero.
func (s *Schedule) Periods() int {
	return len(s.Entries)
}

// FinalBalance returns the balance after the last entry.
func (s *Schedule) FinalBalance() float64 {
	if len(s.Entries) == 0 {
		return 0
	}
	return s.Entries[len(s.Entries)-1].Balance
}

// =============================================================================
// SCENARIO
// =============================================================================

// ScenarioResult describes the effect of paying ExtraPayment on top of the
// periodic payment every period.
type ScenarioResult struct {
	ExtraPayment       float64
	AcceleratedPayment float64

	// OriginalPeriods is the length of the baseline schedule. It equals the
	// loan term whenever the periodic payment came from ComputePayment.
	OriginalPeriods int
	PeriodsToPayoff int
	MonthsSaved     int

	OriginalTotalInterest    float64
	AcceleratedTotalInterest float64
	InterestSaved            float64

	// Schedule is the accelerated ledger.
	Schedule *Schedule
}

// =============================================================================
// HELPERS
// =============================================================================

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
