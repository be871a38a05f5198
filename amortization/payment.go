package amortization

import "math"

// PeriodicRate converts an annual percentage into a per-period rate.
// A non-positive periodsPerYear falls back to DefaultPeriodsPerYear.
func PeriodicRate(annualRatePercent float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}
	return annualRatePercent / 100 / float64(periodsPerYear)
}

// ComputePayment returns the fixed payment that amortizes principal over
// termPeriods at periodicRate.
//
// At a zero rate the annuity formula divides by zero, so the payment is a
// plain linear split of the principal.
func ComputePayment(principal, periodicRate float64, termPeriods int) (float64, error) {
	if err := validateLoan(principal, periodicRate, termPeriods); err != nil {
		return 0, err
	}

	n := float64(termPeriods)
	if periodicRate == 0 {
		return principal / n, nil
	}

	growth := math.Pow(1+periodicRate, n)
	return principal * periodicRate * growth / (growth - 1), nil
}

func validateLoan(principal, periodicRate float64, termPeriods int) error {
	if !isFinite(principal) || principal <= 0 {
		return &InputError{Field: "principal", Value: principal, Reason: "must be a positive number"}
	}
	if !isFinite(periodicRate) || periodicRate < 0 {
		return &InputError{Field: "periodic_rate", Value: periodicRate, Reason: "must be zero or positive"}
	}
	if termPeriods <= 0 {
		return &InputError{Field: "term_periods", Value: float64(termPeriods), Reason: "must be positive"}
	}
	if termPeriods > MaxTermPeriods {
		return &InputError{Field: "term_periods", Value: float64(termPeriods), Reason: "exceeds maximum term"}
	}
	if roundingBound(periodicRate, termPeriods) > maxRoundingBound {
		return &InputError{Field: "term_periods", Value: float64(termPeriods), Reason: "is too long for this rate to amortize in float64"}
	}
	return nil
}

// maxRoundingBound rejects loans whose worst-case float64 drift exceeds
// 0.1% of the principal. Past that point the payment is indistinguishable
// from the first period's interest.
const maxRoundingBound = 1e-3

// roundingBound is the worst-case residual, relative to the principal, that
// float64 arithmetic can leave after termPeriods. Each period's rounding
// error is compounded by the remaining growth, so the bound is roughly
// 4 * (n+1) * eps * (1+r)^n.
func roundingBound(periodicRate float64, termPeriods int) float64 {
	growth := math.Pow(1+periodicRate, float64(termPeriods))
	return 4 * float64(termPeriods+1) * epsilon * growth
}

// epsilon is the float64 machine epsilon (2^-52).
const epsilon = 0x1p-52
