package amortization

import "context"

// =============================================================================
// CALCULATOR - Explicit compute entry point
// =============================================================================

// Calculator wires the pipeline for a LoanParameters value. It holds no loan
// state; the calling layer decides when to invoke Compute (on submit, on
// blur, debounced).
type Calculator struct{}

// NewCalculator creates a calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Result is the output of a single Compute call.
type Result struct {
	Parameters   LoanParameters
	PeriodicRate float64
	Schedule     *Schedule
}

// Payment returns the fixed periodic payment.
func (r *Result) Payment() float64 {
	return r.Schedule.PeriodicPayment
}

// Compute validates params, derives the periodic rate and payment, and
// generates the schedule.
func (c *Calculator) Compute(params LoanParameters) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rate := PeriodicRate(params.AnnualRatePercent, params.Periods())
	payment, err := ComputePayment(params.Principal, rate, params.TermPeriods)
	if err != nil {
		return nil, err
	}

	schedule, err := GenerateSchedule(params.Principal, rate, params.TermPeriods, payment)
	if err != nil {
		return nil, err
	}

	return &Result{
		Parameters:   params,
		PeriodicRate: rate,
		Schedule:     schedule,
	}, nil
}

// Scenario computes the loan and analyzes one extra payment against it.
func (c *Calculator) Scenario(params LoanParameters, extraPayment float64) (*Result, *ScenarioResult, error) {
	if err := validateExtra(extraPayment); err != nil {
		return nil, nil, err
	}

	result, err := c.Compute(params)
	if err != nil {
		return nil, nil, err
	}

	scenario, err := accelerate(result.Schedule, params.Principal, result.PeriodicRate, params.TermPeriods, extraPayment)
	if err != nil {
		return nil, nil, err
	}
	return result, scenario, nil
}

// Compare computes the loan and analyzes every extra payment concurrently.
func (c *Calculator) Compare(ctx context.Context, params LoanParameters, extras []float64) (*Result, []ScenarioResult, error) {
	result, err := c.Compute(params)
	if err != nil {
		return nil, nil, err
	}

	scenarios, err := CompareScenarios(ctx, params.Principal, result.PeriodicRate, params.TermPeriods, result.Payment(), extras)
	if err != nil {
		return nil, nil, err
	}
	return result, scenarios, nil
}
