package amortization_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/loan-engine/amortization"
)

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestAnalyzeScenario_ZeroExtra_IsIdentity(t *testing.T) {
	// GIVEN: The reference loan
	// WHEN: Analyzing an extra payment of 0
	// THEN: Nothing is saved and payoff is the full term

	principal, rate, term, payment := millionAtTwelve(t)

	r, err := amortization.AnalyzeScenario(principal, rate, term, payment, 0)
	require.NoError(t, err)

	assert.Equal(t, term, r.PeriodsToPayoff)
	assert.Equal(t, term, r.OriginalPeriods)
	assert.Equal(t, 0, r.MonthsSaved)
	assert.Equal(t, 0.0, r.InterestSaved)
	assert.Equal(t, payment, r.AcceleratedPayment)
	assert.Equal(t, r.OriginalTotalInterest, r.AcceleratedTotalInterest)
}

func TestAnalyzeScenario_ReferenceAcceleration(t *testing.T) {
	// GIVEN: The reference loan
	// WHEN: Paying 20,000 extra every period
	// THEN: Paid off early with interest saved

	principal, rate, term, payment := millionAtTwelve(t)

	r, err := amortization.AnalyzeScenario(principal, rate, term, payment, 20_000)
	require.NoError(t, err)

	assert.Less(t, r.PeriodsToPayoff, 12)
	assert.Positive(t, r.MonthsSaved)
	assert.Positive(t, r.InterestSaved)
	assert.Equal(t, 12-r.PeriodsToPayoff, r.MonthsSaved)
	assert.InDelta(t, payment+20_000, r.AcceleratedPayment, 1e-9)
	assert.InDelta(t, r.OriginalTotalInterest-r.AcceleratedTotalInterest, r.InterestSaved, 1e-9)

	require.NotNil(t, r.Schedule)
	assert.Len(t, r.Schedule.Entries, r.PeriodsToPayoff)
	assert.Equal(t, 0.0, r.Schedule.FinalBalance())
	assert.InEpsilon(t, principal, r.Schedule.TotalPrincipal, 1e-6)
}

func TestAnalyzeScenario_Monotonic(t *testing.T) {
	// Larger extra payments never save fewer months or less interest.

	principal := 300_000.0
	rate := amortization.PeriodicRate(6.5, 12)
	payment, err := amortization.ComputePayment(principal, rate, 360)
	require.NoError(t, err)

	extras := []float64{0, 10, 100, 250, 1000, 5000, 50_000}
	prevMonths, prevInterest := -1, -1.0

	for _, extra := range extras {
		r, err := amortization.AnalyzeScenario(principal, rate, 360, payment, extra)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, r.MonthsSaved, prevMonths, "extra %v", extra)
		assert.GreaterOrEqual(t, r.InterestSaved, prevInterest, "extra %v", extra)
		assert.GreaterOrEqual(t, r.MonthsSaved, 0)
		assert.GreaterOrEqual(t, r.InterestSaved, 0.0)

		prevMonths, prevInterest = r.MonthsSaved, r.InterestSaved
	}
}

func TestAnalyzeScenario_ZeroRate(t *testing.T) {
	// 1200 over 12 at zero interest; 100 extra doubles the payment.
	r, err := amortization.AnalyzeScenario(1200, 0, 12, 100, 100)
	require.NoError(t, err)

	assert.Equal(t, 6, r.PeriodsToPayoff)
	assert.Equal(t, 6, r.MonthsSaved)
	assert.Equal(t, 0.0, r.InterestSaved)
}

func TestAnalyzeScenario_ExtraCoversWholeLoan(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)

	r, err := amortization.AnalyzeScenario(principal, rate, term, payment, 2_000_000)
	require.NoError(t, err)

	assert.Equal(t, 1, r.PeriodsToPayoff)
	assert.Equal(t, 11, r.MonthsSaved)
	assert.InDelta(t, principal*rate, r.AcceleratedTotalInterest, 1e-6)
	assert.InDelta(t, principal*(1+rate), r.Schedule.Entries[0].Payment, 1e-6)
}

func TestAnalyzeScenario_NegativeExtra(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)

	r, err := amortization.AnalyzeScenario(principal, rate, term, payment, -1)

	assert.Nil(t, r)
	assert.ErrorIs(t, err, amortization.ErrInvalidInput)
}

func TestAnalyzeScenario_DivergentBaseline(t *testing.T) {
	_, err := amortization.AnalyzeScenario(100, 1.0, 5, 0, 500)
	assert.ErrorIs(t, err, amortization.ErrDivergentSchedule)
}

func TestAnalyzeScenario_DoesNotMutateBaseline(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)

	baseline := mustSchedule(t, principal, rate, term, payment)
	snapshot := append([]amortization.Entry(nil), baseline.Entries...)

	_, err := amortization.AnalyzeScenario(principal, rate, term, payment, 20_000)
	require.NoError(t, err)

	assert.Equal(t, snapshot, baseline.Entries)
}

// =============================================================================
// COMPARE TESTS
// =============================================================================

func TestCompareScenarios_MatchesSequential(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)
	extras := []float64{20_000, 0, 5_000, 100_000, 1}

	results, err := amortization.CompareScenarios(context.Background(), principal, rate, term, payment, extras)
	require.NoError(t, err)
	require.Len(t, results, len(extras))

	for i, extra := range extras {
		want, err := amortization.AnalyzeScenario(principal, rate, term, payment, extra)
		require.NoError(t, err)

		assert.Equal(t, extra, results[i].ExtraPayment)
		assert.Equal(t, want.PeriodsToPayoff, results[i].PeriodsToPayoff)
		assert.Equal(t, want.InterestSaved, results[i].InterestSaved)
	}
}

func TestCompareScenarios_RejectsNegativeExtra(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)

	_, err := amortization.CompareScenarios(context.Background(), principal, rate, term, payment, []float64{100, -5})
	assert.ErrorIs(t, err, amortization.ErrInvalidInput)
}

func TestCompareScenarios_CanceledContext(t *testing.T) {
	principal, rate, term, payment := millionAtTwelve(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := amortization.CompareScenarios(ctx, principal, rate, term, payment, []float64{100, 200})
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// CALCULATOR TESTS
// =============================================================================

func TestCalculator_Compute(t *testing.T) {
	calc := amortization.NewCalculator()

	result, err := calc.Compute(amortization.LoanParameters{
		Principal:         1_000_000,
		AnnualRatePercent: 12,
		TermPeriods:       12,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.01, result.PeriodicRate, 1e-15)
	assert.InDelta(t, 88848.79, result.Payment(), 0.01)
	assert.Len(t, result.Schedule.Entries, 12)
	assert.Equal(t, 12, result.Parameters.Periods())
}

func TestCalculator_Compute_Biweekly(t *testing.T) {
	calc := amortization.NewCalculator()

	result, err := calc.Compute(amortization.LoanParameters{
		Principal:         26_000,
		AnnualRatePercent: 0,
		TermPeriods:       52,
		PeriodsPerYear:    26,
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, result.Payment())
	assert.Equal(t, 0.0, result.Schedule.TotalInterest)
}

func TestCalculator_Compute_InvalidParameters(t *testing.T) {
	calc := amortization.NewCalculator()

	cases := map[string]amortization.LoanParameters{
		"principal":           {Principal: 0, AnnualRatePercent: 5, TermPeriods: 12},
		"annual_rate_percent": {Principal: 1000, AnnualRatePercent: -1, TermPeriods: 12},
		"term_periods":        {Principal: 1000, AnnualRatePercent: 5, TermPeriods: 0},
		"periods_per_year":    {Principal: 1000, AnnualRatePercent: 5, TermPeriods: 12, PeriodsPerYear: -12},
	}

	for field, params := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := calc.Compute(params)

			var inputErr *amortization.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, field, inputErr.Field)
		})
	}
}

func TestCalculator_Scenario(t *testing.T) {
	calc := amortization.NewCalculator()
	params := amortization.LoanParameters{Principal: 1_000_000, AnnualRatePercent: 12, TermPeriods: 12}

	result, scenario, err := calc.Scenario(params, 20_000)
	require.NoError(t, err)

	assert.Len(t, result.Schedule.Entries, 12)
	assert.Less(t, scenario.PeriodsToPayoff, 12)
	assert.Positive(t, scenario.InterestSaved)

	_, _, err = calc.Scenario(params, -10)
	assert.ErrorIs(t, err, amortization.ErrInvalidInput)
}

func TestCalculator_Compare(t *testing.T) {
	calc := amortization.NewCalculator()
	params := amortization.LoanParameters{Principal: 250_000, AnnualRatePercent: 5, TermPeriods: 360}

	result, scenarios, err := calc.Compare(context.Background(), params, []float64{0, 200, 500})
	require.NoError(t, err)

	assert.Len(t, result.Schedule.Entries, 360)
	require.Len(t, scenarios, 3)
	assert.Equal(t, 0, scenarios[0].MonthsSaved)
	assert.Greater(t, scenarios[2].MonthsSaved, scenarios[1].MonthsSaved)
}
