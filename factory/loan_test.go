package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/factory"
)

func TestParseLoan_YearsConvertedToPeriods(t *testing.T) {
	f := factory.NewLoanFactory()

	def, err := f.ParseLoan(factory.MortgageJSON("home", "Home", 300_000, 6.5, 30))
	require.NoError(t, err)

	assert.Equal(t, "home", def.ID)
	assert.Equal(t, "Home", def.Name)
	assert.Equal(t, 360, def.Parameters.TermPeriods)
	assert.Equal(t, 12, def.Parameters.PeriodsPerYear)
	assert.Equal(t, 300_000.0, def.Parameters.Principal)
	assert.Equal(t, 6.5, def.Parameters.AnnualRatePercent)
}

func TestParseLoan_Biweekly(t *testing.T) {
	f := factory.NewLoanFactory()

	def, err := f.ParseLoan(factory.BiweeklyMortgageJSON("bw", "Biweekly", 200_000, 5, 15))
	require.NoError(t, err)

	assert.Equal(t, 390, def.Parameters.TermPeriods)
	assert.Equal(t, 26, def.Parameters.PeriodsPerYear)
	assert.Equal(t, "biweekly", def.Frequency)
}

func TestParseLoan_MonthsAndStrings(t *testing.T) {
	// GIVEN: Amounts as decimal strings, term in months
	f := factory.NewLoanFactory()

	def, err := f.ParseLoan(`{
		"principal": "25000.50",
		"annual_rate_percent": "4.9",
		"term": 60,
		"term_unit": "months",
		"extra_payment": "100"
	}`)
	require.NoError(t, err)

	assert.Equal(t, 25000.50, def.Parameters.Principal)
	assert.Equal(t, 4.9, def.Parameters.AnnualRatePercent)
	assert.Equal(t, 60, def.Parameters.TermPeriods)
	assert.Equal(t, 100.0, def.ExtraPayment)
	assert.Equal(t, "monthly", def.Frequency)
}

func TestParseLoan_DefaultsToPeriods(t *testing.T) {
	f := factory.NewLoanFactory()

	def, err := f.ParseLoan(`{"principal": 1000000, "annual_rate_percent": 12, "term": 12}`)
	require.NoError(t, err)

	result, err := amortization.NewCalculator().Compute(def.Parameters)
	require.NoError(t, err)
	assert.InDelta(t, 88848.79, result.Payment(), 0.01)
}

func TestParseLoan_Rejects(t *testing.T) {
	f := factory.NewLoanFactory()

	cases := map[string]string{
		"malformed JSON":      `{"principal":`,
		"zero principal":      `{"principal": 0, "annual_rate_percent": 5, "term": 12}`,
		"negative rate":       `{"principal": 1000, "annual_rate_percent": -1, "term": 12}`,
		"zero term":           `{"principal": 1000, "annual_rate_percent": 5, "term": 0}`,
		"fractional periods":  `{"principal": 1000, "annual_rate_percent": 5, "term": 1, "term_unit": "months", "frequency": "biweekly"}`,
		"fractional term":     `{"principal": 1000, "annual_rate_percent": 5, "term": 12.5}`,
		"unknown unit":        `{"principal": 1000, "annual_rate_percent": 5, "term": 12, "term_unit": "decades"}`,
		"unknown frequency":   `{"principal": 1000, "annual_rate_percent": 5, "term": 12, "frequency": "hourly"}`,
		"negative extra":      `{"principal": 1000, "annual_rate_percent": 5, "term": 12, "extra_payment": -5}`,
		"term beyond maximum": `{"principal": 1000, "annual_rate_percent": 5, "term": 2000, "term_unit": "years"}`,
	}

	for name, js := range cases {
		t.Run(name, func(t *testing.T) {
			def, err := f.ParseLoan(js)
			assert.Nil(t, def)
			assert.Error(t, err)
		})
	}
}

func TestParseLoan_ValidationErrorsAreInvalidInput(t *testing.T) {
	f := factory.NewLoanFactory()

	_, err := f.ParseLoan(`{"principal": 1000, "annual_rate_percent": 5, "term": 12, "frequency": "hourly"}`)
	assert.ErrorIs(t, err, amortization.ErrInvalidInput)

	_, err = f.ParseLoan(`{"principal": -1, "annual_rate_percent": 5, "term": 12}`)
	var inputErr *amortization.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "principal", inputErr.Field)
}

func TestToJSON_RoundTripsThroughPeriods(t *testing.T) {
	f := factory.NewLoanFactory()

	def, err := f.ParseLoan(factory.PersonalLoanJSON("p", "Personal", 8000, 11.5, 36, 50))
	require.NoError(t, err)

	lj := f.ToJSON(def)
	assert.Equal(t, factory.TermPeriods, lj.TermUnit)
	assert.Equal(t, "36", lj.Term.String())

	again, err := f.FromJSON(lj)
	require.NoError(t, err)
	assert.Equal(t, def.Parameters, again.Parameters)
	assert.Equal(t, def.ExtraPayment, again.ExtraPayment)
}

func TestPeriodsPerYear(t *testing.T) {
	n, ok := factory.PeriodsPerYear("weekly")
	assert.True(t, ok)
	assert.Equal(t, 52, n)

	_, ok = factory.PeriodsPerYear("fortnightly")
	assert.False(t, ok)
}
