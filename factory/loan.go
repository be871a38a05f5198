/*
Package factory provides JSON to Go loan conversion.

PURPOSE:
  Converts JSON loan definitions into amortization.LoanParameters. The
  engine only understands a period count and a per-year rate; everything
  a person types into a form (years vs months, biweekly payments, amounts
  as strings) is normalized here.

JSON SCHEMA:
  {
    "id": "home-30y",
    "name": "30 Year Mortgage",
    "principal": "300000.00",
    "annual_rate_percent": 6.5,
    "term": 30,
    "term_unit": "years",
    "frequency": "monthly",
    "extra_payment": 200
  }

  Amounts accept JSON numbers or decimal strings.

TERM CONVERSION:
  term_unit "periods" (default): term is the period count
  term_unit "years":             term * periods_per_year
  term_unit "months":            term * periods_per_year / 12
  The result must be a whole number of periods.

USAGE:
  f := NewLoanFactory()
  def, err := f.ParseLoan(MortgageJSON("home", "Home", 300000, 6.5, 30))
  result, err := amortization.NewCalculator().Compute(def.Parameters)

SEE ALSO:
  - amortization/types.go: LoanParameters
  - factory/presets.go: Preset loan definitions
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/amortization"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// LoanJSON is the JSON representation of a loan.
type LoanJSON struct {
	ID                string          `json:"id,omitempty"`
	Name              string          `json:"name,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	Term              decimal.Decimal `json:"term"`
	TermUnit          string          `json:"term_unit,omitempty"` // periods, months, years
	Frequency         string          `json:"frequency,omitempty"` // monthly, biweekly, weekly, quarterly, semiannual, annually
	ExtraPayment      decimal.Decimal `json:"extra_payment"`
}

// Term units.
const (
	TermPeriods = "periods"
	TermMonths  = "months"
	TermYears   = "years"
)

// Payment frequencies and their periods per year.
var frequencies = map[string]int{
	"monthly":    12,
	"biweekly":   26,
	"weekly":     52,
	"quarterly":  4,
	"semiannual": 2,
	"annually":   1,
}

// LoanDefinition is a parsed loan ready for the engine.
type LoanDefinition struct {
	ID           string
	Name         string
	Parameters   amortization.LoanParameters
	ExtraPayment float64
	Frequency    string
}

// =============================================================================
// LOAN FACTORY
// =============================================================================

// LoanFactory converts JSON loans to engine parameters.
type LoanFactory struct{}

// NewLoanFactory creates a new loan factory.
func NewLoanFactory() *LoanFactory {
	return &LoanFactory{}
}

// ParseLoan parses a JSON string into a LoanDefinition.
func (f *LoanFactory) ParseLoan(jsonStr string) (*LoanDefinition, error) {
	var lj LoanJSON
	if err := json.Unmarshal([]byte(jsonStr), &lj); err != nil {
		return nil, fmt.Errorf("failed to parse loan JSON: %w", err)
	}

	return f.FromJSON(lj)
}

// FromJSON converts LoanJSON to a LoanDefinition. The resulting parameters
// are validated with the engine's own rules.
func (f *LoanFactory) FromJSON(lj LoanJSON) (*LoanDefinition, error) {
	frequency := lj.Frequency
	if frequency == "" {
		frequency = "monthly"
	}
	periodsPerYear, ok := frequencies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency %q: %w", lj.Frequency, amortization.ErrInvalidInput)
	}

	termPeriods, err := parseTerm(lj.Term, lj.TermUnit, periodsPerYear)
	if err != nil {
		return nil, err
	}

	params := amortization.LoanParameters{
		Principal:         lj.Principal.InexactFloat64(),
		AnnualRatePercent: lj.AnnualRatePercent.InexactFloat64(),
		TermPeriods:       termPeriods,
		PeriodsPerYear:    periodsPerYear,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if lj.ExtraPayment.IsNegative() {
		return nil, &amortization.InputError{
			Field:  "extra_payment",
			Value:  lj.ExtraPayment.InexactFloat64(),
			Reason: "must be zero or positive",
		}
	}

	return &LoanDefinition{
		ID:           lj.ID,
		Name:         lj.Name,
		Parameters:   params,
		ExtraPayment: lj.ExtraPayment.InexactFloat64(),
		Frequency:    frequency,
	}, nil
}

// ToJSON converts a LoanDefinition back to LoanJSON. The term is always
// emitted in periods.
func (f *LoanFactory) ToJSON(def *LoanDefinition) LoanJSON {
	frequency := def.Frequency
	if frequency == "" {
		frequency = frequencyFor(def.Parameters.Periods())
	}

	return LoanJSON{
		ID:                def.ID,
		Name:              def.Name,
		Principal:         decimal.NewFromFloat(def.Parameters.Principal),
		AnnualRatePercent: decimal.NewFromFloat(def.Parameters.AnnualRatePercent),
		Term:              decimal.NewFromInt(int64(def.Parameters.TermPeriods)),
		TermUnit:          TermPeriods,
		Frequency:         frequency,
		ExtraPayment:      decimal.NewFromFloat(def.ExtraPayment),
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseTerm(term decimal.Decimal, unit string, periodsPerYear int) (int, error) {
	var periods decimal.Decimal
	switch unit {
	case "", TermPeriods:
		periods = term
	case TermYears:
		periods = term.Mul(decimal.NewFromInt(int64(periodsPerYear)))
	case TermMonths:
		periods = term.Mul(decimal.NewFromInt(int64(periodsPerYear))).Div(decimal.NewFromInt(12))
	default:
		return 0, fmt.Errorf("unknown term_unit %q: %w", unit, amortization.ErrInvalidInput)
	}

	if !periods.IsInteger() {
		return 0, &amortization.InputError{
			Field:  "term",
			Value:  term.InexactFloat64(),
			Reason: "does not convert to a whole number of periods",
		}
	}
	if periods.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, &amortization.InputError{Field: "term", Value: term.InexactFloat64(), Reason: "exceeds maximum term"}
	}
	return int(periods.IntPart()), nil
}

func frequencyFor(periodsPerYear int) string {
	for name, n := range frequencies {
		if n == periodsPerYear {
			return name
		}
	}
	return "monthly"
}

// PeriodsPerYear returns the number of periods per year for a frequency name.
func PeriodsPerYear(frequency string) (int, bool) {
	n, ok := frequencies[frequency]
	return n, ok
}
