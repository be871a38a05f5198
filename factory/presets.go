package factory

import "encoding/json"

// =============================================================================
// PRESET LOANS
// =============================================================================
//
// Convenience builders for common loan shapes. Each returns a JSON string
// that ParseLoan accepts, so presets go through the same validation path as
// user input.

// MortgageJSON is a monthly mortgage with the term in years.
func MortgageJSON(id, name string, principal, annualRatePercent float64, years int) string {
	return presetJSON(map[string]any{
		"id":                  id,
		"name":                name,
		"principal":           principal,
		"annual_rate_percent": annualRatePercent,
		"term":                years,
		"term_unit":           TermYears,
		"frequency":           "monthly",
	})
}

// BiweeklyMortgageJSON pays half the usual amount every two weeks.
func BiweeklyMortgageJSON(id, name string, principal, annualRatePercent float64, years int) string {
	return presetJSON(map[string]any{
		"id":                  id,
		"name":                name,
		"principal":           principal,
		"annual_rate_percent": annualRatePercent,
		"term":                years,
		"term_unit":           TermYears,
		"frequency":           "biweekly",
	})
}

// CarLoanJSON is a monthly installment loan with the term in months.
func CarLoanJSON(id, name string, principal, annualRatePercent float64, months int) string {
	return presetJSON(map[string]any{
		"id":                  id,
		"name":                name,
		"principal":           principal,
		"annual_rate_percent": annualRatePercent,
		"term":                months,
		"term_unit":           TermMonths,
		"frequency":           "monthly",
	})
}

// PersonalLoanJSON is a monthly loan with an extra payment already planned.
func PersonalLoanJSON(id, name string, principal, annualRatePercent float64, months int, extra float64) string {
	return presetJSON(map[string]any{
		"id":                  id,
		"name":                name,
		"principal":           principal,
		"annual_rate_percent": annualRatePercent,
		"term":                months,
		"term_unit":           TermMonths,
		"frequency":           "monthly",
		"extra_payment":       extra,
	})
}

func presetJSON(lj map[string]any) string {
	b, _ := json.MarshalIndent(lj, "", "  ")
	return string(b)
}
