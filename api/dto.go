/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the amortization engine's types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Loans:
    LoanSummaryDTO, ScheduleDTO, EntryDTO, ScenarioDTO

  Requests:
    factory.LoanJSON (calculate, scenario, export, saved)
    CompareRequest

  Saved loans:
    SavedLoanDTO

  Presets:
    PresetDTO, LoadPresetRequest

AMOUNTS:
  Compute responses carry raw float64 values as produced by the engine.
  Rounding to cents happens only in exports (see export package).

SEE ALSO:
  - handlers.go: Uses these types
  - factory/loan.go: LoanJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/store"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// LoanSummaryDTO describes the loan a schedule was computed for.
type LoanSummaryDTO struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermPeriods       int     `json:"term_periods"`
	PeriodsPerYear    int     `json:"periods_per_year"`
	PeriodicRate      float64 `json:"periodic_rate"`
	PeriodicPayment   float64 `json:"periodic_payment"`
}

// EntryDTO is one schedule row.
type EntryDTO struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// ScheduleDTO is a full amortization schedule.
type ScheduleDTO struct {
	PeriodicPayment float64    `json:"periodic_payment"`
	Periods         int        `json:"periods"`
	TotalInterest   float64    `json:"total_interest"`
	TotalPrincipal  float64    `json:"total_principal"`
	TotalPaid       float64    `json:"total_paid"`
	Entries         []EntryDTO `json:"entries"`
}

// ScenarioDTO compares an accelerated schedule to the baseline.
type ScenarioDTO struct {
	ExtraPayment             float64      `json:"extra_payment"`
	AcceleratedPayment       float64      `json:"accelerated_payment"`
	OriginalPeriods          int          `json:"original_periods"`
	PeriodsToPayoff          int          `json:"periods_to_payoff"`
	MonthsSaved              int          `json:"months_saved"`
	OriginalTotalInterest    float64      `json:"original_total_interest"`
	AcceleratedTotalInterest float64      `json:"accelerated_total_interest"`
	InterestSaved            float64      `json:"interest_saved"`
	Schedule                 *ScheduleDTO `json:"schedule,omitempty"`
}

// CalculateResponse is returned by the calculate endpoints. Scenario is set
// only when the loan has an extra payment.
type CalculateResponse struct {
	Loan     LoanSummaryDTO `json:"loan"`
	Schedule ScheduleDTO    `json:"schedule"`
	Scenario *ScenarioDTO   `json:"scenario,omitempty"`
}

// ScenarioResponse is returned by POST /api/loans/scenario.
type ScenarioResponse struct {
	Loan     LoanSummaryDTO `json:"loan"`
	Scenario ScenarioDTO    `json:"scenario"`
}

// CompareRequest is a loan plus the extra payments to compare.
type CompareRequest struct {
	factory.LoanJSON
	ExtraPayments []decimal.Decimal `json:"extra_payments"`
}

// CompareResponse lists one scenario per requested extra payment, in
// request order. Scenario schedules are omitted.
type CompareResponse struct {
	Loan             LoanSummaryDTO `json:"loan"`
	BaselinePeriods  int            `json:"baseline_periods"`
	BaselineInterest float64        `json:"baseline_interest"`
	Scenarios        []ScenarioDTO  `json:"scenarios"`
}

// SavedLoanDTO represents a stored loan in API responses.
type SavedLoanDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Config    factory.LoanJSON `json:"config"`
	Version   int              `json:"version"`
	CreatedAt string           `json:"created_at,omitempty"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

// PresetDTO describes a demo preset.
type PresetDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadPresetRequest is the request to load a demo preset.
type LoadPresetRequest struct {
	PresetID string `json:"preset_id"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLoanSummaryDTO(r *amortization.Result) LoanSummaryDTO {
	return LoanSummaryDTO{
		Principal:         r.Parameters.Principal,
		AnnualRatePercent: r.Parameters.AnnualRatePercent,
		TermPeriods:       r.Parameters.TermPeriods,
		PeriodsPerYear:    r.Parameters.Periods(),
		PeriodicRate:      r.PeriodicRate,
		PeriodicPayment:   r.Payment(),
	}
}

func toScheduleDTO(s *amortization.Schedule) ScheduleDTO {
	entries := make([]EntryDTO, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = EntryDTO{
			Period:    e.Period,
			Payment:   e.Payment,
			Interest:  e.Interest,
			Principal: e.Principal,
			Balance:   e.Balance,
		}
	}

	return ScheduleDTO{
		PeriodicPayment: s.PeriodicPayment,
		Periods:         s.Periods(),
		TotalInterest:   s.TotalInterest,
		TotalPrincipal:  s.TotalPrincipal,
		TotalPaid:       s.TotalPaid,
		Entries:         entries,
	}
}

func toScenarioDTO(sr *amortization.ScenarioResult, withSchedule bool) ScenarioDTO {
	dto := ScenarioDTO{
		ExtraPayment:             sr.ExtraPayment,
		AcceleratedPayment:       sr.AcceleratedPayment,
		OriginalPeriods:          sr.OriginalPeriods,
		PeriodsToPayoff:          sr.PeriodsToPayoff,
		MonthsSaved:              sr.MonthsSaved,
		OriginalTotalInterest:    sr.OriginalTotalInterest,
		AcceleratedTotalInterest: sr.AcceleratedTotalInterest,
		InterestSaved:            sr.InterestSaved,
	}
	if withSchedule && sr.Schedule != nil {
		s := toScheduleDTO(sr.Schedule)
		dto.Schedule = &s
	}
	return dto
}

func toSavedLoanDTO(rec store.LoanRecord, config factory.LoanJSON) SavedLoanDTO {
	return SavedLoanDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Config:    config,
		Version:   rec.Version,
		CreatedAt: formatTime(rec.CreatedAt),
		UpdatedAt: formatTime(rec.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
