/*
presets.go - Demo loan presets for testing and demonstrations

PURPOSE:

	Provides pre-built sets of saved loans that populate the store with
	realistic data for demos. Each preset saves one or more loan
	definitions through the same factory path as user input.

AVAILABLE PRESETS:

	first-home:     30-year mortgage plus a car loan
	biweekly:       Same mortgage paid monthly and biweekly
	debt-payoff:    Car loan and personal loan with extra payments
	zero-interest:  0% promotional financing

HOW PRESETS WORK:
 1. Reset the store (remove all saved loans)
 2. Build loan JSON via factory presets
 3. Validate through LoanFactory.ParseLoan
 4. Save the definitions

USAGE VIA API:

	POST /api/presets/load
	{"preset_id": "first-home"}

NOTE:

	Loading a preset resets the store. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Saved loan handlers
  - factory/presets.go: Loan JSON builders
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/store"
	"go.uber.org/zap"
)

// =============================================================================
// PRESET DEFINITIONS
// =============================================================================

type preset struct {
	PresetDTO
	loans func() []string
}

var presets = []preset{
	{
		PresetDTO: PresetDTO{
			ID:          "first-home",
			Name:        "First Home",
			Description: "30-year fixed mortgage and a 5-year car loan",
			Category:    "mortgage",
		},
		loans: func() []string {
			return []string{
				factory.MortgageJSON("home-30y", "Home mortgage", 320_000, 6.5, 30),
				factory.CarLoanJSON("car-60m", "Car loan", 28_000, 7.9, 60),
			}
		},
	},
	{
		PresetDTO: PresetDTO{
			ID:          "biweekly",
			Name:        "Monthly vs Biweekly",
			Description: "The same mortgage paid monthly and every two weeks",
			Category:    "mortgage",
		},
		loans: func() []string {
			return []string{
				factory.MortgageJSON("mortgage-monthly", "Mortgage (monthly)", 400_000, 6.0, 30),
				factory.BiweeklyMortgageJSON("mortgage-biweekly", "Mortgage (biweekly)", 400_000, 6.0, 30),
			}
		},
	},
	{
		PresetDTO: PresetDTO{
			ID:          "debt-payoff",
			Name:        "Debt Payoff",
			Description: "Consumer loans with planned extra payments",
			Category:    "consumer",
		},
		loans: func() []string {
			return []string{
				factory.PersonalLoanJSON("personal-36m", "Personal loan", 15_000, 11.5, 36, 150),
				factory.PersonalLoanJSON("car-refi-48m", "Car refinance", 22_000, 6.9, 48, 100),
			}
		},
	},
	{
		PresetDTO: PresetDTO{
			ID:          "zero-interest",
			Name:        "Promotional 0%",
			Description: "Zero-interest financing repaid in equal installments",
			Category:    "consumer",
		},
		loans: func() []string {
			return []string{
				factory.CarLoanJSON("promo-24m", "0% furniture financing", 4_800, 0, 24),
			}
		},
	},
}

func findPreset(id string) (preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return preset{}, false
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns available presets.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = p.PresetDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentPreset returns the currently loaded preset, if any.
// GET /api/presets/current
func (h *Handler) GetCurrentPreset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentPreset
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	p, ok := findPreset(current)
	if !ok {
		writeJSON(w, http.StatusOK, PresetDTO{ID: current, Name: current})
		return
	}
	writeJSON(w, http.StatusOK, p.PresetDTO)
}

// LoadPreset resets the store and saves the preset's loans.
// POST /api/presets/load
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, ok := findPreset(req.PresetID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown preset", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentPreset = ""

	count, err := h.loadPresetLoans(ctx, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load preset: %v", err), err)
		return
	}

	h.currentPreset = p.ID
	h.Logger.Info("preset loaded", zap.String("preset", p.ID), zap.Int("loans", count))

	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "preset": p.ID, "loans": count})
}

// ResetPresets removes every saved loan.
// POST /api/presets/reset
func (h *Handler) ResetPresets(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentPreset = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// PRESET LOADERS
// =============================================================================

func (h *Handler) loadPresetLoans(ctx context.Context, p preset) (int, error) {
	loans := p.loans()
	for _, jsonStr := range loans {
		if err := h.createLoanFromJSON(ctx, jsonStr); err != nil {
			return 0, err
		}
	}
	return len(loans), nil
}

func (h *Handler) createLoanFromJSON(ctx context.Context, jsonStr string) error {
	def, err := h.LoanFactory.ParseLoan(jsonStr)
	if err != nil {
		return err
	}

	return h.Store.SaveLoan(ctx, store.LoanRecord{
		ID:         def.ID,
		Name:       def.Name,
		ConfigJSON: jsonStr,
	})
}
