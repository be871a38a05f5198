/*
handlers.go - HTTP API handlers for the loan amortization engine

PURPOSE:
  Exposes the amortization engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the calculator.

ENDPOINTS:
  Compute:
    POST   /api/loans/calculate          Payment + schedule (+ scenario if extra_payment > 0)
    POST   /api/loans/scenario           Extra-payment scenario only
    POST   /api/loans/compare            Several extra payments side by side
    POST   /api/loans/export?format=csv  Rounded schedule as a download (csv|json)

  Saved loans:
    GET    /api/loans/saved              List saved loans
    POST   /api/loans/saved              Save a loan definition
    GET    /api/loans/saved/{id}         Get a saved loan
    DELETE /api/loans/saved/{id}         Delete a saved loan
    POST   /api/loans/saved/{id}/calculate Compute a saved loan

  Presets:
    GET    /api/presets                  List demo presets
    POST   /api/presets/load             Load a demo preset
    POST   /api/presets/reset            Remove all saved loans

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: saved loan definitions (inputs only, never results)
  - LoanFactory: JSON to LoanParameters conversion
  - Calculator: the amortization engine
  - Cache: optional short-TTL response cache for compute endpoints

REQUEST FLOW:
  1. Parse HTTP request
  2. Convert through the factory (term units, frequency)
  3. Call the calculator
  4. Serialize response
  5. Map engine errors to HTTP status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (amortization.ErrInvalidInput, bad JSON)
  - 404: Saved loan or preset not found
  - 422: Payment does not cover interest (amortization.ErrDivergentSchedule)
  - 429: Rate limited (see ratelimit.go)
  - 500: Iteration limit exceeded, store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - presets.go: Demo preset loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/cache"
	"github.com/warp/loan-engine/export"
	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/store"
	"go.uber.org/zap"
)

// maxCompareExtras bounds the work a single compare request can ask for.
const maxCompareExtras = 50

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       store.Store
	LoanFactory *factory.LoanFactory
	Calculator  *amortization.Calculator
	Logger      *zap.Logger

	// Cache is optional. A nil cache disables response caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	// Track currently loaded preset
	mu            sync.Mutex
	currentPreset string
}

// NewHandler creates a new handler with the given store.
func NewHandler(st store.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:       st,
		LoanFactory: factory.NewLoanFactory(),
		Calculator:  amortization.NewCalculator(),
		Logger:      logger,
	}
}

// WithCache enables response caching for compute endpoints.
func (h *Handler) WithCache(c cache.Cache, ttl time.Duration) *Handler {
	h.Cache = c
	h.CacheTTL = ttl
	return h
}

// =============================================================================
// COMPUTE HANDLERS
// =============================================================================

// Calculate computes the payment and schedule for a loan.
// POST /api/loans/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	def, ok := h.decodeLoan(w, r)
	if !ok {
		return
	}

	h.cachedJSON(w, r, cacheKey("calculate", def), func() (any, error) {
		return h.calculate(def)
	})
}

// Scenario analyzes the loan's extra payment against the baseline.
// POST /api/loans/scenario
func (h *Handler) Scenario(w http.ResponseWriter, r *http.Request) {
	def, ok := h.decodeLoan(w, r)
	if !ok {
		return
	}

	h.cachedJSON(w, r, cacheKey("scenario", def), func() (any, error) {
		result, scenario, err := h.Calculator.Scenario(def.Parameters, def.ExtraPayment)
		if err != nil {
			return nil, err
		}
		return ScenarioResponse{
			Loan:     toLoanSummaryDTO(result),
			Scenario: toScenarioDTO(scenario, true),
		}, nil
	})
}

// Compare analyzes several extra payments against the same baseline.
// POST /api/loans/compare
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.ExtraPayments) == 0 {
		writeError(w, http.StatusBadRequest, "extra_payments must not be empty", nil)
		return
	}
	if len(req.ExtraPayments) > maxCompareExtras {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d extra_payments per request", maxCompareExtras), nil)
		return
	}

	def, err := h.LoanFactory.FromJSON(req.LoanJSON)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	extras := make([]float64, len(req.ExtraPayments))
	extraKeys := make([]string, len(req.ExtraPayments))
	for i, e := range req.ExtraPayments {
		extras[i] = e.InexactFloat64()
		extraKeys[i] = formatFloat(extras[i])
	}

	h.cachedJSON(w, r, cacheKey("compare", def, extraKeys...), func() (any, error) {
		result, scenarios, err := h.Calculator.Compare(r.Context(), def.Parameters, extras)
		if err != nil {
			return nil, err
		}

		dtos := make([]ScenarioDTO, len(scenarios))
		for i := range scenarios {
			dtos[i] = toScenarioDTO(&scenarios[i], false)
		}
		return CompareResponse{
			Loan:             toLoanSummaryDTO(result),
			BaselinePeriods:  result.Schedule.Periods(),
			BaselineInterest: result.Schedule.TotalInterest,
			Scenarios:        dtos,
		}, nil
	})
}

// Export writes the rounded schedule as a CSV or JSON download. With an
// extra payment, the accelerated schedule is exported.
// POST /api/loans/export?format=csv|json
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	def, ok := h.decodeLoan(w, r)
	if !ok {
		return
	}

	schedule, err := h.payableSchedule(def)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.RoundSchedule(schedule)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export schedule", err)
		return
	}

	base := def.Name
	if base == "" {
		base = "schedule"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(base)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// SAVED LOAN HANDLERS
// =============================================================================

// ListSavedLoans returns all saved loans.
// GET /api/loans/saved
func (h *Handler) ListSavedLoans(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListLoans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list loans", err)
		return
	}

	dtos := make([]SavedLoanDTO, 0, len(records))
	for _, rec := range records {
		var config factory.LoanJSON
		if err := json.Unmarshal([]byte(rec.ConfigJSON), &config); err != nil {
			h.Logger.Warn("skipping unreadable saved loan", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		dtos = append(dtos, toSavedLoanDTO(rec, config))
	}

	writeJSON(w, http.StatusOK, map[string]any{"loans": dtos})
}

// CreateSavedLoan validates and stores a loan definition. A missing ID is
// generated.
// POST /api/loans/saved
func (h *Handler) CreateSavedLoan(w http.ResponseWriter, r *http.Request) {
	var req factory.LoanJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := h.LoanFactory.FromJSON(req); err != nil {
		writeEngineError(w, err)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	rec, err := h.saveLoan(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSavedLoanDTO(*rec, req))
}

// GetSavedLoan returns a single saved loan.
// GET /api/loans/saved/{id}
func (h *Handler) GetSavedLoan(w http.ResponseWriter, r *http.Request) {
	rec, config, ok := h.loadSaved(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSavedLoanDTO(*rec, config))
}

// DeleteSavedLoan removes a saved loan.
// DELETE /api/loans/saved/{id}
func (h *Handler) DeleteSavedLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteLoan(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			writeError(w, http.StatusNotFound, "Loan not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete loan", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// CalculateSavedLoan computes a saved loan, including its extra payment.
// POST /api/loans/saved/{id}/calculate
func (h *Handler) CalculateSavedLoan(w http.ResponseWriter, r *http.Request) {
	_, config, ok := h.loadSaved(w, r)
	if !ok {
		return
	}

	def, err := h.LoanFactory.FromJSON(config)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.cachedJSON(w, r, cacheKey("calculate", def), func() (any, error) {
		return h.calculate(def)
	})
}

// Health reports that the server is up.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeLoan(w http.ResponseWriter, r *http.Request) (*factory.LoanDefinition, bool) {
	var req factory.LoanJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	def, err := h.LoanFactory.FromJSON(req)
	if err != nil {
		writeEngineError(w, err)
		return nil, false
	}
	return def, true
}

func (h *Handler) calculate(def *factory.LoanDefinition) (CalculateResponse, error) {
	if def.ExtraPayment > 0 {
		result, scenario, err := h.Calculator.Scenario(def.Parameters, def.ExtraPayment)
		if err != nil {
			return CalculateResponse{}, err
		}
		sdto := toScenarioDTO(scenario, true)
		return CalculateResponse{
			Loan:     toLoanSummaryDTO(result),
			Schedule: toScheduleDTO(result.Schedule),
			Scenario: &sdto,
		}, nil
	}

	result, err := h.Calculator.Compute(def.Parameters)
	if err != nil {
		return CalculateResponse{}, err
	}
	return CalculateResponse{
		Loan:     toLoanSummaryDTO(result),
		Schedule: toScheduleDTO(result.Schedule),
	}, nil
}

// payableSchedule is the schedule the borrower would actually pay.
func (h *Handler) payableSchedule(def *factory.LoanDefinition) (*amortization.Schedule, error) {
	if def.ExtraPayment > 0 {
		_, scenario, err := h.Calculator.Scenario(def.Parameters, def.ExtraPayment)
		if err != nil {
			return nil, err
		}
		return scenario.Schedule, nil
	}

	result, err := h.Calculator.Compute(def.Parameters)
	if err != nil {
		return nil, err
	}
	return result.Schedule, nil
}

func (h *Handler) saveLoan(ctx context.Context, lj factory.LoanJSON) (*store.LoanRecord, error) {
	configJSON, err := json.Marshal(lj)
	if err != nil {
		return nil, err
	}

	if err := h.Store.SaveLoan(ctx, store.LoanRecord{
		ID:         lj.ID,
		Name:       lj.Name,
		ConfigJSON: string(configJSON),
	}); err != nil {
		return nil, err
	}

	rec, err := h.Store.GetLoan(ctx, lj.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("loan %s missing after save", lj.ID)
	}
	return rec, nil
}

func (h *Handler) loadSaved(w http.ResponseWriter, r *http.Request) (*store.LoanRecord, factory.LoanJSON, bool) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get loan", err)
		return nil, factory.LoanJSON{}, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Loan not found", nil)
		return nil, factory.LoanJSON{}, false
	}

	var config factory.LoanJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &config); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored loan is unreadable", err)
		return nil, factory.LoanJSON{}, false
	}
	return rec, config, true
}

// cachedJSON serves a compute response from the cache when possible.
// Cache failures are logged and the response is computed directly.
func (h *Handler) cachedJSON(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	ctx := r.Context()

	if h.Cache != nil {
		body, hit, err := h.Cache.Get(ctx, key)
		if err != nil {
			h.Logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	data, err := compute()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode response", err)
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, key, body, h.CacheTTL); err != nil {
			h.Logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, body)
}

// cacheKey builds a key from the normalized loan, so "30 years" and
// "360 periods" share an entry.
func cacheKey(op string, def *factory.LoanDefinition, extra ...string) string {
	p := def.Parameters
	parts := []string{
		op,
		formatFloat(p.Principal),
		formatFloat(p.AnnualRatePercent),
		strconv.Itoa(p.TermPeriods),
		strconv.Itoa(p.Periods()),
		formatFloat(def.ExtraPayment),
	}
	return cache.Key(append(parts, extra...)...)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// engineStatus maps engine errors to HTTP status codes.
func engineStatus(err error) (int, string) {
	switch {
	case errors.Is(err, amortization.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid loan parameters"
	case errors.Is(err, amortization.ErrDivergentSchedule):
		return http.StatusUnprocessableEntity, "Payment does not cover interest"
	case errors.Is(err, amortization.ErrIterationLimitExceeded):
		return http.StatusInternalServerError, "Schedule did not converge"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	}
	return http.StatusInternalServerError, "Calculation failed"
}

func writeEngineError(w http.ResponseWriter, err error) {
	status, message := engineStatus(err)
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
