/*
handlers.go - HTTP handlers

PURPOSE:
  Thin wrappers around the engine: deserialize, call the runner or
  resolver, serialize. No pricing logic lives here.

HANDLER PATTERN:
  1. Parse request (path params, body)
  2. Validate input
  3. Call domain logic (runner, resolver, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  The engine itself never errors on resolution; only transport,
  validation, and persistence failures reach these branches.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/reconcile"
	"github.com/meridian/tuition-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The catalog is an
// immutable snapshot built at startup; reloading rates means
// restarting the process, which keeps every request in one run
// consistent.
type Handler struct {
	Store  *sqlite.Store
	Runner *reconcile.Runner

	catalog *pricing.Catalog
}

// NewHandler creates a new handler over a catalog snapshot.
func NewHandler(store *sqlite.Store, cfg pricing.Config, catalog *pricing.Catalog) *Handler {
	return &Handler{
		Store:   store,
		Runner:  reconcile.NewRunner(cfg, catalog),
		catalog: catalog,
	}
}

// =============================================================================
// QUOTE
// =============================================================================

// Quote prices a set of enrollments as of a date. This is the
// standalone estimation entry point; no payment is involved.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Enrollments) == 0 {
		writeError(w, http.StatusBadRequest, "enrollments required")
		return
	}
	asOf, ok := pricing.ParseDate(req.AsOf)
	if !ok {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	results := h.Runner.Resolver().ResolveGroup(toEnrollments(req.Enrollments), asOf, toResidency(req.Residency))
	dtos := make([]PriceResultDTO, 0, len(results))
	for _, res := range results {
		dtos = append(dtos, fromResult(res))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": dtos})
}

// =============================================================================
// RECONCILE
// =============================================================================

// Reconcile runs a single payment through the engine.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, errMsg := toPayment(req.Payment)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	out := h.Runner.ReconcilePayment(payment, toEnrollments(req.Enrollments), toResidency(req.Residency))
	writeJSON(w, http.StatusOK, fromOutcome(out))
}

// ReconcileBatch runs many payments through the worker pool and
// optionally persists the report.
func (h *Handler) ReconcileBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]reconcile.Item, 0, len(req.Items))
	for i, it := range req.Items {
		payment, errMsg := toPayment(it.Payment)
		if errMsg != "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: %s", i, errMsg))
			return
		}
		items = append(items, reconcile.Item{
			Payment:     payment,
			Enrollments: toEnrollments(it.Enrollments),
			Residency:   toResidency(it.Residency),
		})
	}

	batch := reconcile.NewBatch(h.Runner, req.Workers)
	report := batch.Run(items)

	if req.Persist {
		if err := h.Store.SaveReport(r.Context(), report); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist report: "+err.Error())
			return
		}
	}

	resp := BatchResponse{RunID: report.RunID, Summary: fromSummary(report.Summary)}
	for _, out := range report.Outcomes {
		resp.Outcomes = append(resp.Outcomes, fromOutcome(out))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// CATALOG / RUNS INSPECTION
// =============================================================================

// ListCatalogScopes returns all indexed scope keys.
func (h *Handler) ListCatalogScopes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"record_count": h.catalog.Len(),
		"scopes":       h.catalog.ScopeKeys(),
	})
}

// ListRuns returns persisted run IDs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GetRunSummary returns one run's counters.
func (h *Handler) GetRunSummary(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	sum, err := h.Store.LoadSummary(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, fromSummary(sum))
}

// =============================================================================
// HELPERS
// =============================================================================

func toPayment(dto PaymentDTO) (pricing.Payment, string) {
	amount, ok := pricing.ParseMoney(dto.Amount)
	if !ok {
		return pricing.Payment{}, "payment amount must be a decimal string"
	}
	date, ok := pricing.ParseDate(dto.Date)
	if !ok {
		return pricing.Payment{}, "payment date must be YYYY-MM-DD"
	}
	if dto.Reference == "" {
		return pricing.Payment{}, "payment reference required"
	}
	return pricing.Payment{
		StudentID: dto.StudentID,
		TermID:    dto.TermID,
		Amount:    amount,
		Date:      date,
		Reference: dto.Reference,
	}, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
