/*
handlers.go - HTTP API handlers for the rewards engine

PURPOSE:
  Exposes the spending ledger, statement periods, and reward-rule
  optimization over REST. Handlers parse/validate input, delegate to
  the domain packages, and serialize results.

ENDPOINTS:
  Entries:
    GET    /api/users/{user}/entries        List the ledger
    POST   /api/users/{user}/entries        Record an entry
    DELETE /api/users/{user}/entries/{id}   Delete (renumbers survivors)

  Cards:
    GET    /api/users/{user}/cards          List card configurations
    PUT    /api/users/{user}/cards/{card}   Upsert one card's settings

  Views:
    GET    /api/users/{user}/periods        Distinct (card, period) pairs
    GET    /api/users/{user}/optimization   Unsettled-period evaluation
    GET    /api/users/{user}/report         Dashboard aggregates
    GET    /api/users/{user}/export         Ledger as CSV

  Reference:
    GET    /api/rules                       Loaded reward rules
    GET    /api/categories                  Canonical category list

TIME HANDLING:
  "Now" is owned by the caller side of the core: handlers truncate the
  clock to a date once per request (or honor ?as_of=YYYY-MM-DD) and
  pass it down explicitly. Core functions never read the clock.

ERROR HANDLING:
  - 400: validation errors, malformed dates/ids
  - 404: deleting an id that does not exist
  - 500: storage failures (retryable by the client)
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cardwise/rewards-engine/ledger"
	"github.com/cardwise/rewards-engine/report"
	"github.com/cardwise/rewards-engine/rules"
	"github.com/cardwise/rewards-engine/statement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store ledger.Store
	Rules *rules.Set

	// Now supplies the evaluation instant; overridable in tests.
	Now func() time.Time
}

// NewHandler creates a handler backed by the given store and rule set.
func NewHandler(store ledger.Store, set *rules.Set) *Handler {
	return &Handler{Store: store, Rules: set, Now: time.Now}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Card names must contain at least one non-space character.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r != ' ' && r != '\t' {
				return true
			}
		}
		return false
	})
	return v
}

// asOf resolves the evaluation date: ?as_of=YYYY-MM-DD when present,
// otherwise today per h.Now, always truncated to midnight.
func (h *Handler) asOf(r *http.Request) (statement.Date, error) {
	if s := r.URL.Query().Get("as_of"); s != "" {
		return statement.ParseDate(s)
	}
	return statement.DateOf(h.Now()), nil
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns the user's full ledger.
// GET /api/users/{user}/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	entries, err := h.Store.ListEntries(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// CreateEntry records a spending entry and returns its assigned id.
// POST /api/users/{user}/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := statement.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
		return
	}

	id, err := h.Store.AddEntry(r.Context(), user, ledger.SpendingEntry{
		CardName: req.CardName,
		Category: req.Category,
		Amount:   decimal.NewFromFloat(req.Amount),
		Date:     date,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateEntryResponse{ID: id})
}

// DeleteEntry removes an entry; surviving entries are renumbered 1..N.
// DELETE /api/users/{user}/entries/{id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid entry id", err)
		return
	}

	if err := h.Store.DeleteEntry(r.Context(), user, id); err != nil {
		if ledger.IsNotFound(err) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Entry %d not found", id), err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CARD CONFIGURATION HANDLERS
// =============================================================================

// ListCardConfigs returns the user's card settings, sorted by card name.
// GET /api/users/{user}/cards
func (h *Handler) ListCardConfigs(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	configs, err := h.Store.GetCardConfigs(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get card configs", err)
		return
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	dtos := make([]CardConfigDTO, 0, len(names))
	for _, name := range names {
		cfg := configs[name]
		dtos = append(dtos, CardConfigDTO{
			CardName:             cfg.CardName,
			StatementDay:         cfg.StatementDay,
			PaymentDueOffsetDays: cfg.PaymentDueOffsetDays,
			UpdatedAt:            cfg.UpdatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetCardConfig upserts one card's billing-cycle settings in full.
// PUT /api/users/{user}/cards/{card}
func (h *Handler) SetCardConfig(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	card := chi.URLParam(r, "card")
	if card == "" {
		writeError(w, http.StatusBadRequest, "Card name is required", nil)
		return
	}

	var req SetCardConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	cfg := ledger.CardConfig{
		CardName:             card,
		StatementDay:         req.StatementDay,
		PaymentDueOffsetDays: req.PaymentDueOffsetDays,
	}
	if err := h.Store.SetCardConfig(r.Context(), user, cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save card config", err)
		return
	}
	writeJSON(w, http.StatusOK, CardConfigDTO{
		CardName:             card,
		StatementDay:         req.StatementDay,
		PaymentDueOffsetDays: req.PaymentDueOffsetDays,
	})
}

// =============================================================================
// PERIOD AND OPTIMIZATION HANDLERS
// =============================================================================

// ListPeriods returns the distinct (card, statement period) pairs in
// the user's ledger, in first-occurrence order.
// GET /api/users/{user}/periods
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	ctx := r.Context()

	entries, err := h.Store.ListEntries(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	configs, err := h.Store.GetCardConfigs(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get card configs", err)
		return
	}

	periods := report.ListPeriods(entries, configs)
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = PeriodDTO{Card: p.Card, Start: p.Period.Start.String(), End: p.Period.End.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetOptimization evaluates reward rules over each card's currently
// open statement period.
// GET /api/users/{user}/optimization[?as_of=YYYY-MM-DD]
func (h *Handler) GetOptimization(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	ctx := r.Context()

	now, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date, want YYYY-MM-DD", err)
		return
	}

	entries, err := h.Store.ListEntries(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	configs, err := h.Store.GetCardConfigs(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get card configs", err)
		return
	}

	selected := report.SelectUnsettled(entries, configs, now)
	statuses := report.EvaluateOptimization(h.Rules, entries, selected)

	resp := OptimizationResponse{
		AsOf:        now.String(),
		Cards:       make([]OptimizationStatusDTO, len(statuses)),
		PaymentDues: toDueDateDTOs(report.PaymentDueDates(selected, configs, now)),
	}
	for i, s := range statuses {
		resp.Cards[i] = toStatusDTO(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetReport returns the dashboard view: all-time aggregates plus the
// unsettled and unassigned buckets.
// GET /api/users/{user}/report[?as_of=YYYY-MM-DD]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	ctx := r.Context()

	now, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date, want YYYY-MM-DD", err)
		return
	}

	entries, err := h.Store.ListEntries(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	configs, err := h.Store.GetCardConfigs(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get card configs", err)
		return
	}

	summary := report.Summarize(entries)
	selected := report.SelectUnsettled(entries, configs, now)

	resp := ReportResponse{
		AsOf: now.String(),
		Summary: SummaryDTO{
			Total:        summary.Total.InexactFloat64(),
			Average:      summary.Average.InexactFloat64(),
			Transactions: summary.Count,
			CardsUsed:    summary.CardsUsed,
		},
		ByCategory:  toGroupDTOs(report.ByCategory(entries)),
		ByCard:      toGroupDTOs(report.ByCard(entries)),
		Recent:      toEntryDTOs(report.Recent(entries, 10)),
		Unsettled:   toEntryDTOs(selected),
		PaymentDues: toDueDateDTOs(report.PaymentDueDates(selected, configs, now)),
		Unassigned:  toEntryDTOs(report.Unassigned(entries, configs)),
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportCSV streams the user's ledger as CSV in the fixed column order.
// GET /api/users/{user}/export
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	entries, err := h.Store.ListEntries(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	filename := fmt.Sprintf("spending_%s_%s.csv", user, statement.DateOf(h.Now()).String())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := ledger.WriteCSV(w, entries); err != nil {
		// Headers are already gone; nothing useful left to send.
		return
	}
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListRules returns the loaded reward rules in rule-set order.
// GET /api/rules
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	dtos := make([]RuleDTO, 0, h.Rules.Len())
	for _, card := range h.Rules.Cards() {
		rule, _ := h.Rules.Rule(card)
		dto := RuleDTO{Card: card, MinSpend: rule.MinSpend.InexactFloat64()}
		for _, c := range rule.Caps {
			dto.Caps = append(dto.Caps, CapDTO{
				Description: c.Description,
				Category:    c.Category,
				SharedWith:  c.SharedWith,
				Amount:      c.Amount.InexactFloat64(),
			})
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListCategories returns the canonical spending categories.
// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ledger.Categories)
}

// =============================================================================
// HELPERS
// =============================================================================

func toGroupDTOs(groups []report.GroupTotal) []GroupTotalDTO {
	out := make([]GroupTotalDTO, len(groups))
	for i, g := range groups {
		out[i] = GroupTotalDTO{Key: g.Key, Total: g.Total.InexactFloat64()}
	}
	return out
}

func toDueDateDTOs(dues []report.DueDate) []DueDateDTO {
	out := make([]DueDateDTO, len(dues))
	for i, d := range dues {
		out[i] = DueDateDTO{Card: d.Card, PeriodEnd: d.PeriodEnd.String(), Due: d.Due.String()}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
