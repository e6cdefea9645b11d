/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. Amounts cross the wire as float64; the
  domain keeps decimals internally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validator/v10 struct tags. Validation runs in the
  handlers before anything reaches the domain; domain code assumes
  pre-validated ranges.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/cardwise/rewards-engine/ledger"
	"github.com/cardwise/rewards-engine/rules"
)

// =============================================================================
// ENTRIES
// =============================================================================

// EntryDTO represents a spending entry in API responses.
type EntryDTO struct {
	ID        int     `json:"id"`
	CardName  string  `json:"card_name"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// CreateEntryRequest is the request to record a spending entry.
type CreateEntryRequest struct {
	CardName string  `json:"card_name" validate:"required,notblank"`
	Category string  `json:"category" validate:"required,notblank"`
	Amount   float64 `json:"amount" validate:"required,gte=0.01"`
	Date     string  `json:"date" validate:"required"`
	Notes    string  `json:"notes"`
}

// CreateEntryResponse returns the assigned id.
type CreateEntryResponse struct {
	ID int `json:"id"`
}

// =============================================================================
// CARD CONFIGURATION
// =============================================================================

// CardConfigDTO represents one card's billing-cycle settings.
type CardConfigDTO struct {
	CardName             string `json:"card_name"`
	StatementDay         int    `json:"statement_day"`
	PaymentDueOffsetDays int    `json:"payment_due_offset_days"`
	UpdatedAt            string `json:"updated_at,omitempty"`
}

// SetCardConfigRequest replaces a card's settings in full.
type SetCardConfigRequest struct {
	StatementDay         int `json:"statement_day" validate:"required,min=1,max=31"`
	PaymentDueOffsetDays int `json:"payment_due_offset_days" validate:"required,min=1"`
}

// =============================================================================
// PERIODS AND OPTIMIZATION
// =============================================================================

// PeriodDTO is one statement period for one card.
type PeriodDTO struct {
	Card  string `json:"card"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DueDateDTO is a payment due date for one card. Cards are reported in
// parallel, never merged.
type DueDateDTO struct {
	Card      string `json:"card"`
	PeriodEnd string `json:"period_end"`
	Due       string `json:"due"`
}

// CapProgressDTO is the computed state of one cap.
type CapProgressDTO struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SharedWith  []string `json:"shared_with,omitempty"`
	Current     float64  `json:"current"`
	Limit       float64  `json:"limit"`
	Percent     float64  `json:"percent"`
	Exceeded    bool     `json:"is_exceeded"`
	Remaining   float64  `json:"remaining"`
	Overage     float64  `json:"overage"`
}

// MinSpendProgressDTO is the computed state of a minimum spend.
type MinSpendProgressDTO struct {
	Amount    float64 `json:"amount"`
	Current   float64 `json:"current"`
	Percent   float64 `json:"percent"`
	Met       bool    `json:"is_met"`
	Shortfall float64 `json:"shortfall"`
}

// OptimizationStatusDTO is the evaluation result for one card.
type OptimizationStatusDTO struct {
	Card        string               `json:"card"`
	HasActivity bool                 `json:"has_activity"`
	Caps        []CapProgressDTO     `json:"caps,omitempty"`
	MinSpend    *MinSpendProgressDTO `json:"min_spend,omitempty"`
}

// OptimizationResponse is the unsettled-period evaluation for a user.
type OptimizationResponse struct {
	AsOf        string                  `json:"as_of"`
	Cards       []OptimizationStatusDTO `json:"cards"`
	PaymentDues []DueDateDTO            `json:"payment_dues"`
}

// =============================================================================
// REPORT
// =============================================================================

// SummaryDTO is the headline metrics block.
type SummaryDTO struct {
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	Transactions int     `json:"transactions"`
	CardsUsed    int     `json:"cards_used"`
}

// GroupTotalDTO is one key of a breakdown.
type GroupTotalDTO struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// ReportResponse is the dashboard view for one user.
type ReportResponse struct {
	AsOf        string          `json:"as_of"`
	Summary     SummaryDTO      `json:"summary"`
	ByCategory  []GroupTotalDTO `json:"by_category"`
	ByCard      []GroupTotalDTO `json:"by_card"`
	Recent      []EntryDTO      `json:"recent"`
	Unsettled   []EntryDTO      `json:"unsettled"`
	PaymentDues []DueDateDTO    `json:"payment_dues"`
	Unassigned  []EntryDTO      `json:"unassigned"`
}

// =============================================================================
// RULES
// =============================================================================

// RuleDTO is the read-only reward rule for one card.
type RuleDTO struct {
	Card     string   `json:"card"`
	Caps     []CapDTO `json:"caps,omitempty"`
	MinSpend float64  `json:"min_spend,omitempty"`
}

// CapDTO is the read-only definition of one cap.
type CapDTO struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SharedWith  []string `json:"shared_with,omitempty"`
	Amount      float64  `json:"amount"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e ledger.SpendingEntry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		CardName:  e.CardName,
		Category:  e.Category,
		Amount:    e.Amount.InexactFloat64(),
		Date:      e.Date.String(),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []ledger.SpendingEntry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = toEntryDTO(e)
	}
	return out
}

func toStatusDTO(s rules.OptimizationStatus) OptimizationStatusDTO {
	dto := OptimizationStatusDTO{Card: s.Card, HasActivity: s.HasActivity()}
	for _, c := range s.Caps {
		dto.Caps = append(dto.Caps, CapProgressDTO{
			Description: c.Description,
			Category:    c.Category,
			SharedWith:  c.SharedWith,
			Current:     c.Current.InexactFloat64(),
			Limit:       c.Limit.InexactFloat64(),
			Percent:     c.Percent,
			Exceeded:    c.Exceeded,
			Remaining:   c.Remaining.InexactFloat64(),
			Overage:     c.Overage.InexactFloat64(),
		})
	}
	if s.MinSpend != nil {
		dto.MinSpend = &MinSpendProgressDTO{
			Amount:    s.MinSpend.Amount.InexactFloat64(),
			Current:   s.MinSpend.Current.InexactFloat64(),
			Percent:   s.MinSpend.Percent,
			Met:       s.MinSpend.Met,
			Shortfall: s.MinSpend.Shortfall.InexactFloat64(),
		}
	}
	return dto
}
