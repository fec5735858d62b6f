package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// LineItemInput is one priced row submitted by the editor. Quantity accepts
// fractional values since area-derived quantities are common.
type LineItemInput struct {
	Name       string          `json:"name" validate:"required"`
	Unit       string          `json:"unit"`
	Category   string          `json:"category"`
	Quantity   decimal.Decimal `json:"quantity"`
	PriceCents int64           `json:"price_cents" validate:"gte=0"`
}

// CreateQuoteInput is the payload for creating a new quote.
type CreateQuoteInput struct {
	Title    string     `json:"title" validate:"required"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
}

// UpdateItemsInput replaces the full item set of a quote.
type UpdateItemsInput struct {
	Items []LineItemInput `json:"items" validate:"dive"`
}

// UpdateDetailsInput mutates the live title and due date.
type UpdateDetailsInput struct {
	Title   string     `json:"title" validate:"required"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// SaveVersionInput snapshots the editor's current title and due date.
type SaveVersionInput struct {
	Title   string     `json:"title" validate:"required"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// LineItemResponse is one row in a quote payload.
type LineItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit,omitempty"`
	Category      string          `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceCents    int64           `json:"price_cents"`
	SubtotalCents int64           `json:"subtotal_cents"`
}

// QuoteResponse is the full quote payload including the derived due label.
type QuoteResponse struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	Due          DueLabel           `json:"due"`
	TotalCents   int64              `json:"total_cents"`
	Viewed       bool               `json:"viewed"`
	Confirmed    bool               `json:"confirmed"`
	SignatureURL *string            `json:"signature_url,omitempty"`
	ClientID     *uuid.UUID         `json:"client_id,omitempty"`
	CreatedBy    uuid.UUID          `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Items        []LineItemResponse `json:"items"`
}

// QuoteSummary is the lighter shape returned by list endpoints.
type QuoteSummary struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Due        DueLabel   `json:"due"`
	TotalCents int64      `json:"total_cents"`
	Viewed     bool       `json:"viewed"`
	Confirmed  bool       `json:"confirmed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VersionResponse is one snapshot row in a quote's history.
type VersionResponse struct {
	ID      uuid.UUID  `json:"id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date,omitempty"`
	SavedAt time.Time  `json:"saved_at"`
}

// ShareLink is the minted guest capability returned to the owner.
type ShareLink struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToResponse maps a stored quote onto the API shape, deriving the due label
// from the current clock.
func ToResponse(quote *models.Quote, now time.Time) QuoteResponse {
	items := make([]LineItemResponse, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, LineItemResponse{
			ID:            item.ID,
			Name:          item.Name,
			Unit:          item.Unit,
			Category:      item.Category.String(),
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents,
			SubtotalCents: item.SubtotalCents,
		})
	}
	return QuoteResponse{
		ID:           quote.ID,
		Title:        quote.Title,
		DueDate:      quote.DueDate,
		Due:          DueLabelFor(quote.DueDate, now),
		TotalCents:   quote.TotalCents,
		Viewed:       quote.Viewed,
		Confirmed:    quote.Confirmed,
		SignatureURL: quote.SignatureURL,
		ClientID:     quote.ClientID,
		CreatedBy:    quote.CreatedBy,
		CreatedAt:    quote.CreatedAt,
		UpdatedAt:    quote.UpdatedAt,
		Items:        items,
	}
}

// ToSummaries maps stored quotes onto the list shape.
func ToSummaries(quotes []models.Quote, now time.Time) []QuoteSummary {
	out := make([]QuoteSummary, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, QuoteSummary{
			ID:         q.ID,
			Title:      q.Title,
			DueDate:    q.DueDate,
			Due:        DueLabelFor(q.DueDate, now),
			TotalCents: q.TotalCents,
			Viewed:     q.Viewed,
			Confirmed:  q.Confirmed,
			CreatedAt:  q.CreatedAt,
		})
	}
	return out
}

// ToVersionResponses maps snapshot rows onto the history shape.
func ToVersionResponses(versions []models.QuoteVersion) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionResponse{
			ID:      v.ID,
			Title:   v.Title,
			DueDate: v.DueDate,
			SavedAt: v.SavedAt,
		})
	}
	return out
}

func parseCategory(raw string) (enums.ItemCategory, error) {
	if raw == "" {
		return enums.ItemCategoryOther, nil
	}
	return enums.ParseItemCategory(raw)
}
