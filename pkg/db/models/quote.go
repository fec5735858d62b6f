package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// Quote is a priced proposal sent to a client for confirmation and signing.
// TotalCents is always recomputed from the line items on write; a stored
// total that disagrees with the items is never trusted.
type Quote struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string     `gorm:"column:title;not null"`
	DueDate      *time.Time `gorm:"column:due_date;type:date"`
	TotalCents   int64      `gorm:"column:total_cents;not null;default:0"`
	Viewed       bool       `gorm:"column:viewed;not null;default:false"`
	Confirmed    bool       `gorm:"column:confirmed;not null;default:false"`
	SignatureURL *string    `gorm:"column:signature_url"`
	ClientID     *uuid.UUID `gorm:"column:client_id;type:uuid"`
	CreatedBy    uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Items []LineItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// LineItem is a single priced row on a quote. Position preserves the
// display order the editor chose; it carries no other meaning.
type LineItem struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID       uuid.UUID          `gorm:"column:quote_id;type:uuid;not null;index"`
	Position      int                `gorm:"column:position;not null"`
	Name          string             `gorm:"column:name;not null"`
	Unit          string             `gorm:"column:unit"`
	Category      enums.ItemCategory `gorm:"column:category;type:text;not null"`
	Quantity      decimal.Decimal    `gorm:"column:quantity;type:numeric(12,2);not null"`
	PriceCents    int64              `gorm:"column:price_cents;not null"`
	SubtotalCents int64              `gorm:"column:subtotal_cents;not null"`
}
