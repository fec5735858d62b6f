package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteVersion is an immutable checkpoint of a quote's title and due date.
// Rows are append-only; restore copies fields back onto the live quote and
// never deletes history.
type QuoteVersion struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID uuid.UUID  `gorm:"column:quote_id;type:uuid;not null;index"`
	Title   string     `gorm:"column:title;not null"`
	DueDate *time.Time `gorm:"column:due_date;type:date"`
	SavedAt time.Time  `gorm:"column:saved_at;autoCreateTime;index"`
}
