package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarTask is a scheduled work item, optionally tied to a quote.
type CalendarTask struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Date      time.Time  `gorm:"column:date;type:date;not null;index"`
	QuoteID   *uuid.UUID `gorm:"column:quote_id;type:uuid"`
	Note      *string    `gorm:"column:note"`
	CreatedBy uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
