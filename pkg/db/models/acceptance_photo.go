package models

import (
	"time"

	"github.com/google/uuid"
)

// AcceptancePhoto records a completion photo uploaded against a quote.
type AcceptancePhoto struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID   uuid.UUID  `gorm:"column:quote_id;type:uuid;not null;index"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	FileName  string     `gorm:"column:file_name;not null"`
	GCSKey    string     `gorm:"column:gcs_key;not null;unique"`
	URL       *string    `gorm:"column:url"`
	MimeType  string     `gorm:"column:mime_type;not null"`
	SizeBytes int64      `gorm:"column:size_bytes;not null"`
	Note      string     `gorm:"column:note"`
	TakenAt   *time.Time `gorm:"column:taken_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
