package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// Attachment captures metadata for an uploaded project document.
type Attachment struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	QuoteID   *uuid.UUID               `gorm:"column:quote_id;type:uuid;index"`
	FileName  string                   `gorm:"column:file_name;not null"`
	GCSKey    string                   `gorm:"column:gcs_key;not null;unique"`
	URL       *string                  `gorm:"column:url"`
	MimeType  string                   `gorm:"column:mime_type;not null"`
	SizeBytes int64                    `gorm:"column:size_bytes;not null"`
	Note      string                   `gorm:"column:note"`
	Category  enums.AttachmentCategory `gorm:"column:category;type:text;not null;default:'other'"`
	SortIndex int64                    `gorm:"column:sort_index;not null"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}
