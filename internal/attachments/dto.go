package attachments

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
)

// PresignItemInput is one requested upload inside a batch.
type PresignItemInput struct {
	FileName  string     `json:"file_name" validate:"required"`
	MimeType  string     `json:"mime_type" validate:"required"`
	SizeBytes int64      `json:"size_bytes" validate:"gt=0"`
	Category  string     `json:"category"`
	Note      string     `json:"note"`
	QuoteID   *uuid.UUID `json:"quote_id,omitempty"`
}

// PresignBatchInput carries the whole upload batch.
type PresignBatchInput struct {
	Items []PresignItemInput `json:"items" validate:"required,dive"`
}

// PresignItemResult reports the outcome for one batch entry. A failed entry
// never aborts the rest of the batch.
type PresignItemResult struct {
	Index        int        `json:"index"`
	OK           bool       `json:"ok"`
	Error        string     `json:"error,omitempty"`
	AttachmentID uuid.UUID  `json:"attachment_id,omitempty"`
	GCSKey       string     `json:"gcs_key,omitempty"`
	SignedPUTURL string     `json:"signed_put_url,omitempty"`
	ContentType  string     `json:"content_type,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// UpdateInput patches attachment metadata. Nil fields stay untouched.
type UpdateInput struct {
	Note      *string `json:"note,omitempty"`
	Category  *string `json:"category,omitempty"`
	SortIndex *int64  `json:"sort_index,omitempty"`
}

// Response is the attachment payload returned by list endpoints.
type Response struct {
	ID        uuid.UUID  `json:"id"`
	QuoteID   *uuid.UUID `json:"quote_id,omitempty"`
	FileName  string     `json:"file_name"`
	URL       *string    `json:"url,omitempty"`
	MimeType  string     `json:"mime_type"`
	SizeBytes int64      `json:"size_bytes"`
	Note      string     `json:"note,omitempty"`
	Category  string     `json:"category"`
	SortIndex int64      `json:"sort_index"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponses maps stored rows onto the API shape.
func ToResponses(rows []models.Attachment) []Response {
	out := make([]Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, Response{
			ID:        row.ID,
			QuoteID:   row.QuoteID,
			FileName:  row.FileName,
			URL:       row.URL,
			MimeType:  row.MimeType,
			SizeBytes: row.SizeBytes,
			Note:      row.Note,
			Category:  row.Category.String(),
			SortIndex: row.SortIndex,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
