package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

// DueStatus classifies a quote's deadline relative to now.
type DueStatus string

const (
	DueStatusNone      DueStatus = "no_due_date"
	DueStatusOverdue   DueStatus = "overdue"
	DueStatusRemaining DueStatus = "days_remaining"
)

// DueLabel is the derived deadline label shown on dashboards and previews.
type DueLabel struct {
	Status        DueStatus `json:"status"`
	DaysRemaining int       `json:"days_remaining,omitempty"`
}

// DueLabelFor derives the label from a due date. Remaining days truncate
// toward zero, so a deadline later today reads as zero days left.
func DueLabelFor(due *time.Time, now time.Time) DueLabel {
	if due == nil {
		return DueLabel{Status: DueStatusNone}
	}
	diff := due.Sub(now)
	if diff < 0 {
		return DueLabel{Status: DueStatusOverdue}
	}
	return DueLabel{
		Status:        DueStatusRemaining,
		DaysRemaining: int(diff / (24 * time.Hour)),
	}
}

// MarkViewed flips the viewed flag once. Repeat calls are no-ops; the flag
// never reverts.
func (s *service) MarkViewed(ctx context.Context, id uuid.UUID) error {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if quote.Viewed {
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, id, map[string]any{"viewed": true}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking quote viewed")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote viewed")
	return nil
}

// Confirm flips the confirmed flag. The quote must have been viewed first;
// once confirmed the call is idempotent and the flag never reverts.
func (s *service) Confirm(ctx context.Context, id uuid.UUID) error {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if quote.Confirmed {
		return nil
	}
	if !quote.Viewed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quote must be viewed before confirmation")
	}
	if err := s.repo.UpdateStatus(ctx, id, map[string]any{"confirmed": true}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirming quote")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote confirmed")
	return nil
}

// SignaturePresign is the upload grant for a signature image.
type SignaturePresign struct {
	SignedPUTURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

var signatureMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// signatureKey is deterministic per quote so a re-sign overwrites the old
// blob and delete needs no listing.
func signatureKey(id uuid.UUID) string {
	return "signatures/" + id.String()
}

// PresignSignature grants a direct PUT for the quote's signature image.
// Confirmed quotes are frozen and cannot be re-signed.
func (s *service) PresignSignature(ctx context.Context, id uuid.UUID, mimeType string) (*SignaturePresign, error) {
	if !signatureMimeTypes[mimeType] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported signature mime type")
	}
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Confirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "confirmed quote cannot be re-signed")
	}

	key := signatureKey(id)
	signed, err := s.blobs.SignedURL(s.bucket, key, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "signing upload url")
	}

	return &SignaturePresign{
		SignedPUTURL: signed,
		PublicURL:    s.blobs.PublicURL(s.bucket, key),
		ContentType:  mimeType,
		ExpiresAt:    time.Now().Add(s.uploadTTL),
	}, nil
}

// AttachSignature stores the signature file URL. Re-signing overwrites while
// the quote is still open; once confirmed the signature is frozen.
func (s *service) AttachSignature(ctx context.Context, id uuid.UUID, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "signature url is required")
	}
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if quote.Confirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "confirmed quote cannot be re-signed")
	}
	if err := s.repo.UpdateStatus(ctx, id, map[string]any{"signature_url": url}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching signature")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "signature attached")
	return nil
}
