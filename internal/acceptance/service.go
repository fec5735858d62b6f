package acceptance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

var photoMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// PresignPhotoInput is one requested photo upload inside a batch.
type PresignPhotoInput struct {
	FileName  string     `json:"file_name" validate:"required"`
	MimeType  string     `json:"mime_type" validate:"required"`
	SizeBytes int64      `json:"size_bytes" validate:"gt=0"`
	Note      string     `json:"note"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
}

// PresignBatchInput carries the whole photo batch for one quote.
type PresignBatchInput struct {
	Items []PresignPhotoInput `json:"items" validate:"required,dive"`
}

// PresignPhotoResult reports one batch entry's outcome.
type PresignPhotoResult struct {
	Index        int        `json:"index"`
	OK           bool       `json:"ok"`
	Error        string     `json:"error,omitempty"`
	PhotoID      uuid.UUID  `json:"photo_id,omitempty"`
	SignedPUTURL string     `json:"signed_put_url,omitempty"`
	PublicURL    string     `json:"public_url,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// PhotoResponse is the acceptance photo payload returned by list endpoints.
type PhotoResponse struct {
	ID        uuid.UUID  `json:"id"`
	FileName  string     `json:"file_name"`
	URL       *string    `json:"url,omitempty"`
	Note      string     `json:"note,omitempty"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponses maps stored rows onto the API shape.
func ToResponses(rows []models.AcceptancePhoto) []PhotoResponse {
	out := make([]PhotoResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, PhotoResponse{
			ID:        row.ID,
			FileName:  row.FileName,
			URL:       row.URL,
			Note:      row.Note,
			TakenAt:   row.TakenAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}

// Repository is the persistence surface for acceptance photos.
type Repository interface {
	Create(ctx context.Context, photo *models.AcceptancePhoto) (*models.AcceptancePhoto, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AcceptancePhoto, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes acceptance photo uploads for completed work.
type Service interface {
	PresignBatch(ctx context.Context, userID, quoteID uuid.UUID, input PresignBatchInput) ([]PresignPhotoResult, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error)
	Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error
	RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error
}

type service struct {
	repo           Repository
	gcs            gcsClient
	bucket         string
	uploadTTL      time.Duration
	maxUploadBytes int64
	maxBatchFiles  int
	logg           *logger.Logger
}

// NewService constructs the acceptance photo service.
func NewService(repo Repository, gcs gcsClient, bucket string, uploadTTL time.Duration, maxUploadBytes int64, maxBatchFiles int, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("acceptance repository required")
	}
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if maxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	if maxBatchFiles <= 0 {
		return nil, fmt.Errorf("max batch files must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:           repo,
		gcs:            gcs,
		bucket:         bucket,
		uploadTTL:      uploadTTL,
		maxUploadBytes: maxUploadBytes,
		maxBatchFiles:  maxBatchFiles,
		logg:           logg,
	}, nil
}

// PresignBatch signs every photo independently, reporting per-entry results.
func (s *service) PresignBatch(ctx context.Context, userID, quoteID uuid.UUID, input PresignBatchInput) ([]PresignPhotoResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if quoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch is empty")
	}
	if len(input.Items) > s.maxBatchFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("batch exceeds %d files", s.maxBatchFiles))
	}

	results := make([]PresignPhotoResult, 0, len(input.Items))
	for i, item := range input.Items {
		results = append(results, s.presignOne(ctx, userID, quoteID, i, item))
	}
	return results, nil
}

func (s *service) presignOne(ctx context.Context, userID, quoteID uuid.UUID, index int, item PresignPhotoInput) PresignPhotoResult {
	fail := func(msg string) PresignPhotoResult {
		return PresignPhotoResult{Index: index, OK: false, Error: msg}
	}

	if item.SizeBytes <= 0 {
		return fail("size_bytes must be positive")
	}
	if item.SizeBytes > s.maxUploadBytes {
		return fail(fmt.Sprintf("size_bytes must be <= %d bytes", s.maxUploadBytes))
	}
	mimeType := strings.ToLower(strings.TrimSpace(item.MimeType))
	if !photoMimeTypes[mimeType] {
		return fail("mime_type not allowed")
	}

	photoID := uuid.New()
	gcsKey := fmt.Sprintf("acceptance/%s/%s", quoteID.String(), photoID.String())
	publicURL := s.gcs.PublicURL(s.bucket, gcsKey)

	fileName := strings.TrimSpace(item.FileName)
	if fileName == "" {
		fileName = photoID.String()
	}
	row := &models.AcceptancePhoto{
		ID:        photoID,
		QuoteID:   quoteID,
		UserID:    userID,
		FileName:  fileName,
		GCSKey:    gcsKey,
		URL:       &publicURL,
		MimeType:  mimeType,
		SizeBytes: item.SizeBytes,
		Note:      strings.TrimSpace(item.Note),
		TakenAt:   item.TakenAt,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return fail("persisting photo failed")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, photoID)
		return fail("signing upload url failed")
	}

	return PresignPhotoResult{
		Index:        index,
		OK:           true,
		PhotoID:      photoID,
		SignedPUTURL: signedURL,
		PublicURL:    publicURL,
		ExpiresAt:    &expiresAt,
	}
}

func (s *service) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error) {
	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing acceptance photos")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	if requesterID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading photo")
	}
	if requesterRole != enums.RoleAdmin && row.UserID != requesterID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	if err := s.gcs.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing photo blob")
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting photo")
	}

	s.logg.Info(ctx, "acceptance photo deleted")
	return nil
}

// RemoveQuoteFiles drops every photo a quote owns, blobs included.
func (s *service) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("listing acceptance photos: %w", err)
	}
	for _, row := range rows {
		if err := s.gcs.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
			return fmt.Errorf("removing blob %s: %w", row.GCSKey, err)
		}
		if err := s.repo.Delete(ctx, row.ID); err != nil {
			return fmt.Errorf("deleting photo %s: %w", row.ID, err)
		}
	}
	return nil
}
