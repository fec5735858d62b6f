package attachments

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

var allowedMimeTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes attachment metadata plus presigned blob uploads.
type Service interface {
	PresignBatch(ctx context.Context, userID uuid.UUID, input PresignBatchInput) ([]PresignItemResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Attachment, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Attachment, error)
	Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input UpdateInput) error
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

// NewService constructs the attachments service.
func NewService(repo Repository, gcs gcsClient, bucket string, uploadTTL time.Duration, maxUploadBytes int64, maxBatchFiles int, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attachments repository required")
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

// PresignBatch validates and signs every entry independently. One bad file
// reports its own error and the rest of the batch still goes through.
func (s *service) PresignBatch(ctx context.Context, userID uuid.UUID, input PresignBatchInput) ([]PresignItemResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch is empty")
	}
	if len(input.Items) > s.maxBatchFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("batch exceeds %d files", s.maxBatchFiles))
	}

	results := make([]PresignItemResult, 0, len(input.Items))
	for i, item := range input.Items {
		result := s.presignOne(ctx, userID, i, item)
		results = append(results, result)
	}
	return results, nil
}

func (s *service) presignOne(ctx context.Context, userID uuid.UUID, index int, item PresignItemInput) PresignItemResult {
	fail := func(msg string) PresignItemResult {
		return PresignItemResult{Index: index, OK: false, Error: msg}
	}

	fileName := strings.TrimSpace(item.FileName)
	if fileName == "" {
		return fail("file_name is required")
	}
	if item.SizeBytes <= 0 {
		return fail("size_bytes must be positive")
	}
	if item.SizeBytes > s.maxUploadBytes {
		return fail(fmt.Sprintf("size_bytes must be <= %d bytes", s.maxUploadBytes))
	}
	mimeType := strings.TrimSpace(item.MimeType)
	if !allowedMimeTypes[strings.ToLower(mimeType)] {
		return fail("mime_type not allowed")
	}
	category := enums.AttachmentCategoryOther
	if item.Category != "" {
		parsed, err := enums.ParseAttachmentCategory(item.Category)
		if err != nil {
			return fail(err.Error())
		}
		category = parsed
	}

	attachmentID := uuid.New()
	gcsKey := buildGCSKey(userID, attachmentID, fileName)
	publicURL := s.gcs.PublicURL(s.bucket, gcsKey)

	row := &models.Attachment{
		ID:        attachmentID,
		UserID:    userID,
		QuoteID:   item.QuoteID,
		FileName:  fileName,
		GCSKey:    gcsKey,
		URL:       &publicURL,
		MimeType:  mimeType,
		SizeBytes: item.SizeBytes,
		Note:      strings.TrimSpace(item.Note),
		Category:  category,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return fail("persisting attachment failed")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, attachmentID)
		return fail("signing upload url failed")
	}

	return PresignItemResult{
		Index:        index,
		OK:           true,
		AttachmentID: attachmentID,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    &expiresAt,
	}
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Attachment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing attachments")
	}
	return rows, nil
}

func (s *service) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Attachment, error) {
	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing quote attachments")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input UpdateInput) error {
	row, err := s.mustOwn(ctx, requesterID, requesterRole, id)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if input.Note != nil {
		updates["note"] = strings.TrimSpace(*input.Note)
	}
	if input.Category != nil {
		category, err := enums.ParseAttachmentCategory(*input.Category)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["category"] = category
	}
	if input.SortIndex != nil {
		updates["sort_index"] = *input.SortIndex
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, row.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating attachment")
	}
	return nil
}

// Delete removes the blob first so a partial failure never orphans storage
// behind a missing row.
func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	row, err := s.mustOwn(ctx, requesterID, requesterRole, id)
	if err != nil {
		return err
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing attachment blob")
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting attachment")
	}

	s.logg.Info(ctx, "attachment deleted")
	return nil
}

// RemoveQuoteFiles drops every attachment owned by a quote, blobs included.
// Runs as part of the quote delete cascade.
func (s *service) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	rows, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("listing quote attachments: %w", err)
	}
	for _, row := range rows {
		if err := s.gcs.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
			return fmt.Errorf("removing blob %s: %w", row.GCSKey, err)
		}
		if err := s.repo.Delete(ctx, row.ID); err != nil {
			return fmt.Errorf("deleting attachment %s: %w", row.ID, err)
		}
	}
	return nil
}

func (s *service) mustOwn(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) (*models.Attachment, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attachment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading attachment")
	}
	if requesterRole != enums.RoleAdmin && row.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return row, nil
}

func buildGCSKey(userID, attachmentID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = attachmentID.String()
	}
	return fmt.Sprintf("attachments/%s/%s/%s", userID.String(), attachmentID.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
