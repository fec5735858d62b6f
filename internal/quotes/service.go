package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// storedFileCleaner removes every blob a quote owns (signature, attachments,
// acceptance photos). Delete calls it before the DB rows go away so the keys
// are still resolvable.
type storedFileCleaner interface {
	RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error
}

// shareStore keeps guest capability tokens, mapped to quote ids with a TTL.
type shareStore interface {
	StoreShareToken(ctx context.Context, token, quoteID string, ttl time.Duration) error
	GetShareToken(ctx context.Context, token string) (string, error)
	RevokeShareToken(ctx context.Context, token string) error
}

// blobStore is the storage surface needed for signature files.
type blobStore interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes the quote lifecycle: storage, versioning, status
// transitions and guest share links.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateQuoteInput) (*models.Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context) ([]models.Quote, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error)
	UpdateItems(ctx context.Context, id uuid.UUID, input UpdateItemsInput) (*models.Quote, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateDetailsInput) error
	SaveVersion(ctx context.Context, id uuid.UUID, input SaveVersionInput) (uuid.UUID, error)
	ListVersions(ctx context.Context, id uuid.UUID) ([]models.QuoteVersion, error)
	RestoreVersion(ctx context.Context, id, versionID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	MarkViewed(ctx context.Context, id uuid.UUID) error
	Confirm(ctx context.Context, id uuid.UUID) error
	AttachSignature(ctx context.Context, id uuid.UUID, url string) error
	PresignSignature(ctx context.Context, id uuid.UUID, mimeType string) (*SignaturePresign, error)

	MintShareLink(ctx context.Context, id uuid.UUID) (*ShareLink, error)
	ResolveShareToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeShareLink(ctx context.Context, token string) error
}

type service struct {
	repo      Repository
	files     storedFileCleaner
	shares    shareStore
	blobs     blobStore
	bucket    string
	uploadTTL time.Duration
	shareTTL  time.Duration
	logg      *logger.Logger
}

// NewService constructs the quote service.
func NewService(repo Repository, files storedFileCleaner, shares shareStore, blobs blobStore, bucket string, uploadTTL, shareTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("stored file cleaner required")
	}
	if shares == nil {
		return nil, fmt.Errorf("share store required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if shareTTL <= 0 {
		return nil, fmt.Errorf("share ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		files:     files,
		shares:    shares,
		blobs:     blobs,
		bucket:    bucket,
		uploadTTL: uploadTTL,
		shareTTL:  shareTTL,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateQuoteInput) (*models.Quote, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner identity missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	quote := &models.Quote{
		ID:        uuid.New(),
		Title:     title,
		CreatedBy: ownerID,
		ClientID:  input.ClientID,
	}
	created, err := s.repo.Create(ctx, quote)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating quote")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, created.ID.String()), "quote created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading quote")
	}
	return quote, nil
}

func (s *service) List(ctx context.Context) ([]models.Quote, error) {
	quotes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing quotes")
	}
	return quotes, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner identity missing")
	}
	quotes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing quotes")
	}
	return quotes, nil
}

// UpdateItems replaces the item set wholesale and recomputes the total.
// Item edits are working state and never create versions.
func (s *service) UpdateItems(ctx context.Context, id uuid.UUID, input UpdateItemsInput) (*models.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	items, total, err := buildLineItems(quote.ID, input.Items)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceItems(ctx, quote.ID, items, total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing items")
	}

	return s.Get(ctx, id)
}

func (s *service) UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateDetailsInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateDetails(ctx, id, title, input.DueDate); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating quote details")
	}
	return nil
}

func (s *service) SaveVersion(ctx context.Context, id uuid.UUID, input SaveVersionInput) (uuid.UUID, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return uuid.Nil, err
	}

	version := &models.QuoteVersion{
		ID:      uuid.New(),
		QuoteID: id,
		Title:   title,
		DueDate: input.DueDate,
	}
	created, err := s.repo.CreateVersion(ctx, version)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving version")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote version saved")
	return created.ID, nil
}

func (s *service) ListVersions(ctx context.Context, id uuid.UUID) ([]models.QuoteVersion, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	versions, err := s.repo.ListVersions(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing versions")
	}
	return versions, nil
}

// RestoreVersion copies a snapshot's title and due date back onto the live
// quote. The snapshot row stays, history is never rewritten.
func (s *service) RestoreVersion(ctx context.Context, id, versionID uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	version, err := s.repo.FindVersion(ctx, id, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "version not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading version")
	}
	if err := s.repo.UpdateDetails(ctx, id, version.Title, version.DueDate); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restoring version")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote version restored")
	return nil
}

// Delete removes the quote, its items, versions and stored files. Blob
// cleanup runs first while the metadata rows still exist.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.files.RemoveQuoteFiles(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing quote files")
	}
	if err := s.blobs.DeleteObject(ctx, s.bucket, signatureKey(id)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing signature file")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting quote")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote deleted")
	return nil
}

func buildLineItems(quoteID uuid.UUID, inputs []LineItemInput) ([]models.LineItem, int64, error) {
	items := make([]models.LineItem, 0, len(inputs))
	var total int64
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: name is required", i))
		}
		if in.Quantity.IsNegative() {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must not be negative", i))
		}
		if in.PriceCents < 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: price must not be negative", i))
		}
		category, err := parseCategory(in.Category)
		if err != nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: %s", i, err))
		}

		subtotal := in.Quantity.Mul(decimal.NewFromInt(in.PriceCents)).Round(0).IntPart()
		items = append(items, models.LineItem{
			ID:            uuid.New(),
			QuoteID:       quoteID,
			Position:      i,
			Name:          name,
			Unit:          strings.TrimSpace(in.Unit),
			Category:      category,
			Quantity:      in.Quantity,
			PriceCents:    in.PriceCents,
			SubtotalCents: subtotal,
		})
		total += subtotal
	}
	return items, total, nil
}
