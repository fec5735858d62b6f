package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
)

// Repository is the persistence surface for quotes, line items and version
// snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListAll(ctx context.Context) ([]models.Quote, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error)
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.LineItem, totalCents int64) error
	UpdateDetails(ctx context.Context, quoteID uuid.UUID, title string, dueDate *time.Time) error
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, quoteID uuid.UUID) error
	CreateVersion(ctx context.Context, version *models.QuoteVersion) (*models.QuoteVersion, error)
	ListVersions(ctx context.Context, quoteID uuid.UUID) ([]models.QuoteVersion, error)
	FindVersion(ctx context.Context, quoteID, versionID uuid.UUID) (*models.QuoteVersion, error)
}
