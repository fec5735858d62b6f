package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quotes repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// ReplaceItems swaps the full item set and the stored total in one
// transaction so a failed write leaves the quote untouched.
func (r *repository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.LineItem, totalCents int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quoteID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Quote{}).
			Where("id = ?", quoteID).
			Update("total_cents", totalCents).Error
	})
}

func (r *repository) UpdateDetails(ctx context.Context, quoteID uuid.UUID, title string, dueDate *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Updates(map[string]any{"title": title, "due_date": dueDate}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, quoteID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, quoteID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quoteID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteVersion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", quoteID).Delete(&models.Quote{}).Error
	})
}

func (r *repository) CreateVersion(ctx context.Context, version *models.QuoteVersion) (*models.QuoteVersion, error) {
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (r *repository) ListVersions(ctx context.Context, quoteID uuid.UUID) ([]models.QuoteVersion, error) {
	var versions []models.QuoteVersion
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("saved_at ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *repository) FindVersion(ctx context.Context, quoteID, versionID uuid.UUID) (*models.QuoteVersion, error) {
	var version models.QuoteVersion
	err := r.db.WithContext(ctx).
		Where("id = ? AND quote_id = ?", versionID, quoteID).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}
