package attachments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
)

// Repository is the persistence surface for attachment metadata.
type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Attachment, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Attachment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an attachments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	var row models.Attachment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_index ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("sort_index ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Attachment{}).Error
}
