package acceptance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an acceptance photo repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, photo *models.AcceptancePhoto) (*models.AcceptancePhoto, error) {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AcceptancePhoto, error) {
	var row models.AcceptancePhoto
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error) {
	var rows []models.AcceptancePhoto
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.AcceptancePhoto{}).Error
}
