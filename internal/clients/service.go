package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// Input is the payload for creating or replacing a client record.
type Input struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	ContactPerson string `json:"contact_person"`
	Notes         string `json:"notes"`
}

// Response is the client payload returned by the admin endpoints.
type Response struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponses maps stored client rows onto the API shape.
func ToResponses(rows []models.Client) []Response {
	out := make([]Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToResponse(&row))
	}
	return out
}

// ToResponse maps one stored client row onto the API shape.
func ToResponse(row *models.Client) Response {
	return Response{
		ID:            row.ID,
		Name:          row.Name,
		Phone:         row.Phone,
		Email:         row.Email,
		ContactPerson: row.ContactPerson,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt,
	}
}

// Repository is the persistence surface for client records.
type Repository interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service manages the customer roster quotes reference.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id uuid.UUID, input Input) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService constructs the clients service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	client := &models.Client{
		ID:            uuid.New(),
		Name:          name,
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.TrimSpace(input.Email),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Notes:         strings.TrimSpace(input.Notes),
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating client")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading client")
	}
	return row, nil
}

func (s *service) List(ctx context.Context) ([]models.Client, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing clients")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	updates := map[string]any{
		"name":           name,
		"phone":          strings.TrimSpace(input.Phone),
		"email":          strings.TrimSpace(input.Email),
		"contact_person": strings.TrimSpace(input.ContactPerson),
		"notes":          strings.TrimSpace(input.Notes),
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating client")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting client")
	}
	return nil
}
