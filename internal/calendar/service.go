package calendar

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

// TaskInput is the payload for creating or replacing a calendar task.
type TaskInput struct {
	Title   string     `json:"title" validate:"required"`
	Date    time.Time  `json:"date" validate:"required"`
	QuoteID *uuid.UUID `json:"quote_id,omitempty"`
	Note    *string    `json:"note,omitempty"`
}

// TaskResponse is the task payload returned by list endpoints.
type TaskResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Date      time.Time  `json:"date"`
	QuoteID   *uuid.UUID `json:"quote_id,omitempty"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse maps one stored task onto the API shape.
func ToResponse(row *models.CalendarTask) TaskResponse {
	return TaskResponse{
		ID:        row.ID,
		Title:     row.Title,
		Date:      row.Date,
		QuoteID:   row.QuoteID,
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}
}

// ToResponses maps stored tasks onto the API shape.
func ToResponses(rows []models.CalendarTask) []TaskResponse {
	out := make([]TaskResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToResponse(&row))
	}
	return out
}

// Repository is the persistence surface for calendar tasks.
type Repository interface {
	Create(ctx context.Context, task *models.CalendarTask) (*models.CalendarTask, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CalendarTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CalendarTask, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the scheduling module.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*models.CalendarTask, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.CalendarTask, error)
	Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input TaskInput) error
	Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService constructs the calendar service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("calendar repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*models.CalendarTask, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	task := &models.CalendarTask{
		ID:        uuid.New(),
		Title:     title,
		Date:      input.Date,
		QuoteID:   input.QuoteID,
		Note:      input.Note,
		CreatedBy: userID,
	}
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating task")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.CalendarTask, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing tasks")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input TaskInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if _, err := s.mustOwn(ctx, requesterID, requesterRole, id); err != nil {
		return err
	}

	updates := map[string]any{
		"title":    title,
		"date":     input.Date,
		"quote_id": input.QuoteID,
		"note":     input.Note,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating task")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	if _, err := s.mustOwn(ctx, requesterID, requesterRole, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting task")
	}
	return nil
}

func (s *service) mustOwn(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) (*models.CalendarTask, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading task")
	}
	if requesterRole != enums.RoleAdmin && row.CreatedBy != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return row, nil
}
