package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// Service defines the admin account-management surface.
type Service interface {
	List(ctx context.Context) ([]*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	SetRole(ctx context.Context, id uuid.UUID, req SetRoleRequest) (*UserDTO, error)
	SetPlan(ctx context.Context, id uuid.UUID, req SetPlanRequest) (*UserDTO, error)
}

type adminRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.Role) error
	UpdatePlanAndFeatures(ctx context.Context, id uuid.UUID, plan enums.Plan, features []string) error
}

type service struct {
	repo adminRepository
	logg *logger.Logger
}

// NewService constructs the admin user-management service.
func NewService(repo adminRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]*UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(users), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) SetRole(ctx context.Context, id uuid.UUID, req SetRoleRequest) (*UserDTO, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": req.Role})
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}

	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user role changed to "+role.String())
	return s.Get(ctx, id)
}

func (s *service) SetPlan(ctx context.Context, id uuid.UUID, req SetPlanRequest) (*UserDTO, error) {
	plan, err := enums.ParsePlan(req.Plan)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan").
			WithDetails(map[string]any{"plan": req.Plan})
	}

	features := make([]string, 0, len(req.Features))
	for _, raw := range req.Features {
		feature, err := enums.ParseFeature(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid feature").
				WithDetails(map[string]any{"feature": raw})
		}
		features = append(features, feature.String())
	}

	if err := s.repo.UpdatePlanAndFeatures(ctx, id, plan, features); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update plan")
	}

	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user plan changed to "+plan.String())
	return s.Get(ctx, id)
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
