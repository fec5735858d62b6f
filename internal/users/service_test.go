package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

type stubAdminRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubAdminRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubAdminRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.Role) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

func (s *stubAdminRepo) UpdatePlanAndFeatures(ctx context.Context, id uuid.UUID, plan enums.Plan, features []string) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Plan = plan
	user.Features = features
	return nil
}

func newUsersFixture(t *testing.T) (Service, *stubAdminRepo) {
	t.Helper()

	repo := newStubAdminRepo()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc, repo
}

func assertUsersCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != want {
		t.Fatalf("expected %s error, got %v", want, err)
	}
}

func TestSetRoleValidatesEnum(t *testing.T) {
	svc, repo := newUsersFixture(t)
	ctx := context.Background()

	id := uuid.New()
	repo.users[id] = &models.User{ID: id, Email: "crew@example.com", Role: enums.RoleUser}

	_, err := svc.SetRole(ctx, id, SetRoleRequest{Role: "superuser"})
	assertUsersCode(t, err, pkgerrors.CodeValidation)

	dto, err := svc.SetRole(ctx, id, SetRoleRequest{Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, enums.RoleAdmin, dto.Role)

	_, err = svc.SetRole(ctx, uuid.New(), SetRoleRequest{Role: "admin"})
	assertUsersCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetPlanValidatesFeatures(t *testing.T) {
	svc, repo := newUsersFixture(t)
	ctx := context.Background()

	id := uuid.New()
	repo.users[id] = &models.User{ID: id, Email: "crew@example.com", Plan: enums.PlanFree}

	_, err := svc.SetPlan(ctx, id, SetPlanRequest{Plan: "enterprise"})
	assertUsersCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.SetPlan(ctx, id, SetPlanRequest{Plan: "free", Features: []string{"time-travel"}})
	assertUsersCode(t, err, pkgerrors.CodeValidation)

	dto, err := svc.SetPlan(ctx, id, SetPlanRequest{
		Plan:     "free",
		Features: []string{"calendar", "clients"},
	})
	require.NoError(t, err)
	require.Equal(t, enums.PlanFree, dto.Plan)
	require.Equal(t, []string{"calendar", "clients"}, dto.Features)
}

func TestGetMapsNotFound(t *testing.T) {
	svc, _ := newUsersFixture(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assertUsersCode(t, err, pkgerrors.CodeNotFound)
}
