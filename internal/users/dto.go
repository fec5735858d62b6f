package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        enums.Role `json:"role"`
	Plan        enums.Plan `json:"plan"`
	Features    []string   `json:"features"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Role         enums.Role
	Plan         enums.Plan
	IsActive     *bool
}

// SetRoleRequest changes a user's platform role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetPlanRequest changes a user's subscription plan and enabled modules.
type SetPlanRequest struct {
	Plan     string   `json:"plan" validate:"required"`
	Features []string `json:"features"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Plan:        u.Plan,
		Features:    append([]string(nil), []string(u.Features)...),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromModels(models []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(models))
	for i := range models {
		out = append(out, FromModel(&models[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	plan := c.Plan
	if plan == "" {
		plan = enums.PlanFree
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		DisplayName:  c.DisplayName,
		Role:         role,
		Plan:         plan,
		IsActive:     isActive,
	}
}
