package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// User represents the canonical identity entity. Role and plan live here,
// not in the auth token: middleware re-resolves them on every request.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	DisplayName  string         `gorm:"column:display_name;not null"`
	Role         enums.Role     `gorm:"column:role;type:text;not null;default:'user'"`
	Plan         enums.Plan     `gorm:"column:plan;type:text;not null;default:'free'"`
	Features     pq.StringArray `gorm:"column:features;type:text[]"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
