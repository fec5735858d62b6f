package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer record managed by staff.
type Client struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Phone         string    `gorm:"column:phone"`
	Email         string    `gorm:"column:email"`
	ContactPerson string    `gorm:"column:contact_person"`
	Notes         string    `gorm:"column:notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
