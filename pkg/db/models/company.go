package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is a customer account that field events are scheduled against.
type Company struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	City      *string   `gorm:"column:city"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
