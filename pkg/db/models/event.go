package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// Event is a scheduled field visit tied to a company. The lending core only
// reads events to gate request creation and to key timeline lookups.
type Event struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID   uuid.UUID         `gorm:"column:company_id;type:uuid;not null"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Description *string           `gorm:"column:description"`
	Status      enums.EventStatus `gorm:"column:status;type:text;not null;default:'scheduled'"`
	ScheduledAt *time.Time        `gorm:"column:scheduled_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
