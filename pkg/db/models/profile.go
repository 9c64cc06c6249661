package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// Profile is the acting principal: a field rep, manager, or admin.
type Profile struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string           `gorm:"column:email;not null;uniqueIndex"`
	FullName  string           `gorm:"column:fullname;not null"`
	Role      enums.MemberRole `gorm:"column:role;type:text;not null;default:'field_rep'"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
