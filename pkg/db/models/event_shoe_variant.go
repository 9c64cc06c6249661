package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// EventShoeVariant is the inventory ledger entry: one variant allocated to
// one event. The (event_id, variant_id) pair is unique; repeated approvals
// for the same pair increment Quantity instead of inserting a second row.
type EventShoeVariant struct {
	ID        uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID   uuid.UUID                    `gorm:"column:event_id;type:uuid;not null;uniqueIndex:ux_event_shoe_variants_event_variant"`
	VariantID uuid.UUID                    `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:ux_event_shoe_variants_event_variant"`
	Quantity  int                          `gorm:"column:quantity;not null"`
	Status    enums.EventShoeVariantStatus `gorm:"column:status;type:text;not null;default:'allocated'"`
	CreatedAt time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}
