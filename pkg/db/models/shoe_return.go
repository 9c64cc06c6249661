package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoeReturn records one partial or full return against a ledger entry.
// Rows are immutable once created.
type ShoeReturn struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventShoeVariantID uuid.UUID  `gorm:"column:event_shoe_variant_id;type:uuid;not null;index"`
	ShoeRequestID      *uuid.UUID `gorm:"column:shoe_request_id;type:uuid"`
	Quantity           int        `gorm:"column:quantity;not null"`
	ReturnedBy         uuid.UUID  `gorm:"column:returned_by;type:uuid;not null"`
	ReturnedAt         time.Time  `gorm:"column:returned_at;not null"`
	Reason             *string    `gorm:"column:reason"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
}
