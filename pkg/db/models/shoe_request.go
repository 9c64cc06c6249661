package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// ShoeRequest is one field rep's request to borrow a sample variant for an
// event. Status only ever stores pending/approved/rejected; the "returned"
// display value is derived from shoe_returns at read time.
type ShoeRequest struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     uuid.UUID               `gorm:"column:event_id;type:uuid;not null;index"`
	VariantID   uuid.UUID               `gorm:"column:variant_id;type:uuid;not null"`
	Quantity    int                     `gorm:"column:quantity;not null"`
	Status      enums.ShoeRequestStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	RequestedBy uuid.UUID               `gorm:"column:requested_by;type:uuid;not null"`
	ApprovedBy  *uuid.UUID              `gorm:"column:approved_by;type:uuid"`
	ApprovedAt  *time.Time              `gorm:"column:approved_at"`
	Reason      *string                 `gorm:"column:reason"`
	Note        *string                 `gorm:"column:note"`
	ReturnDate  *time.Time              `gorm:"column:return_date"`
	PickupDate  *time.Time              `gorm:"column:pickup_date"`
	Event       *Event                  `gorm:"foreignKey:EventID"`
	Variant     *ProductVariant         `gorm:"foreignKey:VariantID"`
	Requester   *Profile                `gorm:"foreignKey:RequestedBy"`
	Approver    *Profile                `gorm:"foreignKey:ApprovedBy"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
