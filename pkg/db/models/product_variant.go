package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is one lendable SKU (size/color) of a product.
type ProductVariant struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	SKU        string            `gorm:"column:sku;not null;uniqueIndex"`
	Attributes map[string]string `gorm:"column:attributes;type:jsonb;serializer:json"`
	Price      decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Stock      int               `gorm:"column:stock;not null;default:0"`
	Product    *Product          `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
