package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one persisted cart row for a specific product/color/size
// combination. At most one row may exist per (user, product, color, size).
// UnitPrice is the group-resolved tier price shared by every row of the same
// product in the user's cart.
type CartItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant,priority:1" json:"user_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_variant,priority:2" json:"product_id"`
	Product    *Product        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Color      string          `gorm:"not null;column:color;uniqueIndex:idx_cart_variant,priority:3" json:"color"`
	Size       string          `gorm:"not null;column:size;uniqueIndex:idx_cart_variant,priority:4" json:"size"`
	Quantity   int             `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(16,2);not null;column:unit_price" json:"unit_price"`
	GSTPercent decimal.Decimal `gorm:"type:decimal(10,2);column:gst_percent" json:"gst_percent"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_item"
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
