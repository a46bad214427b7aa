package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SKU           string          `gorm:"uniqueIndex;not null;column:sku" json:"sku"`
	Name          string          `gorm:"not null;column:name" json:"name"`
	Description   string          `gorm:"column:description" json:"description"`
	GSTPercent    decimal.Decimal `gorm:"type:decimal(10,2);column:gst_percent" json:"gst_percent"`
	PriceTiers    []PriceTier     `gorm:"foreignKey:ProductID" json:"price_tiers"`
	LeadTimeTiers []LeadTimeTier  `gorm:"foreignKey:ProductID" json:"lead_time_tiers"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceTier maps a quantity range to a unit price. A product's tiers form an
// ordered, non-overlapping partition of the quantity axis. MaxQuantity 0
// means the tier is unbounded above.
type PriceTier struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	MinQuantity int             `gorm:"not null;column:min_quantity" json:"min_quantity"`
	MaxQuantity int             `gorm:"not null;column:max_quantity" json:"max_quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null;column:price" json:"price"`
}

func (PriceTier) TableName() string {
	return "price_tier"
}

func (t *PriceTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// LeadTimeTier is resolved the same way as PriceTier but only drives the
// expected-delivery display; it never participates in pricing.
type LeadTimeTier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	MinQuantity int       `gorm:"not null;column:min_quantity" json:"min_quantity"`
	MaxQuantity int       `gorm:"not null;column:max_quantity" json:"max_quantity"`
	LeadDays    int       `gorm:"not null;column:lead_days" json:"lead_days"`
}

func (LeadTimeTier) TableName() string {
	return "lead_time_tier"
}

func (t *LeadTimeTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
