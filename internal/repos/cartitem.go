package repos

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/halewick/tradeportal-backend/internal/pkg/dbctx"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/types"
)

var ErrRowNotFound = errors.New("cart row not found")

// CartItemRepo is the row-persistence collaborator for the cart engine. All
// operations are scoped to a single user's cart. UpdatePriceForProduct must
// touch every row sharing the product in one statement so the sibling
// broadcast is atomic on the store side.
type CartItemRepo interface {
	InsertRow(dbc dbctx.Context, item *types.CartItem) (*types.CartItem, error)
	UpdateQuantityAndPrice(dbc dbctx.Context, userID, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error
	UpdatePriceForProduct(dbc dbctx.Context, userID, productID uuid.UUID, unitPrice decimal.Decimal) error
	DeleteRow(dbc dbctx.Context, userID, itemID uuid.UUID) error
	DeleteAllRows(dbc dbctx.Context, userID uuid.UUID) error
	ListRows(dbc dbctx.Context, userID uuid.UUID) ([]types.CartItem, error)
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	return &cartItemRepo{db: db, log: baseLog.With("repo", "CartItemRepo")}
}

func (r *cartItemRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *cartItemRepo) InsertRow(dbc dbctx.Context, item *types.CartItem) (*types.CartItem, error) {
	if err := r.handle(dbc).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *cartItemRepo) UpdateQuantityAndPrice(dbc dbctx.Context, userID, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	res := r.handle(dbc).
		Model(&types.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"unit_price": unitPrice,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (r *cartItemRepo) UpdatePriceForProduct(dbc dbctx.Context, userID, productID uuid.UUID, unitPrice decimal.Decimal) error {
	return r.handle(dbc).
		Model(&types.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("unit_price", unitPrice).Error
}

func (r *cartItemRepo) DeleteRow(dbc dbctx.Context, userID, itemID uuid.UUID) error {
	res := r.handle(dbc).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&types.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (r *cartItemRepo) DeleteAllRows(dbc dbctx.Context, userID uuid.UUID) error {
	return r.handle(dbc).
		Where("user_id = ?", userID).
		Delete(&types.CartItem{}).Error
}

func (r *cartItemRepo) ListRows(dbc dbctx.Context, userID uuid.UUID) ([]types.CartItem, error) {
	var rows []types.CartItem
	err := r.handle(dbc).
		Preload("Product").
		Preload("Product.PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("Product.LeadTimeTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
