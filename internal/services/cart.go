package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halewick/tradeportal-backend/internal/pkg/ctxutil"
	"github.com/halewick/tradeportal-backend/internal/pkg/dbctx"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/types"
)

var (
	// ErrInvalidQuantity rejects non-positive quantities before any remote
	// call is issued.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnauthorized    = errors.New("no authenticated user in context")
)

// CartService coordinates every user-initiated cart mutation: it derives the
// prospective group quantity, resolves the tier price against it, persists
// the primary row change followed by the sibling price broadcast, and only
// then applies the matching local transitions. Every item of a product group
// must hold the same unit price after a successful mutation.
type CartService interface {
	Load(ctx context.Context) (CartState, error)
	Add(ctx context.Context, productID uuid.UUID, color, size string, quantity int) (CartState, error)
	Increase(ctx context.Context, itemID uuid.UUID) (CartState, error)
	Decrease(ctx context.Context, itemID uuid.UUID) (CartState, error)
	SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (CartState, error)
	Remove(ctx context.Context, itemID uuid.UUID) (CartState, error)
	Clear(ctx context.Context) (CartState, error)
}

// ProductGetter is the narrow catalog surface the coordinator needs when a
// variant is added for a product not yet in the cart.
type ProductGetter interface {
	GetByID(dbc dbctx.Context, productID uuid.UUID) (*types.Product, error)
}

type cartService struct {
	log      *logger.Logger
	items    repos.CartItemRepo
	products ProductGetter
	timeout  time.Duration

	mu     sync.Mutex
	stores map[uuid.UUID]*CartStore
}

func NewCartService(log *logger.Logger, items repos.CartItemRepo, products ProductGetter, timeout time.Duration) CartService {
	return &cartService{
		log:      log.With("service", "CartService"),
		items:    items,
		products: products,
		timeout:  timeout,
		stores:   make(map[uuid.UUID]*CartStore),
	}
}

func (cs *cartService) storeFor(userID uuid.UUID) *CartStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	store, ok := cs.stores[userID]
	if !ok {
		store = NewCartStore()
		cs.stores[userID] = store
	}
	return store
}

func (cs *cartService) identify(ctx context.Context) (uuid.UUID, *CartStore, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, nil, ErrUnauthorized
	}
	return rd.UserID, cs.storeFor(rd.UserID), nil
}

// begin acquires the single-writer gate and derives the bounded context a
// mutation runs under. A hang in the persistence collaborator must not leave
// the cart permanently busy.
func (cs *cartService) begin(ctx context.Context, store *CartStore) (context.Context, context.CancelFunc, error) {
	if err := store.BeginMutation(); err != nil {
		return nil, nil, err
	}
	bounded, cancel := context.WithTimeout(ctx, cs.timeout)
	return bounded, cancel, nil
}

func (cs *cartService) Load(ctx context.Context) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()

	store.Dispatch(SetLoading{true})
	rows, err := cs.items.ListRows(dbctx.Context{Ctx: bounded}, userID)
	if err != nil {
		cs.log.Warn("Cart load failed", "user_id", userID, "error", err)
		return store.Dispatch(SetError{"could not load cart"}, SetLoading{false}), err
	}
	return store.Dispatch(SetItems{rows}, SetError{""}, SetLoading{false}), nil
}

func (cs *cartService) Add(ctx context.Context, productID uuid.UUID, color, size string, quantity int) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	if quantity < 1 {
		return store.State(), ErrInvalidQuantity
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()
	dbc := dbctx.Context{Ctx: bounded}

	state := store.State()

	// Merge-on-add: a second add of the same (product, color, size) variant
	// grows the existing row instead of creating a duplicate.
	if existing, ok := findVariant(state.Items, productID, color, size); ok {
		newQuantity := existing.Quantity + quantity
		groupQty := GroupQuantity(state.Items, productID, existing.ID) + newQuantity
		price := ResolveTierPrice(productTiers(&existing), groupQty)

		store.Dispatch(SetLoading{true})
		if err := cs.items.UpdateQuantityAndPrice(dbc, userID, existing.ID, newQuantity, price); err != nil {
			cs.log.Warn("Cart add (merge) failed", "user_id", userID, "item_id", existing.ID, "error", err)
			return store.Dispatch(SetError{"could not update cart item"}, SetLoading{false}), err
		}
		if err := cs.items.UpdatePriceForProduct(dbc, userID, productID, price); err != nil {
			cs.log.Warn("Group price sync failed after merge add", "user_id", userID, "product_id", productID, "error", err)
			return store.Dispatch(SetError{"could not update group pricing"}, SetLoading{false}), err
		}
		return store.Dispatch(
			SetQuantity{ID: existing.ID, Quantity: newQuantity, UnitPrice: price},
			SyncGroupPrice{ProductID: productID, UnitPrice: price},
			SetError{""},
			SetLoading{false},
		), nil
	}

	product, err := cs.products.GetByID(dbc, productID)
	if err != nil {
		cs.log.Warn("Cart add failed to resolve product", "user_id", userID, "product_id", productID, "error", err)
		return store.State(), err
	}

	groupQty := GroupQuantity(state.Items, productID, uuid.Nil) + quantity
	price := ResolveTierPrice(product.PriceTiers, groupQty)

	store.Dispatch(SetLoading{true})
	row, err := cs.items.InsertRow(dbc, &types.CartItem{
		UserID:     userID,
		ProductID:  productID,
		Color:      color,
		Size:       size,
		Quantity:   quantity,
		UnitPrice:  price,
		GSTPercent: product.GSTPercent,
	})
	if err != nil {
		cs.log.Warn("Cart add failed to insert row", "user_id", userID, "product_id", productID, "error", err)
		return store.Dispatch(SetError{"could not add item to cart"}, SetLoading{false}), err
	}
	row.Product = product
	if err := cs.items.UpdatePriceForProduct(dbc, userID, productID, price); err != nil {
		cs.log.Warn("Group price sync failed after add", "user_id", userID, "product_id", productID, "error", err)
		return store.Dispatch(SetError{"could not update group pricing"}, SetLoading{false}), err
	}
	return store.Dispatch(
		AddItem{Item: *row},
		SyncGroupPrice{ProductID: productID, UnitPrice: price},
		SetError{""},
		SetLoading{false},
	), nil
}

func (cs *cartService) Increase(ctx context.Context, itemID uuid.UUID) (CartState, error) {
	return cs.adjust(ctx, itemID, +1)
}

func (cs *cartService) Decrease(ctx context.Context, itemID uuid.UUID) (CartState, error) {
	return cs.adjust(ctx, itemID, -1)
}

func (cs *cartService) adjust(ctx context.Context, itemID uuid.UUID, delta int) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()
	dbc := dbctx.Context{Ctx: bounded}

	state := store.State()
	item, ok := findItem(state.Items, itemID)
	if !ok {
		// Already removed; silent no-op rather than a user-facing error.
		return state, nil
	}
	// Quantity floor is 1; removal is a distinct explicit action.
	if delta < 0 && item.Quantity <= 1 {
		return state, nil
	}

	newQuantity := item.Quantity + delta
	groupQty := GroupQuantity(state.Items, item.ProductID, item.ID) + newQuantity
	price := ResolveTierPrice(productTiers(&item), groupQty)

	store.Dispatch(SetLoading{true})
	if err := cs.items.UpdateQuantityAndPrice(dbc, userID, item.ID, newQuantity, price); err != nil {
		cs.log.Warn("Cart quantity adjust failed", "user_id", userID, "item_id", item.ID, "error", err)
		return store.Dispatch(SetError{"could not update cart item"}, SetLoading{false}), err
	}
	if err := cs.items.UpdatePriceForProduct(dbc, userID, item.ProductID, price); err != nil {
		cs.log.Warn("Group price sync failed after adjust", "user_id", userID, "product_id", item.ProductID, "error", err)
		return store.Dispatch(SetError{"could not update group pricing"}, SetLoading{false}), err
	}

	var transition Action
	if delta > 0 {
		transition = IncreaseItem{ID: item.ID, UnitPrice: price}
	} else {
		transition = DecreaseItem{ID: item.ID, UnitPrice: price}
	}
	return store.Dispatch(
		transition,
		SyncGroupPrice{ProductID: item.ProductID, UnitPrice: price},
		SetError{""},
		SetLoading{false},
	), nil
}

func (cs *cartService) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	if quantity < 1 {
		return store.State(), ErrInvalidQuantity
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()
	dbc := dbctx.Context{Ctx: bounded}

	state := store.State()
	item, ok := findItem(state.Items, itemID)
	if !ok {
		return state, nil
	}

	groupQty := GroupQuantity(state.Items, item.ProductID, item.ID) + quantity
	price := ResolveTierPrice(productTiers(&item), groupQty)

	store.Dispatch(SetLoading{true})
	if err := cs.items.UpdateQuantityAndPrice(dbc, userID, item.ID, quantity, price); err != nil {
		cs.log.Warn("Cart set-quantity failed", "user_id", userID, "item_id", item.ID, "error", err)
		return store.Dispatch(SetError{"could not update cart item"}, SetLoading{false}), err
	}
	if err := cs.items.UpdatePriceForProduct(dbc, userID, item.ProductID, price); err != nil {
		cs.log.Warn("Group price sync failed after set-quantity", "user_id", userID, "product_id", item.ProductID, "error", err)
		return store.Dispatch(SetError{"could not update group pricing"}, SetLoading{false}), err
	}
	return store.Dispatch(
		SetQuantity{ID: item.ID, Quantity: quantity, UnitPrice: price},
		SyncGroupPrice{ProductID: item.ProductID, UnitPrice: price},
		SetError{""},
		SetLoading{false},
	), nil
}

func (cs *cartService) Remove(ctx context.Context, itemID uuid.UUID) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()
	dbc := dbctx.Context{Ctx: bounded}

	state := store.State()
	item, ok := findItem(state.Items, itemID)
	if !ok {
		return state, nil
	}

	// The removed item is excluded from the sibling broadcast; the remaining
	// group is repriced against its own total.
	remainingQty := GroupQuantity(state.Items, item.ProductID, item.ID)
	price := ResolveTierPrice(productTiers(&item), remainingQty)

	store.Dispatch(SetLoading{true})
	if err := cs.items.DeleteRow(dbc, userID, item.ID); err != nil {
		cs.log.Warn("Cart remove failed", "user_id", userID, "item_id", item.ID, "error", err)
		return store.Dispatch(SetError{"could not remove cart item"}, SetLoading{false}), err
	}
	if remainingQty > 0 {
		if err := cs.items.UpdatePriceForProduct(dbc, userID, item.ProductID, price); err != nil {
			cs.log.Warn("Group price sync failed after remove", "user_id", userID, "product_id", item.ProductID, "error", err)
			return store.Dispatch(SetError{"could not update group pricing"}, SetLoading{false}), err
		}
	}
	actions := []Action{RemoveItem{ID: item.ID}}
	if remainingQty > 0 {
		actions = append(actions, SyncGroupPrice{ProductID: item.ProductID, UnitPrice: price})
	}
	actions = append(actions, SetError{""}, SetLoading{false})
	return store.Dispatch(actions...), nil
}

func (cs *cartService) Clear(ctx context.Context) (CartState, error) {
	userID, store, err := cs.identify(ctx)
	if err != nil {
		return CartState{}, err
	}
	bounded, cancel, err := cs.begin(ctx, store)
	if err != nil {
		return store.State(), err
	}
	defer cancel()
	defer store.EndMutation()

	store.Dispatch(SetLoading{true})
	if err := cs.items.DeleteAllRows(dbctx.Context{Ctx: bounded}, userID); err != nil {
		cs.log.Warn("Cart clear failed", "user_id", userID, "error", err)
		return store.Dispatch(SetError{"could not clear cart"}, SetLoading{false}), err
	}
	// No sibling repricing: no rows remain.
	return store.Dispatch(ClearCart{}, SetLoading{false}), nil
}

func findItem(items []types.CartItem, itemID uuid.UUID) (types.CartItem, bool) {
	for i := range items {
		if items[i].ID == itemID {
			return items[i], true
		}
	}
	return types.CartItem{}, false
}

func findVariant(items []types.CartItem, productID uuid.UUID, color, size string) (types.CartItem, bool) {
	for i := range items {
		if items[i].ProductID == productID && items[i].Color == color && items[i].Size == size {
			return items[i], true
		}
	}
	return types.CartItem{}, false
}

func productTiers(item *types.CartItem) []types.PriceTier {
	if item.Product == nil {
		return nil
	}
	return item.Product.PriceTiers
}
