package services

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/halewick/tradeportal-backend/internal/types"
)

// ErrCartBusy is returned when a mutation is requested while another one is
// still in flight for the same cart.
var ErrCartBusy = errors.New("another cart operation is in progress")

// CartState is the in-memory view of one user's cart. The durable copy is
// owned by the row-persistence collaborator; the two must converge after
// every operation.
type CartState struct {
	Items   []types.CartItem `json:"items"`
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
}

// Action is the sealed set of cart state transitions. All fallibility lives
// in the coordinator; Apply itself is total and never fails.
type Action interface {
	isAction()
}

type SetLoading struct {
	Loading bool
}

type SetItems struct {
	Items []types.CartItem
}

type AddItem struct {
	Item types.CartItem
}

type SetQuantity struct {
	ID        uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

type IncreaseItem struct {
	ID        uuid.UUID
	UnitPrice decimal.Decimal
}

type DecreaseItem struct {
	ID        uuid.UUID
	UnitPrice decimal.Decimal
}

// SyncGroupPrice overwrites the unit price on every item of the product.
// This is the transition that restores price equality across siblings.
type SyncGroupPrice struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
}

type RemoveItem struct {
	ID uuid.UUID
}

type ClearCart struct{}

// SetError records the error message only; it deliberately leaves Loading
// untouched, so the coordinator pairs it with SetLoading{false}.
type SetError struct {
	Message string
}

func (SetLoading) isAction()     {}
func (SetItems) isAction()       {}
func (AddItem) isAction()        {}
func (SetQuantity) isAction()    {}
func (IncreaseItem) isAction()   {}
func (DecreaseItem) isAction()   {}
func (SyncGroupPrice) isAction() {}
func (RemoveItem) isAction()     {}
func (ClearCart) isAction()      {}
func (SetError) isAction()       {}

// Apply computes the next state. It never mutates its input: the item slice
// is copied before any per-item change.
func Apply(state CartState, action Action) CartState {
	switch a := action.(type) {
	case SetLoading:
		state.Loading = a.Loading
	case SetItems:
		state.Items = append([]types.CartItem(nil), a.Items...)
	case AddItem:
		state.Items = append(append([]types.CartItem(nil), state.Items...), a.Item)
	case SetQuantity:
		items := append([]types.CartItem(nil), state.Items...)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Quantity = a.Quantity
				items[i].UnitPrice = a.UnitPrice
			}
		}
		state.Items = items
	case IncreaseItem:
		items := append([]types.CartItem(nil), state.Items...)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Quantity++
				items[i].UnitPrice = a.UnitPrice
			}
		}
		state.Items = items
	case DecreaseItem:
		items := append([]types.CartItem(nil), state.Items...)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Quantity--
				items[i].UnitPrice = a.UnitPrice
			}
		}
		state.Items = items
	case SyncGroupPrice:
		items := append([]types.CartItem(nil), state.Items...)
		for i := range items {
			if items[i].ProductID == a.ProductID {
				items[i].UnitPrice = a.UnitPrice
			}
		}
		state.Items = items
	case RemoveItem:
		items := make([]types.CartItem, 0, len(state.Items))
		for i := range state.Items {
			if state.Items[i].ID != a.ID {
				items = append(items, state.Items[i])
			}
		}
		state.Items = items
	case ClearCart:
		state.Items = []types.CartItem{}
	case SetError:
		state.Error = a.Message
	}
	return state
}

// CartStore owns the current state for one cart and the single-writer gate
// that serializes mutations. Rapid repeated user actions must not interleave
// remote calls, so BeginMutation refuses while another mutation is running.
type CartStore struct {
	mu       sync.Mutex
	state    CartState
	inFlight bool
}

func NewCartStore() *CartStore {
	return &CartStore{state: CartState{Items: []types.CartItem{}}}
}

func (s *CartStore) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CartStore) Dispatch(actions ...Action) CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = Apply(s.state, a)
	}
	return s.state
}

func (s *CartStore) BeginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrCartBusy
	}
	s.inFlight = true
	return nil
}

func (s *CartStore) EndMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}
