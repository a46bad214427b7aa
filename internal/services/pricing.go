package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/halewick/tradeportal-backend/internal/types"
)

// ResolveTierPrice returns the unit price for the given quantity. Tiers are
// assumed sorted ascending by MinQuantity with no gaps; MaxQuantity 0 marks
// an unbounded tier. Policy for out-of-range quantities: below the first
// tier clamps to the first tier's price, above the last clamps to the last.
// An empty tier list resolves to zero.
func ResolveTierPrice(tiers []types.PriceTier, quantity int) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}
	for _, t := range tiers {
		if quantity >= t.MinQuantity && (t.MaxQuantity == 0 || quantity <= t.MaxQuantity) {
			return t.Price
		}
	}
	if quantity < tiers[0].MinQuantity {
		return tiers[0].Price
	}
	return tiers[len(tiers)-1].Price
}

// ResolveLeadDays resolves a lead-time tier list with the same clamping
// policy as ResolveTierPrice. Display only, never part of pricing.
func ResolveLeadDays(tiers []types.LeadTimeTier, quantity int) int {
	if len(tiers) == 0 {
		return 0
	}
	for _, t := range tiers {
		if quantity >= t.MinQuantity && (t.MaxQuantity == 0 || quantity <= t.MaxQuantity) {
			return t.LeadDays
		}
	}
	if quantity < tiers[0].MinQuantity {
		return tiers[0].LeadDays
	}
	return tiers[len(tiers)-1].LeadDays
}

// GroupQuantity sums quantities over every item of the product, optionally
// excluding one item. Pass uuid.Nil to exclude nothing. The exclusion is
// used to answer "what will the group total be once item X changes" before
// X is updated.
func GroupQuantity(items []types.CartItem, productID uuid.UUID, exclude uuid.UUID) int {
	total := 0
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if exclude != uuid.Nil && items[i].ID == exclude {
			continue
		}
		total += items[i].Quantity
	}
	return total
}

// GroupSummary is the derived per-product view of a cart: the aggregate
// quantity, the shared unit price, and the resolved lead time.
type GroupSummary struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	GroupQuantity int             `json:"group_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LeadDays      int             `json:"lead_days"`
}

// SummarizeGroups builds one summary per product present in the cart,
// preserving first-seen order.
func SummarizeGroups(items []types.CartItem) []GroupSummary {
	summaries := make([]GroupSummary, 0)
	index := make(map[uuid.UUID]int)
	for i := range items {
		item := &items[i]
		pos, seen := index[item.ProductID]
		if !seen {
			summary := GroupSummary{
				ProductID: item.ProductID,
				UnitPrice: item.UnitPrice,
			}
			if item.Product != nil {
				summary.ProductName = item.Product.Name
			}
			index[item.ProductID] = len(summaries)
			summaries = append(summaries, summary)
			pos = index[item.ProductID]
		}
		summaries[pos].GroupQuantity += item.Quantity
	}
	for i := range summaries {
		for j := range items {
			if items[j].ProductID != summaries[i].ProductID || items[j].Product == nil {
				continue
			}
			summaries[i].LeadDays = ResolveLeadDays(items[j].Product.LeadTimeTiers, summaries[i].GroupQuantity)
			break
		}
	}
	return summaries
}

// CartTotal returns the GST-inclusive total across all items:
// Σ qty × unit × (1 + gst/100).
func CartTotal(items []types.CartItem) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	for i := range items {
		line := decimal.NewFromInt(int64(items[i].Quantity)).Mul(items[i].UnitPrice)
		factor := decimal.NewFromInt(1).Add(items[i].GSTPercent.Div(hundred))
		total = total.Add(line.Mul(factor))
	}
	return total.Round(2)
}
