package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/halewick/tradeportal-backend/internal/types"
)

func testPriceTiers() []types.PriceTier {
	return []types.PriceTier{
		{MinQuantity: 1, MaxQuantity: 5, Price: decimal.NewFromInt(100)},
		{MinQuantity: 6, MaxQuantity: 10, Price: decimal.NewFromInt(90)},
		{MinQuantity: 11, MaxQuantity: 0, Price: decimal.NewFromInt(80)},
	}
}

func TestResolveTierPrice(t *testing.T) {
	tiers := testPriceTiers()

	cases := []struct {
		name     string
		tiers    []types.PriceTier
		quantity int
		want     int64
	}{
		{name: "first_tier_upper_bound", tiers: tiers, quantity: 5, want: 100},
		{name: "second_tier_lower_bound", tiers: tiers, quantity: 6, want: 90},
		{name: "unbounded_tier_lower_bound", tiers: tiers, quantity: 11, want: 80},
		{name: "below_first_tier_clamps_to_first", tiers: tiers, quantity: 0, want: 100},
		{name: "far_above_resolves_unbounded_tier", tiers: tiers, quantity: 999, want: 80},
		{name: "single_quantity", tiers: tiers, quantity: 1, want: 100},
		{name: "mid_tier", tiers: tiers, quantity: 8, want: 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveTierPrice(tc.tiers, tc.quantity)
			if !got.Equal(decimal.NewFromInt(tc.want)) {
				t.Fatalf("ResolveTierPrice(tiers, %d)=%s, want %d", tc.quantity, got, tc.want)
			}
		})
	}
}

func TestResolveTierPriceEmptyTiers(t *testing.T) {
	got := ResolveTierPrice(nil, 7)
	if !got.Equal(decimal.Zero) {
		t.Fatalf("ResolveTierPrice(nil, 7)=%s, want 0", got)
	}
}

func TestResolveTierPriceAboveBoundedLastTier(t *testing.T) {
	tiers := []types.PriceTier{
		{MinQuantity: 1, MaxQuantity: 5, Price: decimal.NewFromInt(100)},
		{MinQuantity: 6, MaxQuantity: 10, Price: decimal.NewFromInt(90)},
	}
	got := ResolveTierPrice(tiers, 50)
	if !got.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("quantity above bounded last tier should clamp to last, got %s", got)
	}
}

func TestResolveLeadDays(t *testing.T) {
	tiers := []types.LeadTimeTier{
		{MinQuantity: 1, MaxQuantity: 10, LeadDays: 7},
		{MinQuantity: 11, MaxQuantity: 0, LeadDays: 21},
	}

	cases := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "small_order", quantity: 4, want: 7},
		{name: "bulk_order", quantity: 30, want: 21},
		{name: "zero_clamps_to_first", quantity: 0, want: 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveLeadDays(tiers, tc.quantity); got != tc.want {
				t.Fatalf("ResolveLeadDays(tiers, %d)=%d, want %d", tc.quantity, got, tc.want)
			}
		})
	}

	if got := ResolveLeadDays(nil, 3); got != 0 {
		t.Fatalf("empty lead-time tiers should resolve to 0, got %d", got)
	}
}

func TestGroupQuantity(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	itemOne := uuid.New()
	itemTwo := uuid.New()
	itemThree := uuid.New()

	items := []types.CartItem{
		{ID: itemOne, ProductID: productA, Quantity: 4},
		{ID: itemTwo, ProductID: productA, Quantity: 3},
		{ID: itemThree, ProductID: productB, Quantity: 9},
	}

	cases := []struct {
		name      string
		productID uuid.UUID
		exclude   uuid.UUID
		want      int
	}{
		{name: "whole_group", productID: productA, exclude: uuid.Nil, want: 7},
		{name: "exclude_one_variant", productID: productA, exclude: itemTwo, want: 4},
		{name: "other_product", productID: productB, exclude: uuid.Nil, want: 9},
		{name: "absent_product", productID: uuid.New(), exclude: uuid.Nil, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GroupQuantity(items, tc.productID, tc.exclude); got != tc.want {
				t.Fatalf("GroupQuantity=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestSummarizeGroups(t *testing.T) {
	product := &types.Product{
		ID:   uuid.New(),
		Name: "Hi-Vis Vest",
		LeadTimeTiers: []types.LeadTimeTier{
			{MinQuantity: 1, MaxQuantity: 10, LeadDays: 7},
			{MinQuantity: 11, MaxQuantity: 0, LeadDays: 21},
		},
	}
	price := decimal.NewFromInt(90)
	items := []types.CartItem{
		{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 6, UnitPrice: price},
		{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 6, UnitPrice: price},
	}

	summaries := SummarizeGroups(items)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 group summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.GroupQuantity != 12 {
		t.Fatalf("group quantity=%d, want 12", s.GroupQuantity)
	}
	if !s.UnitPrice.Equal(price) {
		t.Fatalf("unit price=%s, want %s", s.UnitPrice, price)
	}
	if s.LeadDays != 21 {
		t.Fatalf("lead days=%d, want 21 (resolved against aggregate quantity)", s.LeadDays)
	}
	if s.ProductName != "Hi-Vis Vest" {
		t.Fatalf("product name=%q", s.ProductName)
	}
}

func TestCartTotalAppliesGST(t *testing.T) {
	items := []types.CartItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(100), GSTPercent: decimal.NewFromInt(10)},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}
	got := CartTotal(items)
	want := decimal.NewFromInt(270) // 2*100*1.1 + 50
	if !got.Equal(want) {
		t.Fatalf("CartTotal=%s, want %s", got, want)
	}
}
