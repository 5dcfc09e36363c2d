package evaluation

import (
	"math"
	"testing"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPriceAction(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		action promotion.Action
		cart   *Cart
		want   float64
	}{
		{
			name:   "percentage over whole cart",
			action: promotion.Action{Type: promotion.TypePercentage, Value: 10},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 2},
			}},
			want: 20,
		},
		{
			name:   "percentage over targeted lines only",
			action: promotion.Action{Type: promotion.TypePercentage, Value: 50, TargetProductIDs: []string{"a"}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 1},
				{ID: "b", Price: 900, Quantity: 1},
			}},
			want: 50,
		},
		{
			name:   "fixed within subtotal",
			action: promotion.Action{Type: promotion.TypeFixed, Value: 50},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 3},
			}},
			want: 50,
		},
		{
			name:   "fixed clamped to targeted subtotal",
			action: promotion.Action{Type: promotion.TypeFixed, Value: 500},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 3},
			}},
			want: 300,
		},
		{
			name:   "bogo frees the cheapest of each pair",
			action: promotion.Action{Type: promotion.TypeBogo, BuyQuantity: 1, GetQuantity: 1, TargetProductIDs: []string{"a"}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 3},
			}},
			want: 100,
		},
		{
			name:   "bogo with mixed unit prices frees cheapest units",
			action: promotion.Action{Type: promotion.TypeBogo, BuyQuantity: 1, GetQuantity: 1},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 1},
				{ID: "b", Price: 40, Quantity: 1},
				{ID: "c", Price: 60, Quantity: 2},
			}},
			want: 100, // 4 units -> 2 free: 40 + 60
		},
		{
			name:   "bxgy buy two get one",
			action: promotion.Action{Type: promotion.TypeBxgy, BuyQuantity: 2, GetQuantity: 1},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 50, Quantity: 7},
			}},
			want: 100, // 7/(2+1)=2 groups -> 2 free units
		},
		{
			name:   "bogo defaults missing quantities to one",
			action: promotion.Action{Type: promotion.TypeBogo},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 80, Quantity: 2},
			}},
			want: 80,
		},
		{
			name:   "tiered picks highest reached breakpoint",
			action: promotion.Action{Type: promotion.TypeTiered, Tiers: []promotion.Tier{
				{Quantity: 2, Price: 90},
				{Quantity: 5, Price: 75},
			}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 4},
			}},
			want: 40, // qty 4 -> tier 2@90: (100-90)*4
		},
		{
			name: "tiered three-step ladder",
			action: promotion.Action{Type: promotion.TypeTiered, Tiers: []promotion.Tier{
				{Quantity: 1, Price: 500},
				{Quantity: 3, Price: 450},
				{Quantity: 5, Price: 400},
			}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 500, Quantity: 4},
			}},
			want: 200, // qty 4 -> tier 3@450: (500-450)*4
		},
		{
			name:   "tiered below every breakpoint",
			action: promotion.Action{Type: promotion.TypeTiered, Tiers: []promotion.Tier{
				{Quantity: 5, Price: 75},
			}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 3},
			}},
			want: 0,
		},
		{
			name:   "tiered never raises the price",
			action: promotion.Action{Type: promotion.TypeTiered, Tiers: []promotion.Tier{
				{Quantity: 1, Price: 150},
			}},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 2},
			}},
			want: 0,
		},
		{
			name:   "unknown action type prices as zero",
			action: promotion.Action{Type: "teleportDelivery", Value: 99},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 1},
			}},
			want: 0,
		},
		{
			name:   "invalid lines are ignored",
			action: promotion.Action{Type: promotion.TypePercentage, Value: 10},
			cart: &Cart{Items: []CartItem{
				{ID: "a", Price: 100, Quantity: 1},
				{ID: "b", Price: -5, Quantity: 1},
				{ID: "c", Price: 100, Quantity: 0},
			}},
			want: 10,
		},
		{
			name:   "empty cart prices as zero",
			action: promotion.Action{Type: promotion.TypePercentage, Value: 10},
			cart:   &Cart{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.PriceAction(tt.action, tt.cart)
			if !almostEqual(got, tt.want) {
				t.Errorf("PriceAction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceActionCustomResolver(t *testing.T) {
	engine := NewEngine()
	engine.RegisterAction("flatShippingCredit", func(action promotion.Action, cart *Cart) float64 {
		return action.Value
	})

	cart := &Cart{Items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}
	got := engine.PriceAction(promotion.Action{Type: "flatShippingCredit", Value: 49}, cart)
	if !almostEqual(got, 49) {
		t.Errorf("PriceAction() = %v, want 49", got)
	}

	// A resolver returning a negative amount is clamped to zero
	engine.RegisterAction("broken", func(action promotion.Action, cart *Cart) float64 {
		return -10
	})
	if got := engine.PriceAction(promotion.Action{Type: "broken"}, cart); got != 0 {
		t.Errorf("PriceAction() = %v, want 0 for negative resolver result", got)
	}
}
