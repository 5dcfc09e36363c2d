// internal/domain/evaluation/action.go
package evaluation

import (
	"sort"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

// ActionResolver prices a custom action type against the cart. The
// returned amount is clamped to be non-negative by the engine.
type ActionResolver func(action promotion.Action, cart *Cart) float64

// PriceAction converts an action into a concrete discount amount for the
// cart. Unrecognized action types price as 0 unless a resolver is
// registered; pricing never fails.
func (e *Engine) PriceAction(action promotion.Action, cart *Cart) float64 {
	var amount float64

	switch action.Type {
	case promotion.TypePercentage:
		amount = targetSubtotal(action, cart) * action.Value / 100
	case promotion.TypeFixed:
		amount = action.Value
		if subtotal := targetSubtotal(action, cart); amount > subtotal {
			// A fixed discount cannot push the targeted subtotal negative
			amount = subtotal
		}
	case promotion.TypeBogo, promotion.TypeBxgy:
		amount = priceBuyGet(action, cart)
	case promotion.TypeTiered:
		amount = priceTiered(action, cart)
	default:
		if resolver, ok := e.actionResolvers[action.Type]; ok {
			amount = resolver(action, cart)
		}
	}

	if amount < 0 {
		return 0
	}
	return amount
}

// targetedItems returns the valid cart items the action's effect is
// scoped to. Without explicit targets the scope is the whole cart.
func targetedItems(action promotion.Action, cart *Cart) []CartItem {
	var items []CartItem
	for i := range cart.Items {
		item := cart.Items[i]
		if !item.Valid() {
			continue
		}
		if len(action.TargetProductIDs) > 0 && !contains(action.TargetProductIDs, item.ID) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func targetSubtotal(action promotion.Action, cart *Cart) float64 {
	var total float64
	for _, item := range targetedItems(action, cart) {
		total += item.LineTotal()
	}
	return total
}

// priceBuyGet prices buy-X-get-Y: for every group of buy+get targeted
// units, the get units are free. Units are ordered by ascending unit
// price so the cheapest units are the free ones, which keeps the result
// deterministic and minimizes the granted discount.
func priceBuyGet(action promotion.Action, cart *Cart) float64 {
	buy, get := action.BuyQuantity, action.GetQuantity
	if buy <= 0 {
		buy = 1
	}
	if get <= 0 {
		get = 1
	}

	var unitPrices []float64
	for _, item := range targetedItems(action, cart) {
		for q := 0; q < item.Quantity; q++ {
			unitPrices = append(unitPrices, item.Price)
		}
	}
	sort.Float64s(unitPrices)

	freeUnits := (len(unitPrices) / (buy + get)) * get
	var discount float64
	for i := 0; i < freeUnits; i++ {
		discount += unitPrices[i]
	}
	return discount
}

// priceTiered prices tiered unit pricing: the applicable tier is the
// highest quantity breakpoint not exceeding the total targeted quantity,
// and each targeted unit is repriced to the tier price.
func priceTiered(action promotion.Action, cart *Cart) float64 {
	if len(action.Tiers) == 0 {
		return 0
	}

	items := targetedItems(action, cart)
	var quantity int
	for _, item := range items {
		quantity += item.Quantity
	}
	if quantity == 0 {
		return 0
	}

	tiers := make([]promotion.Tier, len(action.Tiers))
	copy(tiers, action.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Quantity < tiers[j].Quantity
	})

	var tier *promotion.Tier
	for i := range tiers {
		if tiers[i].Quantity <= quantity {
			tier = &tiers[i]
		}
	}
	if tier == nil {
		return 0
	}

	var discount float64
	for _, item := range items {
		perUnit := item.Price - tier.Price
		if perUnit > 0 {
			discount += perUnit * float64(item.Quantity)
		}
	}
	return discount
}
