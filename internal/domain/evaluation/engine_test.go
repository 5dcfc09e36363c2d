package evaluation

import (
	"testing"
	"time"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

var (
	windowStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	evalTime    = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
)

func activePromo(id string, pType string, value float64, priority int, stackable bool) promotion.Promotion {
	return promotion.Promotion{
		ID:        id,
		Name:      id,
		Type:      pType,
		Value:     value,
		Priority:  priority,
		Stackable: stackable,
		IsActive:  true,
		StartDate: windowStart,
		EndDate:   windowEnd,
	}
}

func TestEvaluateStacking(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{
		Items: []CartItem{
			{ID: "item_1", Name: "Jacket", Price: 2000, Quantity: 1, Category: "clothing"},
			{ID: "item_2", Name: "Scarf", Price: 250, Quantity: 2, Category: "clothing"},
		},
	}

	// Stackable 10% at priority 1, non-stackable fixed 500 at priority 2.
	// Both pass their cart-value gates; the percentage applies first and
	// the fixed one cannot join a stack.
	fixed := activePromo("PROMO_FIXED", promotion.TypeFixed, 500, 2, false)
	fixed.Conditions = promotion.Condition{MinCartValue: floatPtr(2000)}
	pct := activePromo("PROMO_PCT", promotion.TypePercentage, 10, 1, true)
	pct.Conditions = promotion.Condition{MinCartValue: floatPtr(1000)}

	catalog := []promotion.Promotion{fixed, pct}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if result.OriginalTotal != 2500 {
		t.Errorf("OriginalTotal = %v, want 2500", result.OriginalTotal)
	}
	if result.Discount != 250 {
		t.Errorf("Discount = %v, want 250", result.Discount)
	}
	if result.FinalTotal != 2250 {
		t.Errorf("FinalTotal = %v, want 2250", result.FinalTotal)
	}
	if len(result.AppliedPromotions) != 1 || result.AppliedPromotions[0].ID != "PROMO_PCT" {
		t.Errorf("AppliedPromotions = %+v, want only PROMO_PCT", result.AppliedPromotions)
	}
}

func TestEvaluateNonStackableWinsAlone(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 1000, Quantity: 1}}}

	// The non-stackable promotion has the best (lowest) priority, so it
	// holds the slot alone and the stackable one never applies.
	catalog := []promotion.Promotion{
		activePromo("PROMO_SOLO", promotion.TypePercentage, 20, 1, false),
		activePromo("PROMO_STACK", promotion.TypePercentage, 5, 2, true),
	}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(result.AppliedPromotions) != 1 || result.AppliedPromotions[0].ID != "PROMO_SOLO" {
		t.Fatalf("AppliedPromotions = %+v, want only PROMO_SOLO", result.AppliedPromotions)
	}
	if result.Discount != 200 {
		t.Errorf("Discount = %v, want 200", result.Discount)
	}
}

func TestEvaluateStackableDiscountsSum(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 500, Quantity: 2}}}

	catalog := []promotion.Promotion{
		activePromo("PROMO_A", promotion.TypePercentage, 10, 1, true),
		activePromo("PROMO_B", promotion.TypeFixed, 50, 2, true),
	}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// Both discounts are computed against the original subtotal of 1000
	if result.Discount != 150 {
		t.Errorf("Discount = %v, want 150", result.Discount)
	}
	if len(result.AppliedPromotions) != 2 {
		t.Errorf("AppliedPromotions count = %d, want 2", len(result.AppliedPromotions))
	}
}

func TestEvaluatePriorityOrdering(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}

	catalog := []promotion.Promotion{
		activePromo("PROMO_LOW", promotion.TypePercentage, 5, 9, true),
		activePromo("PROMO_HIGH", promotion.TypePercentage, 10, 1, true),
		activePromo("PROMO_MID", promotion.TypePercentage, 7, 5, true),
	}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	wantOrder := []string{"PROMO_HIGH", "PROMO_MID", "PROMO_LOW"}
	if len(result.AppliedPromotions) != len(wantOrder) {
		t.Fatalf("AppliedPromotions count = %d, want %d", len(result.AppliedPromotions), len(wantOrder))
	}
	for i, id := range wantOrder {
		if result.AppliedPromotions[i].ID != id {
			t.Errorf("AppliedPromotions[%d].ID = %s, want %s", i, result.AppliedPromotions[i].ID, id)
		}
	}
}

func TestEvaluateEqualPriorityKeepsCatalogOrder(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}

	catalog := []promotion.Promotion{
		activePromo("PROMO_FIRST", promotion.TypePercentage, 5, 3, true),
		activePromo("PROMO_SECOND", promotion.TypePercentage, 5, 3, true),
	}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if result.AppliedPromotions[0].ID != "PROMO_FIRST" || result.AppliedPromotions[1].ID != "PROMO_SECOND" {
		t.Errorf("equal priorities must keep catalog order, got %s then %s",
			result.AppliedPromotions[0].ID, result.AppliedPromotions[1].ID)
	}
}

func TestEvaluateFilters(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}

	inactive := activePromo("PROMO_OFF", promotion.TypePercentage, 10, 1, true)
	inactive.IsActive = false

	expired := activePromo("PROMO_EXPIRED", promotion.TypePercentage, 10, 1, true)
	expired.StartDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expired.EndDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	unmatched := activePromo("PROMO_BIG_CART", promotion.TypePercentage, 10, 1, true)
	unmatched.Conditions = promotion.Condition{MinCartValue: floatPtr(10000)}

	malformed := activePromo("", promotion.TypePercentage, 10, 1, true)

	endsNow := activePromo("PROMO_ENDS_NOW", promotion.TypePercentage, 10, 1, true)
	endsNow.EndDate = evalTime // window end is exclusive

	startsNow := activePromo("PROMO_STARTS_NOW", promotion.TypePercentage, 10, 1, true)
	startsNow.StartDate = evalTime // window start is inclusive

	catalog := []promotion.Promotion{inactive, expired, unmatched, malformed, endsNow, startsNow}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(result.AppliedPromotions) != 1 || result.AppliedPromotions[0].ID != "PROMO_STARTS_NOW" {
		t.Errorf("AppliedPromotions = %+v, want only PROMO_STARTS_NOW", result.AppliedPromotions)
	}
}

func TestEvaluateEmptyInputs(t *testing.T) {
	engine := NewEngine()

	if _, err := engine.Evaluate(nil, nil, evalTime); err == nil {
		t.Error("expected an error for a nil cart")
	}

	result, err := engine.Evaluate(nil, &Cart{}, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.OriginalTotal != 0 || result.Discount != 0 || result.FinalTotal != 0 {
		t.Errorf("empty evaluation = %+v, want all zero totals", result)
	}
	if len(result.AppliedPromotions) != 0 {
		t.Errorf("AppliedPromotions = %+v, want none", result.AppliedPromotions)
	}
}

func TestEvaluateDiscountNeverExceedsSubtotal(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}

	catalog := []promotion.Promotion{
		activePromo("PROMO_A", promotion.TypeFixed, 80, 1, true),
		activePromo("PROMO_B", promotion.TypeFixed, 80, 2, true),
	}

	result, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if result.Discount != 100 {
		t.Errorf("Discount = %v, want clamp at subtotal 100", result.Discount)
	}
	if result.FinalTotal != 0 {
		t.Errorf("FinalTotal = %v, want 0", result.FinalTotal)
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{
		{ID: "a", Price: 120, Quantity: 3, Category: "clothing"},
		{ID: "b", Price: 450, Quantity: 1, Category: "footwear"},
	}}

	catalog := []promotion.Promotion{
		activePromo("PROMO_A", promotion.TypePercentage, 10, 2, true),
		activePromo("PROMO_B", promotion.TypeFixed, 50, 1, true),
		activePromo("PROMO_C", promotion.TypeBogo, 0, 3, true),
	}

	first, err := engine.Evaluate(catalog, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := engine.Evaluate(catalog, cart, evalTime)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if again.Discount != first.Discount || again.FinalTotal != first.FinalTotal {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
		if len(again.AppliedPromotions) != len(first.AppliedPromotions) {
			t.Fatalf("run %d applied count diverged", i)
		}
		for j := range again.AppliedPromotions {
			if again.AppliedPromotions[j].ID != first.AppliedPromotions[j].ID {
				t.Fatalf("run %d applied order diverged", i)
			}
		}
	}
}

func TestEvaluateRuleClauses(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{
		Items: []CartItem{
			{ID: "item_1", Price: 100, Quantity: 5, Category: "clothing"},
		},
		UserType: "premium",
	}

	p := activePromo("PROMO_RULE", promotion.TypeCustom, 0, 1, true)
	p.Rule = []promotion.RuleClause{
		{
			// Matches: premium user with at least 5 units of item_1
			Conditions: []promotion.Condition{
				{UserType: "premium"},
				{ProductIDs: []string{"item_1"}},
			},
			Actions: []promotion.Action{
				{Type: promotion.TypePercentage, Value: 10},
			},
		},
		{
			// Does not match: wrong user type
			Conditions: []promotion.Condition{{UserType: "new"}},
			Actions: []promotion.Action{
				{Type: promotion.TypeFixed, Value: 999},
			},
		},
	}

	effects, matched := engine.EvaluateRule(&p, cart, evalTime)
	if !matched {
		t.Fatal("expected the first clause to match")
	}
	if len(effects) != 1 {
		t.Fatalf("effects count = %d, want 1", len(effects))
	}
	if effects[0].Amount != 50 {
		t.Errorf("effect amount = %v, want 50", effects[0].Amount)
	}
}

func TestEvaluateProductScopedFlatPromotion(t *testing.T) {
	engine := NewEngine()
	cart := &Cart{Items: []CartItem{
		{ID: "item_1", Price: 100, Quantity: 1},
		{ID: "item_2", Price: 900, Quantity: 1},
	}}

	p := activePromo("PROMO_PRODUCT", promotion.TypePercentage, 50, 1, true)
	p.Applicability = promotion.ApplicabilityProduct
	p.Conditions = promotion.Condition{ProductIDs: []string{"item_1"}}

	result, err := engine.Evaluate([]promotion.Promotion{p}, cart, evalTime)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// 50% of the targeted item_1 line only, not the whole cart
	if result.Discount != 50 {
		t.Errorf("Discount = %v, want 50", result.Discount)
	}
}
