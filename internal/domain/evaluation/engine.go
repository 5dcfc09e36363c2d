// internal/domain/evaluation/engine.go
package evaluation

import (
	"fmt"
	"sort"
	"time"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

// Engine evaluates promotion catalogs against carts. It is a pure,
// synchronous computation: both inputs are read-only, no state is kept
// between calls, and concurrent evaluations need no coordination.
type Engine struct {
	conditionResolvers map[string]ConditionResolver
	actionResolvers    map[string]ActionResolver
}

// NewEngine creates a new evaluation engine
func NewEngine() *Engine {
	return &Engine{
		conditionResolvers: make(map[string]ConditionResolver),
		actionResolvers:    make(map[string]ActionResolver),
	}
}

// RegisterCondition installs a resolver for a custom condition key.
// Keys without a resolver fail closed during matching.
func (e *Engine) RegisterCondition(key string, resolver ConditionResolver) {
	e.conditionResolvers[key] = resolver
}

// RegisterAction installs a resolver for a custom action type. Types
// without a resolver price as 0.
func (e *Engine) RegisterAction(actionType string, resolver ActionResolver) {
	e.actionResolvers[actionType] = resolver
}

// candidate is a promotion that survived filtering, with its discount
// already computed against the original cart
type candidate struct {
	promo    promotion.Promotion
	discount float64
}

// Evaluate decides which promotions from the catalog apply to the cart
// at the given instant, and what each contributes.
//
// Malformed catalog entries are skipped rather than failing the batch.
// Survivors are ordered by ascending priority with catalog order
// breaking ties. A non-stackable promotion applies only as the sole
// promotion. Every applying promotion's discount is computed against
// the original undiscounted cart and the amounts are summed; the total
// is clamped so the final total never goes below zero.
func (e *Engine) Evaluate(catalog []promotion.Promotion, cart *Cart, now time.Time) (*EvaluationResult, error) {
	if cart == nil {
		return nil, fmt.Errorf("cart must not be nil")
	}

	subtotal := cart.Subtotal()

	var candidates []candidate
	for i := range catalog {
		p := catalog[i]
		if err := p.Validate(); err != nil {
			continue
		}
		if !p.IsActive || !p.InWindow(now) {
			continue
		}
		effects, matched := e.EvaluateRule(&p, cart, now)
		if !matched {
			continue
		}
		var discount float64
		for _, effect := range effects {
			discount += effect.Amount
		}
		candidates = append(candidates, candidate{promo: p, discount: discount})
	}

	// Stable sort keeps catalog order for equal priorities
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].promo.Priority < candidates[j].promo.Priority
	})

	applied := make([]promotion.Promotion, 0, len(candidates))
	var totalDiscount float64
	for _, c := range candidates {
		if len(applied) > 0 {
			if !applied[0].Stackable {
				// A non-stackable promotion already holds the slot
				break
			}
			if !c.promo.Stackable {
				continue
			}
		}
		applied = append(applied, c.promo)
		totalDiscount += c.discount
	}

	if totalDiscount > subtotal {
		totalDiscount = subtotal
	}

	return &EvaluationResult{
		OriginalTotal:     subtotal,
		Discount:          totalDiscount,
		FinalTotal:        subtotal - totalDiscount,
		AppliedPromotions: applied,
	}, nil
}
