// internal/domain/evaluation/rule.go
package evaluation

import (
	"time"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

// PricedEffect is a matched action together with its computed discount
type PricedEffect struct {
	Action promotion.Action `json:"action"`
	Amount float64          `json:"amount"`
}

// normalizeRule lifts a promotion into its explicit clause list. A
// promotion without an explicit rule becomes a single clause: its flat
// conditions object guarding one implicit action built from the
// top-level type and value.
func normalizeRule(p *promotion.Promotion) []promotion.RuleClause {
	if len(p.Rule) > 0 {
		return p.Rule
	}

	action := promotion.Action{
		Type:  p.Type,
		Value: p.Value,
	}
	// Product-scoped flat promotions inherit their condition's product
	// targeting so the implicit action prices only the matching lines.
	if p.Applicability == promotion.ApplicabilityProduct {
		action.TargetProductIDs = p.Conditions.ProductIDs
	}

	return []promotion.RuleClause{
		{
			Conditions: []promotion.Condition{p.Conditions},
			Actions:    []promotion.Action{action},
		},
	}
}

// EvaluateRule evaluates a promotion's clauses against the cart. Each
// clause whose condition group fully holds contributes its priced
// actions; the second return reports whether any clause matched at all.
func (e *Engine) EvaluateRule(p *promotion.Promotion, cart *Cart, now time.Time) ([]PricedEffect, bool) {
	var effects []PricedEffect
	matched := false

	for _, clause := range normalizeRule(p) {
		if !e.MatchesAll(clause.Conditions, cart, now) {
			continue
		}
		matched = true
		for _, action := range clause.Actions {
			effects = append(effects, PricedEffect{
				Action: action,
				Amount: e.PriceAction(action, cart),
			})
		}
	}

	return effects, matched
}
