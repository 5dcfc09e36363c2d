// internal/domain/evaluation/condition.go
package evaluation

import (
	"time"

	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

// ConditionResolver decides a custom condition key against the cart.
// Resolvers must be side-effect free; a missing resolver fails closed.
type ConditionResolver func(key string, value interface{}, cart *Cart) bool

// MatchesCondition evaluates a single condition against the cart at the
// given instant. Every present key must hold (implicit AND); absent keys
// impose no constraint.
func (e *Engine) MatchesCondition(cond promotion.Condition, cart *Cart, now time.Time) bool {
	if cond.MinCartValue != nil && cart.Subtotal() < *cond.MinCartValue {
		return false
	}

	if cond.UserType != "" && cond.UserType != promotion.UserTypeAll {
		if cart.UserType == "" || cart.UserType != cond.UserType {
			return false
		}
	}

	if len(cond.Category) > 0 && !anyItemMatches(cart, func(item *CartItem) bool {
		return item.Category != "" && contains(cond.Category, item.Category)
	}) {
		return false
	}

	if len(cond.PaymentMethod) > 0 && !contains(cond.PaymentMethod, promotion.UserTypeAll) {
		if cart.PaymentMethod == "" || !contains(cond.PaymentMethod, cart.PaymentMethod) {
			return false
		}
	}

	if cond.UserSegment != "" && cond.UserSegment != promotion.UserTypeAll {
		if cart.UserSegment == "" || cart.UserSegment != cond.UserSegment {
			return false
		}
	}

	if cond.FirstTimeUser != nil && cart.FirstTimeUser != *cond.FirstTimeUser {
		return false
	}

	if len(cond.ProductIDs) > 0 && !anyItemMatches(cart, func(item *CartItem) bool {
		return contains(cond.ProductIDs, item.ID)
	}) {
		return false
	}

	if len(cond.SKUIDs) > 0 && !anyItemMatches(cart, func(item *CartItem) bool {
		return item.SKU != "" && contains(cond.SKUIDs, item.SKU)
	}) {
		return false
	}

	if !dateRangeContains(cond.StartDate, cond.EndDate, now) {
		return false
	}

	// Custom keys go through the extension point and fail closed when
	// no resolver is registered.
	for key, value := range cond.Custom {
		resolver, ok := e.conditionResolvers[key]
		if !ok || !resolver(key, value, cart) {
			return false
		}
	}

	return true
}

// MatchesAll reports whether every condition in the group holds
func (e *Engine) MatchesAll(conditions []promotion.Condition, cart *Cart, now time.Time) bool {
	for i := range conditions {
		if !e.MatchesCondition(conditions[i], cart, now) {
			return false
		}
	}
	return true
}

// conditionDateLayouts are the accepted wire formats for condition-level
// date bounds (the rule builder emits date-only strings)
var conditionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// dateRangeContains checks the optional condition-level date bounds.
// Unparseable bounds fail closed.
func dateRangeContains(start, end string, now time.Time) bool {
	if start != "" {
		from, ok := parseConditionDate(start)
		if !ok || now.Before(from) {
			return false
		}
	}
	if end != "" {
		to, ok := parseConditionDate(end)
		if !ok {
			return false
		}
		// Date-only bounds are inclusive of the whole end day
		if len(end) == len("2006-01-02") {
			to = to.Add(24 * time.Hour)
			if !now.Before(to) {
				return false
			}
		} else if now.After(to) {
			return false
		}
	}
	return true
}

func parseConditionDate(value string) (time.Time, bool) {
	for _, layout := range conditionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func anyItemMatches(cart *Cart, match func(item *CartItem) bool) bool {
	for i := range cart.Items {
		if cart.Items[i].Valid() && match(&cart.Items[i]) {
			return true
		}
	}
	return false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
