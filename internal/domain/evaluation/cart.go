// internal/domain/evaluation/cart.go
package evaluation

import (
	"github.com/your-org/promotion-engine/internal/domain/promotion"
)

// CartItem represents a single line item in an evaluation request
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
	SKU      string  `json:"sku,omitempty"`
}

// Valid reports whether the line item can contribute to a subtotal.
// Malformed lines are ignored rather than failing the evaluation.
func (i *CartItem) Valid() bool {
	return i.Price >= 0 && i.Quantity > 0
}

// LineTotal returns price × quantity for a valid line, 0 otherwise
func (i *CartItem) LineTotal() float64 {
	if !i.Valid() {
		return 0
	}
	return i.Price * float64(i.Quantity)
}

// Cart is the transient evaluation input. The engine never mutates it
// and holds no cart state between calls.
type Cart struct {
	Items         []CartItem `json:"items"`
	UserID        string     `json:"userId,omitempty"`
	UserType      string     `json:"userType,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	UserSegment   string     `json:"userSegment,omitempty"`
	FirstTimeUser bool       `json:"firstTimeUser,omitempty"`
}

// Subtotal returns the sum of unit price × quantity over all valid items
func (c *Cart) Subtotal() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}

// EvaluationResult is the deterministic output of one evaluation call
type EvaluationResult struct {
	OriginalTotal     float64               `json:"originalTotal"`
	Discount          float64               `json:"discount"`
	FinalTotal        float64               `json:"finalTotal"`
	AppliedPromotions []promotion.Promotion `json:"appliedPromotions"`
}
