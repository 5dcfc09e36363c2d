// internal/domain/promotion/entity.go
package promotion

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Promotion discount types
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
	TypeBogo       = "bogo"
	TypeBxgy       = "bxgy"
	TypeTiered     = "tiered"
	TypeCustom     = "custom"
)

// Applicability scopes for a promotion's effect
const (
	ApplicabilityCart     = "cart"
	ApplicabilityProduct  = "product"
	ApplicabilityCategory = "category"
	ApplicabilitySKU      = "sku"
)

// UserTypeAll is the sentinel that matches every user type
const UserTypeAll = "all"

// Promotion represents a promotion catalog entry
type Promotion struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Description   string         `gorm:"size:500" json:"description,omitempty"`
	Type          string         `gorm:"not null;size:32;index" json:"type"`
	Value         float64        `gorm:"not null" json:"value"`
	Applicability string         `gorm:"size:32;default:cart" json:"applicability"`
	Conditions    Condition      `gorm:"serializer:json" json:"conditions"`
	Rule          []RuleClause   `gorm:"serializer:json" json:"rule_json,omitempty"`
	StartDate     time.Time      `gorm:"not null;index" json:"startDate"`
	EndDate       time.Time      `gorm:"not null;index" json:"endDate"`
	Stackable     bool           `gorm:"default:false" json:"stackable"`
	Priority      int            `gorm:"not null;default:1" json:"priority"`
	IsActive      bool           `gorm:"default:true;index" json:"isActive"`
	ClientID      string         `gorm:"size:64;index" json:"clientId,omitempty"`
	Tags          []string       `gorm:"serializer:json" json:"tags,omitempty"`
	CreatedBy     string         `gorm:"size:255" json:"createdBy,omitempty"`
	UpdatedBy     string         `gorm:"size:255" json:"updatedBy,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Promotion) TableName() string {
	return "promotions"
}

// Validate checks that a promotion record is well formed enough to be
// evaluated. Records failing validation are excluded from evaluation
// instead of failing the whole batch.
func (p *Promotion) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("promotion id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("promotion name is required")
	}
	if p.Type == "" {
		return fmt.Errorf("promotion type is required")
	}
	if p.Value < 0 {
		return fmt.Errorf("promotion value must be non-negative")
	}
	if p.Priority < 1 {
		return fmt.Errorf("promotion priority must be a positive integer")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("promotion date window is required")
	}
	if !p.EndDate.After(p.StartDate) {
		return fmt.Errorf("promotion end date must be after start date")
	}
	return nil
}

// InWindow reports whether the promotion's active window contains the
// given instant. The window is half-open: [startDate, endDate).
func (p *Promotion) InWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && now.Before(p.EndDate)
}

// RuleClause pairs a condition group with the actions granted when every
// condition in the group holds. A promotion's rule is an ordered list of
// independent clauses.
type RuleClause struct {
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
}

// Tier is a quantity breakpoint for tiered unit pricing
type Tier struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Condition is a predicate over the cart/user context. The zero value
// imposes no constraint. Unknown keys from the wire are preserved in
// Custom and resolved through the evaluation engine's extension point.
type Condition struct {
	MinCartValue  *float64 `json:"minCartValue,omitempty"`
	UserType      string   `json:"userType,omitempty"`
	Category      []string `json:"category,omitempty"`
	PaymentMethod []string `json:"paymentMethod,omitempty"`
	UserSegment   string   `json:"userSegment,omitempty"`
	FirstTimeUser *bool    `json:"firstTimeUser,omitempty"`
	ProductIDs    []string `json:"productIds,omitempty"`
	SKUIDs        []string `json:"skuIds,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`

	// Custom carries condition keys outside the known set
	Custom map[string]interface{} `json:"-"`
}

// knownConditionKeys are the JSON keys decoded into typed fields
var knownConditionKeys = map[string]bool{
	"minCartValue":  true,
	"userType":      true,
	"category":      true,
	"paymentMethod": true,
	"userSegment":   true,
	"firstTimeUser": true,
	"productIds":    true,
	"skuIds":        true,
	"startDate":     true,
	"endDate":       true,
}

// conditionAlias avoids UnmarshalJSON recursion
type conditionAlias Condition

// UnmarshalJSON decodes the known condition keys into typed fields and
// collects everything else into Custom.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var alias conditionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if knownConditionKeys[key] {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("failed to decode condition key %q: %w", key, err)
		}
		if alias.Custom == nil {
			alias.Custom = make(map[string]interface{})
		}
		alias.Custom[key] = v
	}

	*c = Condition(alias)
	return nil
}

// MarshalJSON emits the typed fields plus the custom keys as one flat object
func (c Condition) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(conditionAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Custom) == 0 {
		return data, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.Custom {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// IsEmpty reports whether the condition imposes no constraint at all
func (c *Condition) IsEmpty() bool {
	return c.MinCartValue == nil &&
		c.UserType == "" &&
		len(c.Category) == 0 &&
		len(c.PaymentMethod) == 0 &&
		c.UserSegment == "" &&
		c.FirstTimeUser == nil &&
		len(c.ProductIDs) == 0 &&
		len(c.SKUIDs) == 0 &&
		c.StartDate == "" &&
		c.EndDate == "" &&
		len(c.Custom) == 0
}

// Action types beyond the promotion discount kinds
const (
	ActionFreeShipping = "freeShipping"
	ActionGiftProduct  = "giftProduct"
)

// Action is a priced effect granted by a rule clause. Unknown keys from
// the wire are preserved in Custom for the engine's action resolvers.
type Action struct {
	Type             string  `json:"type"`
	Value            float64 `json:"value"`
	TargetProductIDs []string `json:"targetProductIds,omitempty"`
	BuyQuantity      int      `json:"buyQuantity,omitempty"`
	GetQuantity      int      `json:"getQuantity,omitempty"`
	Tiers            []Tier   `json:"tiers,omitempty"`

	// Custom carries action keys outside the known set
	Custom map[string]interface{} `json:"-"`
}

// knownActionKeys are the JSON keys decoded into typed fields
var knownActionKeys = map[string]bool{
	"type":             true,
	"value":            true,
	"targetProductIds": true,
	"buyQuantity":      true,
	"getQuantity":      true,
	"tiers":            true,
}

// actionAlias avoids UnmarshalJSON recursion
type actionAlias Action

// UnmarshalJSON decodes the known action keys into typed fields and
// collects everything else into Custom.
func (a *Action) UnmarshalJSON(data []byte) error {
	var alias actionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if knownActionKeys[key] {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("failed to decode action key %q: %w", key, err)
		}
		if alias.Custom == nil {
			alias.Custom = make(map[string]interface{})
		}
		alias.Custom[key] = v
	}

	*a = Action(alias)
	return nil
}

// MarshalJSON emits the typed fields plus the custom keys as one flat object
func (a Action) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(actionAlias(a))
	if err != nil {
		return nil, err
	}
	if len(a.Custom) == 0 {
		return data, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range a.Custom {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}
