package promotion

import (
	"encoding/json"
	"testing"
	"time"
)

func validPromotion() Promotion {
	return Promotion{
		ID:        "PROMO_TEST",
		Name:      "Test Promotion",
		Type:      TypePercentage,
		Value:     10,
		Priority:  1,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestPromotionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Promotion)
		wantErr bool
	}{
		{"valid", func(p *Promotion) {}, false},
		{"missing id", func(p *Promotion) { p.ID = "" }, true},
		{"missing name", func(p *Promotion) { p.Name = "" }, true},
		{"missing type", func(p *Promotion) { p.Type = "" }, true},
		{"negative value", func(p *Promotion) { p.Value = -1 }, true},
		{"zero priority", func(p *Promotion) { p.Priority = 0 }, true},
		{"negative priority", func(p *Promotion) { p.Priority = -3 }, true},
		{"zero start date", func(p *Promotion) { p.StartDate = time.Time{} }, true},
		{"end before start", func(p *Promotion) {
			p.EndDate = p.StartDate.Add(-time.Hour)
		}, true},
		{"end equals start", func(p *Promotion) { p.EndDate = p.StartDate }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPromotion()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPromotionInWindow(t *testing.T) {
	p := validPromotion()

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", p.StartDate.Add(-time.Second), false},
		{"at start", p.StartDate, true},
		{"inside window", p.StartDate.AddDate(0, 6, 0), true},
		{"at end", p.EndDate, false},
		{"after window", p.EndDate.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.InWindow(tt.now); got != tt.want {
				t.Errorf("InWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestConditionUnmarshalCapturesUnknownKeys(t *testing.T) {
	data := []byte(`{
		"minCartValue": 500,
		"userType": "premium",
		"productIds": ["item_1"],
		"minLoyaltyPoints": 200,
		"weather": "sunny"
	}`)

	var cond Condition
	if err := json.Unmarshal(data, &cond); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if cond.MinCartValue == nil || *cond.MinCartValue != 500 {
		t.Errorf("MinCartValue = %v, want 500", cond.MinCartValue)
	}
	if cond.UserType != "premium" {
		t.Errorf("UserType = %q, want premium", cond.UserType)
	}
	if len(cond.ProductIDs) != 1 || cond.ProductIDs[0] != "item_1" {
		t.Errorf("ProductIDs = %v, want [item_1]", cond.ProductIDs)
	}
	if len(cond.Custom) != 2 {
		t.Fatalf("Custom = %v, want 2 unknown keys", cond.Custom)
	}
	if v, ok := cond.Custom["minLoyaltyPoints"].(float64); !ok || v != 200 {
		t.Errorf("Custom[minLoyaltyPoints] = %v, want 200", cond.Custom["minLoyaltyPoints"])
	}
	if v, ok := cond.Custom["weather"].(string); !ok || v != "sunny" {
		t.Errorf("Custom[weather] = %v, want sunny", cond.Custom["weather"])
	}
}

func TestConditionMarshalRoundTripsCustomKeys(t *testing.T) {
	original := []byte(`{"userType":"premium","minLoyaltyPoints":200}`)

	var cond Condition
	if err := json.Unmarshal(original, &cond); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	out, err := json.Marshal(cond)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	var flat map[string]interface{}
	if err := json.Unmarshal(out, &flat); err != nil {
		t.Fatalf("re-Unmarshal error = %v", err)
	}
	if flat["userType"] != "premium" {
		t.Errorf("userType = %v, want premium", flat["userType"])
	}
	if flat["minLoyaltyPoints"] != float64(200) {
		t.Errorf("minLoyaltyPoints = %v, want 200", flat["minLoyaltyPoints"])
	}
}

func TestConditionIsEmpty(t *testing.T) {
	var cond Condition
	if !cond.IsEmpty() {
		t.Error("zero condition should be empty")
	}

	cond.UserType = "premium"
	if cond.IsEmpty() {
		t.Error("condition with a user type should not be empty")
	}

	cond = Condition{Custom: map[string]interface{}{"x": 1}}
	if cond.IsEmpty() {
		t.Error("condition with custom keys should not be empty")
	}
}

func TestActionUnmarshalCapturesUnknownKeys(t *testing.T) {
	data := []byte(`{
		"type": "giftProduct",
		"value": 0,
		"giftProductId": "item_gift",
		"maxGifts": 2
	}`)

	var action Action
	if err := json.Unmarshal(data, &action); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if action.Type != ActionGiftProduct {
		t.Errorf("Type = %q, want %q", action.Type, ActionGiftProduct)
	}
	if len(action.Custom) != 2 {
		t.Fatalf("Custom = %v, want 2 unknown keys", action.Custom)
	}
	if action.Custom["giftProductId"] != "item_gift" {
		t.Errorf("Custom[giftProductId] = %v, want item_gift", action.Custom["giftProductId"])
	}
}

func TestRuleClauseDecoding(t *testing.T) {
	data := []byte(`{
		"conditions": [
			{"minCartValue": 1000},
			{"userType": "premium"}
		],
		"actions": [
			{"type": "percentage", "value": 15},
			{"type": "bxgy", "buyQuantity": 2, "getQuantity": 1, "targetProductIds": ["item_1"]}
		]
	}`)

	var clause RuleClause
	if err := json.Unmarshal(data, &clause); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if len(clause.Conditions) != 2 {
		t.Fatalf("Conditions count = %d, want 2", len(clause.Conditions))
	}
	if len(clause.Actions) != 2 {
		t.Fatalf("Actions count = %d, want 2", len(clause.Actions))
	}
	if clause.Actions[1].BuyQuantity != 2 || clause.Actions[1].GetQuantity != 1 {
		t.Errorf("bxgy quantities = %d/%d, want 2/1",
			clause.Actions[1].BuyQuantity, clause.Actions[1].GetQuantity)
	}
}
