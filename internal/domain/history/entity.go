// internal/domain/history/entity.go
package history

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/promotion-engine/internal/domain/evaluation"
)

// AppliedPromotion is the historical record of one promotion applied to
// an order. The surrounding order system records these after checkout;
// the engine itself only produces the EvaluationResult they derive from.
type AppliedPromotion struct {
	ID                  string          `gorm:"primaryKey;size:64" json:"id"`
	PromotionID         string          `gorm:"not null;size:64;index" json:"promotionId"`
	OrderID             string          `gorm:"not null;size:64;index" json:"orderId"`
	ClientID            string          `gorm:"size:64;index" json:"clientId"`
	CartSnapshot        evaluation.Cart `gorm:"serializer:json" json:"cartSnapshot"`
	FinalDiscountAmount float64         `gorm:"not null" json:"finalDiscountAmount"`
	EvaluatedAt         time.Time       `gorm:"not null;index" json:"evaluatedAt"`
	CreatedAt           time.Time       `json:"created_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (AppliedPromotion) TableName() string {
	return "applied_promotions"
}
