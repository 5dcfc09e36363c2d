// internal/domain/history/service.go
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/evaluation"
)

// Service handles applied-promotion history and insights
type Service struct {
	db     *gorm.DB
	engine *evaluation.Engine
	config *config.Config
}

// NewService creates a new history service
func NewService(db *gorm.DB, engine *evaluation.Engine, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		engine: engine,
		config: cfg,
	}
}

// RecordRequest represents an evaluation outcome being persisted by the
// order-processing system after checkout
type RecordRequest struct {
	OrderID  string                      `json:"orderId" binding:"required"`
	ClientID string                      `json:"clientId"`
	Cart     evaluation.Cart             `json:"cart" binding:"required"`
	Result   evaluation.EvaluationResult `json:"result" binding:"required"`
}

// ListRequest represents history list query parameters
type ListRequest struct {
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=20"`
	ClientID    string `form:"client_id"`
	PromotionID string `form:"promotion_id"`
	OrderID     string `form:"order_id"`
}

// ListResponse represents applied promotions with pagination
type ListResponse struct {
	AppliedPromotions []AppliedPromotion `json:"appliedPromotions"`
	Total             int64              `json:"total"`
	Page              int                `json:"page"`
	Limit             int                `json:"limit"`
}

// PromotionInsight aggregates usage of one promotion
type PromotionInsight struct {
	PromotionID   string  `json:"promotionId"`
	TimesApplied  int64   `json:"timesApplied"`
	TotalDiscount float64 `json:"totalDiscount"`
}

// InsightsResponse summarizes catalog usage for the dashboard
type InsightsResponse struct {
	TotalApplications int64              `json:"totalApplications"`
	TotalDiscount     float64            `json:"totalDiscount"`
	Promotions        []PromotionInsight `json:"promotions"`
}

// Record persists one AppliedPromotion row per promotion in the
// evaluation result. Each promotion's individual contribution is
// re-priced against the snapshot cart so the rows carry per-promotion
// amounts rather than the summed total.
func (s *Service) Record(req *RecordRequest, evaluatedAt time.Time) ([]AppliedPromotion, error) {
	if len(req.Result.AppliedPromotions) == 0 {
		return nil, nil
	}

	records := make([]AppliedPromotion, 0, len(req.Result.AppliedPromotions))
	for i := range req.Result.AppliedPromotions {
		promo := req.Result.AppliedPromotions[i]

		effects, _ := s.engine.EvaluateRule(&promo, &req.Cart, evaluatedAt)
		var amount float64
		for _, effect := range effects {
			amount += effect.Amount
		}

		records = append(records, AppliedPromotion{
			ID:                  generateRecordID(),
			PromotionID:         promo.ID,
			OrderID:             req.OrderID,
			ClientID:            req.ClientID,
			CartSnapshot:        req.Cart,
			FinalDiscountAmount: amount,
			EvaluatedAt:         evaluatedAt,
		})
	}

	if err := s.db.Create(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to record applied promotions: %w", err)
	}

	return records, nil
}

// List retrieves applied-promotion records with filtering and pagination
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	var records []AppliedPromotion
	var total int64

	query := s.db.Model(&AppliedPromotion{})

	if req.ClientID != "" {
		query = query.Where("client_id = ?", req.ClientID)
	}
	if req.PromotionID != "" {
		query = query.Where("promotion_id = ?", req.PromotionID)
	}
	if req.OrderID != "" {
		query = query.Where("order_id = ?", req.OrderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count applied promotions: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("evaluated_at DESC").
		Offset(offset).Limit(req.Limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve applied promotions: %w", err)
	}

	return &ListResponse{
		AppliedPromotions: records,
		Total:             total,
		Page:              req.Page,
		Limit:             req.Limit,
	}, nil
}

// Insights aggregates per-promotion usage counts and discount totals
func (s *Service) Insights(clientID string) (*InsightsResponse, error) {
	query := s.db.Model(&AppliedPromotion{})
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var insights []PromotionInsight
	if err := query.
		Select("promotion_id, COUNT(*) AS times_applied, COALESCE(SUM(final_discount_amount), 0) AS total_discount").
		Group("promotion_id").
		Order("total_discount DESC").
		Scan(&insights).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate promotion insights: %w", err)
	}

	response := &InsightsResponse{Promotions: insights}
	for _, insight := range insights {
		response.TotalApplications += insight.TimesApplied
		response.TotalDiscount += insight.TotalDiscount
	}

	return response, nil
}

// generateRecordID creates identifiers in the APPLIED_ form
func generateRecordID() string {
	return "APPLIED_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:9])
}
