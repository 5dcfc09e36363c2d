// internal/domain/promotion/service.go
package promotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/promotion-engine/internal/config"
	"gorm.io/gorm"
)

// Service handles promotion catalog business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new promotion service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// ListRequest represents promotion list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	ClientID string `form:"client_id"`
	Type     string `form:"type"`
	Tag      string `form:"tag"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// CreateRequest represents promotion creation data. Dates accept
// RFC 3339 timestamps or date-only strings as the admin console sends.
type CreateRequest struct {
	ID            string       `json:"id"`
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	Type          string       `json:"type" binding:"required"`
	Value         float64      `json:"value"`
	Applicability string       `json:"applicability"`
	Conditions    Condition    `json:"conditions"`
	Rule          []RuleClause `json:"rule_json"`
	StartDate     string       `json:"startDate" binding:"required"`
	EndDate       string       `json:"endDate" binding:"required"`
	Stackable     bool         `json:"stackable"`
	Priority      int          `json:"priority"`
	IsActive      *bool        `json:"isActive"`
	ClientID      string       `json:"clientId"`
	Tags          []string     `json:"tags"`
}

// UpdateRequest represents a partial promotion update
type UpdateRequest struct {
	Name          *string       `json:"name"`
	Description   *string       `json:"description"`
	Type          *string       `json:"type"`
	Value         *float64      `json:"value"`
	Applicability *string       `json:"applicability"`
	Conditions    *Condition    `json:"conditions"`
	Rule          *[]RuleClause `json:"rule_json"`
	StartDate     *string       `json:"startDate"`
	EndDate       *string       `json:"endDate"`
	Stackable     *bool         `json:"stackable"`
	Priority      *int          `json:"priority"`
	IsActive      *bool         `json:"isActive"`
	Tags          *[]string     `json:"tags"`
}

// ListResponse represents promotions with pagination
type ListResponse struct {
	Promotions []Promotion `json:"promotions"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// List retrieves promotions with filtering and pagination
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	var promotions []Promotion
	var total int64

	query := s.db.Model(&Promotion{})

	if req.ClientID != "" {
		query = query.Where("client_id = ?", req.ClientID)
	}

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	if req.Tag != "" {
		// Tags are stored as a JSON array column
		query = query.Where("tags::text LIKE ?", "%\""+req.Tag+"\"%")
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count promotions: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("priority ASC, created_at ASC").
		Offset(offset).Limit(req.Limit).
		Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ListResponse{
		Promotions: promotions,
		Pagination: pagination,
	}, nil
}

// GetByID retrieves a single promotion
func (s *Service) GetByID(id string) (*Promotion, error) {
	var promo Promotion
	result := s.db.Where("id = ?", id).First(&promo)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("promotion not found")
		}
		return nil, fmt.Errorf("failed to retrieve promotion: %w", result.Error)
	}
	return &promo, nil
}

// Create creates a new promotion
func (s *Service) Create(req *CreateRequest, createdBy string) (*Promotion, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	id := req.ID
	if id == "" {
		id = generatePromotionID()
	} else {
		var existing Promotion
		if result := s.db.Where("id = ?", id).First(&existing); result.Error == nil {
			return nil, fmt.Errorf("promotion with id %s already exists", id)
		}
	}

	applicability := req.Applicability
	if applicability == "" {
		applicability = ApplicabilityCart
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	promo := Promotion{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Value:         req.Value,
		Applicability: applicability,
		Conditions:    req.Conditions,
		Rule:          req.Rule,
		StartDate:     startDate,
		EndDate:       endDate,
		Stackable:     req.Stackable,
		Priority:      priority,
		IsActive:      isActive,
		ClientID:      req.ClientID,
		Tags:          req.Tags,
		CreatedBy:     createdBy,
		UpdatedBy:     createdBy,
	}

	if err := promo.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(&promo).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.invalidateCatalogCache(promo.ClientID)

	return &promo, nil
}

// Update applies a partial update to a promotion
func (s *Service) Update(id string, req *UpdateRequest, updatedBy string) (*Promotion, error) {
	promo, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		promo.Name = *req.Name
	}
	if req.Description != nil {
		promo.Description = *req.Description
	}
	if req.Type != nil {
		promo.Type = *req.Type
	}
	if req.Value != nil {
		promo.Value = *req.Value
	}
	if req.Applicability != nil {
		promo.Applicability = *req.Applicability
	}
	if req.Conditions != nil {
		promo.Conditions = *req.Conditions
	}
	if req.Rule != nil {
		promo.Rule = *req.Rule
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		promo.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		promo.EndDate = endDate
	}
	if req.Stackable != nil {
		promo.Stackable = *req.Stackable
	}
	if req.Priority != nil {
		promo.Priority = *req.Priority
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	if req.Tags != nil {
		promo.Tags = *req.Tags
	}
	promo.UpdatedBy = updatedBy

	if err := promo.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Save(promo).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	s.invalidateCatalogCache(promo.ClientID)

	return promo, nil
}

// Delete soft-deletes a promotion
func (s *Service) Delete(id string) error {
	promo, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(promo).Error; err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	s.invalidateCatalogCache(promo.ClientID)

	return nil
}

// ActiveCatalog returns the active promotions owned by a client as an
// immutable snapshot for evaluation, cached in Redis with a short TTL.
// Cache failures fall back to the database.
func (s *Service) ActiveCatalog(ctx context.Context, clientID string) ([]Promotion, error) {
	cacheKey := catalogCacheKey(clientID)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var promotions []Promotion
			if err := json.Unmarshal([]byte(cached), &promotions); err == nil {
				return promotions, nil
			}
		}
	}

	var promotions []Promotion
	query := s.db.Where("is_active = ?", true)
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if err := query.Order("priority ASC, created_at ASC").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to load active promotions: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(promotions); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.config.Catalog.CacheTTL)
		}
	}

	return promotions, nil
}

// invalidateCatalogCache drops the cached snapshot after a mutation
func (s *Service) invalidateCatalogCache(clientID string) {
	if s.redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s.redisClient.Del(ctx, catalogCacheKey(clientID))
}

func catalogCacheKey(clientID string) string {
	if clientID == "" {
		return "promotion_catalog:all"
	}
	return fmt.Sprintf("promotion_catalog:%s", clientID)
}

// generatePromotionID creates a catalog identifier in the PROMO_ form
// the admin console displays
func generatePromotionID() string {
	return "PROMO_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:9])
}

// dateLayouts are the accepted formats for promotion window dates
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}
