// internal/domain/client/service.go
package client

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/promotion-engine/internal/config"
	"gorm.io/gorm"
)

// Service handles API client business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new client service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents client creation data
type CreateRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Domain   string                 `json:"domain"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateRequest represents a partial client update
type UpdateRequest struct {
	Name     *string                 `json:"name"`
	Domain   *string                 `json:"domain"`
	Metadata *map[string]interface{} `json:"metadata"`
	IsActive *bool                   `json:"isActive"`
}

// List retrieves all clients
func (s *Service) List() ([]Client, error) {
	var clients []Client
	if err := s.db.Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve clients: %w", err)
	}
	return clients, nil
}

// GetByID retrieves a single client
func (s *Service) GetByID(id string) (*Client, error) {
	var c Client
	result := s.db.Where("id = ?", id).First(&c)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("client not found")
		}
		return nil, fmt.Errorf("failed to retrieve client: %w", result.Error)
	}
	return &c, nil
}

// Create registers a new client and issues its API key
func (s *Service) Create(req *CreateRequest) (*Client, error) {
	c := Client{
		ID:       generateClientID(),
		Name:     req.Name,
		Domain:   req.Domain,
		APIKey:   generateAPIKey(),
		Metadata: req.Metadata,
		IsActive: true,
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &c, nil
}

// Update applies a partial update to a client
func (s *Service) Update(id string, req *UpdateRequest) (*Client, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Domain != nil {
		c.Domain = *req.Domain
	}
	if req.Metadata != nil {
		c.Metadata = *req.Metadata
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.db.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return c, nil
}

// Delete soft-deletes a client
func (s *Service) Delete(id string) error {
	c, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}

// RotateAPIKey replaces the client's API key
func (s *Service) RotateAPIKey(id string) (*Client, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	c.APIKey = generateAPIKey()
	if err := s.db.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to rotate api key: %w", err)
	}

	return c, nil
}

// Authenticate resolves an API key to an active client
func (s *Service) Authenticate(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	var c Client
	result := s.db.Where("api_key = ? AND is_active = ?", apiKey, true).First(&c)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid api key")
		}
		return nil, fmt.Errorf("failed to authenticate client: %w", result.Error)
	}

	return &c, nil
}

// generateClientID creates identifiers in the CLIENT_ form the admin
// console displays
func generateClientID() string {
	return "CLIENT_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:9])
}

func generateAPIKey() string {
	return "pk_" + strings.ReplaceAll(uuid.New().String(), "-", "") + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
