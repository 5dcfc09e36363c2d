// internal/domain/client/entity.go
package client

import (
	"time"

	"gorm.io/gorm"
)

// Client represents an API client owning a slice of the promotion
// catalog. Evaluation requests authenticate with the client's API key.
type Client struct {
	ID        string                 `gorm:"primaryKey;size:64" json:"id"`
	Name      string                 `gorm:"not null;size:255" json:"name"`
	Domain    string                 `gorm:"size:255" json:"domain,omitempty"`
	APIKey    string                 `gorm:"uniqueIndex;not null;size:128" json:"apiKey"`
	Metadata  map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	IsActive  bool                   `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	DeletedAt gorm.DeletedAt         `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Client) TableName() string {
	return "clients"
}
