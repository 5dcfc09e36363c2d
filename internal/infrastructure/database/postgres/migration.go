// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/promotion-engine/internal/domain/client"
	"github.com/your-org/promotion-engine/internal/domain/history"
	"github.com/your-org/promotion-engine/internal/domain/promotion"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&client.Client{},
		&promotion.Promotion{},
		&history.AppliedPromotion{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Promotion indexes
		"CREATE INDEX IF NOT EXISTS idx_promotions_client_active ON promotions(client_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions(start_date, end_date)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_priority ON promotions(priority ASC)",

		// Applied promotion indexes
		"CREATE INDEX IF NOT EXISTS idx_applied_promotions_client_evaluated ON applied_promotions(client_id, evaluated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_applied_promotions_promotion ON applied_promotions(promotion_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds a demo client and the sample promotion catalog
// used by the admin console in development
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var clientCount int64
	if err := m.db.Model(&client.Client{}).Count(&clientCount).Error; err != nil {
		return fmt.Errorf("failed to count clients: %w", err)
	}

	if clientCount == 0 {
		demoClients := []client.Client{
			{
				ID:       "client_1",
				Name:     "Fashion Store",
				Domain:   "fashion.example.com",
				APIKey:   "pk_dev_fashion_store_0001",
				IsActive: true,
			},
			{
				ID:       "client_2",
				Name:     "Electronics Mart",
				Domain:   "electronics.example.com",
				APIKey:   "pk_dev_electronics_mart_0002",
				IsActive: true,
			},
		}
		if err := m.db.Create(&demoClients).Error; err != nil {
			return fmt.Errorf("failed to seed clients: %w", err)
		}
		log.Printf("Seeded %d demo clients", len(demoClients))
	}

	var promoCount int64
	if err := m.db.Model(&promotion.Promotion{}).Count(&promoCount).Error; err != nil {
		return fmt.Errorf("failed to count promotions: %w", err)
	}

	if promoCount == 0 {
		promotions := samplePromotions(time.Now().UTC().Year())
		if err := m.db.Create(&promotions).Error; err != nil {
			return fmt.Errorf("failed to seed promotions: %w", err)
		}
		log.Printf("Seeded %d sample promotions", len(promotions))
	}

	log.Println("✅ Initial data seeding completed")
	return nil
}

// samplePromotions returns the demo catalog, with windows anchored to
// the given year so the seed stays usable
func samplePromotions(year int) []promotion.Promotion {
	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	minCart := func(v float64) *float64 { return &v }
	boolPtr := func(v bool) *bool { return &v }

	return []promotion.Promotion{
		{
			ID:            "SUMMER10",
			Name:          "Summer Sale 10% Off",
			Description:   "Get 10% off on all purchases during summer",
			Type:          promotion.TypePercentage,
			Value:         10,
			Applicability: promotion.ApplicabilityCart,
			Conditions: promotion.Condition{
				MinCartValue: minCart(1000),
				UserType:     promotion.UserTypeAll,
				Category:     []string{"electronics", "fashion"},
			},
			StartDate: date(time.June, 1),
			EndDate:   date(time.September, 1),
			Stackable: true,
			Priority:  1,
			IsActive:  true,
			ClientID:  "client_1",
			Tags:      []string{"summer", "seasonal"},
		},
		{
			ID:            "FESTIVE500",
			Name:          "Festive Season ₹500 Off",
			Description:   "Get flat ₹500 off on purchases above ₹2000",
			Type:          promotion.TypeFixed,
			Value:         500,
			Applicability: promotion.ApplicabilityCart,
			Conditions: promotion.Condition{
				MinCartValue: minCart(2000),
			},
			StartDate: date(time.October, 1),
			EndDate:   date(time.November, 1),
			Stackable: false,
			Priority:  2,
			IsActive:  true,
			ClientID:  "client_1",
			Tags:      []string{"festive", "seasonal"},
		},
		{
			ID:            "BOGO_TSHIRT",
			Name:          "Buy 1 Get 1 T-Shirt",
			Description:   "Buy one t-shirt and get another one free",
			Type:          promotion.TypeBogo,
			Value:         100,
			Applicability: promotion.ApplicabilityProduct,
			Conditions: promotion.Condition{
				ProductIDs: []string{"tshirt_1", "tshirt_2", "tshirt_3"},
			},
			Rule: []promotion.RuleClause{
				{
					Conditions: []promotion.Condition{{MinCartValue: minCart(0)}},
					Actions: []promotion.Action{
						{
							Type:             promotion.TypeBogo,
							Value:            100,
							BuyQuantity:      1,
							GetQuantity:      1,
							TargetProductIDs: []string{"tshirt_1", "tshirt_2", "tshirt_3"},
						},
					},
				},
			},
			StartDate: date(time.July, 1),
			EndDate:   date(time.August, 1),
			Stackable: false,
			Priority:  3,
			IsActive:  true,
			ClientID:  "client_1",
			Tags:      []string{"apparel", "bogo"},
		},
		{
			ID:            "NEWUSER20",
			Name:          "New User 20% Off",
			Description:   "Get 20% off on your first purchase",
			Type:          promotion.TypePercentage,
			Value:         20,
			Applicability: promotion.ApplicabilityCart,
			Conditions: promotion.Condition{
				UserType:      "new",
				FirstTimeUser: boolPtr(true),
			},
			StartDate: date(time.January, 1),
			EndDate:   date(time.December, 31),
			Stackable: true,
			Priority:  1,
			IsActive:  true,
			ClientID:  "client_1",
			Tags:      []string{"new user"},
		},
		{
			ID:            "ELECTRONICS15",
			Name:          "Electronics 15% Off",
			Description:   "15% off on all electronics",
			Type:          promotion.TypePercentage,
			Value:         15,
			Applicability: promotion.ApplicabilityCategory,
			Conditions: promotion.Condition{
				Category: []string{"electronics"},
			},
			StartDate: date(time.September, 1),
			EndDate:   date(time.October, 1),
			Stackable: true,
			Priority:  2,
			IsActive:  true,
			ClientID:  "client_2",
			Tags:      []string{"electronics"},
		},
		{
			ID:            "PREMIUM10",
			Name:          "Premium Customer 10% Off",
			Description:   "10% off for premium customers",
			Type:          promotion.TypePercentage,
			Value:         10,
			Applicability: promotion.ApplicabilityCart,
			Conditions: promotion.Condition{
				UserSegment: "premium",
			},
			StartDate: date(time.January, 1),
			EndDate:   date(time.December, 31),
			Stackable: true,
			Priority:  2,
			IsActive:  true,
			ClientID:  "client_2",
			Tags:      []string{"premium"},
		},
		{
			ID:            "TIERED_DISCOUNT",
			Name:          "Tiered Pricing",
			Description:   "Buy more, save more",
			Type:          promotion.TypeTiered,
			Value:         0,
			Applicability: promotion.ApplicabilityProduct,
			Conditions: promotion.Condition{
				ProductIDs: []string{"product_1", "product_2"},
			},
			Rule: []promotion.RuleClause{
				{
					Conditions: []promotion.Condition{{MinCartValue: minCart(0)}},
					Actions: []promotion.Action{
						{
							Type:  promotion.TypeTiered,
							Value: 0,
							Tiers: []promotion.Tier{
								{Quantity: 1, Price: 500},
								{Quantity: 3, Price: 450},
								{Quantity: 5, Price: 400},
							},
							TargetProductIDs: []string{"product_1", "product_2"},
						},
					},
				},
			},
			StartDate: date(time.January, 1),
			EndDate:   date(time.December, 31),
			Stackable: false,
			Priority:  3,
			IsActive:  true,
			ClientID:  "client_1",
			Tags:      []string{"tiered"},
		},
	}
}

// GetTableInfo logs row counts for the seeded tables
func (m *Migration) GetTableInfo() {
	tables := []string{"clients", "promotions", "applied_promotions"}
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
