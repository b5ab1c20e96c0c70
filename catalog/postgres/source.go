package postgres

import (
	"context"
	"fmt"

	"github.com/giygas/safety-api/catalog"
	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
	"github.com/google/uuid"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Compile-time check to ensure Source implements CatalogSource
var _ interfaces.CatalogSource = (*Source)(nil)

// Open connects to PostgreSQL. SQL statements are not logged.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the catalog tables
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(&ProductRecord{}, &InteractionRecord{}); err != nil {
		return fmt.Errorf("failed to migrate catalog tables: %w", err)
	}
	logging.Info("Catalog database migration complete")
	return nil
}

// Seed replaces the stored catalog with snap in a single transaction
func Seed(ctx context.Context, db *gorm.DB, snap *entities.Snapshot) error {
	products, interactions := toRecords(snap)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&InteractionRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear interactions: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&ProductRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		if len(products) > 0 {
			if err := tx.CreateInBatches(products, 500).Error; err != nil {
				return fmt.Errorf("failed to insert products: %w", err)
			}
		}
		if len(interactions) > 0 {
			if err := tx.CreateInBatches(interactions, 500).Error; err != nil {
				return fmt.Errorf("failed to insert interactions: %w", err)
			}
		}
		logging.Info("Catalog seeded", "products", len(products), "interactions", len(interactions))
		return nil
	})
}

// Source loads the catalog from the catalog tables
type Source struct {
	DB *gorm.DB
}

func NewSource(db *gorm.DB) *Source {
	return &Source{DB: db}
}

func (s *Source) Name() string {
	return "postgres"
}

// Load reads both tables in position order and builds a snapshot
func (s *Source) Load(ctx context.Context) (*entities.Snapshot, error) {
	var products []ProductRecord
	if err := s.DB.WithContext(ctx).Order("position ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var interactions []InteractionRecord
	if err := s.DB.WithContext(ctx).Order("position ASC").Find(&interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	return fromRecords(products, interactions)
}

func toRecords(snap *entities.Snapshot) ([]ProductRecord, []InteractionRecord) {
	products := make([]ProductRecord, 0, len(snap.Products))
	interactions := make([]InteractionRecord, 0, snap.InteractionCount())

	for i, p := range snap.Products {
		products = append(products, ProductRecord{
			ID:          uuid.New(),
			ExternalID:  p.ID,
			Name:        p.Name,
			Ingredients: p.Ingredients,
			Brand:       p.Brand,
			Category:    p.Category,
			Position:    i,
		})
		for _, in := range snap.Interactions[p.ID] {
			interactions = append(interactions, InteractionRecord{
				ID:                    uuid.New(),
				ProductExternalID:     in.ProductID,
				ConflictingProductID:  in.ConflictingProductID,
				ConflictingMedication: in.ConflictingMedication,
				Severity:              string(in.Severity),
				Description:           in.Description,
				Recommendation:        in.Recommendation,
				Position:              len(interactions),
			})
		}
	}

	return products, interactions
}

func fromRecords(products []ProductRecord, interactions []InteractionRecord) (*entities.Snapshot, error) {
	catalogProducts := make([]entities.Product, 0, len(products))
	for _, p := range products {
		catalogProducts = append(catalogProducts, entities.Product{
			ID:          p.ExternalID,
			Name:        p.Name,
			Ingredients: p.Ingredients,
			Brand:       p.Brand,
			Category:    p.Category,
		})
	}

	catalogInteractions := make([]entities.Interaction, 0, len(interactions))
	for _, in := range interactions {
		severity, err := entities.ParseSeverity(in.Severity)
		if err != nil {
			return nil, fmt.Errorf("interaction %s: %w", in.ID, err)
		}
		catalogInteractions = append(catalogInteractions, entities.Interaction{
			ProductID:             in.ProductExternalID,
			ConflictingProductID:  in.ConflictingProductID,
			ConflictingMedication: in.ConflictingMedication,
			Severity:              severity,
			Description:           in.Description,
			Recommendation:        in.Recommendation,
		})
	}

	return catalog.NewSnapshot(catalogProducts, catalogInteractions)
}
