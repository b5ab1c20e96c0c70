// Package postgres stores the interaction catalog in PostgreSQL through gorm
// and loads it back as a snapshot.
package postgres

import (
	"time"

	"github.com/google/uuid"
)

// ProductRecord is one catalog product row. Position keeps catalog order,
// which drives first-match name resolution.
type ProductRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ExternalID  string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"not null"`
	Ingredients string
	Brand       string
	Category    string
	Position    int `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductRecord) TableName() string { return "catalog_products" }

// InteractionRecord is one directed interaction row
type InteractionRecord struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProductExternalID     string    `gorm:"index;not null"`
	ConflictingProductID  string
	ConflictingMedication string
	Severity              string `gorm:"not null"`
	Description           string
	Recommendation        string
	Position              int `gorm:"index;not null"`
	CreatedAt             time.Time
}

func (InteractionRecord) TableName() string { return "catalog_interactions" }
