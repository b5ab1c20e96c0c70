// Package catalog loads the interaction catalog from its sources and builds
// indexed snapshots for the data container.
package catalog

import (
	"fmt"
	"strings"

	"github.com/giygas/safety-api/catalog/entities"
)

// Document is the on-disk shape of a catalog, shared by JSON and YAML files.
type Document struct {
	Products []ProductDocument `json:"products" yaml:"products"`
}

type ProductDocument struct {
	ID           string                `json:"id" yaml:"id"`
	Name         string                `json:"name" yaml:"name"`
	Ingredients  string                `json:"ingredients" yaml:"ingredients"`
	Brand        string                `json:"brand" yaml:"brand"`
	Category     string                `json:"category" yaml:"category"`
	Interactions []InteractionDocument `json:"interactions" yaml:"interactions"`
}

type InteractionDocument struct {
	ConflictingProductID  string `json:"conflictingProductId" yaml:"conflictingProductId"`
	ConflictingMedication string `json:"conflictingMedication" yaml:"conflictingMedication"`
	Severity              string `json:"severity" yaml:"severity"`
	Description           string `json:"description" yaml:"description"`
	Recommendation        string `json:"recommendation" yaml:"recommendation"`
}

// Build converts a document into an indexed snapshot, keeping document order.
func Build(doc *Document) (*entities.Snapshot, error) {
	if doc == nil {
		return nil, fmt.Errorf("catalog document is nil")
	}

	products := make([]entities.Product, 0, len(doc.Products))
	var interactions []entities.Interaction

	for i, p := range doc.Products {
		product := entities.Product{
			ID:          strings.TrimSpace(p.ID),
			Name:        strings.TrimSpace(p.Name),
			Ingredients: p.Ingredients,
			Brand:       p.Brand,
			Category:    p.Category,
		}
		products = append(products, product)

		for j, in := range p.Interactions {
			severity, err := entities.ParseSeverity(in.Severity)
			if err != nil {
				return nil, fmt.Errorf("product %d (%s) interaction %d: %w", i, product.ID, j, err)
			}
			interactions = append(interactions, entities.Interaction{
				ProductID:             product.ID,
				ConflictingProductID:  strings.TrimSpace(in.ConflictingProductID),
				ConflictingMedication: strings.TrimSpace(in.ConflictingMedication),
				Severity:              severity,
				Description:           in.Description,
				Recommendation:        in.Recommendation,
			})
		}
	}

	return NewSnapshot(products, interactions)
}

// NewSnapshot indexes products and interactions. Interactions must reference
// a known source product and carry at least one target.
func NewSnapshot(products []entities.Product, interactions []entities.Interaction) (*entities.Snapshot, error) {
	snap := &entities.Snapshot{
		Products:     make([]entities.Product, 0, len(products)),
		ProductsByID: make(map[string]entities.Product, len(products)),
		Interactions: make(map[string][]entities.Interaction),
		LowerNames:   make([]string, 0, len(products)),
	}

	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d has an empty id", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("product %s has an empty name", p.ID)
		}
		if _, exists := snap.ProductsByID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		snap.Products = append(snap.Products, p)
		snap.ProductsByID[p.ID] = p
		snap.LowerNames = append(snap.LowerNames, strings.ToLower(p.Name))
	}

	for _, in := range interactions {
		if _, ok := snap.ProductsByID[in.ProductID]; !ok {
			return nil, fmt.Errorf("interaction references unknown source product %s", in.ProductID)
		}
		if !in.HasTarget() {
			return nil, fmt.Errorf("interaction on product %s has neither a conflicting product nor a medication", in.ProductID)
		}
		snap.Interactions[in.ProductID] = append(snap.Interactions[in.ProductID], in)
	}

	return snap, nil
}
