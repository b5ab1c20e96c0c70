// Package entities holds the reference data types of the interaction catalog.
package entities

// Product is an immutable catalog entry.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Ingredients string `json:"ingredients" yaml:"ingredients"`
	Brand       string `json:"brand,omitempty" yaml:"brand"`
	Category    string `json:"category,omitempty" yaml:"category"`
}

// Interaction belongs to exactly one source product. At least one of
// ConflictingProductID and ConflictingMedication is set.
type Interaction struct {
	ProductID             string   `json:"productId"`
	ConflictingProductID  string   `json:"conflictingProductId,omitempty"`
	ConflictingMedication string   `json:"conflictingMedication,omitempty"`
	Severity              Severity `json:"severity"`
	Description           string   `json:"description"`
	Recommendation        string   `json:"recommendation"`
}

// HasTarget reports whether the interaction points at a product or a medication.
func (i Interaction) HasTarget() bool {
	return i.ConflictingProductID != "" || i.ConflictingMedication != ""
}

// Snapshot is a complete, indexed copy of the catalog.
// Products keep document order; Interactions are keyed by source product id
// and keep document order within a product.
type Snapshot struct {
	Products     []Product
	ProductsByID map[string]Product
	Interactions map[string][]Interaction
	// LowerNames is parallel to Products.
	LowerNames []string
}

// InteractionCount returns the number of interactions across all products.
func (s *Snapshot) InteractionCount() int {
	n := 0
	for _, list := range s.Interactions {
		n += len(list)
	}
	return n
}
