package safety

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
)

// ProductResolver maps a caller-supplied supplement name to a catalog product.
// A nil product with a nil error means the name is not in the catalog.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, name string) (*entities.Product, error)
}

// SubstringResolver picks the first product, in catalog order, whose name
// contains the input case-insensitively.
type SubstringResolver struct {
	Catalog interfaces.CatalogReader
}

func (r SubstringResolver) ResolveProduct(ctx context.Context, name string) (*entities.Product, error) {
	products, err := r.Catalog.FindProductsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: find products by name %q: %v", ErrCatalogUnavailable, name, err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// ExactResolver only accepts products whose name equals the input, ignoring case.
type ExactResolver struct {
	Catalog interfaces.CatalogReader
}

func (r ExactResolver) ResolveProduct(ctx context.Context, name string) (*entities.Product, error) {
	products, err := r.Catalog.FindProductsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: find products by name %q: %v", ErrCatalogUnavailable, name, err)
	}
	for i := range products {
		if strings.EqualFold(products[i].Name, name) {
			return &products[i], nil
		}
	}
	return nil, nil
}

// InteractionResolver walks the interactions recorded on each resolved
// supplement. Interactions are one-directional: only those stored on the
// resolved product are considered, the reverse edge is never synthesised.
type InteractionResolver struct {
	products ProductResolver
	catalog  interfaces.CatalogReader
}

func NewInteractionResolver(products ProductResolver, catalog interfaces.CatalogReader) *InteractionResolver {
	return &InteractionResolver{products: products, catalog: catalog}
}

// Resolve returns the supplement and medication interactions in input order,
// then catalog order within a supplement. Unknown supplement names are skipped.
func (r *InteractionResolver) Resolve(ctx context.Context, supplements, medications []string) ([]SupplementInteraction, []MedicationInteraction, error) {
	supplementHits := []SupplementInteraction{}
	medicationHits := []MedicationInteraction{}

	for _, name := range supplements {
		product, err := r.products.ResolveProduct(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			continue
		}

		interactions, err := r.catalog.ListInteractionsForProduct(ctx, product.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: list interactions for %s: %v", ErrCatalogUnavailable, product.ID, err)
		}

		for _, in := range interactions {
			if in.ConflictingProductID != "" {
				other, ok, err := r.catalog.GetProduct(ctx, in.ConflictingProductID)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: get product %s: %v", ErrCatalogUnavailable, in.ConflictingProductID, err)
				}
				if ok && slices.Contains(supplements, other.Name) {
					supplementHits = append(supplementHits, SupplementInteraction{
						Supplement1:    name,
						Supplement2:    other.Name,
						Severity:       in.Severity,
						Description:    in.Description,
						Recommendation: in.Recommendation,
					})
				}
			}

			if in.ConflictingMedication != "" && slices.Contains(medications, in.ConflictingMedication) {
				medicationHits = append(medicationHits, MedicationInteraction{
					Supplement:     name,
					Medication:     in.ConflictingMedication,
					Severity:       in.Severity,
					Description:    in.Description,
					Recommendation: in.Recommendation,
				})
			}
		}
	}

	return supplementHits, medicationHits, nil
}
