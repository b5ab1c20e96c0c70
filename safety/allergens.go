package safety

import (
	"context"
	"fmt"
	"strings"

	"github.com/giygas/safety-api/catalog/entities"
)

// allergenKeywords are matched against ingredients independently of the
// caller's exact allergy strings.
var allergenKeywords = []string{"fish", "shellfish", "dairy", "soy", "gluten", "nuts", "eggs"}

const (
	exactAllergyRecommendation   = "Avoid this product or consult your doctor before use."
	keywordAllergyRecommendation = "Check the product label and consult your doctor if your allergy is severe."
)

// AllergenMatcher compares product ingredients with declared allergies
type AllergenMatcher struct {
	products ProductResolver
}

func NewAllergenMatcher(products ProductResolver) *AllergenMatcher {
	return &AllergenMatcher{products: products}
}

// Match returns allergy warnings in supplement order. For each product the
// exact-allergy warnings (HIGH) come first, then keyword warnings (MODERATE).
// Both may fire for the same allergen and are kept apart.
func (m *AllergenMatcher) Match(ctx context.Context, supplements, allergies []string) ([]AllergyWarning, error) {
	warnings := []AllergyWarning{}
	if len(allergies) == 0 {
		return warnings, nil
	}

	lowerAllergies := make([]string, len(allergies))
	for i, a := range allergies {
		lowerAllergies[i] = strings.ToLower(a)
	}

	for _, name := range supplements {
		product, err := m.products.ResolveProduct(ctx, name)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}

		ingredients := strings.ToLower(product.Ingredients)

		for i, allergy := range allergies {
			if strings.Contains(ingredients, lowerAllergies[i]) {
				warnings = append(warnings, AllergyWarning{
					Supplement:     name,
					Allergen:       allergy,
					Severity:       entities.SeverityHigh,
					Description:    fmt.Sprintf("This product contains %s which you are allergic to.", allergy),
					Recommendation: exactAllergyRecommendation,
				})
			}
		}

		for _, keyword := range allergenKeywords {
			if !strings.Contains(ingredients, keyword) || !declares(lowerAllergies, keyword) {
				continue
			}
			warnings = append(warnings, AllergyWarning{
				Supplement:     name,
				Allergen:       keyword,
				Severity:       entities.SeverityModerate,
				Description:    fmt.Sprintf("This product may contain traces of %s.", keyword),
				Recommendation: keywordAllergyRecommendation,
			})
		}
	}

	return warnings, nil
}

func declares(lowerAllergies []string, keyword string) bool {
	for _, a := range lowerAllergies {
		if strings.Contains(a, keyword) {
			return true
		}
	}
	return false
}
