package validation

import (
	"strings"

	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
)

// Compile-time check to ensure CatalogValidatorImpl implements CatalogValidator
var _ interfaces.CatalogValidator = (*CatalogValidatorImpl)(nil)

// CatalogValidatorImpl reports authoring problems in a catalog snapshot
type CatalogValidatorImpl struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() interfaces.CatalogValidator {
	return &CatalogValidatorImpl{}
}

// Report inspects names and interaction references. It never modifies the
// snapshot; one-directional pairs in particular are reported, not repaired.
func (v *CatalogValidatorImpl) Report(snap *entities.Snapshot) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{}
	if snap == nil {
		return report
	}

	report.Products = len(snap.Products)
	report.Interactions = snap.InteractionCount()

	// Overlapping names: the earlier product wins any lookup matching both
	for i := range snap.Products {
		for j := i + 1; j < len(snap.Products); j++ {
			a, b := snap.LowerNames[i], snap.LowerNames[j]
			if strings.Contains(a, b) || strings.Contains(b, a) {
				report.OverlappingNames = append(report.OverlappingNames, [2]string{snap.Products[i].ID, snap.Products[j].ID})
			}
		}
	}

	edges := make(map[[2]string]bool)
	for _, p := range snap.Products {
		for _, in := range snap.Interactions[p.ID] {
			if in.ConflictingProductID == "" {
				continue
			}
			if in.ConflictingProductID == p.ID {
				report.SelfReferences = append(report.SelfReferences, p.ID)
				continue
			}
			if _, ok := snap.ProductsByID[in.ConflictingProductID]; !ok {
				report.DanglingReferences = append(report.DanglingReferences, p.ID+"->"+in.ConflictingProductID)
				continue
			}
			edges[[2]string{p.ID, in.ConflictingProductID}] = true
		}
	}

	// Walk products in order so the report is deterministic
	for _, p := range snap.Products {
		seen := make(map[string]bool)
		for _, in := range snap.Interactions[p.ID] {
			target := in.ConflictingProductID
			if target == "" || seen[target] || !edges[[2]string{p.ID, target}] {
				continue
			}
			seen[target] = true
			if !edges[[2]string{target, p.ID}] {
				report.OneDirectionalPairs = append(report.OneDirectionalPairs, [2]string{p.ID, target})
			}
		}
	}

	return report
}
