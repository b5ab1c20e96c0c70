package safety

import (
	"context"

	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/metrics"
)

// Engine runs safety checks against a read-only catalog. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	resolver *InteractionResolver
	matcher  *AllergenMatcher
}

// NewEngine builds an engine using first-match substring product resolution
func NewEngine(catalog interfaces.CatalogReader) *Engine {
	return NewEngineWithResolver(catalog, SubstringResolver{Catalog: catalog})
}

// NewEngineWithResolver builds an engine with a custom product matching strategy
func NewEngineWithResolver(catalog interfaces.CatalogReader, products ProductResolver) *Engine {
	return &Engine{
		resolver: NewInteractionResolver(products, catalog),
		matcher:  NewAllergenMatcher(products),
	}
}

// Check evaluates a request and assembles the report
func (e *Engine) Check(ctx context.Context, req Request) (*Report, error) {
	supplementHits, medicationHits, err := e.resolver.Resolve(ctx, req.Supplements, req.Medications)
	if err != nil {
		return nil, err
	}

	allergyHits, err := e.matcher.Match(ctx, req.Supplements, req.Allergies)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(supplementHits)+len(medicationHits)+len(allergyHits))
	for _, hit := range supplementHits {
		issues = append(issues, hit)
	}
	for _, hit := range medicationHits {
		issues = append(issues, hit)
	}
	for _, hit := range allergyHits {
		issues = append(issues, hit)
	}

	score, status, tally := Score(issues)

	report := &Report{
		SafetyStatus: status,
		SafetyScore:  score,
		Summary: Summary{
			TotalInteractions: len(supplementHits) + len(medicationHits),
			AllergyWarnings:   len(allergyHits),
			CriticalIssues:    tally.Critical,
			ModerateIssues:    tally.Moderate,
		},
		Interactions: Interactions{
			SupplementToSupplement: supplementHits,
			SupplementToMedication: medicationHits,
			Allergies:              allergyHits,
		},
		Recommendations: Recommend(supplementHits, medicationHits, allergyHits, status),
	}

	observe(report, issues)
	return report, nil
}

func observe(report *Report, issues []Issue) {
	metrics.SafetyChecksTotal.WithLabelValues(string(report.SafetyStatus)).Inc()
	metrics.SafetyScore.Observe(float64(report.SafetyScore))

	for _, issue := range issues {
		var kind string
		switch issue.(type) {
		case SupplementInteraction:
			kind = "supplement"
		case MedicationInteraction:
			kind = "medication"
		case AllergyWarning:
			kind = "allergy"
		}
		metrics.SafetyIssuesTotal.WithLabelValues(kind, string(issue.IssueSeverity())).Inc()
	}
}
