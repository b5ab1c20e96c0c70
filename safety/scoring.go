package safety

import "github.com/giygas/safety-api/catalog/entities"

// Tally counts issues per severity tier
type Tally struct {
	Critical int
	Moderate int
}

// Score starts at 100, deducts 30 per HIGH/CRITICAL issue and 15 per
// MODERATE issue, and floors at 0. Any interaction, even LOW, lifts an
// otherwise clean result to MONITOR.
func Score(issues []Issue) (int, Status, Tally) {
	var tally Tally
	interactions := 0

	for _, issue := range issues {
		switch issue.(type) {
		case SupplementInteraction, MedicationInteraction:
			interactions++
		case AllergyWarning:
			// allergy warnings alone never lift a result to MONITOR
		}

		severity := issue.IssueSeverity()
		switch {
		case severity.IsCritical():
			tally.Critical++
		case severity == entities.SeverityModerate:
			tally.Moderate++
		}
	}

	score := 100 - tally.Critical*30 - tally.Moderate*15
	if score < 0 {
		score = 0
	}

	var status Status
	switch {
	case tally.Critical > 0:
		status = StatusDangerous
	case tally.Moderate > 0:
		status = StatusCaution
	case interactions > 0:
		status = StatusMonitor
	default:
		status = StatusSafe
	}

	return score, status, tally
}
