package safety

var (
	immediateAction = Recommendation{
		Priority:    PriorityHigh,
		Title:       "Immediate Action Required",
		Description: "Critical safety issues were found. Stop using the affected products and consult a healthcare professional immediately.",
		Action:      ActionStopUse,
	}
	medicationWarning = Recommendation{
		Priority:    PriorityHigh,
		Title:       "Medication Interactions Detected",
		Description: "Some of your supplements may interact with your medications. Talk to your doctor or pharmacist before continuing.",
		Action:      ActionConsultDoctor,
	}
	allergyWarning = Recommendation{
		Priority:    PriorityHigh,
		Title:       "Allergy Warnings",
		Description: "Some products contain ingredients you may be allergic to. Avoid these products or check with your doctor first.",
		Action:      ActionAvoidProducts,
	}
	supplementWarning = Recommendation{
		Priority:    PriorityModerate,
		Title:       "Supplement Interactions",
		Description: "Some of your supplements may interact with each other. Consider spacing out doses or adjusting your regimen.",
		Action:      ActionSpaceDosing,
	}
	safeToUse = Recommendation{
		Priority:    PriorityLow,
		Title:       "Safe to Use",
		Description: "No significant interactions were found. Keep monitoring how you feel and review new products before adding them.",
		Action:      ActionMonitor,
	}
)

// Recommend emits guidance in fixed priority order. Each entry is
// triggered independently.
func Recommend(supplements []SupplementInteraction, medications []MedicationInteraction, allergies []AllergyWarning, status Status) []Recommendation {
	recs := []Recommendation{}

	if status == StatusDangerous {
		recs = append(recs, immediateAction)
	}
	if len(medications) > 0 {
		recs = append(recs, medicationWarning)
	}
	if len(allergies) > 0 {
		recs = append(recs, allergyWarning)
	}
	if len(supplements) > 0 {
		recs = append(recs, supplementWarning)
	}
	if status == StatusSafe {
		recs = append(recs, safeToUse)
	}

	return recs
}
