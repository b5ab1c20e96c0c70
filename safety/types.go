// Package safety implements the supplement safety check: it resolves the
// caller's supplements against the interaction catalog, matches declared
// allergies against product ingredients, scores the findings, and produces
// ranked recommendations.
package safety

import (
	"errors"

	"github.com/giygas/safety-api/catalog/entities"
)

// ErrCatalogUnavailable wraps any failure to query the catalog
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Status is the overall verdict of a safety check
type Status string

const (
	StatusSafe      Status = "SAFE"
	StatusMonitor   Status = "MONITOR"
	StatusCaution   Status = "CAUTION"
	StatusDangerous Status = "DANGEROUS"
)

// Priority of a recommendation
type Priority string

const (
	PriorityHigh     Priority = "HIGH"
	PriorityModerate Priority = "MODERATE"
	PriorityLow      Priority = "LOW"
)

// Action suggested by a recommendation
type Action string

const (
	ActionStopUse       Action = "STOP_USE"
	ActionConsultDoctor Action = "CONSULT_DOCTOR"
	ActionAvoidProducts Action = "AVOID_PRODUCTS"
	ActionSpaceDosing   Action = "SPACE_DOSING"
	ActionMonitor       Action = "MONITOR"
)

// Request is the input of a safety check.
type Request struct {
	Supplements []string `json:"supplements" validate:"required,max=100,dive,required,max=200"`
	Medications []string `json:"medications" validate:"omitempty,max=100,dive,required,max=200"`
	Allergies   []string `json:"allergies" validate:"omitempty,max=100,dive,required,max=200"`
}

// Issue is a single finding. The set of implementations is closed:
// SupplementInteraction, MedicationInteraction and AllergyWarning.
type Issue interface {
	IssueSeverity() entities.Severity
	issue()
}

// SupplementInteraction is a conflict between two of the caller's supplements
type SupplementInteraction struct {
	Supplement1    string            `json:"supplement1"`
	Supplement2    string            `json:"supplement2"`
	Severity       entities.Severity `json:"severity"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation"`
}

// MedicationInteraction is a conflict between a supplement and a medication
type MedicationInteraction struct {
	Supplement     string            `json:"supplement"`
	Medication     string            `json:"medication"`
	Severity       entities.Severity `json:"severity"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation"`
}

// AllergyWarning flags an allergen found in a product's ingredients
type AllergyWarning struct {
	Supplement     string            `json:"supplement"`
	Allergen       string            `json:"allergen"`
	Severity       entities.Severity `json:"severity"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation"`
}

func (i SupplementInteraction) IssueSeverity() entities.Severity { return i.Severity }
func (i MedicationInteraction) IssueSeverity() entities.Severity { return i.Severity }
func (w AllergyWarning) IssueSeverity() entities.Severity        { return w.Severity }

func (SupplementInteraction) issue() {}
func (MedicationInteraction) issue() {}
func (AllergyWarning) issue()        {}

// Recommendation is one actionable guidance entry
type Recommendation struct {
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      Action   `json:"action"`
}

// Summary counts of a report
type Summary struct {
	TotalInteractions int `json:"totalInteractions"`
	AllergyWarnings   int `json:"allergyWarnings"`
	CriticalIssues    int `json:"criticalIssues"`
	ModerateIssues    int `json:"moderateIssues"`
}

// Interactions groups the findings by variant
type Interactions struct {
	SupplementToSupplement []SupplementInteraction `json:"supplementToSupplement"`
	SupplementToMedication []MedicationInteraction `json:"supplementToMedication"`
	Allergies              []AllergyWarning        `json:"allergies"`
}

// Report is the result of a safety check
type Report struct {
	SafetyStatus    Status           `json:"safetyStatus"`
	SafetyScore     int              `json:"safetyScore"`
	Summary         Summary          `json:"summary"`
	Interactions    Interactions     `json:"interactions"`
	Recommendations []Recommendation `json:"recommendations"`
}
