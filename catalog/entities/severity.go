package entities

import (
	"fmt"
	"strings"
)

// Severity is the ordered severity tier of an interaction or warning.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsCritical reports whether the severity counts toward the critical tier.
func (s Severity) IsCritical() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// ParseSeverity parses a severity case-insensitively
func ParseSeverity(raw string) (Severity, error) {
	switch s := Severity(strings.ToUpper(strings.TrimSpace(raw))); s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return s, nil
	default:
		return "", fmt.Errorf("unknown severity %q", raw)
	}
}
