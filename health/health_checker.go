// Package health provides health checking functionality for the safety API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/safety-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store           interfaces.CatalogStore
	scheduler       interfaces.Scheduler
	refreshInterval time.Duration
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.CatalogStore, scheduler interfaces.Scheduler, refreshInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:           store,
		scheduler:       scheduler,
		refreshInterval: refreshInterval,
	}
}

// HealthCheck reports unhealthy when the catalog is empty or very stale,
// degraded when one refresh window has been missed
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	snapshot := h.store.GetSnapshot()
	lastUpdate := h.store.GetLastUpdated()
	report := h.store.GetQualityReport()
	dataAge := time.Since(lastUpdate)

	switch {
	case len(snapshot.Products) == 0 || lastUpdate.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 3*h.refreshInterval:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 2*h.refreshInterval:
		status = "degraded"
		httpStatus = http.StatusOK
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"products":       len(snapshot.Products),
		"interactions":   snapshot.InteractionCount(),
		"is_updating":    h.store.IsUpdating(),
		"quality": map[string]int{
			"overlapping_names":     len(report.OverlappingNames),
			"dangling_references":   len(report.DanglingReferences),
			"self_references":       len(report.SelfReferences),
			"one_directional_pairs": len(report.OneDirectionalPairs),
		},
	}

	if h.scheduler != nil {
		if next := h.scheduler.NextRefresh(); !next.IsZero() {
			data["next_update"] = next.Format(time.RFC3339)
		}
	}

	return status, data, httpStatus
}
