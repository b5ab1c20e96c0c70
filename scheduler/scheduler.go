// Package scheduler keeps the in-memory catalog fresh. It loads the catalog
// from its source at startup, refreshes it on a fixed interval with gocron,
// and warns when refreshes stop succeeding.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
	"github.com/giygas/safety-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog refreshes using dependency injection
type Scheduler struct {
	store     interfaces.CatalogStore
	source    interfaces.CatalogSource
	validator interfaces.CatalogValidator
	interval  time.Duration
	timeout   time.Duration
	scheduler *gocron.Scheduler

	mu        sync.Mutex
	job       *gocron.Job
	stopWatch chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.CatalogStore, source interfaces.CatalogSource, validator interfaces.CatalogValidator, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		source:    source,
		validator: validator,
		interval:  interval,
		timeout:   5 * time.Minute,
		scheduler: gocron.NewScheduler(time.Local),
		stopWatch: make(chan struct{}),
	}
}

// Start performs the initial load, then schedules periodic refreshes
func (s *Scheduler) Start() error {
	if err := s.Refresh(context.Background()); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	job, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if err := s.Refresh(context.Background()); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog refresh", "error", err)
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	s.mu.Lock()
	s.job = job
	s.mu.Unlock()

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler and the health monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopWatch:
	default:
		close(s.stopWatch)
	}
}

// NextRefresh returns the next scheduled refresh time, or the zero time
// before Start
func (s *Scheduler) NextRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

// Refresh loads a new snapshot and swaps it in. A failed load keeps the
// current snapshot; a refresh already in progress makes this a no-op.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.store.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping...")
		metrics.CatalogRefreshTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()
	logging.Info("Starting catalog refresh", "source", s.source.Name())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snapshot, err := s.source.Load(ctx)
	if err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load catalog from %s: %w", s.source.Name(), err)
	}

	report := s.validator.Report(snapshot)
	logQualityReport(report)

	s.store.UpdateData(snapshot, report)

	elapsed := time.Since(start)
	metrics.CatalogRefreshTotal.WithLabelValues("success").Inc()
	metrics.CatalogRefreshDuration.Observe(elapsed.Seconds())
	metrics.CatalogProducts.Set(float64(len(snapshot.Products)))
	metrics.CatalogInteractions.Set(float64(report.Interactions))

	logging.Info("Catalog refresh completed",
		"duration", elapsed.String(),
		"product_count", len(snapshot.Products),
		"interaction_count", report.Interactions,
	)
	return nil
}

func logQualityReport(report *interfaces.CatalogQualityReport) {
	if len(report.OverlappingNames) > 0 {
		logging.Warn("Overlapping product names, first match wins on lookup",
			"count", len(report.OverlappingNames),
			"pairs", report.OverlappingNames,
		)
	}
	if len(report.DanglingReferences) > 0 {
		logging.Warn("Interactions reference unknown products",
			"count", len(report.DanglingReferences),
			"references", report.DanglingReferences,
		)
	}
	if len(report.SelfReferences) > 0 {
		logging.Warn("Interactions reference their own product",
			"count", len(report.SelfReferences),
			"products", report.SelfReferences,
		)
	}
	if len(report.OneDirectionalPairs) > 0 {
		logging.Info("Product interactions recorded in one direction only",
			"count", len(report.OneDirectionalPairs),
			"pairs", report.OneDirectionalPairs,
		)
	}
}

// startHealthMonitoring warns when the catalog misses three refreshes in a row
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopWatch:
				return
			case <-ticker.C:
				if time.Since(s.store.GetLastUpdated()) > 3*s.interval {
					logging.Warn("Catalog hasn't been refreshed in over three intervals",
						"last_update", s.store.GetLastUpdated().Format(time.RFC3339))
				}
			}
		}
	}()
}
