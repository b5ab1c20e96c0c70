// Package data provides thread-safe storage of the interaction catalog.
// The DataContainer holds an immutable snapshot behind atomic values so the
// scheduler can replace it without blocking readers.
package data

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
)

// Compile-time check to ensure DataContainer implements CatalogStore
var _ interfaces.CatalogStore = (*DataContainer)(nil)

// DataContainer holds the catalog with atomic pointers for zero-downtime updates
type DataContainer struct {
	snapshot    atomic.Pointer[entities.Snapshot]
	report      atomic.Pointer[interfaces.CatalogQualityReport]
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewDataContainer creates a new DataContainer with an empty catalog
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.snapshot.Store(emptySnapshot())
	dc.report.Store(&interfaces.CatalogQualityReport{})
	dc.lastUpdated.Store(time.Time{})
	return dc
}

func emptySnapshot() *entities.Snapshot {
	return &entities.Snapshot{
		Products:     []entities.Product{},
		ProductsByID: map[string]entities.Product{},
		Interactions: map[string][]entities.Interaction{},
		LowerNames:   []string{},
	}
}

// GetSnapshot returns the current catalog snapshot
func (dc *DataContainer) GetSnapshot() *entities.Snapshot {
	if s := dc.snapshot.Load(); s != nil {
		return s
	}
	logging.Warn("Catalog snapshot is empty or invalid")
	return emptySnapshot()
}

// GetQualityReport returns the data-quality report of the current snapshot
func (dc *DataContainer) GetQualityReport() *interfaces.CatalogQualityReport {
	if r := dc.report.Load(); r != nil {
		return r
	}
	return &interfaces.CatalogQualityReport{}
}

// GetLastUpdated returns the timestamp of the last catalog update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog refresh is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// UpdateData atomically replaces the catalog
func (dc *DataContainer) UpdateData(snapshot *entities.Snapshot, report *interfaces.CatalogQualityReport) {
	if snapshot == nil {
		snapshot = emptySnapshot()
	}
	if report == nil {
		report = &interfaces.CatalogQualityReport{}
	}
	dc.snapshot.Store(snapshot)
	dc.report.Store(report)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a refresh.
// Returns true if the refresh can proceed, false if another one is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a refresh
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}

// FindProductsByName returns products whose name contains name, case-insensitively,
// in catalog order
func (dc *DataContainer) FindProductsByName(_ context.Context, name string) ([]entities.Product, error) {
	snap := dc.GetSnapshot()
	needle := strings.ToLower(name)

	var results []entities.Product
	for i, lower := range snap.LowerNames {
		if strings.Contains(lower, needle) {
			results = append(results, snap.Products[i])
		}
	}
	return results, nil
}

// GetProduct returns a product by id
func (dc *DataContainer) GetProduct(_ context.Context, id string) (entities.Product, bool, error) {
	p, ok := dc.GetSnapshot().ProductsByID[id]
	return p, ok, nil
}

// ListInteractionsForProduct returns the interactions recorded on productID
func (dc *DataContainer) ListInteractionsForProduct(_ context.Context, productID string) ([]entities.Interaction, error) {
	return dc.GetSnapshot().Interactions[productID], nil
}
