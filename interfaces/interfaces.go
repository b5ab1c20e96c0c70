// Package interfaces defines core abstractions for the safety API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/safety-api/catalog/entities"
)

// CatalogQualityReport summarises catalog authoring issues found on refresh
type CatalogQualityReport struct {
	Products     int
	Interactions int

	// Pairs of product ids where one name is a substring of the other.
	// First-match resolution makes the shorter name shadow the longer one.
	OverlappingNames [][2]string

	// Interactions whose conflicting product id is not in the catalog
	DanglingReferences []string

	// Interactions pointing back at their own product
	SelfReferences []string

	// Product pairs recorded in one direction only (A -> B without B -> A)
	OneDirectionalPairs [][2]string
}

// CatalogReader is the read-only product/interaction query interface
// consumed by the safety engine.
type CatalogReader interface {
	// FindProductsByName returns products whose name contains name,
	// case-insensitively, in catalog order
	FindProductsByName(ctx context.Context, name string) ([]entities.Product, error)

	// GetProduct returns the product with the given id
	GetProduct(ctx context.Context, id string) (entities.Product, bool, error)

	// ListInteractionsForProduct returns the interactions whose source is productID,
	// in catalog order
	ListInteractionsForProduct(ctx context.Context, productID string) ([]entities.Interaction, error)
}

// CatalogStore holds the current catalog snapshot with atomic replacement.
type CatalogStore interface {
	CatalogReader

	GetSnapshot() *entities.Snapshot
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetQualityReport() *CatalogQualityReport

	// Data update methods
	UpdateData(snapshot *entities.Snapshot, report *CatalogQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogSource loads a complete catalog snapshot from its backing store.
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) (*entities.Snapshot, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
	NextRefresh() time.Time
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status label, response data, and HTTP status code
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// CatalogValidator inspects a snapshot for authoring problems.
type CatalogValidator interface {
	Report(snapshot *entities.Snapshot) *CatalogQualityReport
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	CheckSafety(w http.ResponseWriter, r *http.Request)
	SearchProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
