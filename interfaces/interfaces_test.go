package interfaces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/safety-api/catalog/entities"
)

// MockCatalogStore implements CatalogStore for testing
type MockCatalogStore struct {
	snapshot    *entities.Snapshot
	report      *CatalogQualityReport
	lastUpdated time.Time
	updating    bool
}

func (m *MockCatalogStore) FindProductsByName(_ context.Context, _ string) ([]entities.Product, error) {
	return m.snapshot.Products, nil
}

func (m *MockCatalogStore) GetProduct(_ context.Context, id string) (entities.Product, bool, error) {
	p, ok := m.snapshot.ProductsByID[id]
	return p, ok, nil
}

func (m *MockCatalogStore) ListInteractionsForProduct(_ context.Context, id string) ([]entities.Interaction, error) {
	return m.snapshot.Interactions[id], nil
}

func (m *MockCatalogStore) GetSnapshot() *entities.Snapshot        { return m.snapshot }
func (m *MockCatalogStore) GetLastUpdated() time.Time              { return m.lastUpdated }
func (m *MockCatalogStore) IsUpdating() bool                       { return m.updating }
func (m *MockCatalogStore) GetQualityReport() *CatalogQualityReport { return m.report }

func (m *MockCatalogStore) UpdateData(snapshot *entities.Snapshot, report *CatalogQualityReport) {
	m.snapshot = snapshot
	m.report = report
	m.lastUpdated = time.Now()
}

func (m *MockCatalogStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *MockCatalogStore) EndUpdate() { m.updating = false }

// MockScheduler implements Scheduler for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	m.started = true
	return nil
}

func (m *MockScheduler) Stop()                  { m.stopped = true }
func (m *MockScheduler) NextRefresh() time.Time { return time.Time{} }

// MockHTTPHandler implements HTTPHandler for testing
type MockHTTPHandler struct {
	responseCode int
}

func (m *MockHTTPHandler) CheckSafety(w http.ResponseWriter, _ *http.Request)    { w.WriteHeader(m.responseCode) }
func (m *MockHTTPHandler) SearchProducts(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(m.responseCode) }
func (m *MockHTTPHandler) GetProduct(w http.ResponseWriter, _ *http.Request)     { w.WriteHeader(m.responseCode) }
func (m *MockHTTPHandler) HealthCheck(w http.ResponseWriter, _ *http.Request)    { w.WriteHeader(m.responseCode) }

var (
	_ CatalogStore  = (*MockCatalogStore)(nil)
	_ CatalogReader = (*MockCatalogStore)(nil)
	_ Scheduler     = (*MockScheduler)(nil)
	_ HTTPHandler   = (*MockHTTPHandler)(nil)
)

func TestMockCatalogStore_UpdateCycle(t *testing.T) {
	store := &MockCatalogStore{}

	if !store.BeginUpdate() {
		t.Fatal("BeginUpdate should succeed")
	}
	if store.BeginUpdate() {
		t.Error("BeginUpdate should fail while an update is running")
	}

	snap := &entities.Snapshot{
		Products:     []entities.Product{{ID: "a", Name: "Iron"}},
		ProductsByID: map[string]entities.Product{"a": {ID: "a", Name: "Iron"}},
	}
	store.UpdateData(snap, &CatalogQualityReport{Products: 1})
	store.EndUpdate()

	var reader CatalogReader = store
	p, ok, err := reader.GetProduct(context.Background(), "a")
	if err != nil || !ok || p.Name != "Iron" {
		t.Errorf("GetProduct = %+v, %v, %v", p, ok, err)
	}
	if store.GetQualityReport().Products != 1 {
		t.Error("quality report not stored")
	}
}

func TestMockScheduler(t *testing.T) {
	var s Scheduler = &MockScheduler{}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	if !s.NextRefresh().IsZero() {
		t.Error("mock NextRefresh should be zero")
	}
}

func TestMockHTTPHandler(t *testing.T) {
	var h HTTPHandler = &MockHTTPHandler{responseCode: http.StatusTeapot}
	rr := httptest.NewRecorder()
	h.CheckSafety(rr, httptest.NewRequest(http.MethodPost, "/v1/safety-check", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d", rr.Code)
	}
}
