package data

import (
	"context"
	"sync"
	"testing"

	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
)

func testSnapshot() *entities.Snapshot {
	products := []entities.Product{
		{ID: "iron", Name: "Iron"},
		{ID: "iron-plus", Name: "Iron Plus"},
		{ID: "ca", Name: "Calcium"},
	}
	snap := &entities.Snapshot{
		Products:     products,
		ProductsByID: map[string]entities.Product{},
		Interactions: map[string][]entities.Interaction{
			"iron": {{ProductID: "iron", ConflictingProductID: "ca", Severity: entities.SeverityModerate}},
		},
		LowerNames: []string{"iron", "iron plus", "calcium"},
	}
	for _, p := range products {
		snap.ProductsByID[p.ID] = p
	}
	return snap
}

func TestNewDataContainer_Empty(t *testing.T) {
	dc := NewDataContainer()

	if got := len(dc.GetSnapshot().Products); got != 0 {
		t.Errorf("products = %d, want 0", got)
	}
	if !dc.GetLastUpdated().IsZero() {
		t.Error("last updated should be zero before the first load")
	}
	if dc.GetQualityReport() == nil {
		t.Error("quality report should never be nil")
	}
	products, err := dc.FindProductsByName(context.Background(), "iron")
	if err != nil || len(products) != 0 {
		t.Errorf("FindProductsByName on empty catalog = %v, %v", products, err)
	}
}

func TestFindProductsByName(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(testSnapshot(), nil)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"iron", []string{"iron", "iron-plus"}},
		{"IRON P", []string{"iron-plus"}},
		{"cal", []string{"ca"}},
		{"zinc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			products, err := dc.FindProductsByName(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindProductsByName: %v", err)
			}
			if len(products) != len(tt.want) {
				t.Fatalf("got %d products, want %d", len(products), len(tt.want))
			}
			for i, p := range products {
				if p.ID != tt.want[i] {
					t.Errorf("product %d = %s, want %s", i, p.ID, tt.want[i])
				}
			}
		})
	}
}

func TestGetProductAndInteractions(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(testSnapshot(), &interfaces.CatalogQualityReport{Products: 3})
	ctx := context.Background()

	p, ok, err := dc.GetProduct(ctx, "ca")
	if err != nil || !ok || p.Name != "Calcium" {
		t.Errorf("GetProduct = %+v, %v, %v", p, ok, err)
	}
	if _, ok, _ := dc.GetProduct(ctx, "nope"); ok {
		t.Error("unknown id should not be found")
	}

	ins, err := dc.ListInteractionsForProduct(ctx, "iron")
	if err != nil || len(ins) != 1 {
		t.Errorf("interactions = %+v, %v", ins, err)
	}
	if ins, _ := dc.ListInteractionsForProduct(ctx, "ca"); len(ins) != 0 {
		t.Errorf("reverse edge must not be synthesised: %+v", ins)
	}
	if dc.GetQualityReport().Products != 3 {
		t.Error("quality report not stored")
	}
}

func TestBeginEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("first BeginUpdate should succeed")
	}
	if dc.BeginUpdate() {
		t.Error("second BeginUpdate should fail while updating")
	}
	if !dc.IsUpdating() {
		t.Error("IsUpdating should be true")
	}
	dc.EndUpdate()
	if dc.IsUpdating() {
		t.Error("IsUpdating should be false after EndUpdate")
	}
}

func TestConcurrentReadsDuringSwap(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(testSnapshot(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := dc.FindProductsByName(ctx, "iron"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		dc.UpdateData(testSnapshot(), nil)
	}
	wg.Wait()
}
