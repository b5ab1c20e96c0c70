package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/safety-api/catalog/entities"
)

const jsonCatalog = `{
  "products": [
    {"id": "iron", "name": "Iron", "ingredients": "ferrous sulfate",
     "interactions": [{"conflictingProductId": "calcium", "severity": "moderate",
                       "description": "absorption", "recommendation": "space doses"}]},
    {"id": "calcium", "name": "Calcium", "ingredients": "calcium carbonate"}
  ]
}`

const yamlCatalog = `
products:
  - id: k
    name: " Vitamin K "
    ingredients: phylloquinone
    interactions:
      - conflictingMedication: Warfarin
        severity: CRITICAL
        description: antagonises warfarin
`

func TestDecode_JSON(t *testing.T) {
	doc, err := Decode([]byte(jsonCatalog), ".json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Products) != 2 || doc.Products[0].Interactions[0].ConflictingProductID != "calcium" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestDecode_JSONRejectsUnknownFields(t *testing.T) {
	if _, err := Decode([]byte(`{"products":[],"extra":1}`), ""); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestDecode_YAMLRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"top level", "products: []\nextra: 1\n"},
		{"product field", "products:\n  - id: a\n    name: Iron\n    colour: red\n"},
		{"interaction field", "products:\n  - id: a\n    name: Iron\n    interactions:\n      - conflictingMedication: X\n        severity: LOW\n        sevrity: HIGH\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.doc), ".yaml"); err == nil {
				t.Error("expected unknown field to be rejected")
			}
		})
	}
}

func TestDecode_YAML(t *testing.T) {
	doc, err := Decode([]byte(yamlCatalog), ".yml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	snap, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap.Products[0].Name != "Vitamin K" {
		t.Errorf("name not trimmed: %q", snap.Products[0].Name)
	}
	if got := snap.Interactions["k"][0]; got.ConflictingMedication != "Warfarin" || got.Severity != entities.SeverityCritical {
		t.Errorf("interaction = %+v", got)
	}
}

func TestDecode_ISO88591(t *testing.T) {
	// "Échinacée" encoded as ISO-8859-1
	raw := []byte("{\"products\":[{\"id\":\"e\",\"name\":\"\xc9chinac\xe9e\"}]}")
	doc, err := Decode(raw, ".json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Products[0].Name != "Échinacée" {
		t.Errorf("name = %q, want Échinacée", doc.Products[0].Name)
	}
}

func TestBuild(t *testing.T) {
	doc, err := Decode([]byte(jsonCatalog), ".json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	snap, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(snap.Products) != 2 || snap.Products[0].ID != "iron" {
		t.Errorf("products out of order: %+v", snap.Products)
	}
	if snap.LowerNames[1] != "calcium" {
		t.Errorf("lower names = %v", snap.LowerNames)
	}
	if snap.Interactions["iron"][0].Severity != entities.SeverityModerate {
		t.Error("severity should parse case-insensitively")
	}
	if snap.InteractionCount() != 1 {
		t.Errorf("interaction count = %d, want 1", snap.InteractionCount())
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "empty id",
			doc:  Document{Products: []ProductDocument{{ID: " ", Name: "Iron"}}},
			want: "empty id",
		},
		{
			name: "empty name",
			doc:  Document{Products: []ProductDocument{{ID: "a"}}},
			want: "empty name",
		},
		{
			name: "duplicate id",
			doc:  Document{Products: []ProductDocument{{ID: "a", Name: "Iron"}, {ID: "a", Name: "Zinc"}}},
			want: "duplicate product id",
		},
		{
			name: "unknown severity",
			doc: Document{Products: []ProductDocument{{ID: "a", Name: "Iron",
				Interactions: []InteractionDocument{{ConflictingMedication: "X", Severity: "SEVERE"}}}}},
			want: "unknown severity",
		},
		{
			name: "no target",
			doc: Document{Products: []ProductDocument{{ID: "a", Name: "Iron",
				Interactions: []InteractionDocument{{Severity: "LOW"}}}}},
			want: "neither",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&tt.doc)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := Build(nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestFileSource_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(jsonCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	if src.Name() != "file:"+path {
		t.Errorf("Name() = %q", src.Name())
	}
	snap, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Products) != 2 {
		t.Errorf("products = %d, want 2", len(snap.Products))
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/catalog.yaml":
			_, _ = w.Write([]byte(yamlCatalog))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	snap, err := NewFileSource(srv.URL + "/catalog.yaml").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := snap.ProductsByID["k"]; !ok {
		t.Error("expected product k")
	}

	if _, err := NewFileSource(srv.URL + "/missing.yaml").Load(context.Background()); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFileSource_BundledCatalog(t *testing.T) {
	snap, err := NewFileSource(filepath.Join("..", "data", "catalog.yaml")).Load(context.Background())
	if err != nil {
		t.Fatalf("bundled catalog does not load: %v", err)
	}
	if len(snap.Products) == 0 {
		t.Error("bundled catalog is empty")
	}
}
