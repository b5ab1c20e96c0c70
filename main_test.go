package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giygas/safety-api/auth"
	"github.com/giygas/safety-api/config"
	"github.com/giygas/safety-api/data"
	"github.com/giygas/safety-api/handlers"
	"github.com/giygas/safety-api/health"
	"github.com/giygas/safety-api/safety"
	"github.com/giygas/safety-api/scheduler"
	"github.com/giygas/safety-api/server"
	"github.com/giygas/safety-api/validation"
)

const integrationSecret = "integration-secret-0123456789"

// newIntegrationServer wires the bundled catalog through the same stack main uses
func newIntegrationServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Port:                   "8000",
		Address:                "127.0.0.1",
		Env:                    config.EnvTest,
		MaxRequestBody:         1 << 20,
		JWTSecret:              integrationSecret,
		JWTIssuer:              "safety-api",
		CatalogSource:          config.CatalogSourceFile,
		CatalogPath:            filepath.Join("data", "catalog.yaml"),
		CatalogRefreshInterval: time.Hour,
	}

	source, err := newCatalogSource(cfg)
	if err != nil {
		t.Fatalf("newCatalogSource: %v", err)
	}

	store := data.NewDataContainer()
	sched := scheduler.NewScheduler(store, source, validation.NewCatalogValidator(), cfg.CatalogRefreshInterval)
	if err := sched.Start(); err != nil {
		t.Fatalf("scheduler start: %v", err)
	}
	t.Cleanup(sched.Stop)

	handler := handlers.NewHTTPHandler(
		safety.NewEngine(store),
		store,
		validation.NewRequestValidator(),
		health.NewHealthChecker(store, sched, cfg.CatalogRefreshInterval),
	)
	srv := server.NewServer(cfg, handler, auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer))
	return srv.Router()
}

func TestIntegration_SafetyCheck(t *testing.T) {
	router := newIntegrationServer(t)

	token, err := auth.NewIssuer(integrationSecret, "safety-api", time.Hour).Issue("user-42", "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	body := `{"supplements":["Vitamin K","Iron","Calcium"],"medications":["Warfarin"],"allergies":[]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/safety-check", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var report safety.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.SafetyStatus != safety.StatusDangerous {
		t.Errorf("status = %s, want DANGEROUS", report.SafetyStatus)
	}
	// Vitamin K/Warfarin CRITICAL, Iron->Calcium and Calcium->Iron MODERATE
	if report.SafetyScore != 40 {
		t.Errorf("score = %d, want 40", report.SafetyScore)
	}
	if len(report.Interactions.SupplementToSupplement) != 2 {
		t.Errorf("supplementToSupplement = %d, want 2", len(report.Interactions.SupplementToSupplement))
	}
}

func TestIntegration_HealthAndAuth(t *testing.T) {
	router := newIntegrationServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health status = %d, body %s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("health = %v", body["status"])
	}
	if _, ok := body["next_update"]; !ok {
		t.Error("expected next_update once the scheduler runs")
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/products?name=iron", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated search status = %d, want 401", rr.Code)
	}
}
