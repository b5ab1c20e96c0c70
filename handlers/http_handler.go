// Package handlers provides HTTP request handlers for the safety API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/giygas/safety-api/auth"
	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
	"github.com/giygas/safety-api/safety"
	"github.com/giygas/safety-api/validation"
	"github.com/go-chi/chi/v5"
)

// SafetyChecker runs a safety check
type SafetyChecker interface {
	Check(ctx context.Context, req safety.Request) (*safety.Report, error)
}

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	checker   SafetyChecker
	catalog   interfaces.CatalogReader
	validator *validation.RequestValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(checker SafetyChecker, catalog interfaces.CatalogReader, validator *validation.RequestValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		checker:   checker,
		catalog:   catalog,
		validator: validator,
		health:    health,
	}
}

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// ProductDetail is a product with the interactions recorded on it
type ProductDetail struct {
	Product      entities.Product       `json:"product"`
	Interactions []entities.Interaction `json:"interactions"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes {"error": message}
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error("Request failed", "path", r.URL.Path, "error", err)
	RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func respondValidationError(w http.ResponseWriter, err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: verr.Details})
	return true
}

// CheckSafety evaluates the caller's supplements, medications and allergies
func (h *HTTPHandlerImpl) CheckSafety(w http.ResponseWriter, r *http.Request) {
	var req safety.Request
	if err := h.validator.DecodeAndValidate(r.Body, &req); err != nil {
		if respondValidationError(w, err) {
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body too large. Maximum allowed size is %d bytes", tooLarge.Limit))
			return
		}
		respondInternalError(w, r, err)
		return
	}

	if req.Medications == nil {
		req.Medications = []string{}
	}
	if req.Allergies == nil {
		req.Allergies = []string{}
	}

	report, err := h.checker.Check(r.Context(), req)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		logging.Debug("Safety check completed",
			"user_id", id.UserID,
			"status", report.SafetyStatus,
			"score", report.SafetyScore,
		)
	}

	RespondWithJSON(w, http.StatusOK, report)
}

// SearchProducts lists products whose name contains the name query parameter
func (h *HTTPHandlerImpl) SearchProducts(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	switch {
	case name == "":
		respondValidationError(w, &validation.Error{Details: []validation.FieldError{{Field: "name", Message: "must not be empty"}}})
		return
	case len(name) > 200:
		respondValidationError(w, &validation.Error{Details: []validation.FieldError{{Field: "name", Message: "must be at most 200 characters"}}})
		return
	}

	products, err := h.catalog.FindProductsByName(r.Context(), name)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if products == nil {
		products = []entities.Product{}
	}

	// Always return 200 with results array (empty if no matches)
	RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product with its recorded interactions
func (h *HTTPHandlerImpl) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	interactions, err := h.catalog.ListInteractionsForProduct(r.Context(), id)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if interactions == nil {
		interactions = []entities.Interaction{}
	}

	RespondWithJSON(w, http.StatusOK, ProductDetail{Product: product, Interactions: interactions})
}

// HealthCheck returns catalog health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.health.HealthCheck()
	data["status"] = status
	RespondWithJSON(w, httpStatus, data)
}
