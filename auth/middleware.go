package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/giygas/safety-api/logging"
)

// Middleware rejects requests without a valid bearer token with 401 and
// stores the caller identity in the request context
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := v.Verify(bearerToken(r))
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				logging.Warn("Rejected bearer token", "error", err, "remote_addr", r.RemoteAddr)
			}
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="safety-api"`)
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"}); err != nil {
		logging.Error("Failed to encode JSON response", "error", err)
	}
}
