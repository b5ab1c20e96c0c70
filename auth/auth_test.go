package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	testSecret = "test-secret-0123456789"
	testIssuer = "safety-api"
)

func TestIssueAndVerify(t *testing.T) {
	token, err := NewIssuer(testSecret, testIssuer, time.Hour).Issue("user-42", "member")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	id, err := NewVerifier(testSecret, testIssuer).Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != "user-42" || id.Role != "member" {
		t.Errorf("Unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	valid := NewIssuer(testSecret, testIssuer, time.Hour)

	expiredIssuer := NewIssuer(testSecret, testIssuer, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.Issue("user-1", "")

	wrongSecret, _ := NewIssuer("another-secret-987654321", testIssuer, time.Hour).Issue("user-1", "")
	wrongIssuer, _ := NewIssuer(testSecret, "someone-else", time.Hour).Issue("user-1", "")
	noUser, _ := valid.Issue("", "")

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: testIssuer},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", expired, ErrTokenExpired},
		{"wrong secret", wrongSecret, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"missing user", noUser, ErrInvalidToken},
		{"missing expiry", noExpiry, ErrInvalidToken},
	}

	verifier := NewVerifier(testSecret, testIssuer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	verifier := NewVerifier(testSecret, testIssuer)
	token, _ := NewIssuer(testSecret, testIssuer, time.Hour).Issue("user-7", "member")

	var seen *Identity
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
		{"lower case scheme", "bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/v1/safety-check", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				if !strings.Contains(rr.Body.String(), `"error":"Unauthorized"`) {
					t.Errorf("Unexpected body: %s", rr.Body.String())
				}
				return
			}
			if seen == nil || seen.UserID != "user-7" {
				t.Errorf("Expected identity in context, got %+v", seen)
			}
		})
	}
}
