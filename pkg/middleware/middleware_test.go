package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rideshare-booking/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func signWithoutExpiry(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: userID, Role: role}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			t.Errorf("user ID missing from context")
		}
		role, _ := utils.GetRoleFromContext(r.Context())
		w.Header().Set("X-User", id.String())
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), userID.String(), "driver", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), "driver", -time.Minute), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signWithoutExpiry(t, userID.String(), "driver"), http.StatusUnauthorized},
		{"hs512", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), userID.String(), "driver", time.Hour), http.StatusUnauthorized},
		{"bad user id", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "nope", "driver", time.Hour), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), "driver", time.Hour), http.StatusNoContent},
	}

	h := Auth(testSecret, zap.NewNop())(echoActor(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusNoContent {
				if rec.Header().Get("X-User") != userID.String() || rec.Header().Get("X-Role") != "driver" {
					t.Fatalf("actor not propagated: %v", rec.Header())
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	userID := uuid.New()
	h := RequireRole(utils.RoleDriver, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		ctx  func(r *http.Request) *http.Request
		want int
	}{
		{"anonymous", func(r *http.Request) *http.Request { return r }, http.StatusUnauthorized},
		{"passenger", func(r *http.Request) *http.Request {
			return r.WithContext(utils.SetUserContext(r.Context(), userID, utils.RolePassenger))
		}, http.StatusForbidden},
		{"driver", func(r *http.Request) *http.Request {
			return r.WithContext(utils.SetUserContext(r.Context(), userID, utils.RoleDriver))
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.ctx(httptest.NewRequest(http.MethodGet, "/api/driver/bookings", nil))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}
