package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/internal/util"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

func TestAuthMiddleware(t *testing.T) {
	var gotUser string
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			gotRole = claims.UserMetadata.Role
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthMiddleware("secret", zerolog.Nop())(next)

	token, err := util.SignHS256(&util.Claims{
		UserMetadata: util.UserMetadata{Role: "student"},
		StandardClaims: jwt.StandardClaims{
			Subject:   "student-1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}, "secret")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	testCases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.name, tc.status, rec.Code)
		}
	}

	if gotUser != "student-1" {
		t.Errorf("expected user student-1 in context, got %q", gotUser)
	}
	if gotRole != "student" {
		t.Errorf("expected role student in context, got %q", gotRole)
	}
}
