package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/internal/config"
	"learnhub/internal/logger"
)

func TestPrepareDSN(t *testing.T) {
	testCases := []struct {
		name        string
		dsn         string
		development bool
		want        string
	}{
		{"dev url", "postgres://u:p@localhost:5432/db", true, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"dev url with query", "postgres://u:p@localhost:5432/db?x=1", true, "postgres://u:p@localhost:5432/db?x=1&sslmode=disable"},
		{"dev keyword", "host=localhost dbname=db", true, "host=localhost dbname=db sslmode=disable"},
		{"dev keeps sslmode", "postgres://h/db?sslmode=require", true, "postgres://h/db?sslmode=require"},
		{"prod url", "postgresql://u:p@h:6543/db", false, "postgresql://u:p@h:6543/db?prefer_simple_protocol=true"},
		{"prod already set", "postgres://h/db?prefer_simple_protocol=true", false, "postgres://h/db?prefer_simple_protocol=true"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := prepareDSN(tc.dsn, tc.development); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGetPortFromDSN(t *testing.T) {
	if got := getPortFromDSN("postgres://u:p@localhost:5433/db"); got != "5433" {
		t.Errorf("expected 5433, got %q", got)
	}
	if got := getPortFromDSN("host=localhost"); got != "not_found" {
		t.Errorf("expected not_found, got %q", got)
	}
}

func localConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment:      "development",
		StorageBackend:   config.StorageBackendLocal,
		LocalStoreDriver: config.LocalStoreDriverFile,
		LocalStoreDir:    t.TempDir(),
		JWTSecret:        "secret",
		S3Bucket:         "course-images",
	}
}

func TestNewWithLocalStorage(t *testing.T) {
	h, cleanup, err := New(context.Background(), localConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["storage"] != config.StorageBackendLocal {
		t.Errorf("unexpected health body: %v", body)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/courses", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("courses without token: expected 401, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	if rr.Code != http.StatusPermanentRedirect || rr.Header().Get("Location") != "/v1/courses" {
		t.Errorf("expected redirect to /v1/courses, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/ai/outline?lang=en&draft=1", strings.NewReader(`{}`)))
	if rr.Code != http.StatusPermanentRedirect || rr.Header().Get("Location") != "/v1/ai/outline?lang=en&draft=1" {
		t.Errorf("expected query-preserving 308, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := localConfig(t)
	cfg.StorageBackend = "sqlite"
	if _, _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}

	cfg = localConfig(t)
	cfg.LocalStoreDriver = "memcached"
	if _, _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error for unknown local store driver")
	}
}

func TestNewRequiresDSNForPostgres(t *testing.T) {
	cfg := localConfig(t)
	cfg.StorageBackend = config.StorageBackendPostgres
	if _, _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error without DB_CONNECTION_STRING")
	}
}
