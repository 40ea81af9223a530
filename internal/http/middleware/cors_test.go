package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORSMiddleware(next)

	t.Run("default origin", func(t *testing.T) {
		originalOrigin := os.Getenv("CORS_ALLOW_ORIGIN")
		defer func() { _ = os.Setenv("CORS_ALLOW_ORIGIN", originalOrigin) }()
		_ = os.Unsetenv("CORS_ALLOW_ORIGIN")

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("configured origin", func(t *testing.T) {
		originalOrigin := os.Getenv("CORS_ALLOW_ORIGIN")
		defer func() { _ = os.Setenv("CORS_ALLOW_ORIGIN", originalOrigin) }()
		_ = os.Setenv("CORS_ALLOW_ORIGIN", "https://editor.example.com")

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://editor.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		inner := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodOptions, "/api/templates.create", nil)
		w := httptest.NewRecorder()
		inner.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, called)
	})
}
