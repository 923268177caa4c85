package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/items", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/items", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSDefaultRejectsCrossOrigin(t *testing.T) {
	router := newCORSRouter(DefaultCORSConfig())

	t.Run("no CORS headers for unlisted origin", func(t *testing.T) {
		w := doRequest(router, "GET", "http://evil.example")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("same-origin requests pass through", func(t *testing.T) {
		w := doRequest(router, "GET", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight still gets 204", func(t *testing.T) {
		w := doRequest(router, "OPTIONS", "http://evil.example")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSAllowedOrigins(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://app.growops.example"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-Tenant-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}
	router := newCORSRouter(cfg)

	t.Run("echoes listed origin", func(t *testing.T) {
		for _, origin := range cfg.AllowOrigins {
			w := doRequest(router, "GET", origin)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Tenant-ID")
			assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		}
	})

	t.Run("ignores unlisted origin", func(t *testing.T) {
		w := doRequest(router, "GET", "http://other.example")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight for listed origin carries headers", func(t *testing.T) {
		w := doRequest(router, "OPTIONS", "http://localhost:3000")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestCORSWildcard(t *testing.T) {
	router := newCORSRouter(CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	})

	w := doRequest(router, "GET", "http://anywhere.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	// credentials are never combined with the wildcard origin
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/items", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates an ID when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/items", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String(), "context and response header should agree")
	})

	t.Run("keeps the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/items", nil)
		req.Header.Set("X-Request-ID", "caller-chosen-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "caller-chosen-id", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "caller-chosen-id", w.Body.String())
	})

	t.Run("distinct requests get distinct IDs", func(t *testing.T) {
		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest("GET", "/items", nil))
		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest("GET", "/items", nil))

		assert.NotEqual(t, first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
	})
}

func TestSecureHeaders(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/items", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/items", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
	// HSTS is off by default
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithHSTS(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSPreload = true

	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/items", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/items", nil))

	hsts := w.Header().Get("Strict-Transport-Security")
	assert.Contains(t, hsts, "max-age=31536000")
	assert.Contains(t, hsts, "includeSubDomains")
	assert.Contains(t, hsts, "preload")
}
