package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterDefaults(t *testing.T) {
	r := NewRouter(gin.New())
	require.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterVersionOption(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := NewDomainGroup("inventory", "/inventory")
	g.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(t, engine, "GET", "/api/v2/inventory/items").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, engine, "GET", "/api/v1/inventory/items").Code)
}

func TestDomainGroupMethods(t *testing.T) {
	cases := []struct {
		method string
		build  func(g *DomainGroup, h gin.HandlerFunc)
	}{
		{http.MethodGet, func(g *DomainGroup, h gin.HandlerFunc) { g.GET("/items", h) }},
		{http.MethodPost, func(g *DomainGroup, h gin.HandlerFunc) { g.POST("/items", h) }},
		{http.MethodPut, func(g *DomainGroup, h gin.HandlerFunc) { g.PUT("/items", h) }},
		{http.MethodPatch, func(g *DomainGroup, h gin.HandlerFunc) { g.PATCH("/items", h) }},
		{http.MethodDelete, func(g *DomainGroup, h gin.HandlerFunc) { g.DELETE("/items", h) }},
	}

	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("inventory", "/inventory")
			tc.build(g, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
			g.RegisterRoutes(engine.Group("/api/v1"))

			assert.Equal(t, http.StatusOK, serve(t, engine, tc.method, "/api/v1/inventory/items").Code)
		})
	}
}

func TestDomainGroupAccessors(t *testing.T) {
	g := NewDomainGroup("cultivation", "/cultivation")
	assert.Equal(t, "cultivation", g.Name())
	assert.Equal(t, "/cultivation", g.Prefix())
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("inventory", "/inventory")
	g.Use(func(c *gin.Context) {
		c.Header("X-Checked", "yes")
		c.Next()
	})
	g.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(t, engine, "GET", "/api/v1/inventory/items")
	assert.Equal(t, "yes", w.Header().Get("X-Checked"))
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("inventory", "/inventory")

	items := g.Group("items", "/items")
	items.GET("", func(c *gin.Context) { c.String(http.StatusOK, "item list") })

	activities := g.Group("activities", "/activities")
	activities.GET("", func(c *gin.Context) { c.String(http.StatusOK, "activity list") })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(t, engine, "GET", "/api/v1/inventory/items")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "item list", w.Body.String())

	w = serve(t, engine, "GET", "/api/v1/inventory/activities")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "activity list", w.Body.String())
}

func TestRouterMountsMultipleDomains(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "items") })

	cultivation := NewDomainGroup("cultivation", "/cultivation")
	cultivation.GET("/batches", func(c *gin.Context) { c.String(http.StatusOK, "batches") })

	r.Register(inventory).Register(cultivation).Setup()

	w := serve(t, engine, "GET", "/api/v1/inventory/items")
	assert.Equal(t, "items", w.Body.String())

	w = serve(t, engine, "GET", "/api/v1/cultivation/batches")
	assert.Equal(t, "batches", w.Body.String())
}

func TestDomainGroupChaining(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("inventory", "/inventory")
	g.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/movements", func(c *gin.Context) { c.String(http.StatusOK, "b") }).
		POST("/stocktakes", func(c *gin.Context) { c.String(http.StatusOK, "c") })

	r.Register(g).Setup()

	for _, rt := range []struct{ method, path string }{
		{"GET", "/api/v1/inventory/items"},
		{"POST", "/api/v1/inventory/movements"},
		{"POST", "/api/v1/inventory/stocktakes"},
	} {
		assert.Equal(t, http.StatusOK, serve(t, engine, rt.method, rt.path).Code,
			"%s %s", rt.method, rt.path)
	}
}
