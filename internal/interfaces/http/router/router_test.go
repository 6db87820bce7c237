package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubRegistrar mounts a fixed set of routes the way the fulfillment and
// tax handlers do
type stubRegistrar struct {
	prefix string
	routes []string
}

func (s stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(s.prefix)
	for _, route := range s.routes {
		group.POST(route, func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
	}
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mounts registrars under the default version", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).
			Register(stubRegistrar{prefix: "/fulfillment", routes: []string{"/items/:id/ship"}}).
			Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/fulfillment/items/42/ship", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("honors a custom API version", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine, WithAPIVersion("v2")).
			Register(stubRegistrar{prefix: "/tax", routes: []string{"/orders/:id/evaluate"}}).
			Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v2/tax/orders/42/evaluate", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest("POST", "/api/v1/tax/orders/42/evaluate", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("registers multiple domains side by side", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).
			Register(stubRegistrar{prefix: "/fulfillment", routes: []string{"/items/:id/cancel"}}).
			Register(stubRegistrar{prefix: "/tax", routes: []string{"/orders/:id/evaluate"}}).
			Setup()

		for _, path := range []string{
			"/api/v1/fulfillment/items/42/cancel",
			"/api/v1/tax/orders/42/evaluate",
		} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", path, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("routes outside the API prefix are not mounted", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).
			Register(stubRegistrar{prefix: "/fulfillment", routes: []string{"/items/:id/refund"}}).
			Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/fulfillment/items/42/refund", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
