package router

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

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func TestRouter_Setup(t *testing.T) {
	t.Run("mounts registrars under the version prefix", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine, WithAPIVersion("v1")).
			Register(pingRegistrar{}).
			Setup()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("applies group middleware before handlers", func(t *testing.T) {
		engine := gin.New()
		var seen bool
		NewRouter(engine).
			Use(func(c *gin.Context) {
				seen = true
				c.Next()
			}).
			Register(pingRegistrar{}).
			Setup()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, seen)
	})

	t.Run("group middleware does not leak outside the prefix", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		var seen bool
		NewRouter(engine).
			Use(func(c *gin.Context) {
				seen = true
				c.Next()
			}).
			Register(pingRegistrar{}).
			Setup()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, seen)
	})
}
