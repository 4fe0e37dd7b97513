package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/infrastructure/cache"
)

func newIdempotentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(Idempotency(store, zap.NewNop()))
	router.POST("/jobcards", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	})
	router.POST("/payments", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	})
	router.GET("/jobcards", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestIdempotency(t *testing.T) {
	t.Run("rejects a replayed key on the same route", func(t *testing.T) {
		router := newIdempotentRouter(t)

		for i, want := range []int{http.StatusCreated, http.StatusConflict} {
			req := httptest.NewRequest(http.MethodPost, "/jobcards", strings.NewReader("{}"))
			req.Header.Set(IdempotencyKeyHeader, "key-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, want, rec.Code, "request %d", i+1)
		}
	})

	t.Run("same key on a different route is independent", func(t *testing.T) {
		router := newIdempotentRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/jobcards", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "key-2")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "key-2")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("passes requests without a key", func(t *testing.T) {
		router := newIdempotentRouter(t)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/jobcards", strings.NewReader("{}"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusCreated, rec.Code)
		}
	})

	t.Run("ignores reads", func(t *testing.T) {
		router := newIdempotentRouter(t)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/jobcards", nil)
			req.Header.Set(IdempotencyKeyHeader, "key-3")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}
