package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(perSec float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", RateLimit(perSec, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func fireFrom(router *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	router := rateLimitedRouter(1, 2)

	assert.Equal(t, http.StatusOK, fireFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, fireFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fireFrom(router, "10.0.0.1"))
}

func TestRateLimit_ClientsAreIndependent(t *testing.T) {
	router := rateLimitedRouter(1, 1)

	assert.Equal(t, http.StatusOK, fireFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fireFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, fireFrom(router, "10.0.0.2"))
}

func TestClientLimiters_SweepDropsIdleEntries(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	limiters.get("10.0.0.1")
	limiters.get("10.0.0.2")

	limiters.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	limiters.sweep(10 * time.Minute)

	assert.NotContains(t, limiters.clients, "10.0.0.1")
	assert.Contains(t, limiters.clients, "10.0.0.2")
}

func TestClientLimiters_GetRefreshesLastSeen(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	limiters.get("10.0.0.1")
	limiters.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	limiters.get("10.0.0.1")
	limiters.sweep(10 * time.Minute)

	assert.Contains(t, limiters.clients, "10.0.0.1")
}
