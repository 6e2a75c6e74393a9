package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "carpool/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	respondOK(c, http.StatusOK, "carpool backend running", nil)
}

func DBCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := intconfig.EnsureDB(ctx); err != nil {
		_ = c.Error(err)
		respondFail(c, http.StatusServiceUnavailable, "database not connected")
		return
	}
	var count int
	if err := intconfig.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&count); err != nil {
		_ = c.Error(err)
		respondFail(c, http.StatusInternalServerError, "database query failed")
		return
	}
	respondOK(c, http.StatusOK, "database OK", gin.H{"trips_in_db": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondFail(c, http.StatusServiceUnavailable, "router not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"routes": out})
}
