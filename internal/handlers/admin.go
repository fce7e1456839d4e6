package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crossfund/internal/admin"
	"crossfund/internal/cache"
	"crossfund/internal/store"
)

// AdminHandler serves the JWT+TOTP gated operator endpoints: login,
// cache invalidation, and execution audit queries. Grounded on the
// teacher's handlers/admin_auth_handler.go login flow plus
// admin_pool_handler.go/admin_metrics_handler.go's pattern of thin
// read/mutate endpoints behind RequireAdminAuth.
type AdminHandler struct {
	auth  *admin.Auth
	store *store.Store
}

func NewAdminHandler(auth *admin.Auth, st *store.Store) *AdminHandler {
	return &AdminHandler{auth: auth, store: st}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request", "details": err.Error()})
		return
	}

	token, err := h.auth.Login(req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// ForceExpireCache handles POST /api/admin/cache/expire?quoteId=... —
// drops one cached quote so the next request is forced to re-query
// aggregators. TTLMap exposes no key enumeration, so a scoped quoteId
// is required; there is no bulk-clear.
func (h *AdminHandler) ForceExpireCache(c *gin.Context) {
	quoteID := c.Query("quoteId")
	if quoteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quoteId query param required"})
		return
	}
	before := cache.Quotes.Len()
	cache.Quotes.Delete(quoteID)
	c.JSON(http.StatusOK, gin.H{"success": true, "cacheSizeBefore": before, "cacheSizeAfter": cache.Quotes.Len()})
}

// GetExecution handles GET /api/admin/executions/:quoteId.
func (h *AdminHandler) GetExecution(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("quoteId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListRecentExecutions handles GET /api/admin/executions.
func (h *AdminHandler) ListRecentExecutions(c *gin.Context) {
	recs, err := h.store.ListRecent(c.Request.Context(), 50)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": recs})
}
