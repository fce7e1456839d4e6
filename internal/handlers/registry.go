package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crossfund/internal/chain"
)

// RegistryHandler serves read-only chain/token registry lookups.
type RegistryHandler struct {
	registry *chain.Registry
}

func NewRegistryHandler(registry *chain.Registry) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// ListChains handles GET /api/chains — every supported chain's static info.
func (h *RegistryHandler) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.registry.All()})
}

// GetChain handles GET /api/chains/:chainId.
func (h *RegistryHandler) GetChain(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Param("chainId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chainId"})
		return
	}
	info, rerr := h.registry.Get(chainID)
	if rerr != nil {
		writeError(c, rerr)
		return
	}
	c.JSON(http.StatusOK, info)
}
