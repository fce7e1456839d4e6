package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crossfund/internal/config"
	"crossfund/internal/errs"
	"crossfund/internal/events"
	"crossfund/internal/facade"
	"crossfund/internal/metrics"
	"crossfund/internal/signer"
	"crossfund/internal/store"
	"crossfund/internal/ws"
)

// ExecuteHandler serves POST /api/execute, driving a swap end to end
// through the KMS signer and recording the outcome.
type ExecuteHandler struct {
	cf        *facade.CrossFund
	store     *store.Store
	publisher *events.Publisher
	hub       *ws.Hub
	logger    *logrus.Logger
}

func NewExecuteHandler(cf *facade.CrossFund, st *store.Store, pub *events.Publisher, hub *ws.Hub, logger *logrus.Logger) *ExecuteHandler {
	return &ExecuteHandler{cf: cf, store: st, publisher: pub, hub: hub, logger: logger}
}

type executeRequestBody struct {
	quoteRequestBody
	Spender string `json:"spender" binding:"required"`
}

// Execute handles POST /api/execute. The signer is always the process's
// configured KMS signer: CrossFund is a custodial backend service, the
// caller never supplies their own signing key over HTTP.
func (h *ExecuteHandler) Execute(c *gin.Context) {
	var body executeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if config.AppConfig == nil || config.AppConfig.KMS.BaseURL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "signer not configured"})
		return
	}
	kms := signer.NewKMSSigner(
		h.cf.Providers,
		config.AppConfig.KMS.BaseURL,
		config.AppConfig.KMS.AuthToken,
		config.AppConfig.KMS.KeyAlias,
		config.AppConfig.KMS.Address,
	)

	req := body.toDomain()
	result := h.cf.ExecuteSwap(c.Request.Context(), req, kms, body.Spender)

	status := "failed"
	if result.Success {
		status = "completed"
	}
	metrics.ExecutionsTotal.WithLabelValues(status).Inc()

	if h.store != nil {
		if serr := h.store.RecordExecution(c.Request.Context(), req, "", result); serr != nil {
			h.logger.WithFields(logrus.Fields{"error": serr.Error()}).Warn("failed to persist execution record")
		}
	}
	if h.publisher != nil && result.Execution != nil {
		if err := h.publisher.PublishExecution(result.Execution); err != nil {
			metrics.NATSPublishTotal.WithLabelValues("error").Inc()
			h.logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("failed to publish execution event")
		} else {
			metrics.NATSPublishTotal.WithLabelValues("ok").Inc()
		}
	}
	if h.hub != nil && result.Execution != nil {
		h.hub.Broadcast(result.Execution)
	}

	if !result.Success {
		if classified, ok := errs.As(result.Error); ok {
			writeError(c, classified)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ServeExecutionStatus handles GET /ws/executions/:id, streaming
// SwapExecution updates for one quote id until the client disconnects.
func (h *ExecuteHandler) ServeExecutionStatus(c *gin.Context) {
	quoteID := c.Param("id")
	if err := h.hub.ServeExecution(c.Writer, c.Request, quoteID); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err.Error(), "quoteId": quoteID}).Warn("websocket upgrade failed")
	}
}
