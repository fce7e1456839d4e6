// Package handlers implements CrossFund's gin HTTP surface: quote,
// prepare, execute, registry lookup, execution status, and admin
// endpoints. Grounded on the teacher's handlers/quote_handler.go shape —
// one handler struct per concern, ShouldBindJSON plus manual field
// validation, gin.H{"error":..., "details":...} error bodies.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crossfund/internal/errs"
	"crossfund/internal/facade"
	"crossfund/internal/types"
)

// tokenRequest is the wire shape for a Token in request bodies.
type tokenRequest struct {
	Address  string `json:"address" binding:"required"`
	ChainID  uint64 `json:"chainId" binding:"required"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

func (t tokenRequest) toToken() types.Token {
	return types.Token{
		Address:  t.Address,
		ChainID:  t.ChainID,
		Symbol:   t.Symbol,
		Decimals: t.Decimals,
	}
}

// quoteRequestBody is the wire shape of a getQuote/getQuotes/prepare/
// execute request body.
type quoteRequestBody struct {
	InputToken     tokenRequest `json:"inputToken" binding:"required"`
	OutputToken    tokenRequest `json:"outputToken" binding:"required"`
	Amount         string       `json:"amount" binding:"required"`
	AmountType     string       `json:"amountType"`
	SlippageBps    int          `json:"slippageBps"`
	DeadlineUnixMs int64        `json:"deadlineUnixMs"`
	UserAddress    string       `json:"userAddress" binding:"required"`
	Referrer       string       `json:"referrer"`
}

func (b quoteRequestBody) toDomain() types.QuoteRequest {
	amountType := types.AmountFromInput
	if types.AmountType(b.AmountType) == types.AmountFromOutput {
		amountType = types.AmountFromOutput
	}

	decimals := b.InputToken.Decimals
	if amountType == types.AmountFromOutput {
		decimals = b.OutputToken.Decimals
	}

	return types.QuoteRequest{
		InputToken:     b.InputToken.toToken(),
		OutputToken:    b.OutputToken.toToken(),
		Amount:         facade.ParseAmount(b.Amount, decimals),
		AmountType:     amountType,
		SlippageBps:    b.SlippageBps,
		DeadlineUnixMs: b.DeadlineUnixMs,
		UserAddress:    b.UserAddress,
		Referrer:       b.Referrer,
	}
}

// QuoteHandler serves the quote and prepare-transactions endpoints.
type QuoteHandler struct {
	cf *facade.CrossFund
}

func NewQuoteHandler(cf *facade.CrossFund) *QuoteHandler {
	return &QuoteHandler{cf: cf}
}

// GetQuote handles POST /api/quote — returns the single best ranked quote.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var body quoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sq, qerr := h.cf.GetQuote(c.Request.Context(), body.toDomain())
	if qerr != nil {
		writeError(c, qerr)
		return
	}
	c.JSON(http.StatusOK, sq)
}

// GetQuotes handles POST /api/quotes — returns every aggregator's quote,
// ranked, plus the list of aggregators that failed.
func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	var body quoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cmp, qerr := h.cf.GetQuotes(c.Request.Context(), body.toDomain())
	if qerr != nil {
		writeError(c, qerr)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// prepareRequestBody extends quoteRequestBody with the spender address
// the built transactions should approve/target.
type prepareRequestBody struct {
	quoteRequestBody
	Spender string `json:"spender" binding:"required"`
}

// PrepareTransactions handles POST /api/prepare — builds the unsigned
// transaction list for the best quote, for client-side preview/signing.
func (h *QuoteHandler) PrepareTransactions(c *gin.Context) {
	var body prepareRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, perr := h.cf.PrepareTransactions(c.Request.Context(), body.toDomain(), body.Spender)
	if perr != nil {
		writeError(c, perr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// checkApprovalRequestBody is the wire shape of a checkApproval request
// (spec §6): the token/amount a caller intends to move, and the spender
// that would need allowance over it.
type checkApprovalRequestBody struct {
	Token   tokenRequest `json:"token" binding:"required"`
	Owner   string       `json:"owner" binding:"required"`
	Spender string       `json:"spender" binding:"required"`
	Amount  string       `json:"amount" binding:"required"`
}

// CheckApproval handles POST /api/check-approval — reports whether
// spender already holds enough ERC-20 allowance over owner's token to
// move amount, per spec §6's stable checkApproval operation.
func (h *QuoteHandler) CheckApproval(c *gin.Context) {
	var body checkApprovalRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token := body.Token.toToken()
	amount := facade.ParseAmount(body.Amount, token.Decimals)

	status, aerr := h.cf.CheckApproval(c.Request.Context(), token, body.Owner, body.Spender, amount)
	if aerr != nil {
		writeError(c, aerr)
		return
	}
	c.JSON(http.StatusOK, status)
}

// writeError maps an *errs.Error to an HTTP status and JSON body,
// following the teacher's gin.H{"error", "details"} error convention.
func writeError(c *gin.Context, err *errs.Error) {
	status := http.StatusInternalServerError
	switch err.Kind {
	case errs.KindInvalidParams, errs.KindUnsupportedChain, errs.KindUnsupportedToken, errs.KindNoRouteFound:
		status = http.StatusBadRequest
	case errs.KindRateLimited:
		status = http.StatusTooManyRequests
	case errs.KindQuoteExpired, errs.KindSlippageExceeded, errs.KindPriceImpactTooHigh,
		errs.KindInsufficientBalance, errs.KindInsufficientAllowance:
		status = http.StatusConflict
	case errs.KindApiError, errs.KindNetworkError, errs.KindBridgeTimeout:
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"error":     err.Message,
		"kind":      err.Kind,
		"details":   err.Details,
		"retryable": err.IsRetryable(),
		"recovery":  err.Recovery(),
	})
}
