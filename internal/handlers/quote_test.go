package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"crossfund/internal/errs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetQuoteRejectsInvalidBody(t *testing.T) {
	h := NewQuoteHandler(nil)
	r := gin.New()
	r.POST("/api/quote", h.GetQuote)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{"inputToken":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteRequestBodyToDomainDefaultsAmountType(t *testing.T) {
	body := quoteRequestBody{
		InputToken:  tokenRequest{Address: "0xin", ChainID: 1, Decimals: 6},
		OutputToken: tokenRequest{Address: "0xout", ChainID: 137, Decimals: 18},
		Amount:      "1.5",
		UserAddress: "0xuser",
	}
	req := body.toDomain()
	assert.Equal(t, "fromInput", string(req.AmountType))
	assert.Equal(t, "0xin", req.InputToken.Address)
	assert.Equal(t, uint64(137), req.OutputToken.ChainID)
}

func TestQuoteRequestBodyToDomainUsesOutputDecimalsForAmountFromOutput(t *testing.T) {
	body := quoteRequestBody{
		InputToken:  tokenRequest{Address: "0xin", ChainID: 1, Decimals: 6},
		OutputToken: tokenRequest{Address: "0xout", ChainID: 1, Decimals: 18},
		Amount:      "2",
		AmountType:  "fromOutput",
		UserAddress: "0xuser",
	}
	req := body.toDomain()
	assert.Equal(t, "fromOutput", string(req.AmountType))
	// "2" has no dot and is at most 10 characters, so ParseAmount's
	// heuristic treats it as a human amount and scales it by the output
	// token's 18 decimals; this just asserts the decimals path didn't
	// panic and produced a value.
	assert.NotNil(t, req.Amount)
}

func TestCheckApprovalRejectsInvalidBody(t *testing.T) {
	h := NewQuoteHandler(nil)
	r := gin.New()
	r.POST("/api/check-approval", h.CheckApproval)

	req := httptest.NewRequest(http.MethodPost, "/api/check-approval", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteErrorMapsKindsToStatus(t *testing.T) {
	cases := []struct {
		err  *errs.Error
		want int
	}{
		{errs.InvalidParams("bad"), http.StatusBadRequest},
		{errs.RateLimited(0), http.StatusTooManyRequests},
		{errs.SlippageExceeded(nil), http.StatusConflict},
		{errs.NetworkError(nil), http.StatusBadGateway},
		{errs.UnknownError(nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)
		assert.Equal(t, tc.want, w.Code)
	}
}
