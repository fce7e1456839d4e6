package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/admin"
	"crossfund/internal/config"
)

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	key, err := admin.GenerateTOTPSecret("crossfund-test", "admin@test")
	require.NoError(t, err)
	auth := admin.New(config.AdminConfig{JWTSecret: "secret"}, key.Secret(), "correct-horse", "admin")
	h := NewAdminHandler(auth, nil)

	r := gin.New()
	r.POST("/api/admin/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"wrong","totp_code":"000000"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginAcceptsValidCredentials(t *testing.T) {
	key, err := admin.GenerateTOTPSecret("crossfund-test", "admin@test")
	require.NoError(t, err)
	auth := admin.New(config.AdminConfig{JWTSecret: "secret"}, key.Secret(), "correct-horse", "admin")
	h := NewAdminHandler(auth, nil)

	r := gin.New()
	r.POST("/api/admin/login", h.Login)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	reqBody := `{"username":"admin","password":"correct-horse","totp_code":"` + code + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestForceExpireCacheRequiresQuoteId(t *testing.T) {
	h := NewAdminHandler(nil, nil)
	r := gin.New()
	r.POST("/api/admin/cache/expire", h.ForceExpireCache)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/expire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
