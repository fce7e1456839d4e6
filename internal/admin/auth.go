// Package admin issues and validates the JWT used to gate CrossFund's
// admin surface (cache invalidation, execution audit queries). Grounded
// on the teacher's handlers/admin_auth_handler.go login/TOTP/JWT flow,
// reworked to read secrets from internal/config instead of raw env vars.
package admin

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"crossfund/internal/config"
)

// Claims is the JWT payload issued to an authenticated admin.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the admin login payload: password plus a current TOTP
// code from an authenticator app seeded with the secret on record.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code" binding:"required"`
}

// Auth validates admin credentials and issues/verifies JWTs.
type Auth struct {
	jwtSecret    []byte
	totpSecret   string
	passwordHash []byte
	username     string
}

// New builds an Auth from configured admin secrets. password is the
// operator's plaintext password, read once at startup and bcrypt-hashed
// for in-memory comparison rather than kept around in the clear. Returns
// an Auth that always rejects logins if the JWT secret is unset, rather
// than falling back to a hardcoded default.
func New(cfg config.AdminConfig, totpSecret, password, username string) *Auth {
	if username == "" {
		username = "admin"
	}
	var hash []byte
	if password != "" {
		if h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			hash = h
		}
	}
	return &Auth{
		jwtSecret:    []byte(cfg.JWTSecret),
		totpSecret:   totpSecret,
		passwordHash: hash,
		username:     username,
	}
}

// Login validates username, password, and TOTP code, returning a signed
// JWT valid for 24 hours on success.
func (a *Auth) Login(req LoginRequest) (string, error) {
	if len(a.jwtSecret) == 0 {
		return "", fmt.Errorf("admin auth not configured: missing JWT secret")
	}
	if a.totpSecret == "" || len(a.passwordHash) == 0 {
		return "", fmt.Errorf("admin auth not configured: missing TOTP secret or password")
	}
	if req.Username != a.username {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if !totp.Validate(req.TOTPCode, a.totpSecret) {
		return "", fmt.Errorf("invalid TOTP code")
	}
	return a.issueToken(req.Username)
}

func (a *Auth) issueToken(username string) (string, error) {
	claims := Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "crossfund-admin",
			Subject:   username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	if len(a.jwtSecret) == 0 {
		return nil, fmt.Errorf("admin auth not configured: missing JWT secret")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GenerateTOTPSecret creates a fresh TOTP key for initial admin setup.
func GenerateTOTPSecret(issuer, accountName string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}
