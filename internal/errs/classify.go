package errs

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
)

var revertReasonPattern = regexp.MustCompile(`(?i)execution reverted:?\s*(.*)`)

// Classify maps any upstream failure — an HTTP error, a network exception,
// a signer rejection, or an RPC revert — onto one of the closed Kinds.
// Substring matching is deliberately case-insensitive and loose: upstream
// error strings vary by provider and SDK version.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "insufficient"):
		return Wrap(KindInsufficientBalance, msg, err)
	case strings.Contains(lower, "user rejected"), strings.Contains(lower, "user denied"):
		return Wrap(KindUserRejected, msg, err)
	case strings.Contains(lower, "execution reverted"):
		reason := extractRevertReason(msg)
		return Wrap(KindTransactionReverted, reason, err).
			WithDetails(map[string]any{"revertReason": reason})
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "too many requests"):
		return Wrap(KindRateLimited, msg, err)
	case strings.Contains(lower, "slippage"):
		return Wrap(KindSlippageExceeded, msg, err)
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"),
		errors.Is(err, context.DeadlineExceeded):
		return Wrap(KindNetworkError, msg, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindNetworkError, msg, err)
	}

	return Wrap(KindUnknownError, msg, err)
}

func extractRevertReason(msg string) string {
	if m := revertReasonPattern.FindStringSubmatch(msg); len(m) == 2 {
		reason := strings.TrimSpace(m[1])
		if reason != "" {
			return reason
		}
	}
	return msg
}

// ClassifyHTTPStatus maps an upstream HTTP status code (and response body,
// used only for the details map) to an error Kind. 5xx is recoverable
// ApiError; 4xx is non-recoverable ApiError except 429 which is
// RateLimited.
func ClassifyHTTPStatus(statusCode int, body string) *Error {
	switch {
	case statusCode == 429:
		return RateLimited(0).WithDetails(map[string]any{"body": body})
	case statusCode >= 500:
		return ApiError(statusCode, body)
	case statusCode >= 400:
		e := ApiError(statusCode, body)
		e.Recoverable = false
		return e
	default:
		return nil
	}
}
