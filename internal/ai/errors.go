package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// Failure reasons reported by ClassifyError.
const (
	ReasonBilling   = "billing"
	ReasonRateLimit = "rate_limit"
	ReasonAuth      = "auth"
	ReasonTimeout   = "timeout"
	ReasonEmpty     = "empty"
	ReasonOther     = "other"
)

// ClassifyError maps an upstream failure to a short reason for logs.
func ClassifyError(err error) string {
	if err == nil {
		return ReasonOther
	}
	if errors.Is(err, ErrEmptyCompletion) {
		return ReasonEmpty
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ReasonTimeout
	}

	if status := statusCode(err); status != 0 {
		switch {
		case status == http.StatusTooManyRequests:
			return ReasonRateLimit
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return ReasonAuth
		case status == http.StatusPaymentRequired:
			return ReasonBilling
		case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
			return ReasonTimeout
		}
	}

	msg := strings.ToLower(err.Error())
	for _, group := range []struct {
		reason   string
		patterns []string
	}{
		{ReasonBilling, []string{"billing", "quota", "payment", "insufficient", "spending limit"}},
		{ReasonRateLimit, []string{"rate limit", "rate_limit", "too many requests", "throttl"}},
		{ReasonAuth, []string{"authentication", "unauthorized", "api key", "invalid credentials"}},
		{ReasonTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	} {
		for _, p := range group.patterns {
			if strings.Contains(msg, p) {
				return group.reason
			}
		}
	}
	return ReasonOther
}

func statusCode(err error) int {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode
	}
	return 0
}
