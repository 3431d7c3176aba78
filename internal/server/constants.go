package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRequestID      = "X-Request-ID"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Limits
const (
	// MaxRequestBodyBytes caps JSON request bodies
	MaxRequestBodyBytes = 1 << 20

	// MaxRequestIDLength bounds a caller-supplied request id before it is trusted
	MaxRequestIDLength = 64

	// RateLimitWindow is the counting window of the suspicious activity detector
	RateLimitWindow = 5 * time.Minute

	// RateLimitMaxRequests is the per-IP request budget inside one window
	RateLimitMaxRequests = 1000

	// FailedAuthAlertThreshold is the failed attempts per IP that raise an alert
	FailedAuthAlertThreshold = 5

	ReadHeaderTimeout = 5 * time.Second
	IdleTimeout       = 60 * time.Second
)

// PublicPaths bypass authentication
var PublicPaths = []string{
	"/swagger",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// RedactedValue replaces secret header values in logs
const RedactedValue = "[REDACTED]"
