package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the company or document is absent upstream
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed company number or missing credential
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimitExceeded indicates the rate budget was exhausted before the
	// caller's deadline allowed another request
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUpstreamUnavailable indicates the registry could not be reached after retries
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrParse indicates a response or value that could not be parsed
	ErrParse = errors.New("parse error")

	// ErrCacheUnavailable indicates the remote result cache could not be reached.
	// Callers treat it as a cache miss, never as a fatal error.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrUnauthorized indicates authentication failed or is missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCredentials indicates a wrong operator password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExtractorUnavailable indicates the AI extraction backend is not configured
	ErrExtractorUnavailable = errors.New("extractor unavailable")
)
