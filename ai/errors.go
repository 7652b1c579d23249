package ai

import "errors"

var (
	// ErrNotInitialized is returned when the embedding client is used before
	// Initialize has armed it with a provider.
	ErrNotInitialized = errors.New("embedding client not initialized")

	// ErrProviderUnavailable is returned when the embedding provider keeps
	// failing after the retry policy is exhausted.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrMissingCredentials is returned when no API key is configured for the
	// embedding provider.
	ErrMissingCredentials = errors.New("embedding API key not configured")

	// ErrDimensionMismatch is returned when the provider yields a vector whose
	// length differs from the configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrBatchSizeMismatch is returned when the provider yields a different
	// number of vectors than texts submitted.
	ErrBatchSizeMismatch = errors.New("embedding batch size mismatch")

	// ErrInvalidMaxAttempts is returned when a retry policy has MaxAttempts <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
