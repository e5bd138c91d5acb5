package rateshop

import "fmt"

// AuthenticationError signals that no bearer token could be obtained: bad
// credentials, a provider outage or an unparseable token response. It is
// never retried internally.
type AuthenticationError struct {
	StatusCode int    // HTTP status of the token response, 0 on transport failure
	Body       string // Raw response body, empty on transport failure
	Cause      error  // Underlying transport/decode error, if any
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %v", e.Cause)
	}
	return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AuthenticationError) Unwrap() error { return e.Cause }

// ProviderError signals a failed rate lookup: a non-success HTTP status or
// an unparseable body. The raw status and body are preserved for diagnostics
// and never silently swallowed. Retrying is the caller's decision.
type ProviderError struct {
	StatusCode int    // HTTP status of the rate response, 0 on transport failure
	Body       string // Raw response body, empty on transport failure
	Cause      error  // Underlying transport/decode error, if any
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rate provider error: %v", e.Cause)
	}
	return fmt.Sprintf("rate provider error: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ProviderError) Unwrap() error { return e.Cause }
