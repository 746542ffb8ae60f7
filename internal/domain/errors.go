package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested remote resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoCredentialsFound indicates no credential source yielded an email/password pair.
	ErrNoCredentialsFound = errors.New("no credentials found")
	// ErrAuthenticationFailed indicates the server rejected the login or the stored token.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNotAuthenticated indicates there is no valid local session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrItemNotFound indicates a product is not part of the current cart.
	ErrItemNotFound = errors.New("item not in cart")
	// ErrInvalidResponse indicates an unexpected status or payload shape from the server.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network error")
	// ErrInterrupted indicates the operation was cancelled by the user.
	ErrInterrupted = errors.New("interrupted")
	// ErrInvalidQuantity indicates a quantity outside the accepted range.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// NoCredentialsError lists the supported credential sources.
type NoCredentialsError struct {
	Methods []string
}

func (e *NoCredentialsError) Error() string {
	return fmt.Sprintf("no credentials found; provide them via one of: %s", strings.Join(e.Methods, "; "))
}

func (e *NoCredentialsError) Unwrap() error { return ErrNoCredentialsFound }

// AuthenticationError carries the server's reason for rejecting a login or token.
type AuthenticationError struct {
	Reason string
	Status int
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication failed, please login again"
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return ErrAuthenticationFailed }

type ItemNotFoundError struct {
	ProductID ProductID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("product %d not in cart", e.ProductID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidResponseError preserves the raw status and body for diagnosis.
type InvalidResponseError struct {
	Status int
	Body   string
	Reason string
}

func (e *InvalidResponseError) Error() string {
	msg := fmt.Sprintf("invalid response (status %d)", e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Body != "" {
		msg += ": " + truncate(e.Body, 512)
	}
	return msg
}

func (e *InvalidResponseError) Unwrap() error { return ErrInvalidResponse }

// NetworkErrorKind classifies transport failures.
type NetworkErrorKind int

const (
	NetworkTimeout NetworkErrorKind = iota + 1
	NetworkConnectionFailed
	NetworkRateLimited
)

func (k NetworkErrorKind) String() string {
	switch k {
	case NetworkTimeout:
		return "timeout"
	case NetworkConnectionFailed:
		return "connection failed"
	case NetworkRateLimited:
		return "rate limited"
	default:
		return "unknown"
	}
}

type NetworkError struct {
	Kind NetworkErrorKind
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Kind == NetworkRateLimited {
		return "rate limit exceeded, please try again later"
	}
	if e.Err != nil {
		return fmt.Sprintf("network %s: %v", e.Kind, e.Err)
	}
	return "network " + e.Kind.String()
}

// Unwrap exposes both the sentinel and the transport cause.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// IsRateLimited reports whether err is a rate-limit response.
func IsRateLimited(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Kind == NetworkRateLimited
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
