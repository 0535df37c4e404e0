package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindUnknown covers responses that fit no other category.
	KindUnknown Kind = iota

	// KindAuthentication means a token was required but not supplied.
	KindAuthentication

	// KindTokenExpired maps HTTP 401: the bearer token is invalid or stale.
	KindTokenExpired

	// KindValidation maps HTTP 400: the request was malformed or out of range.
	KindValidation

	// KindNotFound maps HTTP 404.
	KindNotFound

	// KindRateLimit maps HTTP 429.
	KindRateLimit

	// KindServer maps HTTP 5xx.
	KindServer

	// KindTimeout means the gateway did not respond within the deadline.
	KindTimeout

	// KindNetwork means the gateway could not be reached at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindTokenExpired:
		return "token_expired"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the typed failure every gateway call can return. All kinds carry
// the status code and endpoint for caller diagnostics; Field is set for
// validation failures when the gateway names the offending field, and
// RetryAfter (seconds) for rate limits when the header is present.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Endpoint   string
	Field      string
	RetryAfter int
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a gateway Error of the given kind.
func IsKind(err error, kind Kind) bool {
	gerr, ok := AsError(err)
	return ok && gerr.Kind == kind
}

// AsError unwraps err into a gateway Error if possible.
func AsError(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

func authenticationError(endpoint, message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Endpoint: endpoint}
}

func validationError(endpoint, message, field string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: 400,
		Endpoint:   endpoint,
		Field:      field,
	}
}

// NewValidationError builds a validation failure raised locally, before any
// HTTP round trip (e.g. a pipeline stage invoked out of order).
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}
