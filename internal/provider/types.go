package provider

import (
	"errors"
	"fmt"
)

// Provider identification
type ProviderType string

const (
	ProviderPlatnosci ProviderType = "platnosci_pl"
)

// Operation types that providers can support
type OperationType string

const (
	OpStatus      OperationType = "status"
	OpReport      OperationType = "report_verification"
	OpNewPayment  OperationType = "new_payment_url"
	OpPaytypeJS   OperationType = "paytype_js"
	OpErrorLookup OperationType = "error_lookup"
)

// Credential field definitions for provider setup
type CredentialField struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"` // text, password, select, list, bool
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"` // for select fields
}

// Checkout describes what a payment form needs to submit to the gateway.
type Checkout struct {
	NewPaymentURL string `json:"new_payment_url"`
	PaytypeJSSrc  string `json:"paytype_js_src"`
	SessionID     string `json:"session_id"`
	PosID         string `json:"pos_id"`
	PosAuthKey    string `json:"pos_auth_key,omitempty"`
	Encoding      string `json:"encoding"`
}

// Kind groups provider errors by who has to act on them.
type Kind string

const (
	// KindConfiguration is static misconfiguration, fatal before serving traffic.
	KindConfiguration Kind = "configuration"
	// KindInvalidArgument is bad caller input. Never retried.
	KindInvalidArgument Kind = "invalid_argument"
	// KindTransport is a non-200 response or a network/timeout failure.
	KindTransport Kind = "transport"
)

// Common error types
type ProviderError struct {
	Kind        Kind   `json:"kind"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Field       string `json:"field,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	ProviderErr string `json:"provider_error,omitempty"`
	Err         error  `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.ProviderErr != "" {
		return e.Message + ": " + e.ProviderErr
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Error codes
const (
	ErrMissingField     = "missing_field"
	ErrInvalidEncoding  = "invalid_encoding"
	ErrEmptySession     = "empty_session"
	ErrMissingParameter = "missing_parameter"
	ErrUnknownPosID     = "unknown_pos_id"
	ErrWrongSignature   = "wrong_signature"
	ErrBadStatus        = "bad_status"
	ErrProviderTimeout  = "provider_timeout"
	ErrProviderDown     = "provider_down"
	ErrUnknownError     = "unknown_error"
)

// ConfigError reports the first configuration field that failed validation.
func ConfigError(code, field, format string, args ...any) *ProviderError {
	return &ProviderError{
		Kind:    KindConfiguration,
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidArgument reports bad input supplied by the caller.
func InvalidArgument(code, field, format string, args ...any) *ProviderError {
	return &ProviderError{
		Kind:    KindInvalidArgument,
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// TransportError reports a failed exchange with the gateway. statusCode is 0
// when no response was received.
func TransportError(code string, statusCode int, cause error, format string, args ...any) *ProviderError {
	return &ProviderError{
		Kind:       KindTransport,
		Code:       code,
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
		Err:        cause,
	}
}

// IsKind reports whether err is (or wraps) a ProviderError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// AsProviderError unwraps err into a ProviderError when possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
