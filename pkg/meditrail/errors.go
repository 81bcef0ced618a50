package meditrail

import (
	"errors"
	"fmt"
)

// Kind classifies a failed OCR API call.
type Kind int

const (
	// KindFileNotFound: the path is missing, unreadable or not a regular file.
	KindFileNotFound Kind = iota + 1
	// KindFileTooLarge: over 50 MiB locally, or HTTP 413.
	KindFileTooLarge
	// KindBadRequest: HTTP 400.
	KindBadRequest
	// KindUsageLimitExceeded: HTTP 429.
	KindUsageLimitExceeded
	// KindServerError: HTTP 500.
	KindServerError
	// KindHTTP: any other unexpected status.
	KindHTTP
	// KindTimeout: the call exceeded its deadline.
	KindTimeout
	// KindConnectionFailed: DNS, refused, reset or canceled.
	KindConnectionFailed
	// KindInvalidResponse: a body that should be JSON is not.
	KindInvalidResponse
)

// Sentinel errors, one per Kind. Use errors.Is against any error returned by the client.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file too large")
	ErrBadRequest         = errors.New("bad request")
	ErrUsageLimitExceeded = errors.New("usage limit exceeded")
	ErrServerError        = errors.New("internal server error")
	ErrHTTP               = errors.New("unexpected http status")
	ErrTimeout            = errors.New("request timed out")
	ErrConnectionFailed   = errors.New("connection error")
	ErrInvalidResponse    = errors.New("invalid json response")

	ErrMissingAPIKey = errors.New("meditrail: api key is required")
)

var kindSentinels = map[Kind]error{
	KindFileNotFound:       ErrFileNotFound,
	KindFileTooLarge:       ErrFileTooLarge,
	KindBadRequest:         ErrBadRequest,
	KindUsageLimitExceeded: ErrUsageLimitExceeded,
	KindServerError:        ErrServerError,
	KindHTTP:               ErrHTTP,
	KindTimeout:            ErrTimeout,
	KindConnectionFailed:   ErrConnectionFailed,
	KindInvalidResponse:    ErrInvalidResponse,
}

// String returns the name of the kind, e.g. "HttpError".
func (k Kind) String() string {
	switch k {
	case KindFileNotFound:
		return "FileNotFound"
	case KindFileTooLarge:
		return "FileTooLarge"
	case KindBadRequest:
		return "BadRequest"
	case KindUsageLimitExceeded:
		return "UsageLimitExceeded"
	case KindServerError:
		return "ServerError"
	case KindHTTP:
		return "HttpError"
	case KindTimeout:
		return "Timeout"
	case KindConnectionFailed:
		return "ConnectionFailed"
	case KindInvalidResponse:
		return "InvalidResponse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// APIError is the only error type returned by Client.Process.
// StatusCode is zero for failures that happened before a response was received.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

// Error returns the user-facing message.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport or file error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind.
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

func newAPIError(kind Kind, status int, message string, body []byte) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Body:       body,
	}
}

func wrapAPIError(kind Kind, message string, cause error) *APIError {
	return &APIError{
		Kind:    kind,
		Message: message,
		Err:     cause,
	}
}

// KindOf returns the Kind of err, or zero if err is not an *APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
