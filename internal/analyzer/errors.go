package analyzer

import "net/http"

// Kind classifies an analysis failure
type Kind string

const (
	KindRateLimited       Kind = "rate_limited"
	KindUpstreamFailure   Kind = "upstream_failure"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedResponse Kind = "malformed_response"
	KindTransportError    Kind = "transport_error"
)

// Error is a classified analysis failure. Message is safe to show to the
// bettor; Err carries the internal cause for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure to the gateway's two-status contract:
// 429 for throttling, 500 for everything else.
func (e *Error) HTTPStatus() int {
	if e.Kind == KindRateLimited {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// User-facing messages per failure kind. Upstream internals never leak here.
func rateLimitedError(err error) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Message: "Rate limit exceeded. Please try again later.",
		Err:     err,
	}
}

func upstreamFailureError(err error) *Error {
	return &Error{
		Kind:    KindUpstreamFailure,
		Message: "AI analysis failed",
		Err:     err,
	}
}

func emptyResponseError(err error) *Error {
	return &Error{
		Kind:    KindEmptyResponse,
		Message: "No response received from the AI model",
		Err:     err,
	}
}

func malformedResponseError(err error) *Error {
	return &Error{
		Kind:    KindMalformedResponse,
		Message: "AI model returned an unusable analysis",
		Err:     err,
	}
}

func transportError(err error) *Error {
	return &Error{
		Kind:    KindTransportError,
		Message: "AI analysis failed",
		Err:     err,
	}
}
