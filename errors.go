package twitter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind categorizes failed API calls for targeted handling.
type ErrorKind int

const (
	KindNone               ErrorKind = iota
	KindInvalidRequest               // 400
	KindUnauthorized                 // 401
	KindForbidden                    // 403
	KindUnknownMethod                // 404
	KindInvalidSearchFormat          // 406
	KindSearchLimitReached           // 420
	KindInternalServerError          // 500
	KindTwitterDown                  // 502
	KindTwitterOverCapacity          // 503
	KindTimeout                      // 504 or transport deadline
	KindOAuthUnauthorized            // rejected OAuth handshake
	KindUnsupportedCredentials
)

var kindNames = map[ErrorKind]string{
	KindNone:                   "none",
	KindInvalidRequest:         "invalid request",
	KindUnauthorized:           "unauthorized",
	KindForbidden:              "forbidden",
	KindUnknownMethod:          "unknown method",
	KindInvalidSearchFormat:    "invalid search format",
	KindSearchLimitReached:     "search limit reached",
	KindInternalServerError:    "internal server error",
	KindTwitterDown:            "twitter down",
	KindTwitterOverCapacity:    "twitter over capacity",
	KindTimeout:                "timeout",
	KindOAuthUnauthorized:      "oauth unauthorized",
	KindUnsupportedCredentials: "unsupported credentials",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrInvalidRequest         = &Error{Kind: KindInvalidRequest}
	ErrUnauthorized           = &Error{Kind: KindUnauthorized}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrUnknownMethod          = &Error{Kind: KindUnknownMethod}
	ErrInvalidSearchFormat    = &Error{Kind: KindInvalidSearchFormat}
	ErrSearchLimitReached     = &Error{Kind: KindSearchLimitReached}
	ErrInternalServerError    = &Error{Kind: KindInternalServerError}
	ErrTwitterDown            = &Error{Kind: KindTwitterDown}
	ErrTwitterOverCapacity    = &Error{Kind: KindTwitterOverCapacity}
	ErrTimeout                = &Error{Kind: KindTimeout}
	ErrOAuthUnauthorized      = &Error{Kind: KindOAuthUnauthorized}
	ErrUnsupportedCredentials = &Error{Kind: KindUnsupportedCredentials}
)

// Error is a typed API failure. Message is derived from the response body.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("twitter: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("twitter: %s: %s", e.Kind, e.Message)
	default:
		return "twitter: " + e.Kind.String()
	}
}

// Is matches on Kind so that errors.Is(err, ErrUnauthorized) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.err }

// KindOf returns the kind of a typed error in err's chain, or KindNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// kindForStatus maps an HTTP status to an error kind. KindNone means success.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindInvalidRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindUnknownMethod
	case http.StatusNotAcceptable:
		return KindInvalidSearchFormat
	case 420:
		return KindSearchLimitReached
	case http.StatusInternalServerError:
		return KindInternalServerError
	case http.StatusBadGateway:
		return KindTwitterDown
	case http.StatusServiceUnavailable:
		return KindTwitterOverCapacity
	case http.StatusGatewayTimeout:
		return KindTimeout
	}
	return KindNone
}

// transportError converts a failed round trip into a Timeout error when the
// deadline expired, and wraps it otherwise.
func transportError(endpoint string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &Error{Kind: KindTimeout, Message: endpoint + " timed out", err: err}
	}
	return fmt.Errorf("%s: %w", endpoint, err)
}

// parseRateLimitReset parses a Unix timestamp rate-limit header.
func parseRateLimitReset(v string) (time.Time, bool) {
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}
