package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/roach88/execdash/internal/records"
)

// Op identifies the stage of a category fetch that failed.
type Op string

const (
	OpRequest Op = "request"
	OpStatus  Op = "status"
	OpRead    Op = "read"
	OpDecode  Op = "decode"
)

// Transport error codes. HTTP failures use "HTTP_<status>".
const (
	CodeConnRefused = "ECONNREFUSED"
	CodeConnReset   = "ECONNRESET"
	CodeNotFound    = "ENOTFOUND"
	CodeTimeout     = "ETIMEDOUT"
	CodeCanceled    = "ECANCELED"
	CodeNetwork     = "ERR_NETWORK"
	CodeSchema      = "ERR_SCHEMA"
	CodeTooLarge    = "ERR_BODY_TOO_LARGE"
)

// Error reports the failure of one category fetch. FetchAll returns exactly
// one Error when any of the four requests fails.
type Error struct {
	// Category is the failing endpoint.
	Category records.Category

	// Op is the stage that failed.
	Op Op

	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status once a response arrived (OpStatus and
	// OpRead failures), otherwise 0.
	StatusCode int

	// Code is a short machine-readable cause (HTTP_503, ECONNREFUSED, ...).
	Code string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load %s data: %s: %v", e.Category, e.Code, e.Err)
	}
	return fmt.Sprintf("failed to load %s data: %s", e.Category, e.Code)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if err is a fetch Error caused by the request deadline.
func IsTimeout(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == CodeTimeout
	}
	return false
}

// FailedCategory returns the category named by a fetch Error.
func FailedCategory(err error) (records.Category, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category, true
	}
	return "", false
}

func newTransportError(c records.Category, url string, err error) *Error {
	return &Error{Category: c, Op: OpRequest, URL: url, Code: transportCode(err), Err: err}
}

func newStatusError(c records.Category, url string, status int) *Error {
	return &Error{Category: c, Op: OpStatus, URL: url, StatusCode: status, Code: fmt.Sprintf("HTTP_%d", status)}
}

func newBodyTooLargeError(c records.Category, url string, status int, limit int64) *Error {
	return &Error{
		Category:   c,
		Op:         OpRead,
		URL:        url,
		StatusCode: status,
		Code:       CodeTooLarge,
		Err:        fmt.Errorf("response body exceeds %d bytes", limit),
	}
}

func newDecodeError(c records.Category, url string, err error) *Error {
	return &Error{Category: c, Op: OpDecode, URL: url, Code: CodeSchema, Err: err}
}

// transportCode maps a client.Do error onto a connection error code.
func transportCode(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeConnRefused
	case errors.Is(err, syscall.ECONNRESET):
		return CodeConnReset
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CodeTimeout
		}
		return CodeNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	return CodeNetwork
}
