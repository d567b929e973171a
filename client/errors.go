package client

import (
	"errors"
	"fmt"
)

// TransactionError-kind sentinels.
var (
	ErrReceiveTimeout = errors.New("client: receive timed out")
	ErrNotAResponse   = errors.New("client: frame is not a response")
	ErrBadFrame       = errors.New("client: frame failed to decode")
	ErrPayloadDecode  = errors.New("client: response payload failed to decode")
)

// ResponseMismatchError names the specific field whose value disagreed
// with the outstanding request.
type ResponseMismatchError struct {
	Field string
	Got   any
	Want  any
}

func (e *ResponseMismatchError) Error() string {
	return fmt.Sprintf("client: response mismatch on %s: got %v, want %v", e.Field, e.Got, e.Want)
}

func (e *ResponseMismatchError) Unwrap() error { return errResponseMismatch }

var errResponseMismatch = errors.New("client: response mismatch")

// ErrResponseMismatch is the sentinel ResponseMismatchError wraps, for
// errors.Is checks that don't care which field disagreed.
var ErrResponseMismatch = errResponseMismatch
