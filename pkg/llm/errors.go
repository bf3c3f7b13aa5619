package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies upstream call failures.
type ErrorKind string

const (
	// KindTimeout means the call exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindTransport means the request never produced an HTTP response.
	KindTransport ErrorKind = "transport"
	// KindStatus means the upstream returned a non-2xx status.
	KindStatus ErrorKind = "status"
	// KindDecode means the response body did not have the expected shape.
	KindDecode ErrorKind = "decode"
)

// UpstreamError wraps any failure of the outbound model call. All kinds
// surface to callers the same way (a failed call aborts the operation);
// the kind exists for logs and metrics.
type UpstreamError struct {
	Kind ErrorKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream call failed (%s): %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classify wraps err as an UpstreamError, inspecting it for timeout and
// transport signatures.
func classify(err error) *UpstreamError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}

	return &UpstreamError{Kind: KindTransport, Err: err}
}
