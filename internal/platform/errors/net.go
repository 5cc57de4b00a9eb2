package errors

import (
	"context"
	stderrs "errors"
	"io"
	"net"
	"syscall"
)

// IsTransientNet reports whether err looks like a network hiccup: a timeout,
// a refused or reset connection, or a connection closed mid-response.
// Context cancellation is never transient.
func IsTransientNet(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) {
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if stderrs.Is(err, syscall.ECONNREFUSED) || stderrs.Is(err, syscall.ECONNRESET) || stderrs.Is(err, syscall.EPIPE) {
		return true
	}
	var ne net.Error
	return stderrs.As(err, &ne) && ne.Timeout()
}
