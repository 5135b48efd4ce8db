package errors

import (
	"context"
	"errors"
	"net"
)

// MapTransportError maps errors returned by an HTTP round trip to AppError instances.
// It handles:
// - context.Canceled → Canceled
// - context.DeadlineExceeded and net timeouts → Timeout
// - everything else → Unavailable
//
// A nil err returns nil; an existing AppError is returned unchanged.
func MapTransportError(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, message)
	}

	return Unavailable(err, message)
}
