package serialtcp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotOpen is returned by Read, ReadByte, Write and WriteByte when the port
// is not open at call time. No I/O is attempted.
var ErrNotOpen = errors.New("Port not opened")

// OpenError is returned by Open when establishing the connection or setting up
// its streams fails. The port is always left closed.
type OpenError struct {
	// Address is the host:port or device path that was being opened.
	Address string
	Err     error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("Open %s failed: %v", e.Address, e.Err)
}

// Unwrap returns the underlying cause so that errors.Is and errors.As can
// inspect it.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *OpenError) Cause() error {
	return e.Err
}

// IsOpenError reports whether err is, or wraps, an *OpenError.
func IsOpenError(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}
