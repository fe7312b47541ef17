package gateway

import "errors"

// Connection-level errors. Protocol-level failures go back to the client as
// coded replies via errcode instead.
var (
	ErrConnClosed       = errors.New("connection closed")
	ErrWriteChannelFull = errors.New("write channel full")
	ErrPanic            = errors.New("panic error")
)
