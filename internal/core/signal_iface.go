package core

import "errors"

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts a per-connection messaging transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend never blocks: it fails with ErrBackpressure when the buffer is full
// and ErrConnClosed after Close.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
