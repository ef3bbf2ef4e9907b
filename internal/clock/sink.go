package clock

import (
	"context"
	"sync"
)

// ChanSink is a Sink backed by a buffered channel. Send blocks while the
// buffer is full, so no signal is ever dropped or coalesced.
type ChanSink struct {
	ch     chan Advance
	closed chan struct{}
	once   sync.Once
}

// NewChanSink returns a ChanSink with the given buffer size.
func NewChanSink(size int) *ChanSink {
	return &ChanSink{
		ch:     make(chan Advance, size),
		closed: make(chan struct{}),
	}
}

// C returns the channel signals are delivered on, in the order sent.
func (s *ChanSink) C() <-chan Advance {
	return s.ch
}

// Send implements Sink. It fails with ErrSinkClosed after Close, and with
// the context error if ctx is done while the buffer is full.
func (s *ChanSink) Send(ctx context.Context, a Advance) error {
	select {
	case <-s.closed:
		return ErrSinkClosed
	default:
	}
	select {
	case s.ch <- a:
		return nil
	case <-s.closed:
		return ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed is closed by Close.
func (s *ChanSink) Closed() <-chan struct{} {
	return s.closed
}

// Close makes every further Send fail. Signals already buffered can
// still be received.
func (s *ChanSink) Close() {
	s.once.Do(func() { close(s.closed) })
}
