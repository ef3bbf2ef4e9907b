// Package clock drives frame advancement for animated images from a
// background goroutine.
//
// The worker never touches view state. It only emits Advance signals into
// a Sink owned by the event loop, which applies them in arrival order.
package clock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMinDelay is the shortest delay honoured between frames. Zero and
// near-zero delays in animated files are raised to it.
const DefaultMinDelay = 10 * time.Millisecond

// ErrSinkClosed is returned by a Sink that no longer accepts signals.
var ErrSinkClosed = errors.New("clock: sink closed")

// Advance is emitted each time the next frame of a sequence is due.
type Advance struct {
	// Seq counts signals emitted by one clock, starting at 1.
	Seq uint64
}

// Sink receives advance signals. Send returning an error means the sink
// has been torn down; the clock stops without reporting it. A Send that
// blocks must return once ctx is done, which happens when the clock is
// stopped.
type Sink interface {
	Send(ctx context.Context, a Advance) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(context.Context, Advance) error

// Send implements Sink.
func (f SinkFunc) Send(ctx context.Context, a Advance) error { return f(ctx, a) }

// Options configures a Clock.
type Options struct {
	// MinDelay is the floor applied to every delay.
	// Zero means DefaultMinDelay; a negative value disables the floor.
	MinDelay time.Duration

	Logger *slog.Logger
}

// Clock owns the worker goroutine of one animated sequence.
type Clock struct {
	running atomic.Bool
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	stop    sync.Once
	log     *slog.Logger
}

// Start launches a worker that cycles through delays forever, sleeping
// for each one and then sending an Advance to sink. The worker exits
// when Stop is called or when a send fails.
func Start(delays []time.Duration, sink Sink, opts Options) *Clock {
	c := &Clock{
		done: make(chan struct{}),
		log:  opts.Logger,
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	c.running.Store(true)

	floor := opts.MinDelay
	if floor == 0 {
		floor = DefaultMinDelay
	}
	ds := make([]time.Duration, len(delays))
	for i, d := range delays {
		ds[i] = max(d, floor)
	}

	go c.run(ds, sink)
	return c
}

func (c *Clock) run(delays []time.Duration, sink Sink) {
	defer close(c.done)
	if len(delays) == 0 {
		c.log.Debug("clock has no delays, exiting")
		return
	}
	c.log.Debug("clock started", "frames", len(delays))

	var seq uint64
	for {
		for _, d := range delays {
			time.Sleep(d)
			// The flag is only observed once the in-flight sleep is over,
			// and no signal follows a stop.
			if !c.running.Load() {
				c.log.Debug("clock stopped", "emitted", seq)
				return
			}
			seq++
			if err := sink.Send(c.ctx, Advance{Seq: seq}); err != nil {
				c.log.Debug("clock sink closed", "emitted", seq-1, "err", err)
				return
			}
		}
	}
}

// Stop asks the worker to finish and waits for it to return. It blocks
// for at most the delay the worker is currently sleeping through, and
// interrupts a send blocked on a full sink. Stop may be called more than
// once.
func (c *Clock) Stop() {
	c.stop.Do(func() {
		c.running.Store(false)
		c.cancel()
	})
	<-c.done
}

// Running reports whether the clock has not been asked to stop.
func (c *Clock) Running() bool {
	return c.running.Load()
}

// Done is closed once the worker goroutine has returned.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}
