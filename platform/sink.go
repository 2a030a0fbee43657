package platform

import (
	"sync"

	"github.com/fuad-daoud/discord-mirror/events"
	"github.com/fuad-daoud/discord-mirror/logger/dlog"
	"golang.org/x/net/context"
)

// Sink delivers a constructed domain event to subscribers. Dispatch is
// fire-and-forget for the synchronization core: it must not block on slow
// subscribers, and it is only ever called after the mirror mutation for that
// event has been applied.
type Sink interface {
	Dispatch(event events.Event)
}

// Listener receives every event the sink delivers.
type Listener interface {
	OnEvent(event events.Event)
}

// ListenerFunc adapts a function on one concrete event type into a Listener
// that ignores everything else.
func ListenerFunc[E events.Event](fn func(e E)) Listener {
	return listenerFunc[E]{fn: fn}
}

type listenerFunc[E events.Event] struct {
	fn func(E)
}

func (l listenerFunc[E]) OnEvent(event events.Event) {
	if e, ok := event.(E); ok {
		l.fn(e)
	}
}

// AsyncSink queues events on a buffered channel drained by a single
// goroutine, so subscribers run off the dispatcher's goroutine but still see
// events in dispatch order.
type AsyncSink struct {
	queue     chan events.Event
	done      chan struct{}
	listeners []Listener
	closeOnce sync.Once
}

func NewAsyncSink(bufferSize int, listeners ...Listener) *AsyncSink {
	s := &AsyncSink{
		queue:     make(chan events.Event, bufferSize),
		done:      make(chan struct{}),
		listeners: listeners,
	}
	go s.run()
	return s
}

func (s *AsyncSink) Dispatch(event events.Event) {
	s.queue <- event
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for event := range s.queue {
		for _, listener := range s.listeners {
			listener.OnEvent(event)
		}
	}
}

// Close stops accepting events and waits for the queue to drain, or for ctx.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	select {
	case <-s.done:
		dlog.Debug("sink drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
