package event

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Listener drains a publisher in its own goroutine.
type Listener struct {
	publisher *Publisher
	handler   func(*Event)
	poll      time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
}

func NewListener(publisher *Publisher, handler func(*Event)) *Listener {
	return &Listener{
		publisher: publisher,
		handler:   handler,
		poll:      10 * time.Millisecond,
	}
}

// Start launches the drain loop. Calling Start on a running listener is a
// no-op.
func (l *Listener) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

// Stop cancels the drain loop and waits for it to return.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Listener) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		event, err := l.publisher.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("event listener: %v", err)
		}
		if event == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.poll):
			}
			continue
		}
		l.handler(event)
	}
}
