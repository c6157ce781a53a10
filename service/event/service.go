package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/messaging/fs"
	"github.com/viant/kproc/service/messaging/memory"
)

// Service owns the event queue and at most one listener.
type Service struct {
	vendor       messaging.Vendor
	memoryConfig memory.Config
	fsConfig     *fs.QueueConfig
	fs           afs.Service
	publisher    *Publisher
	listener     *Listener
	mux          sync.Mutex
}

// New creates an event service backed by the vendor's queue.
func New(vendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{vendor: vendor, memoryConfig: memory.DefaultConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	queue, err := ret.queue()
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher(queue)
	return ret, nil
}

func (s *Service) queue() (messaging.Queue[Event], error) {
	switch s.vendor {
	case messaging.VendorMemory, "":
		return memory.NewQueue[Event](s.memoryConfig), nil
	case messaging.VendorFs:
		if s.fsConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires fs config")
		}
		if s.fs == nil {
			s.fs = afs.New()
		}
		return fs.NewQueue[Event](s.fs, *s.fsConfig)
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.vendor)
}

// Publish hands event to the queue.
func (s *Service) Publish(ctx context.Context, event *Event) error {
	return s.publisher.Publish(ctx, event)
}

// Publisher returns the underlying publisher.
func (s *Service) Publisher() *Publisher {
	return s.publisher
}

// SetListener replaces the current listener with one calling handler.
func (s *Service) SetListener(handler func(*Event)) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener(s.publisher, handler)
	s.listener.Start()
}

// Close stops the listener, if any.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
