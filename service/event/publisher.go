package event

import (
	"context"

	"github.com/viant/kproc/service/messaging"
)

// Publisher writes events to a queue.
type Publisher struct {
	queue messaging.Queue[Event]
}

func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}

// Publish hands event to the queue.
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	return p.queue.Publish(ctx, event)
}

// Consume returns the next acknowledged event, or nil when the queue had
// nothing to offer.
func (p *Publisher) Consume(ctx context.Context) (*Event, error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
