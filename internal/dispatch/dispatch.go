// Package dispatch fans a single translated Item stream out to every
// destination's input channel.
package dispatch

import (
	"context"

	"github.com/lsyncd-go/rsyncwatch/internal/item"
)

// Dispatcher pushes every inbound Item to every registered channel,
// blocking on a full channel. That block is intentional backpressure: it
// throttles the event translator when one destination falls behind, per
// the concurrency model's channel-full policy.
type Dispatcher struct {
	channels []chan<- item.Item
}

// New returns a Dispatcher fanning out to the given channels, constructed
// once at supervisor startup and never mutated afterward.
func New(channels []chan<- item.Item) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Run reads from in until it closes or ctx is cancelled, pushing each item
// to every channel in order.
func (d *Dispatcher) Run(ctx context.Context, in <-chan item.Item) {
	for {
		select {
		case <-ctx.Done():
			return
		case it, ok := <-in:
			if !ok {
				return
			}
			for _, ch := range d.channels {
				select {
				case ch <- it:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
