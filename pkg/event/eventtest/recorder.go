// Package eventtest provides an in-memory event.Publisher for tests.
package eventtest

import (
	"context"

	"hotel-reservation/pkg/event"
)

// Recorder keeps published events in a buffered channel.
type Recorder struct {
	ch chan event.Event
}

var _ event.Publisher = (*Recorder)(nil)

func NewRecorder(size int) *Recorder {
	return &Recorder{ch: make(chan event.Event, size)}
}

func (r *Recorder) Publish(ctx context.Context, events ...event.Event) error {
	for _, e := range events {
		select {
		case r.ch <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events drains what has been published so far without blocking.
func (r *Recorder) Events() []event.Event {
	var out []event.Event
	for {
		select {
		case e := <-r.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}
