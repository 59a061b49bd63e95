// Package lifecycle exposes table change events as a lifecycle.Source, so a
// record watcher can run beside other lifecycle-managed event sources.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/tablet/pkg/core"
)

type recordSource struct {
	events <-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource re-emits record change events from a table watch. When types is
// non-empty only those event types are forwarded; NewSource(events,
// core.EventDelete) reports deletions only.
//
// The output closes when the input closes or the context passed to Start is done.
func NewSource(events <-chan core.Event, types ...core.EventType) lifecycle.Source {
	return &recordSource{
		events: events,
		types:  types,
		out:    make(chan lifecycle.Event),
	}
}

func (s *recordSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *recordSource) wants(e core.Event) bool {
	return len(s.types) == 0 || slices.Contains(s.types, e.Type)
}

func (s *recordSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			select {
			case <-ctx.Done():
				return nil
			case next, ok := <-s.events:
				if !ok {
					return nil
				}
				e = next
			}

			if !s.wants(e) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
