package notify

import (
	"context"
	"errors"

	"loanledger/internal/domain/event"
)

// Fanout publishes to every publisher and joins their errors.
type Fanout []event.Publisher

func (f Fanout) Publish(ctx context.Context, e event.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, event.Event) error { return nil }
