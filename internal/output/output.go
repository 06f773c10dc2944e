package output

import (
	"context"

	"github.com/crimson-sun/winnow/internal/model"
)

// Output defines the interface for session event destinations.
type Output interface {
	Write(ctx context.Context, event model.SessionEvent) error
	Close() error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Write(context.Context, model.SessionEvent) error { return nil }
func (Discard) Close() error                                     { return nil }
