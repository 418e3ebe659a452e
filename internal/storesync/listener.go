// Package storesync applies changes made by other contexts to the local
// controller.
package storesync

import (
	"context"
	"fmt"

	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/store"
)

// Applier replaces one entity with the store's current value. An empty key
// means the whole store was cleared.
type Applier interface {
	ApplyExternal(ctx context.Context, key string) error
}

// Listener forwards store change notifications to an Applier.
type Listener struct {
	store   store.Store
	applier Applier
	log     *logging.Logger

	// applied is called after each change has been applied. Tests use it.
	applied func(store.Change)
}

// New creates a listener. A nil logger discards output.
func New(st store.Store, a Applier, log *logging.Logger) *Listener {
	return &Listener{
		store:   st,
		applier: a,
		log:     logging.OrNop(log).With("component", "storesync"),
	}
}

// OnApplied registers fn to run after each applied change.
func (l *Listener) OnApplied(fn func(store.Change)) {
	l.applied = fn
}

// Start subscribes to the store and applies changes in a goroutine until
// ctx is done. The returned channel is closed when the goroutine exits.
// Apply failures are logged and do not stop the listener.
func (l *Listener) Start(ctx context.Context) (<-chan struct{}, error) {
	changes, err := l.store.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch store: %w", err)
	}
	l.log.Debug("listening for external changes", "origin", l.store.Origin())

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.loop(ctx, changes)
	}()
	return done, nil
}

// Run is Start followed by waiting for the listener to stop.
func (l *Listener) Run(ctx context.Context) error {
	done, err := l.Start(ctx)
	if err != nil {
		return err
	}
	<-done
	return nil
}

func (l *Listener) loop(ctx context.Context, changes <-chan store.Change) {
	for c := range changes {
		if err := l.applier.ApplyExternal(ctx, c.Key); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("apply external change", "key", c.Key, "origin", c.Origin, "error", err)
			continue
		}
		l.log.Debug("applied external change", "key", c.Key, "origin", c.Origin, "revision", c.Revision)
		if l.applied != nil {
			l.applied(c)
		}
	}
}
