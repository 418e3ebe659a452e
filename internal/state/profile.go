package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathquest/internal/codec"
)

// ProfileUpdate carries the editable identity fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name        *string
	Description *string
	Avatar      *string
}

// UpdateProfile edits the profile identity. Nil fields resolve against the
// profile current at the time of the write.
func (c *Controller) UpdateProfile(ctx context.Context, u ProfileUpdate) error {
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		in := profileInput{Name: d.Profile.Name, Description: d.Profile.Description, Avatar: d.Profile.Avatar}
		if u.Name != nil {
			in.Name = strings.TrimSpace(*u.Name)
		}
		if u.Description != nil {
			in.Description = strings.TrimSpace(*u.Description)
		}
		if u.Avatar != nil {
			in.Avatar = *u.Avatar
		}
		if err := validate(in); err != nil {
			return err
		}
		d.Profile.Name = in.Name
		d.Profile.Description = in.Description
		d.Profile.Avatar = in.Avatar
		return nil
	})
	return err
}

// ResetAllData clears the store and starts over from defaults, including
// the seeded groups. The defaults are written back so other contexts see
// the seeded state.
func (c *Controller) ResetAllData(ctx context.Context) error {
	c.mu.Lock()
	if err := c.store.Clear(ctx); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("clear store: %w", err)
	}
	fresh := defaultSnapshot(c.now())
	for _, key := range codec.Keys {
		if err := c.writeKey(ctx, key, fresh); err != nil {
			c.data = fresh
			c.mu.Unlock()
			return err
		}
	}
	c.data = fresh
	c.mu.Unlock()

	c.notify(Event{Keys: codec.Keys})
	return nil
}
