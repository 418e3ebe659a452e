// Package state owns the application's working set: points, rewards,
// groups, the profile, the mistake notebook, discussions and the public
// registry. Every mutation runs under one lock, updates the in-memory copy
// and writes the affected keys through to the store before returning.
package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/mathquest/internal/codec"
	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/store"
)

// Snapshot is a copy of the working set.
type Snapshot struct {
	Points      int
	Rewards     []entity.Reward
	Groups      []entity.StudyGroup
	Profile     entity.Profile
	Notebook    []entity.MistakeRecord
	Discussions []entity.DiscussionPost
	Registry    []entity.RegistryEntry
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Rewards = slices.Clone(s.Rewards)
	c.Groups = slices.Clone(s.Groups)
	c.Profile = s.Profile.Clone()
	c.Notebook = make([]entity.MistakeRecord, len(s.Notebook))
	for i, r := range s.Notebook {
		c.Notebook[i] = entity.MistakeRecord{Problem: r.Problem.Clone(), AddedAt: r.AddedAt}
	}
	c.Discussions = make([]entity.DiscussionPost, len(s.Discussions))
	for i, p := range s.Discussions {
		p.Problem = p.Problem.Clone()
		p.Comments = slices.Clone(p.Comments)
		c.Discussions[i] = p
	}
	c.Registry = slices.Clone(s.Registry)
	return c
}

// defaultSnapshot is the working set of a fresh install.
func defaultSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Rewards:     []entity.Reward{},
		Groups:      entity.DefaultGroups(),
		Profile:     entity.DefaultProfile(now),
		Notebook:    []entity.MistakeRecord{},
		Discussions: []entity.DiscussionPost{},
		Registry:    []entity.RegistryEntry{},
	}
}

// Event tells observers which keys changed.
type Event struct {
	Keys []string

	// External is set when the change was made by another context.
	External bool

	// NewBadges lists badges unlocked by this change.
	NewBadges []string
}

// Controller is the single writer of the working set for one context.
type Controller struct {
	store store.Store
	now   func() time.Time
	log   *logging.Logger

	mu   sync.Mutex
	data Snapshot

	obsMu     sync.Mutex
	observers map[int]func(Event)
	nextObs   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New loads every entity from st. Unreadable values fall back to their
// defaults and are logged. A profile that was migrated or rolled over to a
// new day is written back immediately.
func New(ctx context.Context, st store.Store, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:     st,
		now:       time.Now,
		log:       logging.Nop(),
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "state")

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = defaultSnapshot(c.now())
	for _, key := range codec.Keys {
		dirty, err := c.loadKey(ctx, key, &c.data, true)
		if err != nil {
			return nil, err
		}
		if dirty {
			if err := c.writeKey(ctx, key, c.data); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// loadKey reads one key into d. With useDefaults, a malformed value is
// replaced by its default; otherwise d is left untouched. It reports whether
// the decoded value should be written back.
func (c *Controller) loadKey(ctx context.Context, key string, d *Snapshot, useDefaults bool) (bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	var (
		derr  error
		dirty bool
		apply func()
	)
	switch key {
	case codec.KeyPoints:
		v, err := codec.DecodePoints(raw, ok)
		derr, apply = err, func() { d.Points = v }
	case codec.KeyRewards:
		v, err := codec.DecodeRewards(raw, ok)
		derr, apply = err, func() { d.Rewards = v }
	case codec.KeyGroups:
		v, err := codec.DecodeGroups(raw, ok)
		derr, apply = err, func() { d.Groups = v }
	case codec.KeyProfile:
		v, changed, err := codec.DecodeProfile(raw, ok, c.now())
		dirty = changed
		derr, apply = err, func() { d.Profile = v }
	case codec.KeyNotebook:
		v, err := codec.DecodeNotebook(raw, ok)
		derr, apply = err, func() { d.Notebook = v }
	case codec.KeyDiscussion:
		v, err := codec.DecodeDiscussions(raw, ok)
		derr, apply = err, func() { d.Discussions = v }
	case codec.KeyRegistry:
		v, err := codec.DecodeRegistry(raw, ok)
		derr, apply = err, func() { d.Registry = v }
	default:
		return false, nil
	}

	if derr != nil {
		c.log.Warn("stored value unreadable", "key", key, "error", derr)
		if !useDefaults {
			return false, nil
		}
	}
	apply()
	return dirty, nil
}

// encodeKey renders one entity of d.
func encodeKey(key string, d Snapshot) (string, error) {
	switch key {
	case codec.KeyPoints:
		return codec.EncodePoints(d.Points), nil
	case codec.KeyRewards:
		return codec.EncodeRewards(d.Rewards)
	case codec.KeyGroups:
		return codec.EncodeGroups(d.Groups)
	case codec.KeyProfile:
		return codec.EncodeProfile(d.Profile)
	case codec.KeyNotebook:
		return codec.EncodeNotebook(d.Notebook)
	case codec.KeyDiscussion:
		return codec.EncodeDiscussions(d.Discussions)
	case codec.KeyRegistry:
		return codec.EncodeRegistry(d.Registry)
	default:
		return "", fmt.Errorf("unknown key %q", key)
	}
}

func (c *Controller) writeKey(ctx context.Context, key string, d Snapshot) error {
	v, err := encodeKey(key, d)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, v); err != nil {
		return &PersistError{Key: key, Err: err}
	}
	return nil
}

// mutate applies fn to a copy of the working set, re-evaluates achievements
// and the registry when the profile changed, writes every changed key and
// only then installs the copy. If a write fails, keys already written are
// restored on a best-effort basis and the working set is left unchanged.
func (c *Controller) mutate(ctx context.Context, fn func(d *Snapshot, now time.Time) error) ([]string, error) {
	c.mu.Lock()

	now := c.now()
	next := c.data.Clone()
	if err := fn(&next, now); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	var badges []string
	if profileChanged(c.data, next) {
		badges = progress.Evaluate(&next.Profile)
		upsertRegistry(&next, now)
	}

	changed, err := c.persist(ctx, c.data, next)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.data = next
	c.mu.Unlock()

	if len(changed) > 0 {
		c.notify(Event{Keys: changed, NewBadges: badges})
	}
	return badges, nil
}

func profileChanged(prev, next Snapshot) bool {
	a, errA := codec.EncodeProfile(prev.Profile)
	b, errB := codec.EncodeProfile(next.Profile)
	return errA != nil || errB != nil || a != b
}

// persist writes the keys whose encoding differs between prev and next.
func (c *Controller) persist(ctx context.Context, prev, next Snapshot) ([]string, error) {
	var written []string
	for _, key := range codec.Keys {
		before, err := encodeKey(key, prev)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		after, err := encodeKey(key, next)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if before == after {
			continue
		}
		if err := c.store.Set(ctx, key, after); err != nil {
			c.restore(ctx, written, prev)
			return nil, &PersistError{Key: key, Err: err}
		}
		written = append(written, key)
	}
	return written, nil
}

func (c *Controller) restore(ctx context.Context, keys []string, prev Snapshot) {
	for _, key := range keys {
		if err := c.writeKey(ctx, key, prev); err != nil {
			c.log.Error("restore after failed write", "key", key, "error", err)
		}
	}
}

// upsertRegistry mirrors a named profile into the public registry.
func upsertRegistry(d *Snapshot, now time.Time) {
	p := d.Profile
	if p.Name == "" {
		return
	}
	entry := entity.RegistryEntry{
		Name:       p.Name,
		Group:      p.Group,
		Avatar:     p.Avatar,
		Correct:    p.CorrectAnswers,
		Total:      p.TotalAttempts,
		LastActive: entity.Millis(now),
	}
	for i := range d.Registry {
		if d.Registry[i].Name == p.Name {
			d.Registry[i] = entry
			return
		}
	}
	d.Registry = append(d.Registry, entry)
}

// Snapshot returns a copy of the current working set.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Profile returns a copy of the profile.
func (c *Controller) Profile() entity.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Profile.Clone()
}

// Points returns the current balance.
func (c *Controller) Points() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Points
}

// Subscribe registers fn to be called after every change, local or
// external. fn runs on the goroutine that made the change and must not call
// back into mutating methods synchronously. The returned func unregisters.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Controller) notify(ev Event) {
	c.obsMu.Lock()
	fns := make([]func(Event), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// ApplyExternal replaces the entity stored under key with the store's
// current value. It is called for changes made by other contexts. A
// malformed value is logged and ignored. An empty key reloads everything,
// falling back to defaults for missing keys, as after a clear.
func (c *Controller) ApplyExternal(ctx context.Context, key string) error {
	c.mu.Lock()

	keys := []string{key}
	cleared := key == ""
	if cleared {
		keys = codec.Keys
	}
	next := c.data.Clone()
	if cleared {
		next = defaultSnapshot(c.now())
	}
	for _, k := range keys {
		if _, err := c.loadKey(ctx, k, &next, cleared); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.data = next
	c.mu.Unlock()

	c.notify(Event{Keys: keys, External: true})
	return nil
}
