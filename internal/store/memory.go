package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Medium is an in-process key/value space shared by any number of
// MemoryStore handles. Each handle plays the role of one context.
type Medium struct {
	mu   sync.Mutex
	data map[string]string
	rev  int64
	subs map[*memorySub]struct{}
}

type memorySub struct {
	origin string
	ch     chan Change
	done   <-chan struct{}

	// overflow is set when a change did not fit in ch. The watcher then
	// receives one resync change in place of everything it missed.
	overflow atomic.Bool
	wake     chan struct{}
}

// watchBuffer is the per-watcher change buffer on a Medium.
var watchBuffer = 256

// NewMedium creates an empty shared medium.
func NewMedium() *Medium {
	return &Medium{
		data: make(map[string]string),
		subs: make(map[*memorySub]struct{}),
	}
}

// Open returns a new handle with its own origin.
func (m *Medium) Open() *MemoryStore {
	return &MemoryStore{medium: m, origin: uuid.NewString()}
}

func (m *Medium) publish(c Change) {
	m.mu.Lock()
	targets := make([]*memorySub, 0, len(m.subs))
	for sub := range m.subs {
		if sub.origin != c.Origin {
			targets = append(targets, sub)
		}
	}
	m.mu.Unlock()

	// Writers may hold locks of their own; never wait on a slow watcher.
	for _, sub := range targets {
		select {
		case sub.ch <- c:
		default:
			sub.overflow.Store(true)
			select {
			case sub.wake <- struct{}{}:
			default:
			}
		}
	}
}

func drain(ch <-chan Change) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// MemoryStore is a Store handle on a Medium.
type MemoryStore struct {
	medium *Medium
	origin string

	mu     sync.Mutex
	closed bool
}

func (s *MemoryStore) Origin() string { return s.origin }

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.isClosed() {
		return "", false, ErrClosed
	}
	s.medium.mu.Lock()
	defer s.medium.mu.Unlock()
	v, ok := s.medium.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.medium.mu.Lock()
	s.medium.data[key] = value
	s.medium.rev++
	c := Change{Key: key, Origin: s.origin, Revision: s.medium.rev}
	s.medium.mu.Unlock()

	s.medium.publish(c)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.medium.mu.Lock()
	s.medium.data = make(map[string]string)
	s.medium.rev++
	c := Change{Origin: s.origin, Revision: s.medium.rev}
	s.medium.mu.Unlock()

	s.medium.publish(c)
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	sub := &memorySub{
		origin: s.origin,
		ch:     make(chan Change, watchBuffer),
		done:   ctx.Done(),
		wake:   make(chan struct{}, 1),
	}
	s.medium.mu.Lock()
	s.medium.subs[sub] = struct{}{}
	s.medium.mu.Unlock()

	out := make(chan Change, watchBuffer)
	go func() {
		defer close(out)
		defer func() {
			s.medium.mu.Lock()
			delete(s.medium.subs, sub)
			s.medium.mu.Unlock()
		}()
		for {
			var c Change
			select {
			case <-ctx.Done():
				return
			case c = <-sub.ch:
			case <-sub.wake:
				if !sub.overflow.Swap(false) {
					continue
				}
				// Buffered changes are stale next to a full re-read.
				drain(sub.ch)
				c = Change{}
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
