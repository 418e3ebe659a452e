package practice

import (
	"context"
	"sync"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/problemgen"
)

// Result is the outcome of one load request.
type Result struct {
	Token   uint64
	Problem entity.MathProblem
	Err     error

	// Prefetched is true when the problem came from the prefetch slot.
	Prefetched bool
}

// Request is a pending load. Run performs it and blocks until the problem
// is generated or the request is superseded.
type Request struct {
	Token uint64
	run   func() Result
}

func (r Request) Run() Result { return r.run() }

type prefetched struct {
	topic      string
	difficulty entity.Difficulty
	problem    entity.MathProblem
}

// Loader hands out problems for the practice screen. Each Next call gets
// a new token and cancels the request before it; results carrying an old
// token must be discarded with Current. One problem may be prefetched
// ahead and is used when its topic and difficulty still match.
type Loader struct {
	gen problemgen.Generator
	log *logging.Logger

	mu          sync.Mutex
	token       uint64
	cancel      context.CancelFunc
	next        *prefetched
	prefetching bool
}

// NewLoader creates a loader over gen. A nil logger discards output.
func NewLoader(gen problemgen.Generator, log *logging.Logger) *Loader {
	return &Loader{
		gen: gen,
		log: logging.OrNop(log).With("component", "practice"),
	}
}

// Next starts a request for topic at difficulty, superseding any request
// in flight.
func (l *Loader) Next(ctx context.Context, topic string, difficulty entity.Difficulty) Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.token++
	token := l.token
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if n := l.next; n != nil {
		l.next = nil
		if n.topic == topic && n.difficulty == difficulty {
			return Request{Token: token, run: func() Result {
				return Result{Token: token, Problem: n.problem, Prefetched: true}
			}}
		}
		l.log.Debug("dropping stale prefetch", "topic", n.topic, "difficulty", int(n.difficulty))
	}

	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	return Request{Token: token, run: func() Result {
		p, err := l.gen.Generate(reqCtx, topic, difficulty)
		return Result{Token: token, Problem: p, Err: err}
	}}
}

// Current reports whether token belongs to the latest request.
func (l *Loader) Current(token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return token == l.token
}

// Accept reports whether r should be shown, i.e. it carries the latest
// token.
func (l *Loader) Accept(r Result) bool {
	if !l.Current(r.Token) {
		l.log.Debug("discarding stale result", "token", r.Token)
		return false
	}
	return true
}

// Prefetch generates one problem ahead for topic at difficulty. It is a
// no-op while another prefetch runs or a matching one is already stored.
// Failures are logged and otherwise ignored. Prefetch blocks; callers run
// it in the background.
func (l *Loader) Prefetch(ctx context.Context, topic string, difficulty entity.Difficulty) {
	l.mu.Lock()
	if l.prefetching || (l.next != nil && l.next.topic == topic && l.next.difficulty == difficulty) {
		l.mu.Unlock()
		return
	}
	l.prefetching = true
	l.mu.Unlock()

	p, err := l.gen.Generate(ctx, topic, difficulty)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefetching = false
	if err != nil {
		l.log.Debug("prefetch failed", "topic", topic, "error", err)
		return
	}
	l.next = &prefetched{topic: topic, difficulty: difficulty, problem: p}
}

// Cancel aborts the request in flight, if any, and invalidates its token.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
