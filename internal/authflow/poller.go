package authflow

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/schoolwave/schoolwave-go/internal/platform"
)

// DefaultPollInterval is how often the window location is inspected.
const DefaultPollInterval = 500 * time.Millisecond

var (
	// ErrAbandoned indicates the user closed the window before a code
	// appeared. Callers treat this silently; it is an expected outcome.
	ErrAbandoned = errors.New("auth window closed before a code was returned")

	// ErrPollCanceled indicates the poll was canceled by its owner,
	// typically because the hosting flow was torn down.
	ErrPollCanceled = errors.New("auth code poll canceled")
)

// PollState is the poll's position in its lifecycle.
type PollState int32

const (
	StateWaiting PollState = iota
	StateFound
	StateAbandoned
	StateCanceled
)

// CodePoll watches an auth window for the redirect carrying the
// authorization code. It owns the window for its lifetime: on a
// successful extraction it closes the window itself; if the user closes
// the window first the poll terminates silently. Both terminal paths
// stop the ticker exactly once.
type CodePoll struct {
	win      platform.Window
	interval time.Duration

	mu    sync.Mutex
	state PollState
	code  string

	once       sync.Once
	cancelOnce sync.Once
	done       chan struct{}
	cancel     chan struct{}
}

// PollOption configures a CodePoll.
type PollOption func(*CodePoll)

// WithPollInterval overrides the inspection cadence.
func WithPollInterval(d time.Duration) PollOption {
	return func(p *CodePoll) {
		if d > 0 {
			p.interval = d
		}
	}
}

// StartCodePoll arms a poll against the window and begins ticking.
func StartCodePoll(win platform.Window, opts ...PollOption) *CodePoll {
	p := &CodePoll{
		win:      win,
		interval: DefaultPollInterval,
		done:     make(chan struct{}),
		cancel:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.run()
	return p
}

func (p *CodePoll) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.cancel:
			p.finish(StateCanceled, "")
			return
		case <-ticker.C:
			if p.tick() {
				return
			}
		}
	}
}

// tick inspects the window once. It reports true when the poll reached a
// terminal state and the loop must stop.
func (p *CodePoll) tick() bool {
	if p.win.Closed() {
		p.finish(StateAbandoned, "")
		return true
	}

	loc, err := p.win.Location()
	if err != nil {
		// Cross-origin reads fail while the window is still on the
		// provider's domain. Not yet, not an error.
		if errors.Is(err, platform.ErrWindowClosed) {
			p.finish(StateAbandoned, "")
			return true
		}
		return false
	}

	code, ok := extractCode(loc)
	if !ok {
		return false
	}

	// Stop before anything asynchronous happens so a second queued
	// tick can never deliver the same code twice.
	p.win.Close()
	p.finish(StateFound, code)
	return true
}

func (p *CodePoll) finish(state PollState, code string) {
	p.once.Do(func() {
		p.mu.Lock()
		p.state = state
		p.code = code
		p.mu.Unlock()
		close(p.done)
	})
}

// Wait blocks until the poll reaches a terminal state and returns the
// extracted code. Abandonment and cancellation surface as ErrAbandoned
// and ErrPollCanceled respectively.
func (p *CodePoll) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		p.Cancel()
		return "", ctx.Err()
	case <-p.done:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateFound:
		return p.code, nil
	case StateAbandoned:
		return "", ErrAbandoned
	default:
		return "", ErrPollCanceled
	}
}

// Cancel stops the poll with no further side effects. Safe to call on
// any path, any number of times, including after the poll completed.
func (p *CodePoll) Cancel() {
	p.cancelOnce.Do(func() {
		close(p.cancel)
	})
}

// State returns the poll's current state.
func (p *CodePoll) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// extractCode pulls the code query parameter out of a redirect URL.
func extractCode(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", false
	}
	return code, true
}
