package redirect

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atinyakov/neoqrc/internal/shortcode"
)

// State is a step of the redirect countdown.
type State int

const (
	StateResolving State = iota
	StateCountingDown
	StateNavigated
	StateNotFound
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateCountingDown:
		return "counting_down"
	case StateNavigated:
		return "navigated"
	case StateNotFound:
		return "not_found"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s != StateResolving && s != StateCountingDown
}

const (
	DefaultCountdown = 3
	DefaultTick      = time.Second
)

var ErrAlreadyStarted = errors.New("session already started")

// Navigator performs the hard navigation to a destination.
type Navigator interface {
	Navigate(url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

func (f NavigatorFunc) Navigate(url string) error { return f(url) }

// StateHook observes every state change and countdown tick. It runs with the
// session lock held and must not call back into the Session.
type StateHook func(state State, remaining int)

type Option func(*Session)

// WithCountdown sets the countdown length and the tick interval.
func WithCountdown(seconds int, tick time.Duration) Option {
	return func(s *Session) {
		s.seconds = seconds
		if tick > 0 {
			s.tick = tick
		}
	}
}

// WithDevice sets the device class reported with the scan.
func WithDevice(device string) Option {
	return func(s *Session) {
		s.device = device
	}
}

func WithStateHook(hook StateHook) Option {
	return func(s *Session) {
		s.hook = hook
	}
}

// Session drives one redirect: resolve the code, count down, navigate.
// Navigation happens at most once and never after Close returns.
type Session struct {
	lookup    Lookup
	navigator Navigator
	seconds   int
	tick      time.Duration
	device    string
	hook      StateHook

	mu        sync.Mutex
	started   bool
	state     State
	remaining int
	target    *Target
	err       error
	done      chan struct{}
}

func NewSession(lookup Lookup, navigator Navigator, opts ...Option) *Session {
	s := &Session{
		lookup:    lookup,
		navigator: navigator,
		seconds:   DefaultCountdown,
		tick:      DefaultTick,
		state:     StateResolving,
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start resolves the code carried by path and begins the countdown. It
// returns the resolution error, if any; the session is then terminal.
// Cancelling ctx during the countdown closes the session.
func (s *Session) Start(ctx context.Context, path string) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.notifyLocked()
	s.mu.Unlock()

	code := shortcode.ExtractCode(path)
	if code == "" {
		s.fail(StateFailed, ErrMissingCode)
		return ErrMissingCode
	}

	// Unknown, inactive and unreachable codes all read as not found; Err
	// keeps the cause.
	target, err := s.lookup.Resolve(ctx, code, s.device)
	if err != nil {
		s.fail(StateNotFound, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResolving {
		return nil
	}

	s.target = target
	s.remaining = s.seconds
	s.state = StateCountingDown
	s.notifyLocked()

	if s.remaining <= 0 {
		s.navigateLocked()
		return nil
	}

	go s.countdown(ctx)
	return nil
}

func (s *Session) countdown(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != StateCountingDown {
				s.mu.Unlock()
				return
			}

			s.remaining--
			if s.remaining <= 0 {
				s.navigateLocked()
				s.mu.Unlock()
				return
			}
			s.notifyLocked()
			s.mu.Unlock()
		}
	}
}

// NavigateNow skips the rest of the countdown. It reports whether the
// session navigated.
func (s *Session) NavigateNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCountingDown {
		return false
	}

	s.navigateLocked()
	return s.state == StateNavigated
}

// Close stops the countdown. No navigation happens after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}

	s.state = StateClosed
	s.notifyLocked()
	s.finishLocked()
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) Target() *Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) fail(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResolving {
		return
	}

	s.state = state
	s.err = err
	s.notifyLocked()
	s.finishLocked()
}

func (s *Session) navigateLocked() {
	s.remaining = 0
	if err := s.navigator.Navigate(s.target.DestinationURL); err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateNavigated
	}
	s.notifyLocked()
	s.finishLocked()
}

func (s *Session) notifyLocked() {
	if s.hook != nil {
		s.hook(s.state, s.remaining)
	}
}

func (s *Session) finishLocked() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
