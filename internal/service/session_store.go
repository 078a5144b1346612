package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/observability/metrics"
	"github.com/target/banksim-ui/internal/observability/statsd"
	"github.com/target/banksim-ui/internal/ports"
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	API     ports.BankingAPI // Required: backend bound to this visitor's cookies
	Logger  *slog.Logger     // Optional: structured logger
	Metrics statsd.Sink      // Optional: metrics sink
	// OnAuthChange runs after every call that may have changed backend cookies.
	OnAuthChange func(ctx context.Context)
	// ClearCredentials drops the visitor's backend cookies when the backend
	// could not end the session itself.
	ClearCredentials func()
}

// SessionStore is the single source of truth for one visitor's identity. It
// caches the last answer from the backend and never asserts authentication on
// its own. It starts in the loading state until Initialize settles.
type SessionStore struct {
	api          ports.BankingAPI
	logger       *slog.Logger
	metrics      statsd.Sink
	onAuthChange func(ctx context.Context)
	clearCreds   func()

	initOnce sync.Once
	settled  chan struct{}

	mu       sync.RWMutex
	identity *domainauth.Identity
	loading  bool
	// generation increments on every explicit identity change so a late
	// startup probe cannot overwrite it.
	generation uint64
	subs       map[int]chan domainauth.Session
	nextSub    int
}

// NewSessionStore constructs a SessionStore in the loading state.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	if opts.API == nil {
		panic("SessionStore requires a BankingAPI")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Nop{}
	}
	return &SessionStore{
		api:          opts.API,
		logger:       logger.With("component", "session_store"),
		metrics:      sink,
		onAuthChange: opts.OnAuthChange,
		clearCreds:   opts.ClearCredentials,
		settled:      make(chan struct{}),
		loading:      true,
		subs:         make(map[int]chan domainauth.Session),
	}
}

// Initialize probes the backend for the current identity. Only the first call
// does anything. Any failure resolves to anonymous; it never returns an error.
// The probe runs to completion even if ctx is canceled.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		ctx = context.WithoutCancel(ctx)

		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		identity, err := s.api.WhoAmI(ctx)
		if err != nil {
			s.logger.DebugContext(ctx, "no active backend session", "error", err)
		}
		// Persist before settling so anyone waiting sees a consistent jar.
		s.authChanged(ctx)

		s.mu.Lock()
		if s.generation == gen {
			if err != nil {
				s.identity = nil
			} else {
				s.identity = &identity
			}
		}
		s.settleLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.EmitSessionTransition(s.metrics, "initialize", result)
		s.publish(snap)
	})
}

// Snapshot returns the current state.
func (s *SessionStore) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Wait blocks until the startup probe has settled or ctx is done, and returns
// the state at that point. A still-loading snapshot means ctx ended first.
func (s *SessionStore) Wait(ctx context.Context) domainauth.Session {
	select {
	case <-s.settled:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

// Settled is closed once the store has left the loading state.
func (s *SessionStore) Settled() <-chan struct{} { return s.settled }

// Login authenticates against the backend. On failure the error is returned
// unmodified and the current state is untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) (domainauth.Identity, error) {
	ctx = context.WithoutCancel(ctx)
	identity, err := s.api.Login(ctx, email, password)
	if err != nil {
		metrics.EmitSessionTransition(s.metrics, "login", metrics.ResultError)
		return domainauth.Identity{}, err
	}
	s.setIdentity(&identity)
	metrics.EmitSessionTransition(s.metrics, "login", metrics.ResultSuccess)
	s.authChanged(ctx)
	return identity, nil
}

// Signup registers a new customer and signs them in.
func (s *SessionStore) Signup(ctx context.Context, profile banking.SignupProfile) (domainauth.Identity, error) {
	ctx = context.WithoutCancel(ctx)
	identity, err := s.api.Signup(ctx, profile)
	if err != nil {
		metrics.EmitSessionTransition(s.metrics, "signup", metrics.ResultError)
		return domainauth.Identity{}, err
	}
	s.setIdentity(&identity)
	metrics.EmitSessionTransition(s.metrics, "signup", metrics.ResultSuccess)
	s.authChanged(ctx)
	return identity, nil
}

// Logout ends the backend session. The local identity is cleared whatever the
// backend answers; the backend error is logged and returned for reporting only.
// When the backend call fails the visitor's cookies are dropped too, so a later
// probe cannot resume the session.
func (s *SessionStore) Logout(ctx context.Context) (err error) {
	ctx = context.WithoutCancel(ctx)
	defer func() {
		s.setIdentity(nil)
		s.authChanged(ctx)
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.EmitSessionTransition(s.metrics, "logout", result)
	}()

	if err = s.api.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "backend logout failed, clearing local session anyway", "error", err)
		if s.clearCreds != nil {
			s.clearCreds()
		}
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ErrNoIdentity is returned by UpdateIdentity when nobody is signed in.
var ErrNoIdentity = errors.New("no identity to update")

// UpdateIdentity merges patch into the cached identity without a backend call.
// Use it only after the backend has confirmed the change. The result may be
// stale until the next login or visitor restart.
func (s *SessionStore) UpdateIdentity(patch domainauth.IdentityPatch) (domainauth.Identity, error) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return domainauth.Identity{}, ErrNoIdentity
	}
	merged := patch.Merge(*s.identity)
	s.identity = &merged
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return merged, nil
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only ever see the most recent value. Call cancel to stop.
func (s *SessionStore) Subscribe() (<-chan domainauth.Session, func()) {
	ch := make(chan domainauth.Session, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *SessionStore) setIdentity(identity *domainauth.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.generation++
	s.settleLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// settleLocked leaves the loading state exactly once.
func (s *SessionStore) settleLocked() {
	if !s.loading {
		return
	}
	s.loading = false
	close(s.settled)
}

func (s *SessionStore) snapshotLocked() domainauth.Session {
	snap := domainauth.Session{Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

func (s *SessionStore) publish(snap domainauth.Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale value.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *SessionStore) authChanged(ctx context.Context) {
	if s.onAuthChange != nil {
		s.onAuthChange(ctx)
	}
}
