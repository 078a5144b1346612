package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/target/banksim-ui/internal/observability/statsd"
	"github.com/target/banksim-ui/internal/ports"
)

// Visitor is one browser's view of the bank: its own backend client (and so
// its own cookie jar) and its own SessionStore.
type Visitor struct {
	ID      string
	API     ports.VisitorClient
	Session *SessionStore

	lastSeen atomic.Int64
}

// LastSeen reports when the visitor last made a request.
func (v *Visitor) LastSeen() time.Time {
	return time.Unix(0, v.lastSeen.Load())
}

func (v *Visitor) touch(now time.Time) {
	v.lastSeen.Store(now.UnixNano())
}

// ClientFactory builds a backend client with an empty cookie jar.
type ClientFactory func() (ports.VisitorClient, error)

// VisitorRegistryOptions groups dependencies for VisitorRegistry.
type VisitorRegistryOptions struct {
	NewClient ClientFactory     // Required
	Cookies   ports.CookieStore // Optional: backend cookies are not persisted when nil
	CookieTTL time.Duration     // Lifetime of persisted cookies
	Logger    *slog.Logger      // Optional
	Metrics   statsd.Sink       // Optional
	Now       func() time.Time  // Optional: clock override for tests
}

// VisitorRegistry holds the live visitors of this process.
type VisitorRegistry struct {
	newClient ClientFactory
	cookies   ports.CookieStore
	cookieTTL time.Duration
	logger    *slog.Logger
	metrics   statsd.Sink
	now       func() time.Time

	mu       sync.RWMutex
	visitors map[string]*Visitor
	creating singleflight.Group
}

// NewVisitorRegistry constructs a VisitorRegistry.
func NewVisitorRegistry(opts VisitorRegistryOptions) (*VisitorRegistry, error) {
	if opts.NewClient == nil {
		return nil, errors.New("ClientFactory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Nop{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &VisitorRegistry{
		newClient: opts.NewClient,
		cookies:   opts.Cookies,
		cookieTTL: opts.CookieTTL,
		logger:    logger.With("component", "visitors"),
		metrics:   sink,
		now:       now,
		visitors:  make(map[string]*Visitor),
	}, nil
}

// NewID returns a fresh visitor ID.
func (r *VisitorRegistry) NewID() string {
	return uuid.NewString()
}

// Get returns the visitor for id, creating it when it is not live. A new
// visitor gets any persisted backend cookies back and starts its identity
// probe in the background; callers use Session.Wait to observe the result.
func (r *VisitorRegistry) Get(ctx context.Context, id string) (*Visitor, error) {
	if v := r.lookup(id); v != nil {
		v.touch(r.now())
		return v, nil
	}

	res, err, _ := r.creating.Do(id, func() (any, error) {
		if v := r.lookup(id); v != nil {
			return v, nil
		}
		return r.create(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	v := res.(*Visitor)
	v.touch(r.now())
	return v, nil
}

// Lookup returns the live visitor for id without creating one.
func (r *VisitorRegistry) Lookup(id string) (*Visitor, bool) {
	v := r.lookup(id)
	return v, v != nil
}

func (r *VisitorRegistry) lookup(id string) *Visitor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visitors[id]
}

func (r *VisitorRegistry) create(ctx context.Context, id string) (*Visitor, error) {
	client, err := r.newClient()
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	r.restore(ctx, id, client)

	v := &Visitor{ID: id, API: client}
	v.Session = NewSessionStore(SessionStoreOptions{
		API:     client,
		Logger:  r.logger.With("visitor_id", id),
		Metrics: r.metrics,
		OnAuthChange: func(ctx context.Context) {
			r.persist(ctx, id, client)
		},
		ClearCredentials: client.ClearCookies,
	})
	v.touch(r.now())

	r.mu.Lock()
	r.visitors[id] = v
	r.mu.Unlock()

	go v.Session.Initialize(ctx)
	return v, nil
}

func (r *VisitorRegistry) restore(ctx context.Context, id string, client ports.VisitorClient) {
	if r.cookies == nil {
		return
	}
	cookies, err := r.cookies.Load(ctx, id)
	switch {
	case errors.Is(err, ports.ErrCookiesNotFound):
		return
	case err != nil:
		r.logger.WarnContext(ctx, "failed to load visitor cookies", "visitor_id", id, "error", err)
		return
	}
	client.RestoreCookies(cookies)
}

func (r *VisitorRegistry) persist(ctx context.Context, id string, client ports.VisitorClient) {
	if r.cookies == nil {
		return
	}
	cookies := client.Cookies()
	var err error
	if len(cookies) == 0 {
		err = r.cookies.Delete(ctx, id)
	} else {
		err = r.cookies.Save(ctx, id, cookies, r.cookieTTL)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "failed to persist visitor cookies", "visitor_id", id, "error", err)
	}
}

// Evict drops visitors idle for longer than idle and returns how many went.
// Persisted cookies are left to expire on their own.
func (r *VisitorRegistry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.visitors {
		if v.LastSeen().Before(cutoff) {
			delete(r.visitors, id)
			n++
		}
	}
	return n
}

// Len returns the number of live visitors.
func (r *VisitorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visitors)
}
