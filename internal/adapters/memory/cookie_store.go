// Package memory provides in-process adapters used when no external store is configured.
package memory

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/target/banksim-ui/internal/ports"
)

type entry struct {
	cookies   []*http.Cookie
	expiresAt time.Time
}

// CookieStore keeps visitor backend cookies in memory. Entries expire lazily on Load.
type CookieStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ ports.CookieStore = (*CookieStore)(nil)

// NewCookieStore creates an empty store. A nil now uses time.Now.
func NewCookieStore(now func() time.Time) *CookieStore {
	if now == nil {
		now = time.Now
	}
	return &CookieStore{entries: make(map[string]entry), now: now}
}

func (s *CookieStore) Save(_ context.Context, visitorID string, cookies []*http.Cookie, ttl time.Duration) error {
	if visitorID == "" {
		return errors.New("visitor ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("cookie ttl must be positive")
	}

	kept := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		kept = append(kept, &http.Cookie{Name: c.Name, Value: c.Value})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(kept) == 0 {
		delete(s.entries, visitorID)
		return nil
	}
	s.entries[visitorID] = entry{cookies: kept, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *CookieStore) Load(_ context.Context, visitorID string) ([]*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[visitorID]
	if !ok {
		return nil, ports.ErrCookiesNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, visitorID)
		return nil, ports.ErrCookiesNotFound
	}
	out := make([]*http.Cookie, len(e.cookies))
	for i, c := range e.cookies {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (s *CookieStore) Delete(_ context.Context, visitorID string) error {
	s.mu.Lock()
	delete(s.entries, visitorID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *CookieStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
