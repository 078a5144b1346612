package redis

// Package redis provides Redis-based adapters for the banksim UI.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/banksim-ui/internal/ports"
)

// DefaultKeyPrefix namespaces visitor cookie keys.
const DefaultKeyPrefix = "banksim:jar:"

// storedCookie is the persisted form of one backend cookie.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CookieStore persists visitor backend cookies in Redis with a TTL.
type CookieStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.CookieStore = (*CookieStore)(nil)

// NewCookieStore creates a Redis cookie store. An empty prefix uses DefaultKeyPrefix.
func NewCookieStore(client redis.UniversalClient, prefix string) *CookieStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CookieStore{client: client, prefix: prefix}
}

// Save replaces the stored cookies for visitorID. Saving an empty set deletes the key.
func (s *CookieStore) Save(ctx context.Context, visitorID string, cookies []*http.Cookie, ttl time.Duration) error {
	if visitorID == "" {
		return errors.New("visitor ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("cookie ttl must be positive")
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	if len(stored) == 0 {
		return s.Delete(ctx, visitorID)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	return s.client.Set(ctx, s.prefix+visitorID, data, ttl).Err()
}

// Load returns the stored cookies or ports.ErrCookiesNotFound.
func (s *CookieStore) Load(ctx context.Context, visitorID string) ([]*http.Cookie, error) {
	if visitorID == "" {
		return nil, ports.ErrCookiesNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+visitorID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrCookiesNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cookies: %w", err)
	}
	out := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out, nil
}

// Delete removes the stored cookies for visitorID.
func (s *CookieStore) Delete(ctx context.Context, visitorID string) error {
	if visitorID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+visitorID).Err()
}
