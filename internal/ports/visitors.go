package ports

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrCookiesNotFound is returned by CookieStore.Load when nothing is stored.
var ErrCookiesNotFound = errors.New("visitor cookies not found")

// CookieStore persists the backend cookies of a visitor so a UI restart does
// not log everyone out. Only name and value are meaningful on reload.
type CookieStore interface {
	Save(ctx context.Context, visitorID string, cookies []*http.Cookie, ttl time.Duration) error
	Load(ctx context.Context, visitorID string) ([]*http.Cookie, error)
	Delete(ctx context.Context, visitorID string) error
}
