package config

import (
	"strings"
	"time"
)

// VisitorStoreKind selects where backend cookie jars are persisted between UI restarts.
type VisitorStoreKind string

const (
	// VisitorStoreMemory keeps jars in process memory only.
	VisitorStoreMemory VisitorStoreKind = "memory"
	// VisitorStoreRedis persists jars to Redis with a TTL.
	VisitorStoreRedis VisitorStoreKind = "redis"
)

// VisitorConfig controls per-browser visitor sessions held by the UI server.
type VisitorConfig struct {
	// Store selects jar persistence: memory or redis.
	Store VisitorStoreKind `env:"VISITOR_STORE" envDefault:"memory"`

	// CookieName is the name of the UI cookie identifying a visitor.
	CookieName string `env:"VISITOR_COOKIE_NAME" envDefault:"banksim_visitor"`

	// CookieTTL bounds both the visitor cookie and the persisted jar.
	CookieTTL time.Duration `env:"VISITOR_COOKIE_TTL" envDefault:"12h"`

	// IdleTTL is how long an unused visitor stays in memory before the reaper evicts it.
	IdleTTL time.Duration `env:"VISITOR_IDLE_TTL" envDefault:"30m"`

	// ReapInterval is the tick of the visitor reaper.
	ReapInterval time.Duration `env:"VISITOR_REAP_INTERVAL" envDefault:"1m"`

	// ProbeWait is how long a page request waits for the startup probe before
	// rendering the loading page instead.
	ProbeWait time.Duration `env:"VISITOR_PROBE_WAIT" envDefault:"1500ms"`

	// SigningKey signs visitor cookies. A random key is generated at startup when empty,
	// which invalidates visitor cookies on every restart.
	SigningKey string `env:"VISITOR_SIGNING_KEY"`
}

// Sanitize applies guardrails to visitor configuration values.
func (v *VisitorConfig) Sanitize() {
	switch VisitorStoreKind(strings.ToLower(strings.TrimSpace(string(v.Store)))) {
	case VisitorStoreRedis:
		v.Store = VisitorStoreRedis
	default:
		v.Store = VisitorStoreMemory
	}
	if v.CookieName = strings.TrimSpace(v.CookieName); v.CookieName == "" {
		v.CookieName = "banksim_visitor"
	}
	if v.CookieTTL < 5*time.Minute {
		v.CookieTTL = 5 * time.Minute
	}
	if v.IdleTTL < time.Minute {
		v.IdleTTL = time.Minute
	}
	if v.ReapInterval < time.Second {
		v.ReapInterval = time.Second
	}
	if v.ProbeWait < 0 {
		v.ProbeWait = 0
	}
	if v.ProbeWait > 10*time.Second {
		v.ProbeWait = 10 * time.Second
	}
	v.SigningKey = strings.TrimSpace(v.SigningKey)
}
