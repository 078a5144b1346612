package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/target/banksim-ui/config"
	"github.com/target/banksim-ui/internal/observability/metrics"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

// VisitorReaperOptions groups dependencies for VisitorReaper.
type VisitorReaperOptions struct {
	Registry *VisitorRegistry     // Required
	Config   config.VisitorConfig // Required: IdleTTL and ReapInterval
	Logger   *slog.Logger         // Optional: structured logger
	Metrics  statsd.Sink          // Optional: metrics sink
}

// VisitorReaper periodically evicts idle visitors from memory.
type VisitorReaper struct {
	registry *VisitorRegistry
	config   config.VisitorConfig
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewVisitorReaper constructs a VisitorReaper.
func NewVisitorReaper(opts VisitorReaperOptions) (*VisitorReaper, error) {
	if opts.Registry == nil {
		return nil, errors.New("VisitorRegistry is required")
	}
	if opts.Config.ReapInterval <= 0 {
		return nil, errors.New("reap interval must be positive")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "visitor_reaper")
	logger.Debug("VisitorReaper initialized",
		"interval", opts.Config.ReapInterval,
		"idle_ttl", opts.Config.IdleTTL,
	)

	return &VisitorReaper{
		registry: opts.Registry,
		config:   opts.Config,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run evicts idle visitors at the configured interval until ctx is done.
// Returns nil on graceful shutdown (context.Canceled).
func (s *VisitorReaper) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting visitor reaper", "interval", s.config.ReapInterval)

	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "visitor reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one eviction pass and returns the number of visitors evicted.
func (s *VisitorReaper) Sweep(ctx context.Context) int {
	evicted := s.registry.Evict(s.config.IdleTTL)
	active := s.registry.Len()
	metrics.EmitVisitors(s.metrics, active, evicted)
	if evicted > 0 {
		s.logger.InfoContext(ctx, "evicted idle visitors", "evicted", evicted, "active", active)
	}
	return evicted
}

// waitWithJitter delays up to 10% of the interval so replicas do not sweep in lockstep.
func (s *VisitorReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.ReapInterval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}
