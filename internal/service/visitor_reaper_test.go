package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/config"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

func TestVisitorReaper_Sweep(t *testing.T) {
	f := newRegistryFixture(t, nil)
	ctx := context.Background()
	for range 3 {
		_, err := f.registry.Get(ctx, f.registry.NewID())
		require.NoError(t, err)
	}
	f.clock.Advance(time.Hour)
	_, err := f.registry.Get(ctx, f.registry.NewID())
	require.NoError(t, err)

	rec := &statsd.Recorder{}
	reaper, err := NewVisitorReaper(VisitorReaperOptions{
		Registry: f.registry,
		Config:   config.VisitorConfig{IdleTTL: 30 * time.Minute, ReapInterval: time.Minute},
		Metrics:  rec,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, reaper.Sweep(ctx))
	assert.Equal(t, 1, f.registry.Len())

	gauges := rec.Named("visitors.active")
	require.Len(t, gauges, 1)
	assert.InDelta(t, 1, gauges[0].Value, 0)
	evicted := rec.Named("visitors.evicted")
	require.Len(t, evicted, 1)
	assert.InDelta(t, 3, evicted[0].Value, 0)
}

func TestVisitorReaper_RunStopsOnCancel(t *testing.T) {
	f := newRegistryFixture(t, nil)
	reaper, err := NewVisitorReaper(VisitorReaperOptions{
		Registry: f.registry,
		Config:   config.VisitorConfig{IdleTTL: time.Minute, ReapInterval: 10 * time.Millisecond},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reaper.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}

func TestNewVisitorReaper_Validation(t *testing.T) {
	_, err := NewVisitorReaper(VisitorReaperOptions{})
	assert.Error(t, err)

	f := newRegistryFixture(t, nil)
	_, err = NewVisitorReaper(VisitorReaperOptions{Registry: f.registry})
	assert.Error(t, err)
}
