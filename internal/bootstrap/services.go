package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/banksim-ui/config"
	"github.com/target/banksim-ui/internal/adapters/bankapi"
	"github.com/target/banksim-ui/internal/adapters/memory"
	redisadapter "github.com/target/banksim-ui/internal/adapters/redis"
	"github.com/target/banksim-ui/internal/observability/statsd"
	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Visitors      *service.VisitorRegistry
	Tokens        *service.VisitorTokens
	Messages      *service.MessageExtractor
	CSVMessages   *service.MessageExtractor
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	// MetricsSink is never nil; it is statsd.Nop{} when metrics are disabled.
	MetricsSink   statsd.Sink
	MetricsClient *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases the statsd connection, if any.
func (o ObservabilityContainer) Close() error {
	if o.MetricsClient == nil {
		return nil
	}
	return o.MetricsClient.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // Required only for the redis visitor store
	Logger      *slog.Logger
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	out := ObservabilityContainer{MetricsSink: statsd.Nop{}, MetricsConfig: cfg.Metrics}
	if !cfg.Metrics.IsEnabled() {
		return out
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  obsLogger,
	})
	if err != nil {
		obsLogger.Error("failed to initialise statsd client", "error", err)
		return out
	}
	out.MetricsClient = client
	out.MetricsSink = client
	return out
}

// buildCookieStore picks where backend cookie jars are persisted.
//
//nolint:ireturn // the store kind is chosen at runtime.
func buildCookieStore(cfg config.VisitorConfig, redisCfg config.RedisConfig, client redis.UniversalClient, logger *slog.Logger) ports.CookieStore {
	if cfg.Store == config.VisitorStoreRedis {
		if client != nil {
			return redisadapter.NewCookieStore(client, redisCfg.KeyPrefix)
		}
		logger.Warn("redis visitor store selected without a redis client; falling back to memory")
	}
	return memory.NewCookieStore(nil)
}

// NewClientFactory returns a factory building one backend client per visitor.
// Clients share a transport but never a cookie jar.
func NewClientFactory(cfg config.BackendConfig, sink statsd.Sink, logger *slog.Logger) service.ClientFactory {
	transport := bankapi.NewTransport()
	return func() (ports.VisitorClient, error) {
		client, err := bankapi.New(bankapi.Options{
			BaseURL:   cfg.BaseURL,
			Transport: transport,
			Metrics:   sink,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// NewServices builds the visitor machinery and message extractors.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	obs := buildObservability(logger, cfg.Observability)

	messages, err := service.NewMessageExtractor(cfg.Backend.ErrorMessageExpr)
	if err != nil {
		return ServiceContainer{}, err
	}
	csvMessages, err := service.NewMessageExtractor(cfg.Backend.ExportMessageExpr)
	if err != nil {
		return ServiceContainer{}, err
	}

	if cfg.Visitors.SigningKey == "" {
		logger.Warn("VISITOR_SIGNING_KEY not set; visitor cookies will not survive a restart")
	}
	tokens, err := service.NewVisitorTokens(cfg.Visitors.SigningKey, cfg.Visitors.CookieTTL, nil)
	if err != nil {
		return ServiceContainer{}, err
	}

	registry, err := service.NewVisitorRegistry(service.VisitorRegistryOptions{
		NewClient: NewClientFactory(cfg.Backend, obs.MetricsSink, logger),
		Cookies:   buildCookieStore(cfg.Visitors, cfg.Redis, deps.RedisClient, logger),
		CookieTTL: cfg.Visitors.CookieTTL,
		Logger:    logger,
		Metrics:   obs.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("visitor registry: %w", err)
	}

	return ServiceContainer{
		Visitors:      registry,
		Tokens:        tokens,
		Messages:      messages,
		CSVMessages:   csvMessages,
		Observability: obs,
	}, nil
}

// ServiceOrchestrationConfig contains dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) (*http.Server, error) {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil, nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
		ErrCh:    deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg,
				)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}
		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newVisitorReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeVisitorReaper,
		name: "visitor reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.Config == nil {
				return nil
			}
			reaper, err := service.NewVisitorReaper(service.VisitorReaperOptions{
				Registry: deps.cfg.Services.Visitors,
				Config:   deps.cfg.Config.Visitors,
				Logger:   deps.logger,
				Metrics:  deps.cfg.Services.Observability.MetricsSink,
			})
			if err != nil {
				return fmt.Errorf("create visitor reaper: %w", err)
			}
			return reaper.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newVisitorReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) (ServiceStartupResult, error) {
	server, err := startHTTPServerIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{}, err
	}
	return ServiceStartupResult{
		HTTPServer: server,
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}, nil
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	if cfg.Services.Visitors == nil {
		return errors.New("service orchestration config missing visitor registry")
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result, err := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server and waits for background services in parallel.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// cfg.ctx is already canceled here.
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(cfg.ctx),
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	var g errgroup.Group
	for _, svc := range cfg.backgrounds {
		g.Go(func() error {
			waitForService(svc.done, svc.name, cfg.logger)
			return nil
		})
	}
	return g.Wait()
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
