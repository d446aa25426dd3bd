package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ecoworth/marketplace-web/config"
	"github.com/ecoworth/marketplace-web/internal/adapters/backend"
	redisadapter "github.com/ecoworth/marketplace-web/internal/adapters/redis"
	"github.com/ecoworth/marketplace-web/internal/cryptoutil"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
	"github.com/ecoworth/marketplace-web/internal/observability/statsd"
	"github.com/ecoworth/marketplace-web/internal/ports"
	"github.com/ecoworth/marketplace-web/internal/service"
)

const metricsServiceName = "ecoworth-web"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Listings      *service.ListingService
	Admin         *service.AdminService
	Subscriptions *service.SubscriptionService

	Reconcilers *service.ReconcilerRegistry
	Events      *service.SessionEvents
	// Sweeper is nil when SWEEPER_ENABLED=false.
	Sweeper *service.RegistrySweeper
	Metrics *metrics.Marketplace

	// MetricsSink is closed on shutdown; nil when metrics are disabled.
	MetricsSink *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the backend client, adapters and domain services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps require a config")
	}
	if deps.RedisClient == nil {
		return nil, errors.New("service deps require a redis client")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink := buildMetricsSink(logger, cfg.Observability.Metrics, cfg.IsDev)
	mkt := metrics.NewMarketplace(nil)
	if sink != nil {
		mkt = metrics.NewMarketplace(sink)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		Logger:    logger,
		Observer:  mkt,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	listings, err := newListingGateway(client, deps.RedisClient, cfg.Backend, logger)
	if err != nil {
		return nil, err
	}

	sessions, err := newSessionStore(deps.RedisClient, cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	events := service.NewSessionEvents()
	registry := service.NewReconcilerRegistry(service.ReconcilerDeps{
		Buyer:          client,
		Logger:         logger,
		Metrics:        mkt,
		HydrateTimeout: cfg.Backend.Timeout,
	}, events)

	container := &ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Gateway:  client,
			Sessions: sessions,
			Events:   events,
			Config: service.AuthServiceConfig{
				SessionTTL: cfg.Auth.SessionTTL,
				Logger:     logger,
				Metrics:    mkt,
			},
		}),
		Listings: service.NewListingService(service.ListingServiceOptions{
			Listings:    listings,
			Reconcilers: registry,
			Logger:      logger,
		}),
		Admin: service.NewAdminService(service.AdminServiceOptions{
			Admin:    client,
			Listings: listings,
			Logger:   logger,
		}),
		Subscriptions: service.NewSubscriptionService(client, logger),
		Reconcilers:   registry,
		Events:        events,
		Metrics:       mkt,
		MetricsSink:   sink,
	}

	if cfg.Sweeper.Enabled {
		sweeper, sweepErr := service.NewRegistrySweeper(service.RegistrySweeperOptions{
			Registry:    registry,
			Interval:    cfg.Sweeper.Interval,
			IdleTimeout: cfg.Sweeper.IdleTimeout,
			Logger:      logger,
			Metrics:     mkt,
		})
		if sweepErr != nil {
			return nil, fmt.Errorf("create registry sweeper: %w", sweepErr)
		}
		container.Sweeper = sweeper
	}

	return container, nil
}

// Close releases background resources held by the services.
func (c *ServiceContainer) Close() error {
	if c == nil {
		return nil
	}
	if c.Reconcilers != nil {
		c.Reconcilers.Close()
	}
	if c.Events != nil {
		c.Events.StopAll()
	}
	if c.MetricsSink != nil {
		return c.MetricsSink.Close()
	}
	return nil
}

// buildMetricsSink dials StatsD when metrics are enabled. A dial failure disables metrics
// rather than failing startup.
func buildMetricsSink(logger *slog.Logger, cfg config.ObservabilityMetricsConfig, isDev bool) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	env := "production"
	if isDev {
		env = "dev"
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Service: metricsServiceName,
		Env:     env,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// newListingGateway puts the Redis catalog cache in front of the backend unless its TTL is zero.
//
//nolint:ireturn // the cache and the raw client both satisfy the gateway port.
func newListingGateway(
	client *backend.Client,
	rdb redis.UniversalClient,
	cfg config.BackendConfig,
	logger *slog.Logger,
) (ports.ListingGateway, error) {
	if cfg.CatalogCacheTTL <= 0 {
		return client, nil
	}
	cache, err := redisadapter.NewCatalogCache(redisadapter.CatalogCacheOptions{
		Client: rdb,
		Next:   client,
		TTL:    cfg.CatalogCacheTTL,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog cache: %w", err)
	}
	return cache, nil
}

// newSessionStore builds the Redis session store, sealing access tokens when a key is configured.
func newSessionStore(rdb redis.UniversalClient, cfg config.AuthConfig, logger *slog.Logger) (*redisadapter.SessionStore, error) {
	opts := []redisadapter.SessionStoreOption{redisadapter.WithPrefix(cfg.SessionKeyPrefix)}
	if cfg.SessionEncryptionKey == "" {
		logger.Warn("session encryption key is empty; backend tokens are stored unencrypted")
		return redisadapter.NewSessionStore(rdb, opts...), nil
	}
	sealer, err := cryptoutil.FromKey(cfg.SessionEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("session encryption key: %w", err)
	}
	opts = append(opts, redisadapter.WithSealer(sealer))
	return redisadapter.NewSessionStore(rdb, opts...), nil
}
