package cmd

import (
	"context"
	"fmt"

	"autosync/core/autogestor"
	"autosync/core/config"
	"autosync/core/database"
	"autosync/core/events"
	"autosync/core/lock"
	"autosync/core/logger"
	"autosync/core/metrics"
	"autosync/core/reconcile"
	"autosync/core/storage"
	"autosync/core/transport"
	"autosync/core/woocommerce"
	syncfeature "autosync/feature/sync"
	"autosync/feature/vehicles"

	"go.uber.org/zap"
)

// services bundles everything a command needs.
type services struct {
	cfg       *config.Config
	log       *zap.Logger
	service   *syncfeature.Service
	publisher events.Publisher
	locker    lock.Locker
}

// Close releases resources held by optional collaborators.
func (a *services) Close() {
	if err := a.publisher.Close(); err != nil {
		a.log.Warn("Failed to close event publisher", zap.Error(err))
	}
	if err := a.locker.Close(); err != nil {
		a.log.Warn("Failed to close run lock", zap.Error(err))
	}
	_ = a.log.Sync()
}

// loadConfig reads and validates configuration, then builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// newAdapter wires the source feed, the catalog and the vehicle normalizer.
func newAdapter(cfg *config.Config, l *zap.Logger) (*vehicles.Adapter, error) {
	tables, err := vehicles.LoadTables(cfg.Mapping.File)
	if err != nil {
		return nil, err
	}
	profile, err := vehicles.ProfileByName(cfg.Sync.Profile)
	if err != nil {
		return nil, err
	}

	sourceTransport := transport.NewClient(cfg.Transport, l.Named("source"))
	source := autogestor.NewClient(cfg.Source, sourceTransport, cfg.Transport.SourceMaxAttempts, l)

	catalogTransport := transport.NewClient(cfg.Transport, l.Named("catalog"),
		transport.WithBasicAuth(cfg.Woo.Key, cfg.Woo.Secret))
	catalog := woocommerce.NewClient(cfg.Woo, catalogTransport, l)

	return vehicles.NewAdapter(source, catalog, vehicles.NewNormalizer(tables, profile), l), nil
}

// bootstrap builds the sync service with every configured collaborator.
// Optional collaborators that fail to start are logged and left out; only
// required configuration errors are returned.
func bootstrap(ctx context.Context) (*services, error) {
	cfg, l, err := loadConfig()
	if err != nil {
		return nil, err
	}

	adapter, err := newAdapter(cfg, l)
	if err != nil {
		return nil, err
	}

	spec := &reconcile.Spec{
		Adapter:           adapter,
		BatchSize:         cfg.Sync.BatchSize,
		UpdateConcurrency: cfg.Sync.UpdateConcurrency,
		Logger:            l,
	}

	m := metrics.New()
	publisher := events.New(cfg.Events)
	opts := []syncfeature.Option{
		syncfeature.WithMetrics(m),
		syncfeature.WithPublisher(publisher),
	}

	var locker lock.Locker = lock.NopLocker{}
	if redisLocker, err := lock.New(ctx, cfg.Lock); err != nil {
		l.Warn("Run lock unavailable, running without it", zap.Error(err))
	} else {
		locker = redisLocker
		opts = append(opts, syncfeature.WithLocker(locker))
	}

	if cfg.Database.Enabled {
		if journal, err := openJournal(ctx, cfg.Database); err != nil {
			l.Warn("Optional run journal unavailable", zap.Error(err))
		} else {
			opts = append(opts, syncfeature.WithJournal(journal))
		}
	}

	if cfg.Storage.Enabled {
		if archive, err := openArchive(ctx, cfg.Storage); err != nil {
			l.Warn("Optional report archive unavailable", zap.Error(err))
		} else {
			opts = append(opts, syncfeature.WithArchive(archive))
		}
	}

	svc := syncfeature.NewService(spec, cfg.Sync, l, opts...)
	return &services{cfg: cfg, log: l, service: svc, publisher: publisher, locker: locker}, nil
}

func openJournal(ctx context.Context, cfg database.Config) (*database.Journal, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	journal := database.NewJournal(db)
	if err := journal.Migrate(ctx); err != nil {
		return nil, err
	}
	return journal, nil
}

func openArchive(ctx context.Context, cfg storage.Config) (*storage.Archive, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	archive := storage.NewArchive(client, cfg)
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}
