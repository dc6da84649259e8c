package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "dreamdesign/internal/app/http"
	"dreamdesign/internal/config"
	"dreamdesign/internal/domain/seed"
	"dreamdesign/internal/lib/logger/sl"
	"dreamdesign/internal/providers/gemini"
	"dreamdesign/internal/providers/mock"
	"dreamdesign/internal/providers/remote"
	"dreamdesign/internal/repository"
	accounts "dreamdesign/internal/services/account_service"
	catalog "dreamdesign/internal/services/catalog_service"
	studio "dreamdesign/internal/services/studio_service"
	"dreamdesign/internal/storage"
	storagefile "dreamdesign/internal/storage/filestorage"
	"dreamdesign/internal/storage/memory"
	"dreamdesign/internal/storage/postgresql"
	redisapp "dreamdesign/internal/storage/redis"
	httprouters "dreamdesign/internal/transport/http"
)

var (
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrUnknownProvider      = errors.New("unknown generation provider")
)

// Core holds the domain services shared by the HTTP server and the admin CLI.
type Core struct {
	Catalog  *catalog.CatalogService
	Accounts *accounts.AccountService

	closers []func() error
}

type App struct {
	*Core

	Studio     *studio.StudioService
	HTTPServer *httpapp.Server
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	core, err := NewCore(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	generator, closeGenerator, err := NewGenerator(ctx, cfg.Generation)
	if err != nil {
		_ = core.Close()
		return nil, err
	}
	core.closers = append(core.closers, closeGenerator)

	studioService := studio.New(log, core.Accounts, core.Catalog, generator, studio.Options{
		MaxStyles:   cfg.Generation.MaxStyles,
		CallTimeout: cfg.Generation.CallTimeout,
	})

	routers := httprouters.NewRouter(log, core.Accounts, studioService, core.Catalog)
	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, cfg.HTTP.Timeout, routers)

	return &App{
		Core:       core,
		Studio:     studioService,
		HTTPServer: server,
	}, nil
}

// NewCore opens the configured storage and loads the catalog and the accounts from it.
func NewCore(ctx context.Context, log *slog.Logger, cfg *config.Config) (*Core, error) {
	const op = "app.NewCore"

	kv, closeStorage, err := NewStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seedRecords := seed.Default()
	if cfg.Catalog.SeedPath != "" {
		seedRecords, err = seed.LoadFile(cfg.Catalog.SeedPath)
		if err != nil {
			_ = closeStorage()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("catalog seed loaded", slog.String("path", cfg.Catalog.SeedPath), slog.Int("images", len(seedRecords)))
	}

	repo := repository.NewRepository(kv, cfg.Storage.KeyPrefix)

	catalogService := catalog.New(ctx, log, repo.Images, seedRecords, catalog.Options{
		UploadMaxDimension: cfg.Catalog.UploadMaxDimension,
		UploadQuality:      cfg.Catalog.UploadQuality,
		UploadMaxBytes:     cfg.Catalog.UploadMaxBytes,
	})

	accountService := accounts.New(ctx, log, repo.Accounts, accounts.Options{
		Latency:       cfg.Accounts.Latency,
		GoogleLatency: cfg.Accounts.GoogleLatency,
		SignupCredits: cfg.Accounts.SignupCredits,
		GoogleCredits: cfg.Accounts.GoogleCredits,
		CreditPacks:   cfg.Credits.Packs,
	})

	log.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	return &Core{
		Catalog:  catalogService,
		Accounts: accountService,
		closers:  []func() error{closeStorage},
	}, nil
}

// NewStorage opens the key-value backend named by cfg.Driver.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (storage.KeyValue, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", "memory":
		return memory.New(cfg.Quota), noop, nil
	case "file":
		fs, err := storagefile.NewLocalFileStorage(cfg.File.BaseDir, cfg.Quota)
		if err != nil {
			return nil, nil, err
		}
		return fs, noop, nil
	case "redis":
		client, err := redisapp.Open(ctx, cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisapp.NewStore(client), client.Close, nil
	case "postgres":
		pg, err := postgresql.New(ctx, cfg.Postgres.DSN, int(cfg.Quota))
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Stop()
			return nil, nil, err
		}
		return pg, func() error { pg.Stop(); return nil }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Driver)
}

// NewGenerator builds the image generator named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.GenerationConfig) (studio.Generator, func() error, error) {
	switch cfg.Provider {
	case "", "mock":
		return mock.New(cfg.MockDelay), func() error { return nil }, nil
	case "gemini":
		g, err := gemini.New(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "remote":
		return remote.New(cfg.Endpoint, cfg.APIKey, cfg.CallTimeout), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

// Close releases storage connections and generator clients.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Stop(log *slog.Logger) {
	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}
	if err := a.Close(); err != nil {
		log.Error("failed to release resources", sl.Err(err))
	}
}
