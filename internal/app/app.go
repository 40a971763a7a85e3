package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "storefront-media/internal/broker/kafka"
	"storefront-media/internal/config"
	media_h "storefront-media/internal/http-server/handler/media"
	"storefront-media/internal/http-server/router"
	asset_repo "storefront-media/internal/repository/asset/db/postgres"
	"storefront-media/internal/repository/blob"
	memory_blob "storefront-media/internal/repository/blob/memory"
	minio_blob "storefront-media/internal/repository/blob/minio"
	media_uc "storefront-media/internal/usecase/media"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	db       *dbpg.DB
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	profiles, err := cfg.Profiles()
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStorage(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage: %w", err)
	}

	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	assetRepo := asset_repo.NewAssetsRepository(db, retries)
	producer := kafka_impl.NewProducerClient(cfg)

	mediaUsecase, err := media_uc.NewMediaUsecase(profiles, blobs, assetRepo, producer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create media usecase: %w", err)
	}

	mediaHandler := media_h.NewMediaHandler(mediaUsecase, logger)

	h := &router.Handler{
		MediaHandler: mediaHandler,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		db:       db,
		producer: producer,
	}, nil
}

func newBlobStorage(cfg *config.Config, logger *zlog.Zerolog) (blob.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return minio_blob.New(cfg, cfg.DefaultRetryStrategy(), logger)
	case "memory":
		logger.Warn().Msg("Using in-memory blob storage; assets will not survive restarts")
		return memory_blob.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.db != nil && a.db.Master != nil {
			a.db.Master.Close()
		}

		if a.producer != nil {
			a.producer.Close()
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
