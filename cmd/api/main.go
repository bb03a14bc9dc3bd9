package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Overland-East-Bay/person-views/internal/adapters/httpapi"
	mempersonview "github.com/Overland-East-Bay/person-views/internal/adapters/memory/personview"
	"github.com/Overland-East-Bay/person-views/internal/adapters/postgres"
	pgpersonview "github.com/Overland-East-Bay/person-views/internal/adapters/postgres/personview"
	"github.com/Overland-East-Bay/person-views/internal/adapters/sqlite"
	sqlitepersonview "github.com/Overland-East-Bay/person-views/internal/adapters/sqlite/personview"
	"github.com/Overland-East-Bay/person-views/internal/app/persons"
	platformclock "github.com/Overland-East-Bay/person-views/internal/platform/clock"
	"github.com/Overland-East-Bay/person-views/internal/platform/config"
	"github.com/Overland-East-Bay/person-views/internal/platform/logging"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.New(logging.DefaultConfig()).Error("invalid config", logging.Err(err))
		os.Exit(1)
	}

	log := logging.New(logging.Config{
		Level:       logging.ParseLevel(cfg.LogLevel),
		ServiceName: "person-views",
		Environment: cfg.Environment,
		JSONFormat:  cfg.LogJSON,
		Output:      os.Stdout,
	})

	repo, cleanup, err := openRepository(context.Background(), cfg, log)
	if err != nil {
		log.Error("storage init failed", logging.F("backend", cfg.StorageBackend), logging.Err(err))
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	svc := persons.NewService(repo, platformclock.NewSystemClock(), log)
	handler := httpapi.NewRouter(httpapi.NewServer(svc, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", logging.F("port", cfg.Port), logging.F("backend", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", logging.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", logging.Err(err))
	}
}

func openRepository(ctx context.Context, cfg config.Config, log logging.Logger) (personview.Repository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := prometheus.Register(postgres.NewPoolStatsCollector(pool, "personviews")); err != nil {
			log.Warn("pool metrics not registered", logging.Err(err))
		}
		return pgpersonview.NewRepo(pool), pool.Close, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlitepersonview.NewRepo(db), func() { _ = db.Close() }, nil

	default:
		log.Warn("using in-memory storage; data is not persisted")
		return mempersonview.NewRepo(), nil, nil
	}
}
