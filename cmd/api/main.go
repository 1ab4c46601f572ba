package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"viewingdesk/internal/appointment"
	"viewingdesk/internal/events"
	"viewingdesk/internal/httpapi"
	"viewingdesk/internal/metrics"
	"viewingdesk/pkg/config"
	"viewingdesk/pkg/db"
	"viewingdesk/pkg/logger"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format, "viewingdesk")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readyChecks := map[string]func(context.Context) error{}

	var store appointment.Store
	switch cfg.StoreBackend {
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			lg.Fatal("db open", zap.Error(err))
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
				lg.Fatal("migrate", zap.Error(err))
			}
		}
		store = appointment.NewRepository(conn)
		readyChecks["db"] = db.ReadyCheck(conn)
	case config.StoreMemory:
		if store, err = appointment.NewMemoryStore(); err != nil {
			lg.Fatal("memory store", zap.Error(err))
		}
	default:
		lg.Fatal("unknown STORE_BACKEND", zap.String("store_backend", cfg.StoreBackend))
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.RedisURL != "" {
		rdb, err := events.Dial(ctx, cfg.Events.RedisURL)
		if err != nil {
			lg.Fatal("redis dial", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		publisher = events.NewStreamPublisher(rdb, cfg.Events.Stream, cfg.Events.MaxLen)
		readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	m := metrics.New()
	svc := appointment.NewService(store,
		appointment.WithLogger(lg),
		appointment.WithPublisher(publisher),
		appointment.WithMetrics(m),
		appointment.WithCalendarLocation(cfg.CalendarLocation),
	)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:          cfg,
		Appointments: svc,
		Metrics:      m,
		ReadyChecks:  readyChecks,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("store_backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
