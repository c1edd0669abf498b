// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/feileberlin/krwl-hof/internal/adapter/demo"
	"github.com/feileberlin/krwl-hof/internal/adapter/notify"
	"github.com/feileberlin/krwl-hof/internal/adapter/storage"
	"github.com/feileberlin/krwl-hof/internal/config"
	"github.com/feileberlin/krwl-hof/internal/domain/event"
	"github.com/feileberlin/krwl-hof/internal/server"
	"github.com/feileberlin/krwl-hof/internal/server/handlers"
	"github.com/feileberlin/krwl-hof/internal/service/dedup"
	"github.com/feileberlin/krwl-hof/internal/service/filter"
	"github.com/feileberlin/krwl-hof/internal/service/template"
)

// systemClock reads the wall clock. Everything below main takes explicit
// instants, so this is the single place time.Now is consulted.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.Environment)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize storage
	store, closeStore, err := initStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer closeStore()

	bookmarks := storage.NewBookmarkRegistry()

	// Initialize NATS. In development the app stays usable without a
	// bus; clients just lose live refresh.
	var notifier notify.Notifier = notify.NopNotifier{}
	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		if cfg.Environment != "development" {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		log.Warn().Err(err).Msg("NATS unavailable, live refresh disabled")
	} else {
		defer natsConn.Close()
		notifier = notify.NewNATSNotifier(natsConn, cfg.NATS.Subject)
	}

	// Demo template events
	var templates []event.Event
	if cfg.Demo.Enabled {
		templates, err = demo.Load(cfg.Demo.TemplatesFile)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.Demo.TemplatesFile).Msg("Demo events unavailable")
		} else {
			log.Info().Int("count", len(templates)).Msg("Demo template events loaded")
		}
	}

	// Initialize the visibility pipeline
	clock := systemClock{}
	defaults := event.FilterSettings{
		MaxDistanceKm: cfg.Filter.DefaultRadiusKm,
		TimeFilter:    event.TimeFilter(cfg.Filter.DefaultTimeFilter),
		Category:      cfg.Filter.DefaultCategory,
	}

	eventHandler := handlers.NewEventHandler(
		store,
		bookmarks,
		template.NewMaterializer(),
		filter.NewEngine(),
		dedup.NewEngine(dedup.Strictness(cfg.Filter.DedupStrictness)),
		clock,
		notifier,
		defaults,
		templates,
	)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarks)

	// Retention purge job
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Retention.Schedule, func() {
		cutoff := clock.Now().Add(-cfg.Retention.MaxAge)
		removed, err := store.DeleteEndedBefore(context.Background(), cutoff)
		if err != nil {
			log.Error().Err(err).Msg("Retention purge failed")
			return
		}
		if removed > 0 {
			log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Purged ended events")
			_ = notifier.EventsChanged(notify.Change{Reason: "purge", At: clock.Now()})
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Retention.Schedule).Msg("Invalid retention schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, natsConn, cfg.NATS.Subject, eventHandler, bookmarkHandler)

	// Start HTTP server
	go func() {
		log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// setupLogging configures zerolog for the environment.
func setupLogging(environment string) {
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// initStore selects the configured storage backend.
func initStore(ctx context.Context, cfg config.DatabaseConfig) (event.Store, func(), error) {
	if cfg.Backend == "memory" {
		log.Info().Msg("Using in-memory event store")
		return storage.NewMemoryEventStore(), func() {}, nil
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewEventStore(db), db.Close, nil
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
