package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"container_monitor/internal/broker"
	"container_monitor/internal/config"
	"container_monitor/internal/handlers"
	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/queue"
	"container_monitor/internal/repository"
	"container_monitor/internal/repository/db"
	"container_monitor/internal/repository/dynamo"
	"container_monitor/internal/server"
	"container_monitor/internal/service"
	"container_monitor/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// @title           Container Monitor API
// @version         1.0
// @description     Live temperature telemetry, thresholds, history and event log for a shipping container.
// @BasePath        /
func main() {
	configPath := flag.String("config", envOr("MONITOR_CONFIG", "configs/config.yml"), "path to config.yml")
	flag.Parse()

	// load config.yml
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get("info", "console").Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "err", err)
	}

	// open DB
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos, err := openRepositories(cfg, sqlDB, log)
	if err != nil {
		log.Fatalw("failed to init history store", "err", err)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prom := metrics.NewProm()
	clock := telemetry.SystemClock{}

	reducer := telemetry.NewReducer(telemetry.Config{
		BufferSize:      cfg.Monitor.BufferSize,
		PersistInterval: cfg.Monitor.PersistInterval,
		LivenessTimeout: cfg.Monitor.LivenessTimeout,
		AlarmInterval:   cfg.Monitor.AlarmInterval,
		PersistBand:     cfg.PersistBand(),
		LabelLayout:     cfg.Monitor.LabelLayout,
		Location:        loc,
	}, telemetry.NewThresholdStore(cfg.Thresholds.Live.ThresholdConfig()), clock)

	persister := queue.NewPersister(repos.History, queue.Policy{
		Capacity:     cfg.Queue.Capacity,
		MaxBatchSize: cfg.Queue.MaxBatchSize,
		IdleSleep:    cfg.Queue.IdleSleep,
	}, prom, log.Named("persister"))

	// wire MQTT before services so the history publisher can use it
	var (
		mqtt      *broker.Client
		publisher service.RecordPublisher
	)
	if cfg.MQTT.Enabled {
		mqtt, err = broker.Dial(ctx, broker.Config{
			Broker:    cfg.MQTT.Broker,
			ClientID:  cfg.MQTT.ClientID,
			KeepAlive: cfg.MQTT.KeepAlive,
		}, log.Named("mqtt"))
		if err != nil {
			log.Fatalw("failed to connect to mqtt broker", "err", err, "broker", cfg.MQTT.Broker)
		}
		defer func() { _ = mqtt.Close() }()
		publisher = broker.NewHistoryPublisher(mqtt, cfg.MQTT.HistoryTopic)
	}

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		Reducer:   reducer,
		Importer:  newImporter(cfg, loc),
		Queue:     persister,
		Publisher: publisher,
		Metrics:   prom,
		Log:       log,
		Clock:     clock,
		Location:  loc,
		HistoryCfg: service.HistoryConfig{
			MaxPoints:   cfg.History.MaxPoints,
			MinGap:      cfg.History.MinGap,
			LabelLayout: cfg.History.LabelLayout,
		},
	})
	if err := services.Thresholds.Restore(ctx); err != nil {
		log.Warnw("failed to restore thresholds; keeping configured band", "err", err)
	}

	persisted := persister.Start(ctx)
	go services.Liveness.Run(ctx, cfg.Monitor.PollInterval)

	if mqtt != nil {
		subscribeMQTT(ctx, mqtt, cfg.MQTT, services, clock, log)
	}

	// start simulator (via composed service)
	if cfg.Simulator.Enabled {
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	// start HTTP server
	apiHandler := handlers.NewHandler(services, log.Named("http"))
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)

	// the deferred sqlite close must not race the final flush
	select {
	case <-persisted:
	case <-time.After(shutdownTimeout):
		log.Errorw("persist queue flush timed out", "queued", persister.Len())
	}
}

// newImporter builds the bulk import pipeline. Its batch size is fixed and
// independent of the persist queue tuning.
func newImporter(cfg *config.Config, loc *time.Location) *telemetry.Importer {
	return telemetry.NewImporter(cfg.Thresholds.Import.ThresholdConfig(), telemetry.DefaultImportBatchSize, loc)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// openRepositories backs events and thresholds with SQLite and history with
// the configured store.
func openRepositories(cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*repository.Repository, error) {
	repos := repository.NewRepository(sqlDB)
	if cfg.Store.Backend != config.BackendDynamoDB {
		return repos, nil
	}
	client, err := dynamo.NewClient(cfg.Store.DynamoDB.Region, cfg.Store.DynamoDB.Endpoint)
	if err != nil {
		return nil, err
	}
	log.Infow("history store: dynamodb", "table", cfg.Store.DynamoDB.Table, "region", cfg.Store.DynamoDB.Region)
	return repos.WithHistory(dynamo.NewHistoryStore(client, cfg.Store.DynamoDB.Table)), nil
}

func subscribeMQTT(ctx context.Context, c *broker.Client, cfg config.MQTTConfig, services *service.Service, clock telemetry.Clock, log *logger.Logger) {
	if err := c.Subscribe(ctx, cfg.ReadingsTopic, broker.DeviceHandler(services.Monitoring, services.Motion, clock)); err != nil {
		log.Fatalw("failed to subscribe", "topic", cfg.ReadingsTopic, "err", err)
	}
	if err := c.Subscribe(ctx, cfg.HistoryTopic, broker.HistoryHandler(services.History)); err != nil {
		log.Fatalw("failed to subscribe", "topic", cfg.HistoryTopic, "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// stop background goroutines; the persister then flushes what is queued
	cancel()
}
