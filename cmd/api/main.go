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
	"github.com/rs/zerolog"

	"leadscout/internal/adapter/source"
	"leadscout/internal/adapter/storage"
	"leadscout/internal/adapter/textanalysis"
	"leadscout/internal/config"
	"leadscout/internal/domain/chat"
	"leadscout/internal/server"
	"leadscout/internal/service/analysis"
	memberService "leadscout/internal/service/member"
)

func main() {
	// Load .env if present; real deployments use actual env vars
	_ = godotenv.Load()

	logger := newLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := storage.InitSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize schema")
	}

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer natsConn.Close()

	// Message sources. Credentials are validated here, before any run can
	// start, so a misconfigured collaborator fails fast.
	var chatSource chat.MessageSource
	var memberSource chat.MemberSource
	if cfg.Scraper.BaseURL != "" {
		scraper, err := source.NewScraperClient(source.ScraperConfig{
			BaseURL: cfg.Scraper.BaseURL,
			Token:   cfg.Scraper.Token,
			Timeout: cfg.Scraper.Timeout,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create scraper client")
		}
		chatSource = scraper
		memberSource = scraper
	}

	var mentionSource chat.MessageSource
	if cfg.Twitter.BearerToken != "" {
		mentionSource, err = source.NewTwitterSource(cfg.Twitter.BearerToken)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create twitter source")
		}
	}
	if chatSource == nil && mentionSource == nil {
		logger.Fatal().Msg("no message source configured: set SCRAPER_BASE_URL or TWITTER_BEARER_TOKEN")
	}

	// Storage adapters
	frequencyStore := storage.NewFrequencyStore(db)
	trendStore := storage.NewTrendStore(db)

	// Analysis pipeline
	normalizer := analysis.NewNormalizer(cfg.Analysis.Language, nil)
	aggregator := analysis.NewAggregator(frequencyStore)
	scorer := analysis.NewScorer(analysis.ScorerConfig{
		MinFrequency: cfg.Analysis.MinFrequency,
		MinScore:     cfg.Analysis.MinScore,
		GrowthWeight: cfg.Analysis.GrowthWeight,
		VolumeWeight: cfg.Analysis.VolumeWeight,
	})
	analyzer := textanalysis.New(textanalysis.Config{
		BaseURL: cfg.TextAnalysis.BaseURL,
		APIKey:  cfg.TextAnalysis.APIKey,
		Model:   cfg.TextAnalysis.Model,
		Timeout: cfg.TextAnalysis.Timeout,
	})
	enricher := analysis.NewEnricher(analyzer, normalizer, analysis.EnricherConfig{
		ContextBudget: cfg.Analysis.ContextBudget,
		Concurrency:   cfg.Analysis.EnrichConcurrency,
	}, logger)

	scheduleEntries, err := cfg.Analysis.ScheduleEntries()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid analysis schedule")
	}
	schedule := make([]analysis.ScheduleEntry, 0, len(scheduleEntries))
	for tenantID, groups := range scheduleEntries {
		schedule = append(schedule, analysis.ScheduleEntry{TenantID: tenantID, Groups: groups})
	}

	pipeline := analysis.NewPipeline(
		normalizer,
		aggregator,
		scorer,
		enricher,
		frequencyStore,
		trendStore,
		chatSource,
		natsConn,
		analysis.PipelineConfig{
			TopN:         cfg.Analysis.TopN,
			FetchLimit:   cfg.Analysis.FetchLimit,
			EventsTopic:  cfg.Analysis.EventsTopic,
			ScanInterval: cfg.Analysis.ScanInterval,
			Schedule:     schedule,
		},
		logger,
	)

	memberScorer := memberService.NewScorer(memberSource, memberService.ScorerConfig{
		MinScore:   cfg.Member.MinScore,
		MaxResults: cfg.Member.MaxResults,
	}, logger)

	// Start scheduled analysis runs, if configured
	if err := pipeline.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start analysis scheduler")
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Analysis.EventsTopic,
		pipeline,
		pipeline,
		memberScorer,
		chatSource,
		mentionSource,
		natsConn,
		logger,
	)

	// Start HTTP server
	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := pipeline.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("pipeline shutdown error")
	}

	logger.Info().Msg("shutdown complete")
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return logger
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
func initNATS(cfg config.NATSConfig, logger zerolog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", cfg.URL, err)
	}
	return conn, nil
}
