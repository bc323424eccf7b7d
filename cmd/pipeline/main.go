package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MichalMitros/property-translation-pipeline/cmd/pipeline/config"
	"github.com/MichalMitros/property-translation-pipeline/internal/decoder"
	"github.com/MichalMitros/property-translation-pipeline/internal/fetcher"
	"github.com/MichalMitros/property-translation-pipeline/internal/handler"
	"github.com/MichalMitros/property-translation-pipeline/internal/httpapi"
	"github.com/MichalMitros/property-translation-pipeline/internal/pipeline"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/cache"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/logging"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/rabbitmq"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/storage"
	"github.com/MichalMitros/property-translation-pipeline/internal/scraper"
	"github.com/MichalMitros/property-translation-pipeline/internal/translation"
	"github.com/MichalMitros/property-translation-pipeline/internal/translation/google"
	"github.com/MichalMitros/property-translation-pipeline/internal/translation/llm"
	"github.com/MichalMitros/property-translation-pipeline/pkg/v1/commander"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// UserAgent is user agent header value used when fetching feed files.
const UserAgent = "property-translation-pipeline/0.1.0"

func main() {
	site := flag.String("site", "", "process one site and exit")
	enqueue := flag.String("enqueue", "", "publish process site command for a site and exit")
	flag.Parse()

	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		bootLogger.Warn().
			Err(err).
			Msg("can't load .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().
			Err(err).
			Msg("can't load configuration")
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		bootLogger.Fatal().
			Err(err).
			Msg("can't build logger")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *enqueue != "" {
		if err := enqueueCommand(ctx, cfg, *enqueue, &logger); err != nil {
			logger.Fatal().
				Err(err).
				Str("site", *enqueue).
				Msg("can't enqueue command")
		}
		return
	}

	// translation engine
	translationStore := cache.NewRedis(cfg.RedisURL)
	translationCache := translation.NewCache(
		translationStore,
		&logger,
		translation.WithCachePrefix(cfg.Translation.CachePrefix),
		translation.WithCacheTTL(cfg.Translation.CacheTTLDuration()),
		translation.WithCacheMaxSize(cfg.Translation.CacheMaxSize),
	)

	googleClient, err := google.NewAuthorizedClient(ctx, cfg.Google.CredentialsFile, cfg.HTTPTimeout)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't authorize translation provider")
	}

	engineOptions := []translation.Option{
		translation.WithBatchSize(cfg.Translation.BatchSize),
		translation.WithBatchDelay(cfg.Translation.BatchDelay()),
	}
	if cfg.Fallback.Enabled {
		engineOptions = append(engineOptions, translation.WithFallback(
			llm.NewProvider(cfg.Fallback.APIKey, cfg.Fallback.BaseURL, cfg.Fallback.Model),
		))
	}

	engine := translation.NewEngine(
		translationCache,
		google.NewProvider(googleClient, cfg.Google.ProjectID, cfg.Google.Location),
		&logger,
		engineOptions...,
	)
	if err := engine.Initialize(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't initialize translation engine")
	}
	defer engine.Cleanup()

	// property storage
	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}
	defer closeDB(pgDB, &logger)

	postgres := storage.NewPostgres(pgDB)
	if err := postgres.Migrate(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't migrate database")
	}

	propertyCache := cache.NewRedis(cfg.RedisURL, cache.WithoutIndex())
	if err := propertyCache.Connect(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't connect property cache")
	}
	defer func() { _ = propertyCache.Close() }()

	// scraping
	registry := scraper.NewRegistry(
		cfg.Feeds,
		fetcher.NewFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, UserAgent),
		decoder.Decoder{},
		&logger,
	)

	pipe := pipeline.NewPipeline(
		func(site string) (pipeline.Scraper, error) {
			s, err := registry.Scraper(site)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		engine,
		storage.NewCached(postgres, propertyCache, cfg.PropertyCacheTTL, &logger),
		&logger,
	)

	if *site != "" {
		if ok := runOnce(ctx, pipe, *site, &logger); !ok {
			exitCode = 1
		}
		return
	}

	serve(ctx, cancel, cfg, pipe, engine, registry, &logger)
}

func serve(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	pipe *pipeline.Pipeline,
	engine *translation.Engine,
	registry *scraper.Registry,
	logger *zerolog.Logger,
) {
	var rmq *rabbitmq.RabbitMQ
	if cfg.RabbitMQ.URL != "" {
		amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ connection")
		}
		defer closeAMQP(amqpConnection, logger)

		rmq, err = rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ channel")
		}
		if err := rmq.Declare(cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't declare RabbitMQ topology")
		}

		// start consuming and handling messages
		if err := handler.NewHandler(rmq, pipe, logger).Start(ctx, cfg.RabbitMQ.Queue); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't start consuming")
		}
	}

	server := httpapi.NewServer(engine, pipe, registry.Sites, logger, httpapi.Options{Addr: cfg.HTTPAddr})

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(ctx); err != nil {
			logger.Error().
				Err(err).
				Msg("http server failed")
			cancel()
		}
	}()

	logger.Info().
		Strs("sites", registry.Sites()).
		Msg("property translation pipeline up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer and http server to finish
	if rmq != nil {
		<-rmq.Done()
		if err := rmq.Close(); err != nil {
			logger.Warn().
				Err(err).
				Msg("can't close RabbitMQ channel")
		}
	}
	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}

// runOnce processes site and prints run summary. Returns whether run was successful.
func runOnce(ctx context.Context, pipe *pipeline.Pipeline, site string, logger *zerolog.Logger) bool {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipe.ProcessSite(ctx, site)
	if err != nil {
		logger.Error().
			Err(err).
			Str("site", site).
			Msg("can't process site")
		return false
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		logger.Error().
			Err(err).
			Msg("can't print run summary")
	}

	return summary.Success
}

func enqueueCommand(ctx context.Context, cfg *config.Config, site string, logger *zerolog.Logger) error {
	if cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("can't open RabbitMQ connection: %w", err)
	}
	defer closeAMQP(amqpConnection, logger)

	rmq, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		return err
	}
	defer func() { _ = rmq.Close() }()

	if err := rmq.Declare(cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey); err != nil {
		return err
	}

	cmndr := commander.NewSiteCommander(commander.NewRabbitMQSender(rmq, cfg.RabbitMQ.RoutingKey))
	id, err := cmndr.SendProcessSiteCommand(ctx, site)
	if err != nil {
		return err
	}

	logger.Info().
		Str("site", site).
		Str("commandId", id).
		Msg("process site command enqueued")

	return nil
}

func closeDB(db *sql.DB, logger *zerolog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error().
			Err(err).
			Msg("can't close Postgres connection")
	}
}

func closeAMQP(connection *amqp.Connection, logger *zerolog.Logger) {
	if err := connection.Close(); err != nil {
		logger.Error().
			Err(err).
			Msg("can't close RabbitMQ connection")
	}
}
