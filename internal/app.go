package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hicentral-parser-service/internal/adapters/delay"
	"hicentral-parser-service/internal/adapters/filestorage"
	"hicentral-parser-service/internal/adapters/hicentralfetcher"
	logger_adapter "hicentral-parser-service/internal/adapters/logger"
	"hicentral-parser-service/internal/adapters/multistorage"
	postgres_adapter "hicentral-parser-service/internal/adapters/postgres"
	rabbitmq_adapter "hicentral-parser-service/internal/adapters/rabbitmq"
	"hicentral-parser-service/internal/configs"
	"hicentral-parser-service/internal/constants"
	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/contracts"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"
	usecases_port "hicentral-parser-service/internal/core/port/usecases"
	"hicentral-parser-service/internal/core/usecase"
	fluentlogger "hicentral-parser-service/pkg/fluent_logger"
	"hicentral-parser-service/pkg/postgres"
	"hicentral-parser-service/pkg/rabbitmq/rabbitmq_common"
	"hicentral-parser-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	logger        port.LoggerPort
	fluentClient  *fluent.Fluent
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher

	crawlUseCase usecases_port.CrawlPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}

	// --- 1. ЛОГГЕРЫ ---
	if err := app.initLoggers(); err != nil {
		app.closeResources()
		return nil, err
	}
	appLogger := app.logger.WithFields(port.Fields{"component": "app"})

	// --- 2. ХРАНИЛИЩА ---
	ctx := contextkeys.ContextWithLogger(context.Background(), app.logger)
	storage, err := app.initStorages(ctx)
	if err != nil {
		appLogger.Error("Failed to initialize storages", err, nil)
		app.closeResources()
		return nil, err
	}

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	hicentralAdapter, err := hicentralfetcher.NewHicentralFetcherAdapter(appConfig.Crawler.BaseURL, appConfig.Crawler.RequestTimeout)
	if err != nil {
		appLogger.Error("Failed to create HiCentral fetcher", err, nil)
		app.closeResources()
		return nil, err
	}

	delayAdapter, err := newDelay(appConfig.Delay)
	if err != nil {
		appLogger.Error("Failed to create delay strategy", err, nil)
		app.closeResources()
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized.", port.Fields{
		"base_url":       appConfig.Crawler.BaseURL,
		"delay_strategy": appConfig.Delay.Strategy,
	})

	// --- 4. USE CASES ---
	settings := domain.CrawlSettings{Limited: appConfig.Crawler.Debug}
	fetchLinksUC := usecase.NewFetchLinksUseCase(hicentralAdapter, delayAdapter, settings)
	processLinksUC := usecase.NewProcessLinksUseCase(hicentralAdapter, delayAdapter, settings)
	app.crawlUseCase = usecase.NewCrawlUseCase(fetchLinksUC, processLinksUC, storage, appConfig.Crawler.StartURL(), settings)
	appLogger.Info("All use cases initialized.", nil)

	return app, nil
}

func (a *App) initLoggers() error {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLogLevel(a.config.StdoutLogger.Level),
		IsJSON:   a.config.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if a.config.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = fluentClient

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLogLevel(a.config.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.logger = multiLogger.WithFields(port.Fields{"service_name": a.config.AppName})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

// initStorages собирает цепочку хранилищ: файл всегда, Postgres и RabbitMQ - если заданы URL
func (a *App) initStorages(ctx context.Context) (port.ListingsStoragePort, error) {
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	dumpAdapter, err := filestorage.NewJSONDumpAdapter(a.config.Output.DumpFilename)
	if err != nil {
		return nil, err
	}
	storages := []multistorage.NamedStorage{{Name: "json_dump", Storage: dumpAdapter}}

	if a.config.Database.URL != "" {
		dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: a.config.Database.URL, MaxConns: 2})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		pgAdapter, err := postgres_adapter.NewPostgresListingStorageAdapter(dbPool)
		if err != nil {
			return nil, err
		}
		if err := pgAdapter.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		storages = append(storages, multistorage.NamedStorage{Name: "postgres", Storage: pgAdapter})
	}

	if a.config.RabbitMQ.URL != "" {
		// проверяем контракты до первого запроса к сайту
		if err := contracts.LoadSchemas(); err != nil {
			return nil, fmt.Errorf("failed to load event schemas: %w", err)
		}

		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		a.connManager = connManager
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
			ExchangeName:             constants.ParserExchange,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		a.eventProducer = eventProducer

		queueAdapter, err := rabbitmq_adapter.NewProcessedListingQueueAdapter(eventProducer, constants.RoutingKeyProcessedListings)
		if err != nil {
			return nil, err
		}
		storages = append(storages, multistorage.NamedStorage{Name: "rabbitmq", Storage: queueAdapter})
	}

	names := make([]string, 0, len(storages))
	for _, s := range storages {
		names = append(names, s.Name)
	}
	appLogger.Info("Storages initialized.", port.Fields{"storages": names})

	return multistorage.NewMultiStorageAdapter(storages...)
}

func newDelay(cfg configs.DelayConfig) (port.DelayPort, error) {
	switch cfg.Strategy {
	case constants.DelayStrategyTokenBucket:
		return delay.NewTokenBucketDelayAdapter(cfg.RatePerSecond, cfg.Burst)
	case constants.DelayStrategyRandom:
		return delay.NewRandomDelayAdapter(cfg.Min, cfg.Max)
	default:
		return nil, fmt.Errorf("unknown delay strategy %q", cfg.Strategy)
	}
}

type crawlResult struct {
	report *domain.CrawlReport
	err    error
}

// Run выполняет один прогон и управляет жизненным циклом ресурсов.
// SIGINT/SIGTERM отменяют контекст; прогон останавливается перед следующим запросом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	defer a.closeResources()

	appLogger := a.logger.WithFields(port.Fields{"component": "app"})
	ctx := contextkeys.ContextWithLogger(appCtx, a.logger)

	done := make(chan crawlResult, 1)
	go func() {
		report, err := a.crawlUseCase.Execute(ctx)
		done <- crawlResult{report: report, err: err}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	appLogger.Info("Application is running. Crawl started.", port.Fields{"start_url": a.config.Crawler.StartURL()})

	var result crawlResult
	select {
	case receivedSignal := <-quit:
		appLogger.Warn("Received signal. Stopping crawl...", port.Fields{"signal": receivedSignal.String()})
		cancelApp()
		result = <-done
	case result = <-done:
	}

	if result.err != nil {
		appLogger.Error("Crawl failed", result.err, nil)
		return fmt.Errorf("crawl failed: %w", result.err)
	}

	appLogger.Info("Crawl completed", port.Fields{
		"run_id":         result.report.RunID.String(),
		"pages_visited":  result.report.PagesVisited,
		"links_found":    result.report.LinksFound,
		"listings_saved": result.report.ListingsSaved,
		"dump_file":      a.config.Output.DumpFilename,
		"duration":       result.report.Duration().String(),
	})
	return nil
}

func (a *App) closeResources() {
	logf := func(msg string, err error) {
		if a.logger != nil {
			a.logger.Error(msg, err, nil)
			return
		}
		slog.Error(msg, "err", err)
	}

	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			logf("Error closing event producer", err)
		}
		a.eventProducer = nil
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			logf("Error closing RabbitMQ connection manager", err)
		}
		a.connManager = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
	}
	if a.logger != nil {
		a.logger.Info("Application shut down.", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			slog.Error("Error closing fluent client", "err", err)
		}
		a.fluentClient = nil
	}
}
