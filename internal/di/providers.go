package di

import (
	"context"
	"fmt"
	"time"

	"SectorPulse/internal/domain/repository"
	"SectorPulse/internal/handler/api"
	internalrepo "SectorPulse/internal/repository"
	"SectorPulse/internal/service/fmp"
	"SectorPulse/internal/services/forecast"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/cache"
	pkgch "SectorPulse/pkg/clickhouse"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	pkgkafka "SectorPulse/pkg/kafka"
	applogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"
	"SectorPulse/pkg/server"

	"github.com/labstack/echo/v4"
)

// ProvideLogger creates the application logger with a ring of recent
// warn/error events for the system events endpoint.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	log, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}
	log.AttachRing(256)
	return log, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSnapshotStore creates the snapshot cache backend.
func ProvideSnapshotStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisStore(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis snapshot store: %w", err)
		}
		return store, nil
	}
	return cache.NewMemoryStore(), nil
}

// ProvideSnapshots adapts the cache store to the domain interface.
func ProvideSnapshots(store cache.Store) repository.Snapshots {
	return store
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// backend is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates ClickHouse-backed bar storage, or nil without a
// ClickHouse client.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) (repository.BarStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseBarStore(chClient.DB(), "sector_bars", "treasury_curves")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store init: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the forecast event publisher, or nil without a
// producer.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideHTTPClient creates the outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.DataSource.Timeout))
}

// ProvideMarketSource creates the FMP market data source.
func ProvideMarketSource(cfg *config.Config, httpClient *xhttp.Client, snapshots repository.Snapshots, log *applogger.Logger) repository.MarketSource {
	return fmp.New(fmp.Config{
		APIKey:      cfg.DataSource.APIKey,
		BaseURL:     cfg.DataSource.BaseURL,
		CacheMaxAge: cfg.Cache.MaxAge,
	}, httpClient, snapshots, log)
}

// ProvideAnalysisService creates the analysis use case.
func ProvideAnalysisService(
	cfg *config.Config,
	source repository.MarketSource,
	store repository.BarStore,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.AnalysisService {
	sectors := make([]usecase.Instrument, len(cfg.Universe.Sectors))
	for i, s := range cfg.Universe.Sectors {
		sectors[i] = usecase.Instrument{Symbol: s.Symbol, Name: s.Name}
	}
	return usecase.NewAnalysisService(usecase.AnalysisConfig{
		Sectors:        sectors,
		Benchmark:      cfg.Universe.Benchmark,
		LookbackDays:   cfg.DataSource.LookbackDays,
		ShortVolWindow: cfg.Model.ShortVolWindow,
		LongVolWindow:  cfg.Model.LongVolWindow,
	}, source, store, m, log)
}

// ProvideTrainerConfig maps the model section to trainer hyperparameters.
func ProvideTrainerConfig(cfg *config.Config) forecast.TrainerConfig {
	return forecast.TrainerConfig{
		Epochs:         cfg.Model.Epochs,
		BatchSize:      cfg.Model.BatchSize,
		TrainFraction:  cfg.Model.TrainFraction,
		HiddenSize:     cfg.Model.HiddenSize,
		LearningRate:   cfg.Model.LearningRate,
		Lookback:       cfg.Model.Lookback,
		Forward:        cfg.Model.Forward,
		ShortVolWindow: cfg.Model.ShortVolWindow,
		LongVolWindow:  cfg.Model.LongVolWindow,
		SectorBasis:    cfg.Model.SectorBasis,
		Seed:           cfg.Model.Seed,
	}
}

// ProvideTrainingRunner creates the training use case.
func ProvideTrainingRunner(
	trainerCfg forecast.TrainerConfig,
	analysis *usecase.AnalysisService,
	m repository.Metrics,
	publisher repository.Publisher,
	snapshots repository.Snapshots,
	log *applogger.Logger,
) *usecase.TrainingRunner {
	return usecase.NewTrainingRunner(trainerCfg, analysis, m, publisher, snapshots, log)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	log *applogger.Logger,
	analysis *usecase.AnalysisService,
	runner *usecase.TrainingRunner,
	chClient *pkgch.Client,
) xhttp.Handler {
	var health func(c echo.Context) error
	if chClient != nil {
		health = func(c echo.Context) error {
			return chClient.Health(c.Request().Context())
		}
	}
	return api.NewForecastHandler(log, analysis, runner, health)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	analysis *usecase.AnalysisService,
	runner *usecase.TrainingRunner,
	chClient *pkgch.Client,
	publisher repository.Publisher,
	snapshots cache.Store,
) *server.App {
	return server.New(cfg, log, handler, analysis, runner, chClient, publisher, snapshots)
}
