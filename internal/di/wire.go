//go:build wireinject
// +build wireinject

package di

import (
	"SectorPulse/pkg/config"
	"SectorPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideSnapshotStore,
		ProvideSnapshots,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideHTTPClient,

		// Repositories
		ProvideBarStore,
		ProvidePublisher,
		ProvideMarketSource,

		// Use cases
		ProvideAnalysisService,
		ProvideTrainerConfig,
		ProvideTrainingRunner,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
