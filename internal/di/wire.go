//go:build wireinject
// +build wireinject

package di

import (
	"FinDash/internal/domain/repository"
	"FinDash/internal/handler/api"
	internalrepo "FinDash/internal/repository"
	"FinDash/internal/usecase"
	"FinDash/pkg/config"
	"FinDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,
		ProvideMetricsRecorder,

		// Dataset
		ProvideCSVDataset,
		wire.Bind(new(repository.DatasetLoader), new(*internalrepo.CSVDataset)),
		wire.Bind(new(repository.DatasetExporter), new(*internalrepo.CSVDataset)),
		ProvideDataset,

		// Sessions
		ProvideCache,
		ProvideSessionStore,
		ProvideRateLimiter,

		// Analytics
		ProvideOutlierDetector,
		ProvideOutlierDefaults,
		ProvideQueryAnswerer,

		// Use cases
		usecase.NewDashboard,
		usecase.NewOutliers,
		usecase.NewChat,

		// HTTP
		api.NewDashboardEchoHandler,
		api.NewOutliersEchoHandler,
		api.NewChatEchoHandler,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
