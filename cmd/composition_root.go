package cmd

import (
	"log/slog"
	"strconv"
	"time"

	httpadapter "shipment/internal/adapters/in/http"
	"shipment/internal/adapters/out/aggregator"
	"shipment/internal/adapters/out/backend"
	"shipment/internal/adapters/out/labelstore"
	"shipment/internal/adapters/out/memory"
	"shipment/internal/core/application/usecases/commands"
	"shipment/internal/core/application/usecases/queries"
	"shipment/internal/core/domain/services"
	"shipment/internal/jobs"
	"shipment/internal/timer"
)

// Auto-commit arms for one minute after a fully retrieved label; idle
// sessions are swept after half an hour unless configured otherwise.
const (
	autoCommitTotal       = time.Minute
	autoCommitTick        = time.Second
	defaultSessionIdleTTL = 30 * time.Minute
)

type CompositionRoot struct {
	store     *memory.SessionStore
	scheduler *timer.Scheduler

	aggregatorClient *aggregator.Client
	retriever        *labelstore.Retriever
	backendClient    *backend.Client

	sessionIdleTTL time.Duration
}

func NewCompositionRoot(config Config) CompositionRoot {
	auth := aggregator.NewAuthSession(config.AggregatorBaseURL, config.AggregatorAPIKey, nil)

	return CompositionRoot{
		store:            memory.NewSessionStore(),
		scheduler:        timer.NewScheduler(autoCommitTotal, autoCommitTick),
		aggregatorClient: aggregator.NewClient(config.AggregatorBaseURL, auth, nil),
		retriever:        labelstore.NewRetriever(nil),
		backendClient:    backend.NewClient(config.BackendBaseURL, config.BackendToken, nil),
		sessionIdleTTL:   parseIdleTTL(config.SessionIdleTTLMinutes),
	}
}

func (c *CompositionRoot) CreateCommitShipmentCommandHandler() commands.CommitShipmentCommandHandler {
	return commands.NewCommitShipmentCommandHandler(
		c.store,
		c.backendClient,
		c.backendClient,
		services.NewZipConsistencyGuard(),
		c.scheduler,
	)
}

func (c *CompositionRoot) CreateRetrieveLabelCommandHandler() commands.RetrieveLabelCommandHandler {
	commitHandler := c.CreateCommitShipmentCommandHandler()
	return commands.NewRetrieveLabelCommandHandler(
		c.store,
		c.retriever,
		c.scheduler,
		commitHandler.HandleExpiry,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		commands.NewOpenSessionCommandHandler(c.store),
		commands.NewChooseFulfillmentCommandHandler(c.store, c.scheduler),
		commands.NewSetManualDetailsCommandHandler(c.store),
		commands.NewQueryRatesCommandHandler(c.store, c.aggregatorClient),
		commands.NewSelectRateCommandHandler(c.store),
		commands.NewPurchaseLabelCommandHandler(c.store, c.aggregatorClient),
		c.CreateRetrieveLabelCommandHandler(),
		commands.NewAcknowledgeManualDownloadCommandHandler(c.store),
		commands.NewCancelAutoCommitCommandHandler(c.store, c.scheduler),
		c.CreateCommitShipmentCommandHandler(),
		commands.NewCloseSessionCommandHandler(c.store, c.scheduler),
		queries.NewGetSessionStatusQueryHandler(c.store, c.scheduler),
	)
}

func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(c.store, c.sessionIdleTTL, logger)
}

func parseIdleTTL(minutes string) time.Duration {
	if minutes == "" {
		return defaultSessionIdleTTL
	}
	parsed, err := strconv.Atoi(minutes)
	if err != nil || parsed <= 0 {
		return defaultSessionIdleTTL
	}
	return time.Duration(parsed) * time.Minute
}
