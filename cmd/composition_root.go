package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	adapterhttp "foodorder/internal/adapters/in/http"
	"foodorder/internal/adapters/out/filestore"
	"foodorder/internal/adapters/out/postgres/snapshotstore"
	"foodorder/internal/core/application/ordering"
	"foodorder/internal/core/domain/model/agent"
	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/ports"
	"foodorder/internal/jobs"
)

// CompositionRoot assembles the application object graph from configuration:
// catalog, agent pool, snapshot store, ordering service, jobs and the HTTP
// server.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	service    *ordering.Service
	jobManager *jobs.JobManager
	httpServer *adapterhttp.Server
}

// NewCompositionRoot builds the full object graph and restores the latest
// snapshot, if any.
func NewCompositionRoot(ctx context.Context, config Config) (*CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cat, err := buildCatalog(config)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	agents, err := buildAgentPool(config)
	if err != nil {
		return nil, fmt.Errorf("build agent pool: %w", err)
	}

	store, err := buildSnapshotStore(config)
	if err != nil {
		return nil, fmt.Errorf("build snapshot store: %w", err)
	}

	var opts []ordering.Option
	if config.ManagerUsername != "" && config.ManagerPassword != "" {
		opts = append(opts, ordering.WithManagerCredentials(config.ManagerUsername, config.ManagerPassword))
	}

	service, err := ordering.LoadService(ctx, cat, agents, store, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("load ordering service: %w", err)
	}

	return &CompositionRoot{
		config:     config,
		logger:     logger,
		service:    service,
		jobManager: jobs.NewJobManager(service, logger),
		httpServer: adapterhttp.NewServer(service, nil),
	}, nil
}

// Service returns the ordering service.
func (c *CompositionRoot) Service() *ordering.Service {
	return c.service
}

// JobManager returns the background job manager.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// HTTPServer returns the inbound HTTP adapter.
func (c *CompositionRoot) HTTPServer() *adapterhttp.Server {
	return c.httpServer
}

// Logger returns the application logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func buildCatalog(config Config) (*catalog.Catalog, error) {
	if config.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(config.CatalogPath)
}

func buildAgentPool(config Config) ([]*agent.DeliveryAgent, error) {
	names := config.AgentNameList()
	agents := make([]*agent.DeliveryAgent, 0, len(names))
	for i, name := range names {
		a, err := agent.NewDeliveryAgent(fmt.Sprintf("DA%d", i+1), name)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

func buildSnapshotStore(config Config) (ports.SnapshotStore, error) {
	switch config.StorageDriver {
	case StorageDriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

		db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		store, err := snapshotstore.NewStore(db)
		if err != nil {
			return nil, err
		}
		if err = store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate snapshot schema: %w", err)
		}
		return store, nil

	case StorageDriverFile, "":
		return filestore.New(config.SnapshotPath)

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", config.StorageDriver)
	}
}
