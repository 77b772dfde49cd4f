// Package wire provides dependency injection for the prodline application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"log"
	"sync"

	"github.com/example/prodline/internal/adapters/sqlite"
	"github.com/example/prodline/internal/app"
	"github.com/example/prodline/internal/db"
	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/registry"
)

var (
	procedureService primary.ProcedureService
	recordService    primary.RecordService
	pipelineService  primary.PipelineService
	usidService      primary.USIDService
	schemaRegistry   *registry.Registry
	once             sync.Once
)

// ProcedureService returns the singleton ProcedureService instance.
func ProcedureService() primary.ProcedureService {
	once.Do(initServices)
	return procedureService
}

// RecordService returns the singleton RecordService instance.
func RecordService() primary.RecordService {
	once.Do(initServices)
	return recordService
}

// PipelineService returns the singleton PipelineService instance.
func PipelineService() primary.PipelineService {
	once.Do(initServices)
	return pipelineService
}

// USIDService returns the singleton USIDService instance.
func USIDService() primary.USIDService {
	once.Do(initServices)
	return usidService
}

// Registry returns the singleton schema registry.
func Registry() *registry.Registry {
	once.Do(initServices)
	return schemaRegistry
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	procedureRepo := sqlite.NewProcedureRepository(database)
	synchronizer := sqlite.NewSynchronizer(database)
	recordStore := sqlite.NewRecordStore(database)
	counterRepo := sqlite.NewCounterRepository(database)

	schemaRegistry = registry.New()

	// Create services (primary ports implementation)
	procedures := app.NewProcedureService(procedureRepo, synchronizer, schemaRegistry)
	procedureService = procedures
	recordService = app.NewRecordService(recordStore, procedures)
	pipelineService = app.NewPipelineService(recordStore, procedures)
	usidService = app.NewUSIDService(counterRepo)

	// Rehydrate the registry from stored configurations before any
	// record traffic.
	if err := procedures.LoadRegistry(context.Background()); err != nil {
		log.Fatalf("failed to load schema registry: %v", err)
	}
}
