// Package wire provides dependency injection for the garrison
// application. It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	cliadapter "github.com/example/garrison/internal/adapters/cli"
	"github.com/example/garrison/internal/adapters/catalog"
	"github.com/example/garrison/internal/adapters/sqlite"
	"github.com/example/garrison/internal/app"
	"github.com/example/garrison/internal/db"
	"github.com/example/garrison/internal/ports/primary"
)

var (
	garrisonService primary.GarrisonService
	gameCatalog     *catalog.Catalog
	once            sync.Once
)

// GarrisonService returns the singleton GarrisonService instance.
func GarrisonService() primary.GarrisonService {
	once.Do(initServices)
	return garrisonService
}

// Catalog returns the singleton game catalog.
func Catalog() *catalog.Catalog {
	once.Do(initServices)
	return gameCatalog
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	garrisonRepo := sqlite.NewGarrisonRepository(database)
	identityRepo := sqlite.NewIdentityRepository(database)

	gameCatalog = loadCatalog()
	garrisonService = app.NewGarrisonService(garrisonRepo, gameCatalog, identityRepo)
}

// loadCatalog reads ~/.garrison/catalog.yaml when present, otherwise
// falls back to the embedded default catalog.
func loadCatalog() *catalog.Catalog {
	home, err := os.UserHomeDir()
	if err != nil {
		return catalog.Default()
	}
	path := filepath.Join(home, ".garrison", "catalog.yaml")
	if _, err := os.Stat(path); err != nil {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		log.Fatalf("failed to load catalog %s: %v", path, err)
	}
	return cat
}

// GarrisonAdapter returns a new GarrisonAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func GarrisonAdapter() *cliadapter.GarrisonAdapter {
	return GarrisonAdapterWithOutput(os.Stdout)
}

// GarrisonAdapterWithOutput returns a new GarrisonAdapter writing to the
// given output. This variant allows testing or alternate destinations.
func GarrisonAdapterWithOutput(out io.Writer) *cliadapter.GarrisonAdapter {
	once.Do(initServices)
	return cliadapter.NewGarrisonAdapter(garrisonService, out)
}
