// Command docgraph builds knowledge graphs and analytics over local documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/resilient"
	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docgraph/internal/adapters/driving/cli"
	"github.com/custodia-labs/docgraph/internal/connectors/filesystem"
	"github.com/custodia-labs/docgraph/internal/core/services"
	"github.com/custodia-labs/docgraph/internal/normalisers"
)

var version = "dev"

func main() {
	// A missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cli.SetVersion(version)
	cli.SetServiceFactory(openServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// openServices wires the services over the data directory: config.toml at
// its root and the SQLite store under data/.
func openServices(dataDir string) (*cli.Services, error) {
	if dataDir == "" {
		home, err := file.HomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = home
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settings := services.NewSettingsService(configStore)

	store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	reader := resilient.New(store, resilient.Options{})

	return &cli.Services{
		Graph:    services.NewGraphService(reader, settings),
		Cluster:  services.NewClusterService(reader, settings),
		Analysis: services.NewAnalysisService(reader, settings),
		Trend:    services.NewTrendService(reader, settings),
		Document: services.NewDocumentService(reader),
		Import:   services.NewImportService(store, filesystem.Factory, normalisers.Default()),
		Settings: settings,
		Close:    store.Close,
	}, nil
}
