// Command sercha-discord is a Discord bot that indexes guild messages and
// searches them from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-discord/internal/connectors/discord"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/services"
	"github.com/custodia-labs/sercha-discord/internal/logger"
	"github.com/custodia-labs/sercha-discord/internal/normalisers/message"
)

// version is set at build time.
var version = "dev"

func main() {
	closeIndex, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// cobra reports command errors itself
	err = cli.Execute(context.Background())
	closeIndex()
	if err != nil {
		os.Exit(1)
	}
}

// setup wires the adapters into the services the commands use and
// returns a function that closes the index.
func setup() (func(), error) {
	// A missing .env is fine, settings then come from the file and environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	logger.SetVerbose(settings.Verbose)

	ms := domain.BuildMessageSchema()
	index, err := sqlite.Open(settings.DataDir, ms.Schema())
	if err != nil {
		if errors.Is(err, domain.ErrSchemaMismatch) {
			return nil, fmt.Errorf("%w: the index was created with a different schema, remove it or point index.data_dir elsewhere", err)
		}
		return nil, fmt.Errorf("open index: %w", err)
	}
	closeIndex := func() {
		if err := index.Close(); err != nil {
			logger.Error("closing index: %v", err)
		}
	}

	indexer, err := services.NewIndexService(message.New(ms), index)
	if err != nil {
		closeIndex()
		return nil, err
	}

	svc := cli.Services{
		Settings: settingsService,
		Search:   services.NewSearchService(ms, index),
		Schema:   ms,
		Watcher:  configStore,
	}

	if settings.HasToken() {
		gateway, err := discord.NewGateway(settings.DiscordToken, indexer)
		if err != nil {
			closeIndex()
			return nil, err
		}
		gateway.OnReady = func(username string) {
			fmt.Printf("Logged in as %s, indexing new messages.\n", username)
		}
		history := discord.NewHistory(gateway.Session())
		svc.Gateway = gateway
		svc.Backfill = services.NewBackfillService(history, indexer, settings.BackfillRate, settings.BackfillPageSize)
	}

	cli.SetVersion(version)
	cli.SetServices(svc)
	return closeIndex, nil
}
