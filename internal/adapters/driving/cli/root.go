// Package cli provides the sercha-discord command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Runner is a long-running component such as the gateway connection.
type Runner interface {
	Run(ctx context.Context) error
}

// ConfigWatcher reports changes to the settings file.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services holds everything the commands use. Nil fields disable the
// commands that need them.
type Services struct {
	Settings driving.SettingsService
	Search   driving.SearchService
	Backfill driving.BackfillService
	Gateway  Runner
	Schema   *domain.MessageSchema
	// Watcher reloads settings while the bot runs.
	Watcher ConfigWatcher
}

var (
	settingsService driving.SettingsService
	searchService   driving.SearchService
	backfillService driving.BackfillService
	gatewayRunner   Runner
	messageSchema   *domain.MessageSchema
	configWatcher   ConfigWatcher

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sercha-discord",
	Short: "Full-text search for Discord messages",
	Long: `sercha-discord is a Discord bot that indexes guild messages as they are
posted and searches them by text, channel, author, mentions, attachments,
pin state and date.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices configures the services used by commands.
func SetServices(s Services) {
	settingsService = s.Settings
	searchService = s.Search
	backfillService = s.Backfill
	gatewayRunner = s.Gateway
	messageSchema = s.Schema
	configWatcher = s.Watcher
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
