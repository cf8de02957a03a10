package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and index new messages",
	Long: `Connects to the Discord gateway with the configured bot token and indexes
every guild message as it is posted. Runs until interrupted.

The bot needs the Message Content privileged intent enabled.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if gatewayRunner == nil {
		return errors.New("discord is not configured: set a bot token with 'sercha-discord settings token'")
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configWatcher != nil {
		watchDone := make(chan struct{})
		go func() {
			defer close(watchDone)
			if err := configWatcher.Watch(ctx, reloadSettings); err != nil {
				logger.Warn("settings will not reload: %v", err)
			}
		}()
		defer func() {
			stop()
			<-watchDone
		}()
	}

	cmd.Println("Connecting to Discord... (Ctrl+C to stop)")
	if err := gatewayRunner.Run(ctx); err != nil {
		return err
	}
	cmd.Println("Disconnected.")
	return nil
}

// reloadSettings applies settings that can change while running.
// The --verbose flag keeps debug logging on regardless of the file.
func reloadSettings() {
	if settingsService == nil {
		return
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reloading settings: %v", err)
		return
	}
	logger.SetVerbose(verbose || settings.Verbose)
}

// cmdContext returns the command's context, or Background when run
// without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
