package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var backfillLimit int

var backfillCmd = &cobra.Command{
	Use:   "backfill [channel-id]",
	Short: "Index past messages of a channel",
	Long: `Pages through a channel's history, newest first, and indexes every
message. Requests are throttled to the configured backfill rate.

Messages already in the index are indexed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().IntVarP(&backfillLimit, "limit", "n", 0, "maximum number of messages (0 for all)")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if backfillService == nil {
		return errors.New("discord is not configured: set a bot token with 'sercha-discord settings token'")
	}

	channelID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || channelID == 0 {
		return fmt.Errorf("invalid channel id %q", args[0])
	}

	cmd.Printf("Backfilling channel %d...\n", channelID)
	n, err := backfillService.Backfill(cmdContext(cmd), channelID, backfillLimit)
	if err != nil {
		return fmt.Errorf("backfill failed after %d messages: %w", n, err)
	}
	cmd.Printf("Backfilled %d messages.\n", n)
	return nil
}
