package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	info, err := searchService.Info(cmdContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	cmd.Println("Index")
	cmd.Println("=====")
	cmd.Printf("  ID:        %s\n", info.ID)
	cmd.Printf("  Location:  %s\n", info.Location)
	cmd.Printf("  Schema:    %s\n", shortFingerprint(info.Fingerprint))
	if !info.CreatedAt.IsZero() {
		cmd.Printf("  Created:   %s\n", info.CreatedAt.Format(time.RFC3339))
	}
	cmd.Printf("  Messages:  %d\n", info.Documents)
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
