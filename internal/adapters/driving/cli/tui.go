package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for searching messages.

Queries take the same filters as the search command, written inline:
  deploy in:381870553235193857 has:link before:2024-02-01

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Search
  Esc      - Back / Cancel
  i        - Index status
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	if searchService == nil {
		return errors.New("search service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Search: searchService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	return app.WithContext(cmdContext(cmd)).Run()
}
