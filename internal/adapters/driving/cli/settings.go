package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the bot token, index location and backfill throttling.

Settings are stored in ~/.sercha-discord/config.toml. Environment variables
(DISCORD_TOKEN, SERCHA_DATA_DIR, SERCHA_BACKFILL_RATE, SERCHA_BACKFILL_PAGE_SIZE,
SERCHA_VERBOSE) and a .env file in the working directory override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a single setting. Keys:
  discord.token       bot token
  index.data_dir      index directory (default ~/.sercha-discord/data)
  backfill.rate       history requests per second
  backfill.page_size  messages per history request (1-100)
  log.verbose         debug logging (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the Discord bot token",
	Long:  `Prompts for the bot token without echoing it and saves it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

// readSecret reads the token; replaced in tests.
var readSecret = readPassword

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Discord]")
	if settings.HasToken() {
		cmd.Printf("  Token: %s\n", maskToken(settings.DiscordToken))
	} else {
		cmd.Println("  Token: (not set)")
	}
	cmd.Println()

	cmd.Println("[Index]")
	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = "~/.sercha-discord/data (default)"
	}
	cmd.Printf("  Data directory: %s\n", dataDir)
	cmd.Println()

	cmd.Println("[Backfill]")
	cmd.Printf("  Rate: %g requests/s\n", settings.BackfillRate)
	cmd.Printf("  Page size: %d\n", settings.BackfillPageSize)
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Verbose: %t\n", settings.Verbose)
	cmd.Println()

	if !settings.HasToken() {
		cmd.Println("Run 'sercha-discord settings token' to set the bot token.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (keys: %s)", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Bot token: ")
	token := strings.TrimSpace(readSecret())
	cmd.Println()
	if token == "" {
		return errors.New("no token entered")
	}

	if err := settingsService.Set(keyDiscordToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	cmd.Printf("Token saved: %s\n", maskToken(token))
	return nil
}

// keyDiscordToken is the settings key of the bot token.
//
//nolint:gosec // G101: config key name, not a credential
const keyDiscordToken = "discord.token"

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
