package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

var (
	searchLimit        int
	searchJSON         bool
	searchChannels     []string
	searchAuthor       string
	searchMentionsUser string
	searchMentionsRole string
	searchHas          []string
	searchPinned       bool
	searchBefore       string
	searchAfter        string
)

const snippetLength = 120

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed messages",
	Long: `Searches message text and embed text with BM25 ranking.
Every word of the query must appear. Filters narrow the results:
channels are ORed, every other filter must match.

Media categories for --has: link, embed, file, video, image, sound, sticker.
Dates for --before and --after are RFC 3339 or YYYY-MM-DD.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVarP(&searchChannels, "channel", "c", nil, "only messages in these channel ids")
	searchCmd.Flags().StringVar(&searchAuthor, "author", "", "only messages by this user id")
	searchCmd.Flags().StringVar(&searchMentionsUser, "mentions-user", "", "only messages mentioning this user id")
	searchCmd.Flags().StringVar(&searchMentionsRole, "mentions-role", "", "only messages mentioning this role id")
	searchCmd.Flags().StringSliceVar(&searchHas, "has", nil, "only messages containing these media categories")
	searchCmd.Flags().BoolVar(&searchPinned, "pinned", false, "only pinned (or with =false, unpinned) messages")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "only messages at or before this date")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "only messages at or after this date")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	search, err := buildMessageSearch(cmd, args)
	if err != nil {
		return err
	}

	results, err := searchService.Search(cmdContext(cmd), search)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func buildMessageSearch(cmd *cobra.Command, args []string) (domain.MessageSearch, error) {
	search := domain.MessageSearch{Limit: searchLimit}
	if len(args) > 0 {
		search.Text = args[0]
	}
	if search.Limit < 0 {
		return search, fmt.Errorf("invalid limit %d", search.Limit)
	}

	for _, c := range searchChannels {
		id, err := parseID("channel", c)
		if err != nil {
			return search, err
		}
		search.ChannelIDs = append(search.ChannelIDs, id)
	}

	var err error
	if search.AuthorID, err = optionalID("author", searchAuthor); err != nil {
		return search, err
	}
	if search.MentionUserID, err = optionalID("user", searchMentionsUser); err != nil {
		return search, err
	}
	if search.MentionRoleID, err = optionalID("role", searchMentionsRole); err != nil {
		return search, err
	}

	for _, name := range searchHas {
		category, err := domain.ParseMediaCategory(strings.TrimSpace(name))
		if err != nil {
			return search, err
		}
		search.Has = append(search.Has, category)
	}

	if cmd.Flags().Changed("pinned") {
		pinned := searchPinned
		search.Pinned = &pinned
	}

	if search.Before, err = optionalDate("before", searchBefore); err != nil {
		return search, err
	}
	if search.After, err = optionalDate("after", searchAfter); err != nil {
		return search, err
	}
	return search, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.MessageHit) error {
	if results == nil {
		results = []domain.MessageHit{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.MessageHit) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		// Format: [N] channel/message (score)
		cmd.Printf("  [%d] %d/%d (%.2f)\n", i+1, r.ChannelID, r.ID, r.Score)
		if text := snippet(r.Content, snippetLength); text != "" {
			cmd.Printf("      %s\n", text)
		}
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates to maxRunes.
func snippet(content string, maxRunes int) string {
	s := strings.Join(strings.Fields(content), " ")
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-1]) + "…"
}

func parseID(what, s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func optionalID(what, s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(what, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalDate(what, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s date %q: use RFC 3339 or YYYY-MM-DD", what, s)
}
