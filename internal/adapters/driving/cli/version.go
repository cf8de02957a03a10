package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the version, the Go runtime it was built with and the fingerprint
of the message schema this binary indexes with. An index created by a
binary with a different fingerprint cannot be opened.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("sercha-discord version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("schema %s\n", versionSchema().Fingerprint())
	},
}

// versionSchema returns the configured schema, or builds it when the
// command runs without services.
func versionSchema() *domain.Schema {
	if messageSchema != nil {
		return messageSchema.Schema()
	}
	return domain.BuildMessageSchema().Schema()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
