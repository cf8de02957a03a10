package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
indexed messages.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve over HTTP instead.

Tools:
  search_messages                           search with text and filters
Resources:
  sercha-discord://index                    index status
  sercha-discord://schema                   message schema
  sercha-discord://channels/{id}/messages   newest messages of a channel

Examples:
  sercha-discord mcp serve
  sercha-discord mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Schema: messageSchema,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmdContext(cmd), addr)
	}

	return server.Run(cmdContext(cmd))
}
