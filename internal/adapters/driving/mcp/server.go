package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for sercha-discord.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingSearchService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "sercha-discord",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions(ports)}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients how messages are searched. The schema
// resource is only mentioned when it is served.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("Searches Discord messages indexed by sercha-discord.\n")
	b.WriteString("Use the " + toolSearchMessages + " tool with free text and optional filters. ")
	b.WriteString("Channel, user and role ids are decimal strings; dates are RFC 3339. ")
	b.WriteString("Channel ids are ORed, all other filters must match.\n")
	b.WriteString("Read " + uriScheme + "index for index status")
	if ports.Schema != nil {
		b.WriteString(" and " + uriScheme + "schema for the indexed fields")
	}
	b.WriteString(".")
	return b.String()
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
