package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_HasServe(t *testing.T) {
	var names []string
	for _, c := range mcpCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"serve"}, names)
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})
	_, err := execute(t, "mcp", "serve")
	assert.ErrorContains(t, err, "search service not configured")
}
