package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "sercha-discord version test-version-1.0.0")
}

func TestVersionCmd_PrintsSchemaFingerprint(t *testing.T) {
	SetServices(Services{})
	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "schema "+domain.BuildMessageSchema().Schema().Fingerprint())
	assert.Contains(t, out, runtime.Version())
}
