package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

func TestSchemaCmd_Table(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "schema")

	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	for _, name := range []string{
		domain.FieldNameID,
		domain.FieldNameChannelID,
		domain.FieldNameContent,
		domain.FieldNameEmbedContent,
		domain.FieldNameHas,
	} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Fingerprint: "+domain.BuildMessageSchema().Schema().Fingerprint())
}

func TestSchemaCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "schema", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "output should be valid JSON")
	assert.Contains(t, out, domain.FieldNameMentionRoleID)
}

func TestSchemaCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})
	_, err := execute(t, "schema")
	assert.ErrorContains(t, err, "message schema not configured")
}
