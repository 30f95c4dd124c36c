package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSchemaEmbedded(t *testing.T) {
	path, ok := SchemaPath(ConfigSchemaName)
	require.True(t, ok)

	data, ok := GetSchema(path)
	require.True(t, ok)
	assert.Contains(t, string(data), "lint_config")
}

func TestGetSchemaNames(t *testing.T) {
	infos := GetSchemaNames()
	require.Len(t, infos, 1)
	assert.Equal(t, ConfigSchemaName, infos[0].Name)
	assert.Equal(t, "Draft-07", infos[0].Draft)
}

func TestGetSchemaMissing(t *testing.T) {
	_, ok := GetSchema("embedded_schemas/config/missing.yaml")
	assert.False(t, ok)
}
