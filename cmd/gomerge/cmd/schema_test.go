package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCommandStructure(t *testing.T) {
	assert.NotNil(t, schemaCmd)
	assert.Equal(t, "schema", schemaCmd.Use)
	assert.NotEmpty(t, schemaCmd.Short)
	assert.Contains(t, schemaCmd.Long, "information_schema")
	assert.NotNil(t, schemaCmd.RunE)

	flags := schemaCmd.Flags()
	out := flags.Lookup("out")
	if assert.NotNil(t, out) {
		assert.Equal(t, "o", out.Shorthand)
	}
	tables := flags.Lookup("tables")
	if assert.NotNil(t, tables) {
		assert.Equal(t, "t", tables.Shorthand)
		assert.Equal(t, "[]", tables.DefValue)
	}
	rows := flags.Lookup("rows")
	if assert.NotNil(t, rows) {
		assert.Equal(t, "false", rows.DefValue)
	}
}

func TestRunSchema_RequiresSource(t *testing.T) {
	_, cfg, _, _ := shopFiles(t, shopConfig)

	_, err := execute(t, "schema", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source configuration")
	assert.Contains(t, err.Error(), "source.host")
}
