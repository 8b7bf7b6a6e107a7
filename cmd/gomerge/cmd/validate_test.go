package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Name())
	assert.NotEmpty(t, validateCmd.Short)
	assert.Contains(t, validateCmd.Short, "Validate")
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateCommandChecks(t *testing.T) {
	doc := validateCmd.Long
	assert.Contains(t, doc, "Checks performed")
	assert.Contains(t, doc, "Configuration")
	assert.Contains(t, doc, "Orphan child rows")
	assert.Contains(t, doc, "Deleted parent rows")
	assert.Contains(t, doc, "Example:")
	assert.Contains(t, doc, "gomerge validate")
}

func TestRunValidate_ConfigOnly(t *testing.T) {
	_, cfg, _, _ := shopFiles(t, shopConfig)

	output, err := execute(t, "validate", "--config", cfg)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Merge mode: replace")
	assert.Contains(t, output, "Configured relations: 1")
	assert.Contains(t, output, "=== Validation Complete ===")
}

func TestRunValidate_CleanSnapshot(t *testing.T) {
	_, cfg, _, incoming := shopFiles(t, shopConfig)

	output, err := execute(t, "validate", "--config", cfg, incoming)
	require.NoError(t, err, output)
	assert.Contains(t, output, "[Snapshot: "+incoming+"]")
	assert.Contains(t, output, "Relations: 1")
	assert.Contains(t, output, "no violations")
}

func TestRunValidate_Violations(t *testing.T) {
	dir, cfg, _, _ := shopFiles(t, shopConfig)
	orphans := writeFile(t, dir, "orphan.yaml", orphanSnapshot)

	output, err := execute(t, "validate", "--config", cfg, orphans)
	require.Error(t, err)
	assert.Equal(t, "validation failed: 1 relation violation(s)", err.Error())
	assert.Contains(t, output, "orphan_child_row")
	assert.Contains(t, output, "no parent Id=9")
}

func TestRunValidate_ViolationsTolerated(t *testing.T) {
	dir, cfg, _, _ := shopFiles(t, lenientConfig)
	orphans := writeFile(t, dir, "orphan.yaml", orphanSnapshot)

	output, err := execute(t, "validate", "--config", cfg, orphans)
	require.NoError(t, err, output)
	assert.Contains(t, output, "orphan_child_row")
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "gomerge.yaml", "merge:\n  mode: overwrite\n")

	_, err := execute(t, "validate", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "merge.mode")
}
