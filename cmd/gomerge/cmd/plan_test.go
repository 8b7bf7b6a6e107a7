package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCommandStructure(t *testing.T) {
	assert.NotNil(t, planCmd)
	assert.Equal(t, "plan", planCmd.Use)
	assert.NotEmpty(t, planCmd.Short)
	assert.NotEmpty(t, planCmd.Long)
	assert.NotNil(t, planCmd.RunE)
}

func TestPlanCommandFlags(t *testing.T) {
	flags := planCmd.Flags()

	for _, name := range []string{"current", "incoming"} {
		flag := flags.Lookup(name)
		if assert.NotNil(t, flag, name) {
			assert.Equal(t, "", flag.DefValue)
			assert.Contains(t, flag.Annotations, "cobra_annotation_bash_completion_one_required_flag")
		}
	}
}

func TestPlanIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "plan" {
			found = true
			break
		}
	}
	assert.True(t, found, "plan command should be added to root command")
}

func TestRunPlan(t *testing.T) {
	_, cfg, current, incoming := shopFiles(t, shopConfig)

	output, err := execute(t, "plan", "--config", cfg, "--current", current, "--incoming", incoming)
	require.NoError(t, err, output)

	assert.Contains(t, output, "Merge Plan: replace")
	assert.Contains(t, output, "[Relation Tree]")
	assert.Contains(t, output, "└── orders")
	assert.Contains(t, output, "[Merge Order (parent tables first)]")
	assert.Contains(t, output, "fk_orders_customer: customers(Id) -> orders(CustomerId)")
	assert.NotContains(t, output, "blocked")
}

func TestRunPlan_ShowsBlockedTables(t *testing.T) {
	_, cfg, current, incoming := shopFiles(t, shopConfig)

	output, err := execute(t, "plan", "--config", cfg, "--mode", "refresh_if_no_changes",
		"--current", current, "--incoming", incoming)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Merge Plan: refresh_if_no_changes")
	assert.Contains(t, output, "blocked: ")
}

func TestRunPlan_RequiresSnapshots(t *testing.T) {
	_, cfg, current, _ := shopFiles(t, shopConfig)

	_, err := execute(t, "plan", "--config", cfg, "--current", current, "--incoming", "/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load incoming snapshot")
}
