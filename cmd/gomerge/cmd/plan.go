package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gomerge/internal/merge"
	"github.com/dbsmedya/gomerge/internal/report"
)

var (
	planCurrent  string
	planIncoming string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the merge plan for two snapshots",
	Long: `Plan shows what merging --incoming into --current would do, without
changing either snapshot.

The plan shows:
  - Relation tree of both snapshots
  - Merge order (parent tables first) with the action per table
  - Effective key columns, pending local changes and incoming row counts
  - Tables whose merge would be refused by the mode's precondition
  - Delete order (child tables first) used when saving changes
  - Declared relations and any relation cycle

Example:
  gomerge plan --current working.yaml --incoming fresh.yaml`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planCurrent, "current", "",
		"Working copy snapshot (required)")
	planCmd.Flags().StringVar(&planIncoming, "incoming", "",
		"Incoming snapshot (required)")
	planCmd.MarkFlagRequired("current")
	planCmd.MarkFlagRequired("incoming")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := merge.OptionsFromConfig(&cfg.Merge)
	if err != nil {
		return fmt.Errorf("invalid merge options: %w", err)
	}
	opts.Logger = log

	m, err := merge.NewMerger(opts)
	if err != nil {
		return err
	}

	current, err := loadSnapshot(planCurrent, cfg)
	if err != nil {
		return fmt.Errorf("failed to load current snapshot: %w", err)
	}
	incoming, err := loadSnapshot(planIncoming, cfg)
	if err != nil {
		return fmt.Errorf("failed to load incoming snapshot: %w", err)
	}

	newReport(cmd).Plan(report.NewPlan(m, current, incoming))
	return nil
}
