package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gomerge/internal/integrity"
	"github.com/dbsmedya/gomerge/internal/merge"
	"github.com/dbsmedya/gomerge/internal/snapshot"
)

var (
	mergeCurrent     string
	mergeIncoming    string
	mergeOut         string
	mergeShowChanges bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge an incoming snapshot into a working copy",
	Long: `Merge reconciles the working copy in --current with the snapshot in
--incoming using the configured merge mode, then checks relation integrity
of the result.

Tables are merged parents first. Tables only the incoming snapshot has are
copied. The merged working copy is written to --out when given.

Example:
  gomerge merge --current working.yaml --incoming fresh.yaml --out merged.yaml
  gomerge merge --mode refresh_preserving_local_changes --current working.yaml --incoming fresh.yaml`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeCurrent, "current", "",
		"Working copy snapshot (required)")
	mergeCmd.Flags().StringVar(&mergeIncoming, "incoming", "",
		"Incoming snapshot (required)")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "",
		"Write the merged working copy to this file")
	mergeCmd.Flags().BoolVar(&mergeShowChanges, "show-changes", false,
		"List every added, updated and deleted record")
	mergeCmd.MarkFlagRequired("current")
	mergeCmd.MarkFlagRequired("incoming")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
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

	current, err := loadSnapshot(mergeCurrent, cfg)
	if err != nil {
		return fmt.Errorf("failed to load current snapshot: %w", err)
	}
	incoming, err := loadSnapshot(mergeIncoming, cfg)
	if err != nil {
		return fmt.Errorf("failed to load incoming snapshot: %w", err)
	}

	log.Infow("merging snapshots",
		"current", mergeCurrent,
		"incoming", mergeIncoming,
		"mode", opts.Mode)

	res, mergeErr := merge.MergeDataset(current, incoming, opts)

	w := newReport(cmd)
	w.MergeResult(opts.Mode, res)
	if mergeShowChanges {
		w.Blank()
		w.Changes(res)
	}
	if mergeErr != nil {
		return fmt.Errorf("merge failed: %w", mergeErr)
	}

	violations := integrity.Validate(current, validationOptions(cfg, log))
	w.Blank()
	w.Violations(violations)
	if cfg.Validation.FailOnViolations {
		if err := violations.Err(); err != nil {
			return err
		}
	}

	if mergeOut != "" {
		if err := snapshot.Save(mergeOut, current); err != nil {
			return fmt.Errorf("failed to write merged snapshot: %w", err)
		}
		log.Infow("merged snapshot written", "path", mergeOut)
	}
	return nil
}
