package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gomerge/internal/bridge"
	"github.com/dbsmedya/gomerge/internal/database"
	"github.com/dbsmedya/gomerge/internal/merge"
	"github.com/dbsmedya/gomerge/internal/snapshot"
)

var (
	saveWorking  string
	saveStore    string
	saveOut      string
	saveStoreOut string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save working copy changes to a store snapshot",
	Long: `Save writes the pending changes of --working to the store held in
--store, then merges the store's confirmation back into the working copy in
post_save mode.

Added rows are inserted and receive store-assigned keys, modified rows are
patched with their changed columns only, deleted rows are removed. Parents
are written before children and keys assigned to new parents are carried
into their children's foreign keys. The working copy ends without pending
changes; rows are re-identified through their ClientKey column.

Example:
  gomerge save --working working.yaml --store store.yaml --out working.yaml --store-out store.yaml`,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveWorking, "working", "",
		"Working copy snapshot holding pending changes (required)")
	saveCmd.Flags().StringVar(&saveStore, "store", "",
		"Store snapshot the changes are written to (required)")
	saveCmd.Flags().StringVarP(&saveOut, "out", "o", "",
		"Write the reconciled working copy to this file")
	saveCmd.Flags().StringVar(&saveStoreOut, "store-out", "",
		"Write the updated store to this file")
	saveCmd.MarkFlagRequired("working")
	saveCmd.MarkFlagRequired("store")

	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	working, err := loadSnapshot(saveWorking, cfg)
	if err != nil {
		return fmt.Errorf("failed to load working snapshot: %w", err)
	}
	storeSchema, err := loadSnapshot(saveStore, cfg)
	if err != nil {
		return fmt.Errorf("failed to load store snapshot: %w", err)
	}
	store, err := bridge.NewMemoryStoreFromDataset(storeSchema)
	if err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	ctx, cancel := database.SetupSignalHandler(context.Background(), log)
	defer cancel()

	keyOverrides := cfg.Merge.PrimaryKeyOverrideMap()
	saved, outcomes, applyErr := bridge.ApplyDataset(ctx, store, working.GetChanges(), bridge.Options{
		KeyOverrides: keyOverrides,
		Logger:       log,
	})

	w := newReport(cmd)
	w.Outcomes(outcomes)
	if applyErr != nil {
		return fmt.Errorf("save failed: %w", applyErr)
	}

	res, err := merge.MergeDataset(working, saved, merge.Options{
		Mode:                      merge.PostSave,
		OverriddenPrimaryKeyNames: keyOverrides,
		Logger:                    log,
	})
	w.Blank()
	w.MergeResult(merge.PostSave, res)
	if err != nil {
		return fmt.Errorf("post-save merge failed: %w", err)
	}

	if saveOut != "" {
		if err := snapshot.Save(saveOut, working); err != nil {
			return fmt.Errorf("failed to write working snapshot: %w", err)
		}
		log.Infow("working snapshot written", "path", saveOut)
	}
	if saveStoreOut != "" {
		updated, err := store.Snapshot(storeSchema)
		if err != nil {
			return err
		}
		if err := snapshot.Save(saveStoreOut, updated); err != nil {
			return fmt.Errorf("failed to write store snapshot: %w", err)
		}
		log.Infow("store snapshot written", "path", saveStoreOut)
	}
	return nil
}
