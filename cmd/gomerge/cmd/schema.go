package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gomerge/internal/database"
	"github.com/dbsmedya/gomerge/internal/schema"
	"github.com/dbsmedya/gomerge/internal/snapshot"
)

var (
	schemaOut    string
	schemaTables []string
	schemaRows   bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write a snapshot of the source database schema",
	Long: `Schema reads table columns, primary keys and foreign keys of the
configured source database from information_schema and writes them as a
snapshot. Foreign keys become relations. With --rows the table contents are
loaded as unchanged rows, producing a snapshot that can be merged.

Example:
  gomerge schema --config gomerge.yaml --out shop.yaml
  gomerge schema --tables customers,orders --rows --out fresh.yaml`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOut, "out", "o", "",
		"Write the snapshot to this file instead of stdout")
	schemaCmd.Flags().StringSliceVarP(&schemaTables, "tables", "t", nil,
		"Tables to read (default: every base table)")
	schemaCmd.Flags().BoolVar(&schemaRows, "rows", false,
		"Load table rows into the snapshot")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.ValidateSource(); err != nil {
		return fmt.Errorf("invalid source configuration: %w", err)
	}

	ctx, cancel := database.SetupSignalHandler(context.Background(), log)
	defer cancel()

	dbManager := database.NewManager(&cfg.Source, log)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to source: %w", err)
	}
	defer dbManager.Close()

	reader, err := schema.NewReader(dbManager.Source, cfg.Source.Database, log)
	if err != nil {
		return err
	}

	ds, err := reader.ReadDataset(ctx, schemaTables...)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if schemaRows {
		if err := reader.LoadDataset(ctx, ds); err != nil {
			return fmt.Errorf("failed to load rows: %w", err)
		}
	}
	if err := addConfiguredRelations(ds, cfg.Relations); err != nil {
		return err
	}

	log.Infow("schema read",
		"database", cfg.Source.Database,
		"tables", len(ds.Tables()),
		"relations", len(ds.Relations()))

	if schemaOut == "" {
		return snapshot.Write(cmd.OutOrStdout(), ds)
	}
	if err := snapshot.Save(schemaOut, ds); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Infow("snapshot written", "path", schemaOut)
	return nil
}
