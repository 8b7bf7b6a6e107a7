package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gomerge/internal/config"
	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/integrity"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/report"
	"github.com/dbsmedya/gomerge/internal/snapshot"
)

// loadConfig reads the configuration file, applies CLI overrides and
// validates the result. When the default file does not exist the built-in
// defaults are used instead.
func loadConfig() (*config.Config, error) {
	configFile := GetConfigFile()

	var cfg *config.Config
	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) && configFile == defaultConfigFile {
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.Mode, overrides.LogLevel, overrides.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger every command uses.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// loadSnapshot reads a dataset snapshot and adds the relations declared in
// the configuration that the snapshot does not already carry.
func loadSnapshot(path string, cfg *config.Config) (*dataset.Dataset, error) {
	if path == "" {
		return nil, errors.New("snapshot path is required")
	}
	ds, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	if err := addConfiguredRelations(ds, cfg.Relations); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return ds, nil
}

func addConfiguredRelations(ds *dataset.Dataset, relations []config.Relation) error {
	for _, r := range relations {
		rel := dataset.Relation{
			Name:          r.Name,
			ParentTable:   r.ParentTable,
			ParentColumns: append([]string(nil), r.ParentColumns...),
			ChildTable:    r.ChildTable,
			ChildColumns:  append([]string(nil), r.ChildColumns...),
		}
		if ds.HasRelation(rel) {
			continue
		}
		if err := ds.AddRelation(rel); err != nil {
			return err
		}
	}
	return nil
}

func validationOptions(cfg *config.Config, log *logger.Logger) integrity.Options {
	opts := integrity.OptionsFromConfig(&cfg.Validation)
	opts.Logger = log
	return opts
}

// newReport returns a report writer on the command's output. Color is used
// only when the terminal supports it and --no-color is not set.
func newReport(cmd *cobra.Command) *report.Writer {
	return report.New(cmd.OutOrStdout(), !noColor && report.ColorSupported())
}
