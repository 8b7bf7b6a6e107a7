// Package config provides configuration structures and loading for gomerge.
package config

// Config represents the complete application configuration.
type Config struct {
	Source     DatabaseConfig   `yaml:"source" mapstructure:"source"`
	Merge      MergeConfig      `yaml:"merge" mapstructure:"merge"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Relations  []Relation       `yaml:"relations" mapstructure:"relations"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents a MySQL database connection configuration.
// It is only needed by commands that read schema from a live database.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// MergeConfig holds merge engine options.
type MergeConfig struct {
	Mode                           string               `yaml:"mode" mapstructure:"mode"` // replace, refresh_if_no_changes, refresh_preserving_local_changes, post_save
	ExcludeTablesFromMerge         []string             `yaml:"exclude_tables_from_merge" mapstructure:"exclude_tables_from_merge"`
	ExcludeTablesFromRowDeletion   []string             `yaml:"exclude_tables_from_row_deletion" mapstructure:"exclude_tables_from_row_deletion"`
	PrimaryKeyOverrides            []PrimaryKeyOverride `yaml:"primary_key_overrides" mapstructure:"primary_key_overrides"`
	ReplaceAllRowsWhenNoPrimaryKey bool                 `yaml:"replace_all_rows_when_no_primary_key" mapstructure:"replace_all_rows_when_no_primary_key"`
}

// PrimaryKeyOverride replaces the declared primary key of one table.
// A list is used instead of a map because viper lower-cases map keys.
type PrimaryKeyOverride struct {
	Table   string   `yaml:"table" mapstructure:"table"`
	Columns []string `yaml:"columns" mapstructure:"columns"`
}

// ValidationConfig holds relation integrity validator options.
type ValidationConfig struct {
	IgnoreDeletedChildRows           bool `yaml:"ignore_deleted_child_rows" mapstructure:"ignore_deleted_child_rows"`
	TreatNullForeignKeysAsNotSet     bool `yaml:"treat_null_foreign_keys_as_not_set" mapstructure:"treat_null_foreign_keys_as_not_set"`
	TreatDeletedParentAsMissing      bool `yaml:"treat_deleted_parent_as_missing" mapstructure:"treat_deleted_parent_as_missing"`
	ReportInvalidRelationDefinitions bool `yaml:"report_invalid_relation_definitions" mapstructure:"report_invalid_relation_definitions"`
	FailOnViolations                 bool `yaml:"fail_on_violations" mapstructure:"fail_on_violations"`
}

// Relation declares a parent/child column mapping that is added to every
// dataset the commands load, on top of relations stored in snapshots.
type Relation struct {
	Name          string   `yaml:"name" mapstructure:"name"`
	ParentTable   string   `yaml:"parent_table" mapstructure:"parent_table"`
	ParentColumns []string `yaml:"parent_columns" mapstructure:"parent_columns"`
	ChildTable    string   `yaml:"child_table" mapstructure:"child_table"`
	ChildColumns  []string `yaml:"child_columns" mapstructure:"child_columns"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Merge: MergeConfig{
			Mode: "replace",
		},
		Validation: ValidationConfig{
			IgnoreDeletedChildRows:           true,
			TreatNullForeignKeysAsNotSet:     true,
			TreatDeletedParentAsMissing:      false,
			ReportInvalidRelationDefinitions: true,
			FailOnViolations:                 true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// HasSource reports whether a source database is configured.
func (c *Config) HasSource() bool {
	return c.Source.Host != ""
}

// PrimaryKeyOverrideMap returns the overrides keyed by table name. A later
// entry for the same table replaces an earlier one.
func (m *MergeConfig) PrimaryKeyOverrideMap() map[string][]string {
	out := make(map[string][]string, len(m.PrimaryKeyOverrides))
	for _, o := range m.PrimaryKeyOverrides {
		out[o.Table] = append([]string(nil), o.Columns...)
	}
	return out
}
