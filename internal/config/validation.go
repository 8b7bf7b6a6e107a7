package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// MergeModes lists the accepted merge.mode values.
var MergeModes = []string{"replace", "refresh_if_no_changes", "refresh_preserving_local_changes", "post_save"}

// Validate checks the configuration for required fields and valid values.
// The source database is only checked when a host is configured.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.HasSource() {
		errors = append(errors, c.validateDatabase("source", &c.Source)...)
	}
	errors = append(errors, c.validateMerge()...)
	for i, rel := range c.Relations {
		errors = append(errors, validateRelation(fmt.Sprintf("relations[%d]", i), &rel)...)
	}
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateSource checks the source database section regardless of whether
// a host is set. Commands that need a live database call it.
func (c *Config) ValidateSource() error {
	if errors := c.validateDatabase("source", &c.Source); len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateMerge() ValidationErrors {
	var errors ValidationErrors

	valid := false
	for _, m := range MergeModes {
		if c.Merge.Mode == m {
			valid = true
			break
		}
	}
	if !valid {
		errors = append(errors, ValidationError{
			Field:   "merge.mode",
			Message: fmt.Sprintf("mode must be one of %s", strings.Join(MergeModes, ", ")),
		})
	}

	seen := make(map[string]bool)
	for i, o := range c.Merge.PrimaryKeyOverrides {
		prefix := fmt.Sprintf("merge.primary_key_overrides[%d]", i)
		if o.Table == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".table",
				Message: "table is required",
			})
		} else if seen[o.Table] {
			errors = append(errors, ValidationError{
				Field:   prefix + ".table",
				Message: fmt.Sprintf("table %q is overridden more than once", o.Table),
			})
		}
		seen[o.Table] = true

		if len(o.Columns) == 0 {
			errors = append(errors, ValidationError{
				Field:   prefix + ".columns",
				Message: "at least one column is required",
			})
		}
		for j, col := range o.Columns {
			if strings.TrimSpace(col) == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("%s.columns[%d]", prefix, j),
					Message: "column name is empty",
				})
			}
		}
	}

	return errors
}

func validateRelation(prefix string, rel *Relation) ValidationErrors {
	var errors ValidationErrors

	if rel.ParentTable == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".parent_table",
			Message: "parent_table is required",
		})
	}

	if rel.ChildTable == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".child_table",
			Message: "child_table is required",
		})
	}

	if len(rel.ParentColumns) == 0 || len(rel.ParentColumns) != len(rel.ChildColumns) {
		errors = append(errors, ValidationError{
			Field:   prefix + ".child_columns",
			Message: "parent_columns and child_columns must be non-empty and of equal length",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
