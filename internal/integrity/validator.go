// Package integrity checks declared relations against the rows of a dataset.
package integrity

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/gomerge/internal/config"
	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/identity"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/value"
)

// Options tunes which rows count during validation.
type Options struct {
	// IgnoreDeletedChildRows skips child rows in the Deleted state.
	IgnoreDeletedChildRows bool
	// TreatNullForeignKeysAsNotSet skips child rows with any null foreign-key
	// column instead of looking their parent up.
	TreatNullForeignKeysAsNotSet bool
	// TreatDeletedParentAsMissing makes Deleted parents invisible to the
	// orphan check.
	TreatDeletedParentAsMissing bool
	// ReportInvalidRelationDefinitions reports broken definitions. When false
	// they are skipped silently.
	ReportInvalidRelationDefinitions bool

	Logger *logger.Logger
}

// DefaultOptions mirrors the defaults of the validation config section.
func DefaultOptions() Options {
	return Options{
		IgnoreDeletedChildRows:           true,
		TreatNullForeignKeysAsNotSet:     true,
		ReportInvalidRelationDefinitions: true,
	}
}

// OptionsFromConfig translates the validation section of the configuration.
func OptionsFromConfig(cfg *config.ValidationConfig) Options {
	return Options{
		IgnoreDeletedChildRows:           cfg.IgnoreDeletedChildRows,
		TreatNullForeignKeysAsNotSet:     cfg.TreatNullForeignKeysAsNotSet,
		TreatDeletedParentAsMissing:      cfg.TreatDeletedParentAsMissing,
		ReportInvalidRelationDefinitions: cfg.ReportInvalidRelationDefinitions,
	}
}

// Validate checks every relation of ds in declaration order. Per relation the
// definition is checked first, then orphans in child row order, then deleted
// parents in parent row order. Validate never mutates ds.
func Validate(ds *dataset.Dataset, opts Options) Violations {
	log := logger.OrNop(opts.Logger)
	var out Violations
	for _, rel := range ds.Relations() {
		name := RelationName(rel)
		rlog := log.WithFields(map[string]interface{}{"relation": name})

		parent, child, problem := resolve(ds, rel)
		if problem != "" {
			rlog.Debugw("invalid relation definition", "problem", problem)
			if opts.ReportInvalidRelationDefinitions {
				out = append(out, Violation{
					Kind:     InvalidRelationDefinition,
					Relation: name,
					Message:  fmt.Sprintf("relation %s: %s", name, problem),
				})
			}
			continue
		}

		before := len(out)
		out = append(out, orphans(parent, child, rel, name, opts)...)
		out = append(out, deletedParents(parent, child, rel, name, opts)...)
		rlog.Debugw("relation checked",
			"parent_rows", parent.Len(),
			"child_rows", child.Len(),
			"violations", len(out)-before)
	}
	return out
}

// RelationName returns rel.Name, or a description of its columns when the
// relation is unnamed.
func RelationName(rel dataset.Relation) string {
	if rel.Name != "" {
		return rel.Name
	}
	return fmt.Sprintf("%s(%s)->%s(%s)",
		rel.ParentTable, strings.Join(rel.ParentColumns, ","),
		rel.ChildTable, strings.Join(rel.ChildColumns, ","))
}

func resolve(ds *dataset.Dataset, rel dataset.Relation) (parent, child *dataset.Table, problem string) {
	if len(rel.ParentColumns) == 0 || len(rel.ChildColumns) == 0 {
		return nil, nil, "parent and child columns must not be empty"
	}
	if len(rel.ParentColumns) != len(rel.ChildColumns) {
		return nil, nil, fmt.Sprintf("%d parent column(s) but %d child column(s)",
			len(rel.ParentColumns), len(rel.ChildColumns))
	}
	parent, ok := ds.Table(rel.ParentTable)
	if !ok {
		return nil, nil, fmt.Sprintf("parent table %q does not exist", rel.ParentTable)
	}
	child, ok = ds.Table(rel.ChildTable)
	if !ok {
		return nil, nil, fmt.Sprintf("child table %q does not exist", rel.ChildTable)
	}
	if missing := identity.MissingColumns(parent, rel.ParentColumns); len(missing) > 0 {
		return nil, nil, fmt.Sprintf("parent table %q has no column %q", parent.Name, missing[0])
	}
	if missing := identity.MissingColumns(child, rel.ChildColumns); len(missing) > 0 {
		return nil, nil, fmt.Sprintf("child table %q has no column %q", child.Name, missing[0])
	}
	return parent, child, ""
}

// candidates buckets rows by compiled key. Buckets are confirmed with
// value.Equal, so two values sharing a string form never match by accident.
type candidates map[string][]*dataset.Record

func bucket(rows []*dataset.Record, columns []string, keep func(*dataset.Record) bool) candidates {
	c := make(candidates)
	for _, r := range rows {
		if !keep(r) {
			continue
		}
		key := identity.CompileKey(r, columns)
		c[key] = append(c[key], r)
	}
	return c
}

func (c candidates) find(values []interface{}, columns []string) []*dataset.Record {
	var out []*dataset.Record
	for _, r := range c[identity.CompileValues(values)] {
		if matches(r, columns, values) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r *dataset.Record, columns []string, values []interface{}) bool {
	for i, col := range columns {
		if !value.Equal(r.Value(col), values[i]) {
			return false
		}
	}
	return true
}

func childCounts(child *dataset.Record, rel dataset.Relation, opts Options) bool {
	if opts.IgnoreDeletedChildRows && child.State() == dataset.Deleted {
		return false
	}
	if opts.TreatNullForeignKeysAsNotSet && identity.HasNullPart(child, rel.ChildColumns) {
		return false
	}
	return true
}

func orphans(parent, child *dataset.Table, rel dataset.Relation, name string, opts Options) Violations {
	parents := bucket(parent.Rows(), rel.ParentColumns, func(r *dataset.Record) bool {
		return !(opts.TreatDeletedParentAsMissing && r.State() == dataset.Deleted)
	})

	var out Violations
	for _, c := range child.Rows() {
		if !childCounts(c, rel, opts) {
			continue
		}
		fk := identity.KeyValues(c, rel.ChildColumns)
		if len(parents.find(fk, rel.ParentColumns)) > 0 {
			continue
		}
		key := snapshot(c, rel.ChildColumns)
		expected := expectedParentKey(c, rel)
		out = append(out, Violation{
			Kind:              OrphanChildRow,
			Relation:          name,
			Table:             child.Name,
			Record:            c,
			Key:               key,
			ExpectedParentKey: expected,
			Message: fmt.Sprintf("%s row (%s) has no parent in %s (%s)",
				child.Name, key, parent.Name, expected),
		})
	}
	return out
}

func deletedParents(parent, child *dataset.Table, rel dataset.Relation, name string, opts Options) Violations {
	var deleted []*dataset.Record
	for _, p := range parent.Rows() {
		if p.State() == dataset.Deleted {
			deleted = append(deleted, p)
		}
	}
	if len(deleted) == 0 {
		return nil
	}

	children := bucket(child.Rows(), rel.ChildColumns, func(r *dataset.Record) bool {
		return childCounts(r, rel, opts)
	})

	var out Violations
	for _, p := range deleted {
		refs := children.find(identity.KeyValues(p, rel.ParentColumns), rel.ChildColumns)
		if len(refs) == 0 {
			continue
		}
		key := snapshot(p, rel.ParentColumns)
		out = append(out, Violation{
			Kind:     DeletedParentHasChildren,
			Relation: name,
			Table:    parent.Name,
			Record:   p,
			Key:      key,
			Children: len(refs),
			Message: fmt.Sprintf("deleted %s row (%s) is still referenced by %d %s row(s)",
				parent.Name, key, len(refs), child.Name),
		})
	}
	return out
}
