package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/graph"
	"github.com/dbsmedya/gomerge/internal/identity"
	"github.com/dbsmedya/gomerge/internal/logger"
)

// Merger merges tables and datasets with one set of options. A Merger holds
// no per-call state, but the tables it merges must not be mutated
// concurrently.
type Merger struct {
	opts     Options
	policy   Policy
	resolver *identity.Resolver
	skip     map[string]bool
	keepRows map[string]bool
	log      *logger.Logger
}

// NewMerger validates opts and returns a Merger.
func NewMerger(opts Options) (*Merger, error) {
	if opts.Mode == "" {
		opts.Mode = Replace
	}
	policy, err := PolicyFor(opts.Mode)
	if err != nil {
		return nil, err
	}
	return &Merger{
		opts:     opts,
		policy:   policy,
		resolver: identity.NewResolver(opts.OverriddenPrimaryKeyNames),
		skip:     toSet(opts.ExcludeTablesFromMerge),
		keepRows: toSet(opts.ExcludeTablesFromRowDeletion),
		log:      logger.OrNop(opts.Logger).WithMode(string(opts.Mode)),
	}, nil
}

// MergeTable merges incoming into current using opts.
func MergeTable(current, incoming *dataset.Table, opts Options) (*Result, error) {
	m, err := NewMerger(opts)
	if err != nil {
		return nil, err
	}
	return m.MergeTable(current, incoming)
}

// MergeDataset merges every table of incoming into current using opts.
func MergeDataset(current, incoming *dataset.Dataset, opts Options) (*Result, error) {
	m, err := NewMerger(opts)
	if err != nil {
		return nil, err
	}
	return m.MergeDataset(current, incoming)
}

// Mode returns the merge mode.
func (m *Merger) Mode() Mode {
	return m.opts.Mode
}

// Policy returns the mode's policy.
func (m *Merger) Policy() Policy {
	return m.policy
}

// Excluded reports whether table is left untouched by this merger.
func (m *Merger) Excluded(table string) bool {
	return m.skip[table]
}

// KeepsRows reports whether no row is ever removed from table.
func (m *Merger) KeepsRows(table string) bool {
	return m.keepRows[table]
}

// KeyColumns returns the effective key columns of t.
func (m *Merger) KeyColumns(t *dataset.Table) []string {
	return m.resolver.KeyColumns(t)
}

// MergeTable merges incoming into current in place. On error the returned
// result holds whatever was changed before the fault.
func (m *Merger) MergeTable(current, incoming *dataset.Table) (*Result, error) {
	if current == nil || incoming == nil {
		return nil, errors.New("merge: current and incoming tables are required")
	}
	res := &Result{}
	if m.skip[current.Name] {
		m.log.WithTable(current.Name).Debug("table excluded from merge")
		return res, nil
	}
	err := m.mergeTable(current, incoming, res)
	return res, err
}

func (m *Merger) mergeTable(current, incoming *dataset.Table, res *Result) error {
	log := m.log.WithTable(current.Name)

	if err := m.policy.CheckPreconditions(current); err != nil {
		return err
	}

	keys := m.resolver.KeyColumns(current)
	if missing := identity.MissingColumns(current, keys); len(missing) > 0 {
		return &ConfigurationError{
			Table:   current.Name,
			Column:  missing[0],
			Message: "key column is not declared by the current table",
		}
	}
	if missing := identity.MissingColumns(incoming, keys); len(missing) > 0 {
		return &ConfigurationError{
			Table:   incoming.Name,
			Column:  missing[0],
			Message: "key column is missing from the incoming table",
		}
	}

	tm := m.newTableMerge(current, incoming, keys, res, log)
	before := res.Total()
	if err := m.tableHandler(current.Name).MergeTable(tm); err != nil {
		return err
	}

	log.Debugw("table merged",
		"key", strings.Join(keys, ","),
		"rows", current.Len(),
		"changes", res.Total()-before)
	return nil
}

func (m *Merger) newTableMerge(current, incoming *dataset.Table, keys []string, res *Result, log *logger.Logger) *TableMerge {
	return &TableMerge{
		Current:       current,
		Incoming:      incoming,
		KeyColumns:    keys,
		Policy:        m.policy,
		Rows:          m.rowHandler(current.Name),
		Result:        res,
		Log:           log,
		KeepRows:      m.keepRows[current.Name],
		ReloadUnkeyed: m.opts.ReplaceAllRowsWhenNoPrimaryKey,
		DefaultValue:  m.opts.DefaultValue,
	}
}

func (m *Merger) rowHandler(table string) RowHandler {
	if h, ok := m.opts.RowHandlers[table]; ok && h != nil {
		return h
	}
	return DefaultRowHandler
}

func (m *Merger) tableHandler(table string) TableHandler {
	if h, ok := m.opts.TableHandlers[table]; ok && h != nil {
		return h
	}
	return DefaultTableHandler
}

// MergeDataset merges every table of incoming into the same-named table of
// current, parents before children. Tables only incoming has are copied in
// with their rows reported Added; relations only incoming declares are added.
// Tables only current has are left alone.
//
// There is no cross-table transaction: when a table fails, tables merged
// before it stay merged, and the partial result is returned with the error.
func (m *Merger) MergeDataset(current, incoming *dataset.Dataset) (*Result, error) {
	if current == nil || incoming == nil {
		return nil, errors.New("merge: current and incoming datasets are required")
	}

	if err := m.copyRelations(current, incoming); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, name := range m.TableOrder(current, incoming) {
		in, ok := incoming.Table(name)
		if !ok {
			continue
		}
		if m.skip[name] {
			m.log.WithTable(name).Debug("table excluded from merge")
			continue
		}

		cur, ok := current.Table(name)
		if !ok {
			if err := m.copyTable(current, in, res); err != nil {
				return res, err
			}
			continue
		}
		if err := m.mergeTable(cur, in, res); err != nil {
			return res, err
		}
	}

	m.log.Debugw("dataset merged",
		"added", len(res.Added),
		"deleted", len(res.Deleted),
		"updated", len(res.Updated))
	return res, nil
}

// TableOrder returns the union of both datasets' tables, parents first. A
// relation cycle falls back to dataset order.
func (m *Merger) TableOrder(current, incoming *dataset.Dataset) []string {
	g := graph.FromDatasets(current, incoming)
	order, err := g.MergeOrder()
	if err == nil {
		return order
	}

	var cycleErr *graph.CycleError
	if errors.As(err, &cycleErr) {
		m.log.Warnw("relations form a cycle, merging tables in dataset order",
			"tables", cycleErr.Info.CycleParticipants)
	}
	return g.AllNodes()
}

func (m *Merger) copyTable(current *dataset.Dataset, incoming *dataset.Table, res *Result) error {
	t := incoming.CloneSchema()
	if err := current.AddTable(t); err != nil {
		return fmt.Errorf("copy table %q: %w", incoming.Name, err)
	}

	tm := m.newTableMerge(t, incoming, t.PrimaryKeys(), res, m.log.WithTable(t.Name))
	for _, rec := range tm.IncomingRows() {
		if rec.State() == dataset.Deleted {
			continue
		}
		if _, err := tm.Insert(rec); err != nil {
			return err
		}
	}
	m.log.WithTable(t.Name).Debugw("new table copied", "rows", t.Len())
	return nil
}

func (m *Merger) copyRelations(current, incoming *dataset.Dataset) error {
	for _, rel := range incoming.Relations() {
		if current.HasRelation(rel) {
			continue
		}
		if err := current.AddRelation(rel); err != nil {
			return fmt.Errorf("copy relation %q: %w", rel.Name, err)
		}
	}
	return nil
}
