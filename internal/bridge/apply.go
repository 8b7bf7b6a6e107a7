package bridge

import (
	"context"
	"fmt"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/graph"
	"github.com/dbsmedya/gomerge/internal/identity"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/value"
)

// Options configures Apply.
type Options struct {
	// KeyOverrides replaces the declared primary key per table, as for a merge.
	KeyOverrides map[string][]string
	Logger       *logger.Logger
}

// Outcome counts what Apply did to one table and holds the post-save
// snapshot: inserted rows with store-assigned values in the Added state,
// patched rows as re-read Unchanged rows, deleted rows in the Deleted state.
type Outcome struct {
	Table    string
	Inserted int
	Patched  int
	Deleted  int
	// Missing counts Deleted records whose entity was already gone.
	Missing int
	Saved   *dataset.Table
}

// Apply writes the Added, Modified and Deleted records of a changeset table
// to store. Modified and Deleted records are located by their original key
// first, then best-effort by their original non-null values. Modified
// records are written as sparse patches of their changed columns.
//
// Apply is not transactional: on error, records written before the failure
// stay written and the partial outcome is returned.
func Apply(ctx context.Context, store Store, changes *dataset.Table, opts Options) (*Outcome, error) {
	a := newApplier(store, nil, opts)
	out := a.outcome(changes)
	if err := a.write(ctx, changes, out); err != nil {
		return out, err
	}
	if err := a.remove(ctx, changes, out); err != nil {
		return out, err
	}
	return out, nil
}

// ApplyDataset applies every table of a changeset dataset: inserts and
// patches parents first, deletes children first. Keys the store assigns to
// inserted parents are carried into the foreign keys of their children
// before those are written. It returns the post-save dataset alongside the
// per-table outcomes.
func ApplyDataset(ctx context.Context, store Store, changes *dataset.Dataset, opts Options) (*dataset.Dataset, []*Outcome, error) {
	a := newApplier(store, changes.Relations(), opts)
	g := graph.FromDataset(changes)

	writeOrder, err := g.MergeOrder()
	if err != nil {
		a.log.Warnw("relations form a cycle, writing tables in dataset order", "error", err)
		writeOrder = g.AllNodes()
	}
	deleteOrder, err := g.DeleteOrder()
	if err != nil {
		deleteOrder = g.AllNodes()
	}

	saved := dataset.New(changes.Name)
	outcomes := make(map[string]*Outcome)
	var ordered []*Outcome
	for _, t := range changes.Tables() {
		out := a.outcome(t)
		outcomes[t.Name] = out
		ordered = append(ordered, out)
		if err := saved.AddTable(out.Saved); err != nil {
			return nil, nil, err
		}
	}
	for _, rel := range changes.Relations() {
		if err := saved.AddRelation(rel); err != nil {
			return nil, nil, err
		}
	}

	for _, name := range writeOrder {
		t, ok := changes.Table(name)
		if !ok {
			continue
		}
		if err := a.write(ctx, t, outcomes[name]); err != nil {
			return saved, ordered, err
		}
	}
	for _, name := range deleteOrder {
		t, ok := changes.Table(name)
		if !ok {
			continue
		}
		if err := a.remove(ctx, t, outcomes[name]); err != nil {
			return saved, ordered, err
		}
	}
	return saved, ordered, nil
}

type applier struct {
	store     Store
	resolver  *identity.Resolver
	relations []dataset.Relation
	// remap holds, per relation index, the compiled original parent key of
	// each inserted parent whose key the store changed.
	remap map[int]map[string][]interface{}
	log   *logger.Logger
}

func newApplier(store Store, relations []dataset.Relation, opts Options) *applier {
	return &applier{
		store:     store,
		resolver:  identity.NewResolver(opts.KeyOverrides),
		relations: relations,
		remap:     make(map[int]map[string][]interface{}),
		log:       logger.OrNop(opts.Logger),
	}
}

func (a *applier) outcome(t *dataset.Table) *Outcome {
	return &Outcome{Table: t.Name, Saved: t.CloneSchema()}
}

// write applies Added and Modified records in row order.
func (a *applier) write(ctx context.Context, t *dataset.Table, out *Outcome) error {
	log := a.log.WithTable(t.Name)
	for _, r := range t.Rows() {
		var err error
		switch r.State() {
		case dataset.Added:
			err = a.insert(ctx, t, r, out)
		case dataset.Modified:
			err = a.patch(ctx, t, r, out)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("table %q: %s record: %w", t.Name, r.State(), err)
		}
	}
	log.Debugw("changes written", "inserted", out.Inserted, "patched", out.Patched)
	return nil
}

// remove applies Deleted records in row order.
func (a *applier) remove(ctx context.Context, t *dataset.Table, out *Outcome) error {
	for _, r := range t.Rows() {
		if r.State() != dataset.Deleted {
			continue
		}
		if err := a.delete(ctx, t, r, out); err != nil {
			return fmt.Errorf("table %q: deleted record: %w", t.Name, err)
		}
	}
	return nil
}

func (a *applier) insert(ctx context.Context, t *dataset.Table, r *dataset.Record, out *Outcome) error {
	values := r.Values()
	a.carryKeys(t.Name, values)

	e, err := a.store.Insert(ctx, t.Name, values)
	if err != nil {
		return err
	}
	out.Inserted++
	a.rememberKeys(t.Name, r, e)

	saved := out.Saved.NewRecord()
	if err := saved.SetValues(columnsOf(out.Saved, e.Values)); err != nil {
		return err
	}
	return out.Saved.Add(saved)
}

func (a *applier) patch(ctx context.Context, t *dataset.Table, r *dataset.Record, out *Outcome) error {
	e, found, err := a.locate(ctx, t, r)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	values := make(map[string]interface{})
	for _, col := range t.ColumnNames() {
		if !value.Equal(r.Value(col), r.Original(col)) {
			values[col] = r.Value(col)
		}
	}
	carried := r.Values()
	if a.carryKeys(t.Name, carried) {
		for _, col := range a.childColumns(t.Name) {
			if !value.Equal(carried[col], e.Values[col]) {
				values[col] = carried[col]
			}
		}
	}

	e, err = a.store.Patch(ctx, t.Name, e.ID, values)
	if err != nil {
		return err
	}
	out.Patched++
	_, err = out.Saved.Load(columnsOf(out.Saved, e.Values))
	return err
}

func (a *applier) delete(ctx context.Context, t *dataset.Table, r *dataset.Record, out *Outcome) error {
	e, found, err := a.locate(ctx, t, r)
	if err != nil {
		return err
	}
	if found {
		if err := a.store.Delete(ctx, t.Name, e.ID); err != nil {
			return err
		}
		out.Deleted++
	} else {
		out.Missing++
		a.log.WithTable(t.Name).Debugw("deleted record already gone", "record", r.String())
	}

	saved, err := out.Saved.Load(columnsOf(out.Saved, r.BaselineValues()))
	if err != nil {
		return err
	}
	return saved.Delete()
}

// locate finds the entity r was read from: by the original key when the
// table has one and it is fully set, then by every original non-null value.
func (a *applier) locate(ctx context.Context, t *dataset.Table, r *dataset.Record) (Entity, bool, error) {
	orig := original{r}
	keys := a.resolver.KeyColumns(t)
	if len(keys) > 0 && !identity.HasNullPart(orig, keys) {
		e, found, err := a.store.FindByKey(ctx, t.Name, keys, identity.KeyValues(orig, keys))
		if err != nil || found {
			return e, found, err
		}
	}

	criteria := make(map[string]interface{})
	for _, col := range t.ColumnNames() {
		if col == dataset.ClientKeyColumn {
			continue
		}
		if v := r.Original(col); !value.IsNull(v) {
			criteria[col] = v
		}
	}
	if len(criteria) == 0 {
		return Entity{}, false, nil
	}
	matches, err := a.store.FindByValues(ctx, t.Name, criteria)
	if err != nil {
		return Entity{}, false, err
	}
	switch len(matches) {
	case 0:
		return Entity{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return Entity{}, false, fmt.Errorf("%w: %d candidates", ErrAmbiguous, len(matches))
	}
}

// rememberKeys records the key change of an inserted parent for every
// relation it is the parent of.
func (a *applier) rememberKeys(table string, r *dataset.Record, e Entity) {
	for i, rel := range a.relations {
		if rel.ParentTable != table {
			continue
		}
		before := identity.KeyValues(r, rel.ParentColumns)
		after := identity.KeyValues(e, rel.ParentColumns)
		if identity.CompileValues(before) == identity.CompileValues(after) {
			continue
		}
		if a.remap[i] == nil {
			a.remap[i] = make(map[string][]interface{})
		}
		a.remap[i][identity.CompileValues(before)] = after
	}
}

// carryKeys rewrites foreign-key values in values that point at a parent
// whose key the store changed. It reports whether anything was rewritten.
func (a *applier) carryKeys(table string, values map[string]interface{}) bool {
	changed := false
	for i, rel := range a.relations {
		if rel.ChildTable != table || a.remap[i] == nil {
			continue
		}
		fk := make([]interface{}, len(rel.ChildColumns))
		for j, col := range rel.ChildColumns {
			fk[j] = values[col]
		}
		parent, ok := a.remap[i][identity.CompileValues(fk)]
		if !ok {
			continue
		}
		for j, col := range rel.ChildColumns {
			values[col] = parent[j]
		}
		changed = true
	}
	return changed
}

func (a *applier) childColumns(table string) []string {
	var out []string
	for _, rel := range a.relations {
		if rel.ChildTable == table {
			out = append(out, rel.ChildColumns...)
		}
	}
	return out
}

// original reads a record's baseline values.
type original struct {
	r *dataset.Record
}

func (o original) Value(column string) interface{} { return o.r.Original(column) }
func (o original) Has(column string) bool          { return o.r.Has(column) }

func columnsOf(t *dataset.Table, values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for col, v := range values {
		if t.HasColumn(col) {
			out[col] = v
		}
	}
	return out
}
