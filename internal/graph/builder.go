package graph

import "github.com/dbsmedya/gomerge/internal/dataset"

// Build creates a graph holding tables, in order, plus one edge per relation.
// Tables referenced only by relations are appended after the listed ones.
func Build(tables []string, relations []dataset.Relation) *Graph {
	g := NewGraph()
	for _, name := range tables {
		g.AddNode(name)
	}
	for _, rel := range relations {
		if rel.ParentTable == "" || rel.ChildTable == "" {
			continue
		}
		g.AddEdge(rel.ParentTable, rel.ChildTable, EdgeMeta{
			Relation:      rel.Name,
			ParentColumns: append([]string(nil), rel.ParentColumns...),
			ChildColumns:  append([]string(nil), rel.ChildColumns...),
		})
	}
	return g
}

// FromDataset builds the relation graph of ds.
func FromDataset(ds *dataset.Dataset) *Graph {
	return Build(ds.TableNames(), ds.Relations())
}

// FromDatasets builds one graph over the tables and relations of several
// datasets. Tables keep first-seen order.
func FromDatasets(sets ...*dataset.Dataset) *Graph {
	var (
		tables    []string
		relations []dataset.Relation
	)
	for _, ds := range sets {
		if ds == nil {
			continue
		}
		tables = append(tables, ds.TableNames()...)
		relations = append(relations, ds.Relations()...)
	}
	return Build(tables, relations)
}
