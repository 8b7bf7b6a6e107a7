package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gomerge/internal/config"
)

// resetFlags restores every package-level flag variable, since cobra only
// writes the flags a run actually passes.
func resetFlags() {
	cfgFile = defaultConfigFile
	logLevel = ""
	logFormat = ""
	mergeMode = ""
	noColor = false

	mergeCurrent, mergeIncoming, mergeOut = "", "", ""
	mergeShowChanges = false
	planCurrent, planIncoming = "", ""
	saveWorking, saveStore, saveOut, saveStoreOut = "", "", "", ""
	schemaOut, schemaTables, schemaRows = "", nil, false
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const shopConfig = `merge:
  mode: replace
relations:
  - name: fk_orders_customer
    parent_table: customers
    parent_columns: [Id]
    child_table: orders
    child_columns: [CustomerId]
logging:
  level: error
`

const lenientConfig = shopConfig + `validation:
  fail_on_violations: false
`

const currentSnapshot = `name: shop
tables:
  - name: customers
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
      - {name: Name, type: varchar, nullable: true}
    rows:
      - values: {Id: 1, Name: Ada}
  - name: orders
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
      - {name: CustomerId, type: bigint, nullable: true}
    rows:
      - values: {Id: 10, CustomerId: 1}
      - state: modified
        values: {Id: 11, CustomerId: 1}
        original: {Id: 11, CustomerId: 2}
`

const incomingSnapshot = `name: shop
tables:
  - name: customers
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
      - {name: Name, type: varchar, nullable: true}
    rows:
      - values: {Id: 1, Name: Ada Lovelace}
      - values: {Id: 2, Name: Bob}
  - name: orders
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
      - {name: CustomerId, type: bigint, nullable: true}
    rows:
      - values: {Id: 10, CustomerId: 2}
      - values: {Id: 11, CustomerId: 2}
`

// orphanSnapshot holds an order whose customer does not exist.
const orphanSnapshot = `name: shop
tables:
  - name: customers
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
    rows:
      - values: {Id: 1}
  - name: orders
    primary_key: [Id]
    columns:
      - {name: Id, type: bigint}
      - {name: CustomerId, type: bigint, nullable: true}
    rows:
      - values: {Id: 10, CustomerId: 9}
`

// shopFiles writes the config and both snapshots to a temp dir.
func shopFiles(t *testing.T, configYAML string) (dir, cfg, current, incoming string) {
	t.Helper()
	dir = t.TempDir()
	cfg = writeFile(t, dir, "gomerge.yaml", configYAML)
	current = writeFile(t, dir, "current.yaml", currentSnapshot)
	incoming = writeFile(t, dir, "incoming.yaml", incomingSnapshot)
	return dir, cfg, current, incoming
}

func configRelation() config.Relation {
	return config.Relation{
		Name:          "fk_orders_customer",
		ParentTable:   "customers",
		ParentColumns: []string{"Id"},
		ChildTable:    "orders",
		ChildColumns:  []string{"CustomerId"},
	}
}
