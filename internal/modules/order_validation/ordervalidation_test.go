package ordervalidation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func seedOrders(t *testing.T, st *store.Store, orders []records.PurchaseOrder) {
	t.Helper()
	intake := records.OrderIntake{SourceFile: "orders.csv", IngestedAt: day(1), Orders: orders}
	require.NoError(t, records.Save(st, records.DatasetOrders, intake, "orders"))
}

func seedMolds(t *testing.T, st *store.Store, molds []records.MoldSpec) {
	t.Helper()
	catalog := records.MoldCatalog{SourceFile: "molds.csv", IngestedAt: day(1), Molds: molds}
	require.NoError(t, records.Save(st, records.DatasetMolds, catalog, "molds"))
}

func findingsByRule(findings []records.Finding) map[string][]records.Finding {
	byRule := make(map[string][]records.Finding)
	for _, f := range findings {
		byRule[f.Rule] = append(byRule[f.Rule], f)
	}
	return byRule
}

func TestNew(t *testing.T) {
	st := newTestStore(t)

	m, err := New(writeConfig(t, "maxQuantity: 500\n"), st)
	require.NoError(t, err)
	assert.Equal(t, 500, m.cfg.MaxQuantity)

	m, err = New(writeConfig(t, ""), st)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxQuantity, m.cfg.MaxQuantity)

	_, err = New(writeConfig(t, "maxQuantity: -1\n"), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxQuantity")
}

func TestModule_Identity(t *testing.T) {
	m, err := New(writeConfig(t, ""), newTestStore(t))
	require.NoError(t, err)

	assert.Equal(t, "order_validation", m.Name())
	deps := m.Dependencies()
	assert.Contains(t, deps, "data_pipeline")
	assert.Contains(t, deps, "mold_specs")
}

func TestModule_Execute(t *testing.T) {
	st := newTestStore(t)
	seedMolds(t, st, []records.MoldSpec{
		{MoldID: "M-01", Machine: "press_a", Cavities: 4, CycleSeconds: 30},
	})
	seedOrders(t, st, []records.PurchaseOrder{
		{PONumber: "PO-1", MoldID: "M-01", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-1", MoldID: "M-01", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-2", MoldID: "M-01", Quantity: -5, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-3", MoldID: "M-01", Quantity: 2000, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-4", MoldID: "M-01", Quantity: 100, ReceivedAt: day(10), DueDate: day(5)},
		{PONumber: "PO-5", MoldID: "M-99", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
	})

	m, err := New(writeConfig(t, "maxQuantity: 1000\n"), st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, 6, result.Summary["checkedOrders"])
	assert.Equal(t, true, result.Summary["moldChecks"])

	var report records.ValidationReport
	require.NoError(t, records.Load(st, records.DatasetFindings, &report))
	assert.Equal(t, 6, report.CheckedOrders)

	byRule := findingsByRule(report.Findings)

	require.Len(t, byRule["duplicate_po"], 1)
	assert.Equal(t, "PO-1", byRule["duplicate_po"][0].PONumber)
	assert.Equal(t, records.SeverityError, byRule["duplicate_po"][0].Severity)

	require.Len(t, byRule["quantity_bounds"], 2)
	assert.Equal(t, records.SeverityError, byRule["quantity_bounds"][0].Severity)
	assert.Equal(t, "PO-2", byRule["quantity_bounds"][0].PONumber)
	assert.Equal(t, records.SeverityWarning, byRule["quantity_bounds"][1].Severity)
	assert.Equal(t, "PO-3", byRule["quantity_bounds"][1].PONumber)

	require.Len(t, byRule["date_window"], 1)
	assert.Equal(t, "PO-4", byRule["date_window"][0].PONumber)

	require.Len(t, byRule["unknown_mold"], 1)
	assert.Equal(t, "PO-5", byRule["unknown_mold"][0].PONumber)

	rejected := report.RejectedOrders()
	assert.True(t, rejected["PO-1"])
	assert.True(t, rejected["PO-2"])
	assert.True(t, rejected["PO-4"])
	assert.True(t, rejected["PO-5"])
	assert.False(t, rejected["PO-3"])
}

func TestModule_ExecuteWithoutMoldCatalog(t *testing.T) {
	st := newTestStore(t)
	seedOrders(t, st, []records.PurchaseOrder{
		{PONumber: "PO-1", MoldID: "M-99", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
	})

	m, err := New(writeConfig(t, ""), st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, false, result.Summary["moldChecks"])

	var report records.ValidationReport
	require.NoError(t, records.Load(st, records.DatasetFindings, &report))
	assert.Empty(t, findingsByRule(report.Findings)["unknown_mold"])
}

func TestModule_ExecuteWithoutOrderBook(t *testing.T) {
	m, err := New(writeConfig(t, ""), newTestStore(t))
	require.NoError(t, err)

	_, err = m.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)
}
