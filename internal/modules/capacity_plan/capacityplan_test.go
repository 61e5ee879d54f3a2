package capacityplan

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

func seedPlanningData(t *testing.T, st *store.Store) {
	t.Helper()

	intake := records.OrderIntake{Orders: []records.PurchaseOrder{
		{PONumber: "PO-1", MoldID: "M-01", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-2", MoldID: "M-02", Quantity: 10, ReceivedAt: day(1), DueDate: day(25)},
		{PONumber: "PO-3", MoldID: "M-01", Quantity: 50, ReceivedAt: day(2), DueDate: day(21)},
		{PONumber: "PO-4", MoldID: "M-99", Quantity: 50, ReceivedAt: day(2), DueDate: day(21)},
	}}
	require.NoError(t, records.Save(st, records.DatasetOrders, intake, "orders"))

	catalog := records.MoldCatalog{Molds: []records.MoldSpec{
		{MoldID: "M-01", Machine: "press_a", Cavities: 5, CycleSeconds: 36},
		{MoldID: "M-02", Machine: "press_b", Cavities: 1, CycleSeconds: 3600},
	}}
	require.NoError(t, records.Save(st, records.DatasetMolds, catalog, "molds"))

	findings := records.ValidationReport{CheckedOrders: 4, Findings: []records.Finding{
		{PONumber: "PO-3", Rule: "date_window", Severity: records.SeverityError, Message: "rejected"},
	}}
	require.NoError(t, records.Save(st, records.DatasetFindings, findings, "findings"))
}

func TestNew(t *testing.T) {
	st := newTestStore(t)

	m, err := New(writeConfig(t, ""), st)
	require.NoError(t, err)
	assert.Equal(t, defaultHorizonDays, m.cfg.HorizonDays)
	assert.Equal(t, defaultWorkHoursPerDay, m.cfg.WorkHoursPerDay)

	m, err = New(writeConfig(t, "horizonDays: 7\nworkHoursPerDay: 20\n"), st)
	require.NoError(t, err)
	assert.Equal(t, 7, m.cfg.HorizonDays)
	assert.Equal(t, 20.0, m.cfg.WorkHoursPerDay)

	_, err = New(writeConfig(t, "horizonDays: -3\n"), st)
	require.Error(t, err)

	_, err = New(writeConfig(t, "workHoursPerDay: -1\n"), st)
	require.Error(t, err)
}

func TestModule_Identity(t *testing.T) {
	m, err := New(writeConfig(t, ""), newTestStore(t))
	require.NoError(t, err)

	assert.Equal(t, "capacity_plan", m.Name())
	deps := m.Dependencies()
	assert.Contains(t, deps, "data_pipeline")
	assert.Contains(t, deps, "mold_specs")
	assert.Contains(t, deps, "order_validation")
}

func TestModule_Execute(t *testing.T) {
	st := newTestStore(t)
	seedPlanningData(t, st)

	m, err := New(writeConfig(t, "horizonDays: 1\nworkHoursPerDay: 8\n"), st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, 2, result.Summary["plannedOrders"])
	assert.Equal(t, 2, result.Summary["droppedOrders"])

	var report records.CapacityReport
	require.NoError(t, records.Load(st, records.DatasetCapacity, &report))

	assert.Equal(t, 1, report.HorizonDays)
	assert.Equal(t, 8.0, report.WorkHoursPerDay)
	assert.Equal(t, 2, report.PlannedOrders)
	assert.Equal(t, 2, report.DroppedOrders)
	require.Len(t, report.Machines, 2)

	// 100 parts / 5 cavities = 20 shots at 36s = 0.2h on an 8h day.
	pressA := report.Machines[0]
	assert.Equal(t, "press_a", pressA.Machine)
	assert.Equal(t, 0.2, pressA.RequiredHours)
	assert.Equal(t, 8.0, pressA.AvailableHours)
	assert.Equal(t, 0.025, pressA.Utilization)
	assert.Equal(t, []string{"PO-1"}, pressA.Orders)

	// 10 single-cavity shots at 3600s = 10h demand against 8h available.
	pressB := report.Machines[1]
	assert.Equal(t, "press_b", pressB.Machine)
	assert.Equal(t, 10.0, pressB.RequiredHours)
	assert.Equal(t, 1.25, pressB.Utilization)
	assert.Equal(t, []string{"PO-2"}, pressB.Orders)

	assert.Equal(t, []string{"press_b"}, report.Overloaded)
}

func TestModule_ExecuteWithoutFindings(t *testing.T) {
	st := newTestStore(t)

	// No findings dataset: every catalog-backed order gets planned.
	intake := records.OrderIntake{Orders: []records.PurchaseOrder{
		{PONumber: "PO-1", MoldID: "M-01", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
		{PONumber: "PO-3", MoldID: "M-01", Quantity: 50, ReceivedAt: day(2), DueDate: day(21)},
	}}
	require.NoError(t, records.Save(st, records.DatasetOrders, intake, "orders"))
	catalog := records.MoldCatalog{Molds: []records.MoldSpec{
		{MoldID: "M-01", Machine: "press_a", Cavities: 5, CycleSeconds: 36},
	}}
	require.NoError(t, records.Save(st, records.DatasetMolds, catalog, "molds"))

	m, err := New(writeConfig(t, ""), st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary["plannedOrders"])
	assert.Equal(t, 0, result.Summary["droppedOrders"])
}

func TestModule_ExecuteWithoutMoldCatalog(t *testing.T) {
	st := newTestStore(t)
	intake := records.OrderIntake{Orders: []records.PurchaseOrder{
		{PONumber: "PO-1", MoldID: "M-01", Quantity: 100, ReceivedAt: day(1), DueDate: day(20)},
	}}
	require.NoError(t, records.Save(st, records.DatasetOrders, intake, "orders"))

	m, err := New(writeConfig(t, ""), st)
	require.NoError(t, err)

	_, err = m.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)
}
