package datapipeline

import (
	"context"
	"fmt"
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

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const goodOrdersCSV = `po_number,product,mold_id,quantity,received_date,due_date
PO-1001,bottle_cap,M-01,5000,2026-08-01,2026-08-20
PO-1002,housing,M-02,1200,2026-08-02,2026-09-01
PO-1003,bottle_cap,M-01,800,2026-08-03,2026-08-25
`

func TestNew(t *testing.T) {
	ordersFile := writeTestFile(t, "orders.csv", goodOrdersCSV)

	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  fmt.Sprintf("ordersFile: %s\n", ordersFile),
			wantErr: false,
		},
		{
			name:    "missing ordersFile",
			config:  "ordersFile: \"\"\n",
			wantErr: true,
		},
		{
			name:    "orders file does not exist",
			config:  "ordersFile: /nonexistent/orders.csv\n",
			wantErr: true,
		},
		{
			name:    "orders file is not a csv",
			config:  fmt.Sprintf("ordersFile: %s\n", writeTestFile(t, "orders.txt", goodOrdersCSV)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeTestFile(t, "config.yaml", tt.config)
			_, err := New(configPath, newTestStore(t))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModule_Identity(t *testing.T) {
	ordersFile := writeTestFile(t, "orders.csv", goodOrdersCSV)
	configPath := writeTestFile(t, "config.yaml", fmt.Sprintf("ordersFile: %s\n", ordersFile))

	m, err := New(configPath, newTestStore(t))
	require.NoError(t, err)

	assert.Equal(t, "data_pipeline", m.Name())
	assert.Nil(t, m.Dependencies())
}

func TestModule_Execute(t *testing.T) {
	st := newTestStore(t)
	ordersFile := writeTestFile(t, "orders.csv", goodOrdersCSV)
	configPath := writeTestFile(t, "config.yaml", fmt.Sprintf("ordersFile: %s\n", ordersFile))

	m, err := New(configPath, st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, 3, result.Summary["orders"])
	assert.Equal(t, 0, result.Summary["skippedRows"])

	var intake records.OrderIntake
	require.NoError(t, records.Load(st, records.DatasetOrders, &intake))
	require.Len(t, intake.Orders, 3)

	first := intake.Orders[0]
	assert.Equal(t, "PO-1001", first.PONumber)
	assert.Equal(t, "bottle_cap", first.Product)
	assert.Equal(t, "M-01", first.MoldID)
	assert.Equal(t, 5000, first.Quantity)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), first.ReceivedAt)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), first.DueDate)
}

func TestModule_ExecuteSkipsMalformedRows(t *testing.T) {
	st := newTestStore(t)
	ordersFile := writeTestFile(t, "orders.csv", `po_number,product,mold_id,quantity,received_date,due_date
PO-2001,lid,M-03,300,2026-08-01,2026-08-15
PO-2002,lid,M-03,many,2026-08-01,2026-08-15
,lid,M-03,300,2026-08-01,2026-08-15
PO-2004,lid,M-03,300,2026-13-99,2026-08-15
PO-2005,lid,M-03,450,2026-08-02,2026-08-18
`)
	configPath := writeTestFile(t, "config.yaml", fmt.Sprintf("ordersFile: %s\n", ordersFile))

	m, err := New(configPath, st)
	require.NoError(t, err)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary["orders"])
	assert.Equal(t, 3, result.Summary["skippedRows"])

	var intake records.OrderIntake
	require.NoError(t, records.Load(st, records.DatasetOrders, &intake))
	require.Len(t, intake.Orders, 2)
	assert.Equal(t, "PO-2001", intake.Orders[0].PONumber)
	assert.Equal(t, "PO-2005", intake.Orders[1].PONumber)
}

func TestModule_ExecuteRejectsBadHeader(t *testing.T) {
	st := newTestStore(t)
	ordersFile := writeTestFile(t, "orders.csv", "po,item,mold,qty,rcv,due\nPO-1,x,M-1,1,2026-08-01,2026-08-02\n")
	configPath := writeTestFile(t, "config.yaml", fmt.Sprintf("ordersFile: %s\n", ordersFile))

	m, err := New(configPath, st)
	require.NoError(t, err)

	_, err = m.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders header")
}
