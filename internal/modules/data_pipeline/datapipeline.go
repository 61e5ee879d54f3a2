// Package datapipeline ingests the ERP purchase-order export into the
// shared store as the normalized order book other planning modules
// consume.
package datapipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ModuleName is the catalog name of this module.
const ModuleName = "data_pipeline"

// dateLayout is the day format the ERP export uses.
const dateLayout = "2006-01-02"

// ordersHeader is the required column order of the export.
var ordersHeader = []string{"po_number", "product", "mold_id", "quantity", "received_date", "due_date"}

// Config contains the parameters for order ingestion.
type Config struct {
	OrdersFile string `yaml:"ordersFile"` // Path to the purchase-order CSV export
}

// Module implements purchase-order ingestion.
type Module struct {
	cfg   Config
	store *store.Store
}

// New creates a data pipeline module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := utils.ValidateFilePath(cfg.OrdersFile, "ordersFile"); err != nil {
		return nil, err
	}
	if err := utils.ValidateFileExtension(cfg.OrdersFile, []string{".csv"}); err != nil {
		return nil, err
	}
	return &Module{cfg: cfg, store: st}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Dependencies declares the module's inputs. Ingestion is a root step and
// has none.
func (m *Module) Dependencies() map[string]string {
	return nil
}

// Execute parses the order export and persists the normalized order book.
// Malformed rows are skipped and counted; only an unreadable or headerless
// file fails the module.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	orders, skipped, err := parseOrders(m.cfg.OrdersFile)
	if err != nil {
		return mod.ExecutionResult{}, err
	}

	intake := records.OrderIntake{
		SourceFile: m.cfg.OrdersFile,
		IngestedAt: time.Now(),
		Orders:     orders,
	}

	meta := fmt.Sprintf("purchase orders (%d)", len(orders))
	if err := records.Save(m.store, records.DatasetOrders, intake, meta); err != nil {
		return mod.ExecutionResult{}, err
	}

	utils.LogSuccess("Ingested %d purchase orders from %s", len(orders), m.cfg.OrdersFile)

	result := mod.NewSuccessResult(fmt.Sprintf("ingested %d purchase orders", len(orders)))
	result.Summary = map[string]interface{}{
		"orders":      len(orders),
		"skippedRows": skipped,
		"sourceFile":  m.cfg.OrdersFile,
	}
	return result, nil
}

// parseOrders reads the CSV export, returning the parsed orders and the
// number of rows dropped for being malformed.
func parseOrders(path string) ([]records.PurchaseOrder, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LogWarning("Failed to close orders file: %v", err)
		}
	}()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read orders header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, 0, err
	}

	var orders []records.PurchaseOrder
	skipped := 0
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			utils.LogWarning("Skipping orders row %d: %v", line, err)
			skipped++
			continue
		}

		order, err := parseOrderRow(row)
		if err != nil {
			utils.LogWarning("Skipping orders row %d: %v", line, err)
			skipped++
			continue
		}
		orders = append(orders, order)
	}

	return orders, skipped, nil
}

func checkHeader(header []string) error {
	if len(header) != len(ordersHeader) {
		return fmt.Errorf("orders header has %d columns, expected %d", len(header), len(ordersHeader))
	}
	for i, want := range ordersHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("orders header column %d is %q, expected %q", i+1, header[i], want)
		}
	}
	return nil
}

func parseOrderRow(row []string) (records.PurchaseOrder, error) {
	if len(row) != len(ordersHeader) {
		return records.PurchaseOrder{}, fmt.Errorf("row has %d columns, expected %d", len(row), len(ordersHeader))
	}

	poNumber := strings.TrimSpace(row[0])
	if poNumber == "" {
		return records.PurchaseOrder{}, fmt.Errorf("po_number is empty")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return records.PurchaseOrder{}, fmt.Errorf("invalid quantity %q: %w", row[3], err)
	}

	receivedAt, err := time.Parse(dateLayout, strings.TrimSpace(row[4]))
	if err != nil {
		return records.PurchaseOrder{}, fmt.Errorf("invalid received_date %q: %w", row[4], err)
	}

	dueDate, err := time.Parse(dateLayout, strings.TrimSpace(row[5]))
	if err != nil {
		return records.PurchaseOrder{}, fmt.Errorf("invalid due_date %q: %w", row[5], err)
	}

	return records.PurchaseOrder{
		PONumber:   poNumber,
		Product:    strings.TrimSpace(row[1]),
		MoldID:     strings.TrimSpace(row[2]),
		Quantity:   quantity,
		ReceivedAt: receivedAt,
		DueDate:    dueDate,
	}, nil
}
