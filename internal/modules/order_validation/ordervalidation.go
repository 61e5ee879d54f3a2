// Package ordervalidation checks the ingested order book against business
// rules and publishes the findings other planning modules use to exclude
// unplannable orders.
package ordervalidation

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ModuleName is the catalog name of this module.
const ModuleName = "order_validation"

// defaultMaxQuantity caps a single order line before it draws a warning.
const defaultMaxQuantity = 100000

// Config contains the parameters for order validation.
type Config struct {
	MaxQuantity int `yaml:"maxQuantity"` // Quantity above which an order is flagged (default 100000)
}

// Module implements order rule checking.
type Module struct {
	cfg   Config
	store *store.Store
}

// New creates an order validation module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if cfg.MaxQuantity < 0 {
		return nil, fmt.Errorf("maxQuantity must not be negative, got %d", cfg.MaxQuantity)
	}
	if cfg.MaxQuantity == 0 {
		cfg.MaxQuantity = defaultMaxQuantity
	}
	return &Module{cfg: cfg, store: st}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Dependencies declares the datasets this module reads.
func (m *Module) Dependencies() map[string]string {
	return map[string]string{
		"data_pipeline": "store://" + records.DatasetOrders,
		"mold_specs":    "store://" + records.DatasetMolds,
	}
}

// Execute loads the order book, applies the rule set, and persists the
// findings. A missing mold catalog disables the mold-reference rule
// instead of failing; a missing order book is a hard failure.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	var intake records.OrderIntake
	if err := records.Load(m.store, records.DatasetOrders, &intake); err != nil {
		return mod.ExecutionResult{}, err
	}

	molds, moldChecks, err := loadMoldIndex(m.store)
	if err != nil {
		return mod.ExecutionResult{}, err
	}
	if !moldChecks {
		utils.LogWarning("Mold catalog not in store, skipping mold-reference checks")
	}

	report := records.ValidationReport{
		CheckedOrders: len(intake.Orders),
		Findings:      checkOrders(intake.Orders, molds, moldChecks, m.cfg.MaxQuantity),
	}

	meta := fmt.Sprintf("validation findings (%d)", len(report.Findings))
	if err := records.Save(m.store, records.DatasetFindings, report, meta); err != nil {
		return mod.ExecutionResult{}, err
	}

	errorCount := report.ErrorCount()
	utils.LogSuccess("Validated %d orders: %d errors, %d warnings",
		report.CheckedOrders, errorCount, len(report.Findings)-errorCount)

	result := mod.NewSuccessResult(fmt.Sprintf("validated %d orders", report.CheckedOrders))
	result.Summary = map[string]interface{}{
		"checkedOrders":   report.CheckedOrders,
		"errorFindings":   errorCount,
		"warningFindings": len(report.Findings) - errorCount,
		"moldChecks":      moldChecks,
	}
	return result, nil
}

func loadMoldIndex(st *store.Store) (map[string]records.MoldSpec, bool, error) {
	var catalog records.MoldCatalog
	err := records.Load(st, records.DatasetMolds, &catalog)
	if errors.Is(err, store.ErrDatasetNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return catalog.ByMoldID(), true, nil
}

func checkOrders(orders []records.PurchaseOrder, molds map[string]records.MoldSpec, moldChecks bool, maxQuantity int) []records.Finding {
	var findings []records.Finding

	seen := make(map[string]bool, len(orders))

	for _, order := range orders {
		if seen[order.PONumber] {
			findings = append(findings, records.Finding{
				PONumber: order.PONumber,
				Rule:     "duplicate_po",
				Severity: records.SeverityError,
				Message:  fmt.Sprintf("order %s appears more than once", order.PONumber),
			})
		}
		seen[order.PONumber] = true

		if order.Quantity <= 0 {
			findings = append(findings, records.Finding{
				PONumber: order.PONumber,
				Rule:     "quantity_bounds",
				Severity: records.SeverityError,
				Message:  fmt.Sprintf("quantity %d is not positive", order.Quantity),
			})
		} else if order.Quantity > maxQuantity {
			findings = append(findings, records.Finding{
				PONumber: order.PONumber,
				Rule:     "quantity_bounds",
				Severity: records.SeverityWarning,
				Message:  fmt.Sprintf("quantity %d exceeds the %d limit", order.Quantity, maxQuantity),
			})
		}

		if order.DueDate.Before(order.ReceivedAt) {
			findings = append(findings, records.Finding{
				PONumber: order.PONumber,
				Rule:     "date_window",
				Severity: records.SeverityError,
				Message:  fmt.Sprintf("due date %s precedes received date %s",
					order.DueDate.Format("2006-01-02"), order.ReceivedAt.Format("2006-01-02")),
			})
		}

		if moldChecks {
			if _, ok := molds[order.MoldID]; !ok {
				findings = append(findings, records.Finding{
					PONumber: order.PONumber,
					Rule:     "unknown_mold",
					Severity: records.SeverityError,
					Message:  fmt.Sprintf("mold %q is not in the mold catalog", order.MoldID),
				})
			}
		}
	}

	return findings
}
