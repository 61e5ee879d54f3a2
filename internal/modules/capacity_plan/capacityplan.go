// Package capacityplan turns the validated order book into per-machine
// load figures over the planning horizon, flagging machines whose demand
// exceeds the available hours.
package capacityplan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ModuleName is the catalog name of this module.
const ModuleName = "capacity_plan"

const (
	defaultHorizonDays     = 30
	defaultWorkHoursPerDay = 16.0
)

// Config contains the parameters for capacity planning.
type Config struct {
	HorizonDays     int     `yaml:"horizonDays"`     // Planning window length (default 30)
	WorkHoursPerDay float64 `yaml:"workHoursPerDay"` // Productive hours per machine per day (default 16)
}

// Module implements machine capacity planning.
type Module struct {
	cfg   Config
	store *store.Store
}

// New creates a capacity planning module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if cfg.HorizonDays < 0 {
		return nil, fmt.Errorf("horizonDays must not be negative, got %d", cfg.HorizonDays)
	}
	if cfg.WorkHoursPerDay < 0 {
		return nil, fmt.Errorf("workHoursPerDay must not be negative, got %v", cfg.WorkHoursPerDay)
	}
	if cfg.HorizonDays == 0 {
		cfg.HorizonDays = defaultHorizonDays
	}
	if cfg.WorkHoursPerDay == 0 {
		cfg.WorkHoursPerDay = defaultWorkHoursPerDay
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
		"data_pipeline":    "store://" + records.DatasetOrders,
		"mold_specs":       "store://" + records.DatasetMolds,
		"order_validation": "store://" + records.DatasetFindings,
	}
}

// Execute computes per-machine load from the plannable orders and persists
// the capacity report. Orders rejected by validation or referencing molds
// outside the catalog are dropped from the plan. Missing findings disable
// the exclusion step; a missing order book or mold catalog is a hard
// failure.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	var intake records.OrderIntake
	if err := records.Load(m.store, records.DatasetOrders, &intake); err != nil {
		return mod.ExecutionResult{}, err
	}

	var catalog records.MoldCatalog
	if err := records.Load(m.store, records.DatasetMolds, &catalog); err != nil {
		return mod.ExecutionResult{}, err
	}

	rejected, err := loadRejectedOrders(m.store)
	if err != nil {
		return mod.ExecutionResult{}, err
	}

	report := m.plan(intake.Orders, catalog.ByMoldID(), rejected)

	meta := fmt.Sprintf("capacity report (%d machines)", len(report.Machines))
	if err := records.Save(m.store, records.DatasetCapacity, report, meta); err != nil {
		return mod.ExecutionResult{}, err
	}

	utils.LogSuccess("Planned %d orders across %d machines, %d overloaded",
		report.PlannedOrders, len(report.Machines), len(report.Overloaded))

	result := mod.NewSuccessResult(fmt.Sprintf("planned %d orders", report.PlannedOrders))
	result.Summary = map[string]interface{}{
		"plannedOrders": report.PlannedOrders,
		"droppedOrders": report.DroppedOrders,
		"machines":      len(report.Machines),
		"overloaded":    report.Overloaded,
	}
	return result, nil
}

// loadRejectedOrders returns the PO numbers validation blocked. A missing
// findings dataset means no exclusions.
func loadRejectedOrders(st *store.Store) (map[string]bool, error) {
	var report records.ValidationReport
	err := records.Load(st, records.DatasetFindings, &report)
	if errors.Is(err, store.ErrDatasetNotFound) {
		utils.LogWarning("Validation findings not in store, planning all orders")
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	return report.RejectedOrders(), nil
}

func (m *Module) plan(orders []records.PurchaseOrder, molds map[string]records.MoldSpec, rejected map[string]bool) records.CapacityReport {
	report := records.CapacityReport{
		HorizonDays:     m.cfg.HorizonDays,
		WorkHoursPerDay: m.cfg.WorkHoursPerDay,
	}

	loads := make(map[string]*records.MachineLoad)

	for _, order := range orders {
		if rejected[order.PONumber] {
			report.DroppedOrders++
			continue
		}
		mold, ok := molds[order.MoldID]
		if !ok {
			utils.LogVerbose("Dropping order %s: mold %q not in catalog", order.PONumber, order.MoldID)
			report.DroppedOrders++
			continue
		}

		load, ok := loads[mold.Machine]
		if !ok {
			load = &records.MachineLoad{
				Machine:        mold.Machine,
				AvailableHours: float64(m.cfg.HorizonDays) * m.cfg.WorkHoursPerDay,
			}
			loads[mold.Machine] = load
		}

		load.RequiredHours += mold.HoursFor(order.Quantity)
		load.Orders = append(load.Orders, order.PONumber)
		report.PlannedOrders++
	}

	machines := make([]string, 0, len(loads))
	for machine := range loads {
		machines = append(machines, machine)
	}
	sort.Strings(machines)

	for _, machine := range machines {
		load := loads[machine]
		load.RequiredHours = round3(load.RequiredHours)
		if load.AvailableHours > 0 {
			load.Utilization = round3(load.RequiredHours / load.AvailableHours)
		}
		if load.Utilization > 1 {
			report.Overloaded = append(report.Overloaded, machine)
		}
		report.Machines = append(report.Machines, *load)
	}

	return report
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
