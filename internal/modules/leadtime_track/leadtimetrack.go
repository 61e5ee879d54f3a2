// Package leadtimetrack projects per-order fulfillment timelines by
// sequencing each machine's plannable orders in due-date order and
// accumulating the queue ahead of every order.
package leadtimetrack

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ModuleName is the catalog name of this module.
const ModuleName = "leadtime_track"

const (
	defaultBufferDays      = 2.0
	defaultWorkHoursPerDay = 16.0
	hoursPerDay            = 24.0
)

// Config contains the parameters for lead-time projection.
type Config struct {
	BufferDays      float64 `yaml:"bufferDays"`      // Handling margin added to every order (default 2)
	WorkHoursPerDay float64 `yaml:"workHoursPerDay"` // Fallback when no capacity report is in the store (default 16)
}

// Module implements lead-time projection.
type Module struct {
	cfg   Config
	store *store.Store
}

// New creates a lead-time tracking module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if cfg.BufferDays < 0 {
		return nil, fmt.Errorf("bufferDays must not be negative, got %v", cfg.BufferDays)
	}
	if cfg.WorkHoursPerDay < 0 {
		return nil, fmt.Errorf("workHoursPerDay must not be negative, got %v", cfg.WorkHoursPerDay)
	}
	if cfg.BufferDays == 0 {
		cfg.BufferDays = defaultBufferDays
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
		"data_pipeline": "store://" + records.DatasetOrders,
		"mold_specs":    "store://" + records.DatasetMolds,
		"capacity_plan": "store://" + records.DatasetCapacity,
	}
}

// Execute sequences the order book per machine and persists the lead-time
// profile. The capacity report only contributes the working-hours figure;
// when absent the configured fallback applies. Orders whose molds are not
// in the catalog are left out of the profile.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	var intake records.OrderIntake
	if err := records.Load(m.store, records.DatasetOrders, &intake); err != nil {
		return mod.ExecutionResult{}, err
	}

	var catalog records.MoldCatalog
	if err := records.Load(m.store, records.DatasetMolds, &catalog); err != nil {
		return mod.ExecutionResult{}, err
	}

	workHours, err := m.workHoursPerDay()
	if err != nil {
		return mod.ExecutionResult{}, err
	}

	profile := project(intake.Orders, catalog.ByMoldID(), workHours, m.cfg.BufferDays)

	meta := fmt.Sprintf("leadtime profile (%d orders)", len(profile.Orders))
	if err := records.Save(m.store, records.DatasetLeadtimes, profile, meta); err != nil {
		return mod.ExecutionResult{}, err
	}

	utils.LogSuccess("Projected lead times for %d orders, %d at risk", len(profile.Orders), profile.AtRisk)

	result := mod.NewSuccessResult(fmt.Sprintf("projected %d lead times", len(profile.Orders)))
	result.Summary = map[string]interface{}{
		"orders":      len(profile.Orders),
		"averageDays": profile.AverageDays,
		"maxDays":     profile.MaxDays,
		"atRisk":      profile.AtRisk,
	}
	return result, nil
}

func (m *Module) workHoursPerDay() (float64, error) {
	var capacity records.CapacityReport
	err := records.Load(m.store, records.DatasetCapacity, &capacity)
	if errors.Is(err, store.ErrDatasetNotFound) {
		utils.LogWarning("Capacity report not in store, assuming %v work hours per day", m.cfg.WorkHoursPerDay)
		return m.cfg.WorkHoursPerDay, nil
	}
	if err != nil {
		return 0, err
	}
	if capacity.WorkHoursPerDay <= 0 {
		return m.cfg.WorkHoursPerDay, nil
	}
	return capacity.WorkHoursPerDay, nil
}

func project(orders []records.PurchaseOrder, molds map[string]records.MoldSpec, workHours, bufferDays float64) records.LeadtimeProfile {
	byMachine := make(map[string][]records.PurchaseOrder)
	for _, order := range orders {
		mold, ok := molds[order.MoldID]
		if !ok {
			utils.LogVerbose("Leaving order %s out of the profile: mold %q not in catalog", order.PONumber, order.MoldID)
			continue
		}
		byMachine[mold.Machine] = append(byMachine[mold.Machine], order)
	}

	var profile records.LeadtimeProfile
	var totalDays float64

	for machine, queue := range byMachine {
		// Earliest due date first; PO number breaks ties so reruns are
		// deterministic.
		sort.Slice(queue, func(i, j int) bool {
			if !queue[i].DueDate.Equal(queue[j].DueDate) {
				return queue[i].DueDate.Before(queue[j].DueDate)
			}
			return queue[i].PONumber < queue[j].PONumber
		})

		backlogHours := 0.0
		for _, order := range queue {
			orderHours := molds[order.MoldID].HoursFor(order.Quantity)

			entry := records.OrderLeadtime{
				PONumber:       order.PONumber,
				Machine:        machine,
				QueueDays:      round2(backlogHours / workHours),
				ProductionDays: round2(orderHours / workHours),
			}
			entry.TotalDays = round2(entry.QueueDays + entry.ProductionDays + bufferDays)

			finish := order.ReceivedAt.Add(daysToDuration(entry.TotalDays))
			entry.DueRisk = finish.After(order.DueDate)

			backlogHours += orderHours

			profile.Orders = append(profile.Orders, entry)
			totalDays += entry.TotalDays
			if entry.TotalDays > profile.MaxDays {
				profile.MaxDays = entry.TotalDays
			}
			if entry.DueRisk {
				profile.AtRisk++
			}
		}
	}

	sort.Slice(profile.Orders, func(i, j int) bool {
		return profile.Orders[i].PONumber < profile.Orders[j].PONumber
	})

	if len(profile.Orders) > 0 {
		profile.AverageDays = round2(totalDays / float64(len(profile.Orders)))
	}

	return profile
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * hoursPerDay * float64(time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
