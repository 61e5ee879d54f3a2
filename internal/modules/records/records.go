// Package records defines the dataset payloads the built-in planning
// modules exchange through the shared store. Every module persists its
// output under its own module name, so dependency declarations, store
// keys, and record types line up one-to-one.
package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
)

// Store keys of the built-in modules' datasets.
const (
	DatasetOrders    = "data_pipeline"
	DatasetMolds     = "mold_specs"
	DatasetFindings  = "order_validation"
	DatasetCapacity  = "capacity_plan"
	DatasetLeadtimes = "leadtime_track"
	DatasetDashboard = "dashboard_report"
)

// PurchaseOrder is one normalized order line from the ERP export.
type PurchaseOrder struct {
	PONumber   string    `json:"poNumber"`
	Product    string    `json:"product"`
	MoldID     string    `json:"moldId"`
	Quantity   int       `json:"quantity"`
	ReceivedAt time.Time `json:"receivedAt"`
	DueDate    time.Time `json:"dueDate"`
}

// OrderIntake is the data_pipeline module's output: the normalized order
// book for the current planning window.
type OrderIntake struct {
	SourceFile string          `json:"sourceFile"`
	IngestedAt time.Time       `json:"ingestedAt"`
	Orders     []PurchaseOrder `json:"orders"`
}

// MoldSpec describes one mold's production characteristics.
type MoldSpec struct {
	MoldID       string  `json:"moldId"`
	Machine      string  `json:"machine"`
	Cavities     int     `json:"cavities"`
	CycleSeconds float64 `json:"cycleSeconds"`
}

// HoursFor returns the press time producing quantity parts demands on
// this mold's machine: full shots at the mold's cycle time.
func (m MoldSpec) HoursFor(quantity int) float64 {
	shots := (quantity + m.Cavities - 1) / m.Cavities
	return float64(shots) * m.CycleSeconds / 3600
}

// MoldCatalog is the mold_specs module's output.
type MoldCatalog struct {
	SourceFile string     `json:"sourceFile"`
	IngestedAt time.Time  `json:"ingestedAt"`
	Molds      []MoldSpec `json:"molds"`
}

// ByMoldID indexes the catalog for lookup during planning.
func (c MoldCatalog) ByMoldID() map[string]MoldSpec {
	index := make(map[string]MoldSpec, len(c.Molds))
	for _, mold := range c.Molds {
		index[mold.MoldID] = mold
	}
	return index
}

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one rule violation detected on an order.
type Finding struct {
	PONumber string `json:"poNumber"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ValidationReport is the order_validation module's output.
type ValidationReport struct {
	CheckedOrders int       `json:"checkedOrders"`
	Findings      []Finding `json:"findings"`
}

// ErrorCount returns the number of blocking findings.
func (r ValidationReport) ErrorCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// RejectedOrders returns the PO numbers carrying at least one error
// finding.
func (r ValidationReport) RejectedOrders() map[string]bool {
	rejected := make(map[string]bool)
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			rejected[f.PONumber] = true
		}
	}
	return rejected
}

// MachineLoad is the planned load on one molding machine over the
// planning horizon.
type MachineLoad struct {
	Machine        string   `json:"machine"`
	RequiredHours  float64  `json:"requiredHours"`
	AvailableHours float64  `json:"availableHours"`
	Utilization    float64  `json:"utilization"`
	Orders         []string `json:"orders"`
}

// CapacityReport is the capacity_plan module's output.
type CapacityReport struct {
	HorizonDays     int           `json:"horizonDays"`
	WorkHoursPerDay float64       `json:"workHoursPerDay"`
	Machines        []MachineLoad `json:"machines"`
	Overloaded      []string      `json:"overloaded"`
	PlannedOrders   int           `json:"plannedOrders"`
	DroppedOrders   int           `json:"droppedOrders"`
}

// OrderLeadtime is the projected fulfillment timeline of one order.
type OrderLeadtime struct {
	PONumber       string  `json:"poNumber"`
	Machine        string  `json:"machine"`
	QueueDays      float64 `json:"queueDays"`
	ProductionDays float64 `json:"productionDays"`
	TotalDays      float64 `json:"totalDays"`
	DueRisk        bool    `json:"dueRisk"`
}

// LeadtimeProfile is the leadtime_track module's output.
type LeadtimeProfile struct {
	Orders      []OrderLeadtime `json:"orders"`
	AverageDays float64         `json:"averageDays"`
	MaxDays     float64         `json:"maxDays"`
	AtRisk      int             `json:"atRisk"`
}

// Dashboard health states.
const (
	HealthOK        = "ok"
	HealthAttention = "attention"
)

// Dashboard is the dashboard_report module's output: the condensed
// planning picture for one run. It doubles as the schema of the exported
// report file, hence the YAML tags.
type Dashboard struct {
	GeneratedAt         time.Time `json:"generatedAt" yaml:"generated_at"`
	Orders              int       `json:"orders" yaml:"orders"`
	ErrorFindings       int       `json:"errorFindings" yaml:"error_findings"`
	WarningFindings     int       `json:"warningFindings" yaml:"warning_findings"`
	OverloadedMachines  []string  `json:"overloadedMachines" yaml:"overloaded_machines"`
	AverageLeadtimeDays float64   `json:"averageLeadtimeDays" yaml:"average_leadtime_days"`
	AtRiskOrders        int       `json:"atRiskOrders" yaml:"at_risk_orders"`
	Health              string    `json:"health" yaml:"health"`
}

// Save encodes a record as JSON and upserts it into the store under the
// dataset name.
func Save(st *store.Store, name string, record interface{}, meta string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", name, err)
	}
	if err := st.Put(name, payload, meta); err != nil {
		return fmt.Errorf("failed to persist dataset %s: %w", name, err)
	}
	return nil
}

// Load reads a dataset from the store and decodes its JSON payload into
// record. Absent datasets surface store.ErrDatasetNotFound for callers
// that degrade instead of failing.
func Load(st *store.Store, name string, record interface{}) error {
	ds, err := st.Get(name)
	if err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", name, err)
	}
	if err := json.Unmarshal(ds.Payload, record); err != nil {
		return fmt.Errorf("failed to decode dataset %s: %w", name, err)
	}
	return nil
}
