// Package dashboardreport condenses the planning datasets into one
// dashboard record and, when configured, exports it as a YAML report
// file.
package dashboardreport

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/records"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ModuleName is the catalog name of this module.
const ModuleName = "dashboard_report"

const defaultFileName = "plan_dashboard.yaml"

// Config contains the parameters for dashboard generation.
type Config struct {
	OutputDir string `yaml:"outputDir"` // When set, the dashboard is also written here as YAML
	FileName  string `yaml:"fileName"`  // Report file name (default plan_dashboard.yaml)
}

// Module implements dashboard generation.
type Module struct {
	cfg   Config
	store *store.Store
	now   func() time.Time
}

// New creates a dashboard module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if cfg.FileName == "" {
		cfg.FileName = defaultFileName
	}
	if cfg.OutputDir != "" {
		if err := utils.ValidateOutputPath(cfg.OutputDir); err != nil {
			return nil, err
		}
	}
	return &Module{cfg: cfg, store: st, now: time.Now}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Dependencies declares the datasets this module reads.
func (m *Module) Dependencies() map[string]string {
	return map[string]string{
		"data_pipeline":    "store://" + records.DatasetOrders,
		"order_validation": "store://" + records.DatasetFindings,
		"capacity_plan":    "store://" + records.DatasetCapacity,
		"leadtime_track":   "store://" + records.DatasetLeadtimes,
	}
}

// Execute merges whatever planning datasets the store holds into the
// dashboard. Individual missing datasets leave their section empty; only
// a store with none of them at all fails the module.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	dashboard := records.Dashboard{GeneratedAt: m.now(), Health: records.HealthOK}
	present := 0
	var missing []string

	var intake records.OrderIntake
	if ok, err := loadSection(m.store, records.DatasetOrders, &intake); err != nil {
		return mod.ExecutionResult{}, err
	} else if ok {
		dashboard.Orders = len(intake.Orders)
		present++
	} else {
		missing = append(missing, records.DatasetOrders)
	}

	var findings records.ValidationReport
	if ok, err := loadSection(m.store, records.DatasetFindings, &findings); err != nil {
		return mod.ExecutionResult{}, err
	} else if ok {
		dashboard.ErrorFindings = findings.ErrorCount()
		dashboard.WarningFindings = len(findings.Findings) - dashboard.ErrorFindings
		present++
	} else {
		missing = append(missing, records.DatasetFindings)
	}

	var capacity records.CapacityReport
	if ok, err := loadSection(m.store, records.DatasetCapacity, &capacity); err != nil {
		return mod.ExecutionResult{}, err
	} else if ok {
		dashboard.OverloadedMachines = capacity.Overloaded
		present++
	} else {
		missing = append(missing, records.DatasetCapacity)
	}

	var leadtimes records.LeadtimeProfile
	if ok, err := loadSection(m.store, records.DatasetLeadtimes, &leadtimes); err != nil {
		return mod.ExecutionResult{}, err
	} else if ok {
		dashboard.AverageLeadtimeDays = leadtimes.AverageDays
		dashboard.AtRiskOrders = leadtimes.AtRisk
		present++
	} else {
		missing = append(missing, records.DatasetLeadtimes)
	}

	if present == 0 {
		return mod.ExecutionResult{}, fmt.Errorf("no planning datasets in store, nothing to report")
	}

	if dashboard.ErrorFindings > 0 || len(dashboard.OverloadedMachines) > 0 || dashboard.AtRiskOrders > 0 {
		dashboard.Health = records.HealthAttention
	}

	if err := records.Save(m.store, records.DatasetDashboard, dashboard, "plan dashboard"); err != nil {
		return mod.ExecutionResult{}, err
	}

	reportPath := ""
	if m.cfg.OutputDir != "" {
		path, err := m.writeReportFile(dashboard)
		if err != nil {
			return mod.ExecutionResult{}, err
		}
		reportPath = path
		utils.LogSuccess("Exported dashboard to %s", path)
	}

	for _, name := range missing {
		utils.LogWarning("Dashboard section %s has no data", name)
	}
	utils.LogSuccess("Dashboard generated: %s", dashboard.Health)

	result := mod.NewSuccessResult(fmt.Sprintf("dashboard health %s", dashboard.Health))
	result.Summary = map[string]interface{}{
		"health":          dashboard.Health,
		"missingSections": missing,
	}
	if reportPath != "" {
		result.Summary["reportFile"] = reportPath
	}
	return result, nil
}

// loadSection reads one dataset, reporting absence as ok=false rather
// than an error.
func loadSection(st *store.Store, name string, record interface{}) (bool, error) {
	err := records.Load(st, name, record)
	if errors.Is(err, store.ErrDatasetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Module) writeReportFile(dashboard records.Dashboard) (string, error) {
	data, err := yaml.Marshal(dashboard)
	if err != nil {
		return "", fmt.Errorf("failed to serialize dashboard: %w", err)
	}

	path := filepath.Join(m.cfg.OutputDir, m.cfg.FileName)
	if err := utils.WriteTextFile(path, string(data)); err != nil {
		return "", err
	}
	return path, nil
}
