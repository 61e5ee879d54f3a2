// Package modules wires the built-in planning modules into a registry
// catalog.
package modules

import (
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	capacityplan "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/capacity_plan"
	dashboardreport "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/dashboard_report"
	datapipeline "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/data_pipeline"
	leadtimetrack "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/leadtime_track"
	moldspecs "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/mold_specs"
	ordervalidation "github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules/order_validation"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
)

// BuiltinCatalog returns the factory table of every built-in planning
// module, each bound to the shared store. The table is the explicit
// catalog a registry is constructed with; nothing registers itself.
func BuiltinCatalog(st *store.Store) registry.Catalog {
	return registry.Catalog{
		datapipeline.ModuleName: func(configPath string) (mod.Module, error) {
			return datapipeline.New(configPath, st)
		},
		moldspecs.ModuleName: func(configPath string) (mod.Module, error) {
			return moldspecs.New(configPath, st)
		},
		ordervalidation.ModuleName: func(configPath string) (mod.Module, error) {
			return ordervalidation.New(configPath, st)
		},
		capacityplan.ModuleName: func(configPath string) (mod.Module, error) {
			return capacityplan.New(configPath, st)
		},
		leadtimetrack.ModuleName: func(configPath string) (mod.Module, error) {
			return leadtimetrack.New(configPath, st)
		},
		dashboardreport.ModuleName: func(configPath string) (mod.Module, error) {
			return dashboardreport.New(configPath, st)
		},
	}
}
