package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
)

func writeWorkflowFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefinition(t *testing.T) {
	path := writeWorkflowFile(t, `
name: daily_plan
description: Ingest orders and produce the daily capacity plan
modules:
  - module: data_pipeline
    config_file: configs/data_pipeline.yaml
    required: true
  - module: order_validation
    config_file: configs/order_validation.yaml
    dependency_policy: strict
  - module: capacity_plan
    config_file: configs/capacity_plan.yaml
    dependency_policy:
      name: flexible
      params:
        requiredDeps: [purchase_orders]
        maxAgeDays: 14
`)

	def, err := LoadDefinition(path)
	require.NoError(t, err)

	assert.Equal(t, "daily_plan", def.Name)
	assert.Equal(t, "Ingest orders and produce the daily capacity plan", def.Description)
	require.Len(t, def.Modules, 3)

	// An omitted dependency_policy defaults to strict.
	first := def.Modules[0]
	assert.Equal(t, "data_pipeline", first.Module)
	assert.Equal(t, "configs/data_pipeline.yaml", first.ConfigFile)
	assert.True(t, first.Required)
	assert.Equal(t, policy.PolicyStrict, first.DependencyPolicy.Name)

	second := def.Modules[1]
	assert.Equal(t, policy.PolicyStrict, second.DependencyPolicy.Name)
	assert.False(t, second.Required)

	third := def.Modules[2]
	assert.Equal(t, policy.PolicyFlexible, third.DependencyPolicy.Name)
	assert.Equal(t, []interface{}{"purchase_orders"}, third.DependencyPolicy.Params["requiredDeps"])
	assert.Equal(t, 14, third.DependencyPolicy.Params["maxAgeDays"])
}

func TestLoadDefinitionMissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read workflow file")
}

func TestLoadDefinitionMalformedYAML(t *testing.T) {
	path := writeWorkflowFile(t, "name: [unclosed")
	_, err := LoadDefinition(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse workflow YAML")
}

func TestDefinitionValidate(t *testing.T) {
	known := &scriptedModule{name: "data_pipeline"}
	reg := registry.New(catalogFor(known), nil)
	factory := policy.NewFactory(nil)

	goodStep := ModuleStep{
		Module:           "data_pipeline",
		ConfigFile:       "configs/data_pipeline.yaml",
		DependencyPolicy: strictSpec(),
	}

	tests := []struct {
		name    string
		def     Definition
		wantErr string
	}{
		{
			name: "valid definition",
			def:  Definition{Name: "daily_plan", Modules: []ModuleStep{goodStep}},
		},
		{
			name:    "missing workflow name",
			def:     Definition{Modules: []ModuleStep{goodStep}},
			wantErr: "workflow name is required",
		},
		{
			name:    "no module steps",
			def:     Definition{Name: "daily_plan"},
			wantErr: "at least one module step",
		},
		{
			name: "empty module name",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{ConfigFile: "configs/x.yaml", DependencyPolicy: strictSpec()},
			}},
			wantErr: "module name is required",
		},
		{
			name: "malformed module name",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{Module: "Data-Pipeline", ConfigFile: "configs/x.yaml", DependencyPolicy: strictSpec()},
			}},
			wantErr: "malformed module name",
		},
		{
			name: "unknown module",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{Module: "report_mailer", ConfigFile: "configs/x.yaml", DependencyPolicy: strictSpec()},
			}},
			wantErr: "not in the catalog",
		},
		{
			name: "missing config file",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{Module: "data_pipeline", DependencyPolicy: strictSpec()},
			}},
			wantErr: "config_file is required",
		},
		{
			name: "unknown policy",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{Module: "data_pipeline", ConfigFile: "configs/x.yaml",
					DependencyPolicy: policy.Spec{Name: "lenient"}},
			}},
			wantErr: "unknown policy",
		},
		{
			name: "bad policy parameter",
			def: Definition{Name: "daily_plan", Modules: []ModuleStep{
				{Module: "data_pipeline", ConfigFile: "configs/x.yaml",
					DependencyPolicy: policy.Spec{
						Name:   policy.PolicyHybrid,
						Params: map[string]interface{}{"preferWorkflow": "yes"},
					}},
			}},
			wantErr: "preferWorkflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate(reg, factory)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
