package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "workflows", cfg.WorkflowsDir)
	assert.Empty(t, cfg.RegistryFile)
	assert.Equal(t, filepath.Join("data", "moldiq.db"), cfg.StorePath)
	assert.Equal(t, filepath.Join("data", "summaries"), cfg.SummaryDir)
}

func TestConfigValidate(t *testing.T) {
	base := t.TempDir()
	workflowsDir := filepath.Join(base, "workflows")
	require.NoError(t, os.MkdirAll(workflowsDir, 0755))

	registryFile := filepath.Join(base, "registry.yaml")
	require.NoError(t, os.WriteFile(registryFile, []byte("modules: {}\n"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid configuration",
			cfg: Config{
				WorkflowsDir: workflowsDir,
				RegistryFile: registryFile,
				StorePath:    filepath.Join(base, "data", "moldiq.db"),
				SummaryDir:   filepath.Join(base, "summaries"),
			},
		},
		{
			name:    "missing workflows dir",
			cfg:     Config{StorePath: "x.db"},
			wantErr: "workflows directory is required",
		},
		{
			name: "workflows dir does not exist",
			cfg: Config{
				WorkflowsDir: filepath.Join(base, "nope"),
				StorePath:    "x.db",
			},
			wantErr: "workflows directory does not exist",
		},
		{
			name: "workflows path is a file",
			cfg: Config{
				WorkflowsDir: registryFile,
				StorePath:    "x.db",
			},
			wantErr: "must be a directory",
		},
		{
			name: "registry file does not exist",
			cfg: Config{
				WorkflowsDir: workflowsDir,
				RegistryFile: filepath.Join(base, "missing.yaml"),
				StorePath:    "x.db",
			},
			wantErr: "registry file does not exist",
		},
		{
			name: "store path required",
			cfg: Config{
				WorkflowsDir: workflowsDir,
			},
			wantErr: "store path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigValidateCreatesOutputDirs(t *testing.T) {
	base := t.TempDir()
	workflowsDir := filepath.Join(base, "workflows")
	require.NoError(t, os.MkdirAll(workflowsDir, 0755))

	cfg := Config{
		WorkflowsDir: workflowsDir,
		StorePath:    filepath.Join(base, "data", "store.db"),
		SummaryDir:   filepath.Join(base, "out", "summaries"),
	}
	require.NoError(t, cfg.Validate())

	assert.DirExists(t, filepath.Join(base, "data"))
	assert.DirExists(t, filepath.Join(base, "out", "summaries"))
}

func TestWriteDefaultConfig(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "nested", "moldiq.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "workflows", parsed["workflows_dir"])
	assert.Equal(t, "data/moldiq.db", parsed["store_path"])
	assert.Equal(t, "data/summaries", parsed["summary_dir"])
	assert.NotContains(t, parsed, "registry_file")
}
