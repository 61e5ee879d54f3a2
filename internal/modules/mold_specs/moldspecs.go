// Package moldspecs ingests the mold master-data CSV into the shared
// store. The catalog changes rarely, so workflows often omit this module
// and let store-fallback policies pick up an earlier run's copy.
package moldspecs

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
const ModuleName = "mold_specs"

var moldsHeader = []string{"mold_id", "machine", "cavities", "cycle_seconds"}

// Config contains the parameters for mold master-data ingestion.
type Config struct {
	MoldsFile string `yaml:"moldsFile"` // Path to the mold master-data CSV
}

// Module implements mold master-data ingestion.
type Module struct {
	cfg   Config
	store *store.Store
}

// New creates a mold specs module from its config file.
func New(configPath string, st *store.Store) (*Module, error) {
	var cfg Config
	if err := mod.LoadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := utils.ValidateFilePath(cfg.MoldsFile, "moldsFile"); err != nil {
		return nil, err
	}
	if err := utils.ValidateFileExtension(cfg.MoldsFile, []string{".csv"}); err != nil {
		return nil, err
	}
	return &Module{cfg: cfg, store: st}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Dependencies declares the module's inputs. Master data is a root step
// and has none.
func (m *Module) Dependencies() map[string]string {
	return nil
}

// Execute parses the mold CSV and persists the catalog. A mold with a
// non-positive cavity count or cycle time cannot be planned against, so
// such rows are rejected rather than skipped.
func (m *Module) Execute(ctx context.Context) (mod.ExecutionResult, error) {
	molds, err := parseMolds(m.cfg.MoldsFile)
	if err != nil {
		return mod.ExecutionResult{}, err
	}

	catalog := records.MoldCatalog{
		SourceFile: m.cfg.MoldsFile,
		IngestedAt: time.Now(),
		Molds:      molds,
	}

	meta := fmt.Sprintf("mold catalog (%d)", len(molds))
	if err := records.Save(m.store, records.DatasetMolds, catalog, meta); err != nil {
		return mod.ExecutionResult{}, err
	}

	utils.LogSuccess("Ingested %d mold specs from %s", len(molds), m.cfg.MoldsFile)

	result := mod.NewSuccessResult(fmt.Sprintf("ingested %d mold specs", len(molds)))
	result.Summary = map[string]interface{}{
		"molds":      len(molds),
		"sourceFile": m.cfg.MoldsFile,
	}
	return result, nil
}

func parseMolds(path string) ([]records.MoldSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open molds file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LogWarning("Failed to close molds file: %v", err)
		}
	}()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read molds header: %w", err)
	}
	if len(header) != len(moldsHeader) {
		return nil, fmt.Errorf("molds header has %d columns, expected %d", len(header), len(moldsHeader))
	}
	for i, want := range moldsHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("molds header column %d is %q, expected %q", i+1, header[i], want)
		}
	}

	var molds []records.MoldSpec
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read molds row %d: %w", line, err)
		}

		mold, err := parseMoldRow(row)
		if err != nil {
			return nil, fmt.Errorf("molds row %d: %w", line, err)
		}
		molds = append(molds, mold)
	}

	return molds, nil
}

func parseMoldRow(row []string) (records.MoldSpec, error) {
	if len(row) != len(moldsHeader) {
		return records.MoldSpec{}, fmt.Errorf("row has %d columns, expected %d", len(row), len(moldsHeader))
	}

	moldID := strings.TrimSpace(row[0])
	if moldID == "" {
		return records.MoldSpec{}, fmt.Errorf("mold_id is empty")
	}

	cavities, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return records.MoldSpec{}, fmt.Errorf("invalid cavities %q: %w", row[2], err)
	}
	if cavities <= 0 {
		return records.MoldSpec{}, fmt.Errorf("cavities must be positive, got %d", cavities)
	}

	cycleSeconds, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return records.MoldSpec{}, fmt.Errorf("invalid cycle_seconds %q: %w", row[3], err)
	}
	if cycleSeconds <= 0 {
		return records.MoldSpec{}, fmt.Errorf("cycle_seconds must be positive, got %v", cycleSeconds)
	}

	return records.MoldSpec{
		MoldID:       moldID,
		Machine:      strings.TrimSpace(row[1]),
		Cavities:     cavities,
		CycleSeconds: cycleSeconds,
	}, nil
}
