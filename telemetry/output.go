package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/lumen/config"
)

// OutputManager handles structured session output with CSV logging. A nil
// OutputManager is valid and discards everything, so callers never need to
// branch on whether output is enabled.
type OutputManager struct {
	dir        string
	statsFile  *os.File
	safetyFile *os.File

	statsHeaderWritten  bool
	safetyHeaderWritten bool
}

// NewOutputManager creates an output manager rooted at dir. Returns nil if
// dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "safety.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating safety.csv: %w", err)
	}
	om.safetyFile = f

	return om, nil
}

// WriteConfig saves the active configuration as YAML alongside the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}
	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.statsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteSafety appends a safety stats record to safety.csv.
func (om *OutputManager) WriteSafety(stats SafetyStats) error {
	if om == nil {
		return nil
	}

	records := []SafetyStats{stats}
	if !om.safetyHeaderWritten {
		if err := gocsv.Marshal(records, om.safetyFile); err != nil {
			return fmt.Errorf("writing safety: %w", err)
		}
		om.safetyHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.safetyFile); err != nil {
		return fmt.Errorf("writing safety: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var first error
	if err := om.statsFile.Close(); err != nil {
		first = err
	}
	if err := om.safetyFile.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Dir returns the output directory, or empty if output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}
