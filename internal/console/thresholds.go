// Package console wires the lead composition engine into the application:
// configuration loading, persistence, caching, transport, and the follow-up
// task pipeline.
package console

import (
	"fmt"
	"os"

	"lead_console_backend/internal/console/engine"

	"gopkg.in/yaml.v3"
)

// LoadThresholds reads tuning parameters from a YAML file. Keys absent from
// the file keep their default values; an empty path means defaults only. The
// result is validated before use.
func LoadThresholds(path string) (engine.Thresholds, error) {
	thresholds := engine.DefaultThresholds()
	if path == "" {
		return thresholds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Thresholds{}, fmt.Errorf("read thresholds file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return engine.Thresholds{}, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}
	if err := thresholds.Validate(); err != nil {
		return engine.Thresholds{}, err
	}
	return thresholds, nil
}
