package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/validation"
)

// GateConfig sets the thresholds a report must stay within for a CI run to
// pass. Count limits of -1 disable the check; percentage limits run on the
// worst layer in the report.
type GateConfig struct {
	MaxGaps               int     `yaml:"maxGaps"`
	MaxDuplicates         int     `yaml:"maxDuplicates"`
	MaxConnectivityIssues int     `yaml:"maxConnectivityIssues"`
	MaxCompleteness       int     `yaml:"maxCompleteness"`
	MaxIsolationPercent   float64 `yaml:"maxIsolationPercent"`
	MinDensity            float64 `yaml:"minDensity"`
}

// DefaultGateConfig fails only on completeness findings; everything else is
// reported but tolerated.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxGaps:               -1,
		MaxDuplicates:         -1,
		MaxConnectivityIssues: -1,
		MaxCompleteness:       0,
		MaxIsolationPercent:   100,
		MinDensity:            0,
	}
}

// LoadGateConfig reads a gate config file, filling unset fields from the
// defaults.
func LoadGateConfig(path string) (GateConfig, error) {
	cfg := DefaultGateConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read gate config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse gate config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the threshold values for internal consistency.
func (c GateConfig) Validate() error {
	return validation.NewConfigValidator("GateConfig").
		Custom("MaxGaps", countLimit(c.MaxGaps)).
		Custom("MaxDuplicates", countLimit(c.MaxDuplicates)).
		Custom("MaxConnectivityIssues", countLimit(c.MaxConnectivityIssues)).
		Custom("MaxCompleteness", countLimit(c.MaxCompleteness)).
		RangeFloat("MaxIsolationPercent", c.MaxIsolationPercent, 0, 100).
		Custom("MinDensity", func() error {
			if c.MinDensity < 0 {
				return fmt.Errorf("value %g must be non-negative", c.MinDensity)
			}
			return nil
		}).
		Validate()
}

func countLimit(v int) func() error {
	return func() error {
		if v < -1 {
			return fmt.Errorf("value %d must be -1 (disabled) or a non-negative limit", v)
		}
		return nil
	}
}

// GateViolation names one threshold a report exceeded.
type GateViolation struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Evaluate checks the report against the gate thresholds and returns every
// violation. An empty result means the gate passes.
func (c GateConfig) Evaluate(r *model.AuditReport) []GateViolation {
	var violations []GateViolation

	if c.MaxGaps >= 0 && len(r.Gaps) > c.MaxGaps {
		violations = append(violations, GateViolation{
			Check:  "maxGaps",
			Detail: fmt.Sprintf("%d gap candidates exceed the limit of %d", len(r.Gaps), c.MaxGaps),
		})
	}
	if c.MaxDuplicates >= 0 && len(r.Duplicates) > c.MaxDuplicates {
		violations = append(violations, GateViolation{
			Check:  "maxDuplicates",
			Detail: fmt.Sprintf("%d duplicate candidates exceed the limit of %d", len(r.Duplicates), c.MaxDuplicates),
		})
	}
	if c.MaxConnectivityIssues >= 0 && len(r.Connectivity.Issues) > c.MaxConnectivityIssues {
		violations = append(violations, GateViolation{
			Check:  "maxConnectivityIssues",
			Detail: fmt.Sprintf("%d connectivity issues exceed the limit of %d", len(r.Connectivity.Issues), c.MaxConnectivityIssues),
		})
	}
	if c.MaxCompleteness >= 0 && len(r.Completeness) > c.MaxCompleteness {
		violations = append(violations, GateViolation{
			Check:  "maxCompleteness",
			Detail: fmt.Sprintf("%d completeness findings exceed the limit of %d", len(r.Completeness), c.MaxCompleteness),
		})
	}
	for _, cm := range r.Coverage {
		if cm.IsolationPercentage > c.MaxIsolationPercent {
			violations = append(violations, GateViolation{
				Check:  "maxIsolationPercent",
				Detail: fmt.Sprintf("layer %s isolation %.1f%% exceeds the limit of %.1f%%", cm.LayerID, cm.IsolationPercentage, c.MaxIsolationPercent),
			})
		}
		if cm.NodeTypeCount > 0 && cm.Density < c.MinDensity {
			violations = append(violations, GateViolation{
				Check:  "minDensity",
				Detail: fmt.Sprintf("layer %s density %.2f is below the minimum of %.2f", cm.LayerID, cm.Density, c.MinDensity),
			})
		}
	}
	return violations
}
