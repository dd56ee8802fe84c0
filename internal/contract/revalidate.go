package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrScenarioSourceRequired is returned when a request names neither a scenario file nor inline YAML.
var ErrScenarioSourceRequired = errors.New("scenario_path or scenario_yaml is required")

// RevalidateScenario replaces the scenario of an already validated config. Inline YAML
// wins over a path. The item selected on cfg must exist in the new scenario.
func RevalidateScenario(cfg *Config, path, inline string) error {
	switch {
	case strings.TrimSpace(inline) != "":
		sc, err := ParseScenario([]byte(inline))
		if err != nil {
			return err
		}
		cfg.Scenario = sc
		cfg.ScenarioPath = ""
	case strings.TrimSpace(path) != "":
		if err := processScenario(cfg, &ConfigRawInput{ScenarioPathStr: path}); err != nil {
			return err
		}
	}

	if cfg.Scenario == nil {
		return ErrScenarioSourceRequired
	}
	if cfg.Item != "" && !cfg.Scenario.HasItem(cfg.Item) {
		return fmt.Errorf("item '%s' not found in scenario '%s'", cfg.Item, cfg.Scenario.Name)
	}
	return nil
}

// RevalidateTimeRange applies start and end overrides. Empty values fall back to
// the scenario window, then to what cfg already holds.
func RevalidateTimeRange(cfg *Config, start, end string) error {
	return processTimeRange(cfg, &ConfigRawInput{Start: start, End: end})
}

// RevalidateUntil sets the target and search horizon of a time-to-target request.
func RevalidateUntil(cfg *Config, target float64, maxHorizon string) error {
	if err := processUntilMode(cfg, &ConfigRawInput{MaxHorizon: maxHorizon}); err != nil {
		return err
	}
	cfg.Target = target
	cfg.HasTarget = true
	return nil
}

// RevalidateSchedule replaces the schedule specs with the comma-separated list in spec.
func RevalidateSchedule(cfg *Config, spec string, includeStart bool) error {
	processScheduleMode(cfg, &ConfigRawInput{Spec: spec, IncludeStart: includeStart})
	if len(cfg.ScheduleSpecs) == 0 {
		return errors.New("--spec is required")
	}
	return nil
}
