package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario is the top-level document of a scenario file.
type Scenario struct {
	Name  string         `yaml:"name" json:"name"`
	Start string         `yaml:"start,omitempty" json:"start,omitempty"`
	End   string         `yaml:"end,omitempty" json:"end,omitempty"`
	Items []ScenarioItem `yaml:"items" json:"items"`
}

// ScenarioItem declares one simulated item.
type ScenarioItem struct {
	Name        string            `yaml:"name" json:"name"`
	Value       float64           `yaml:"value" json:"value"`
	Granularity string            `yaml:"granularity,omitempty" json:"granularity,omitempty"`
	Patterns    []ScenarioPattern `yaml:"patterns" json:"patterns"`
}

// ScenarioPattern declares one pattern and its nested growth patterns.
type ScenarioPattern struct {
	Operator     string            `yaml:"operator" json:"operator"`
	Schedule     ScheduleValue     `yaml:"schedule" json:"schedule"`
	Impact       float64           `yaml:"impact" json:"impact"`
	StartDate    string            `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate      string            `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Offset       string            `yaml:"offset,omitempty" json:"offset,omitempty"`
	OffsetEnd    string            `yaml:"offset_end,omitempty" json:"offset_end,omitempty"`
	IncludeStart bool              `yaml:"include_start,omitempty" json:"include_start,omitempty"`
	Children     []ScenarioPattern `yaml:"children,omitempty" json:"children,omitempty"`

	// Only for the addgrow operator.
	GrowSchedule ScheduleValue `yaml:"grow_schedule,omitempty" json:"grow_schedule,omitempty"`
	GrowFactor   float64       `yaml:"grow_factor,omitempty" json:"grow_factor,omitempty"`
}

// ScheduleValue is a schedule written either as a single string ("1d", "monthly",
// "0 0 2 * *") or as a list (alternating intervals or explicit dates).
type ScheduleValue struct {
	Single string
	List   []string
}

// IsZero reports whether no schedule was given.
func (s ScheduleValue) IsZero() bool {
	return s.Single == "" && len(s.List) == 0
}

// IsList reports whether the schedule was written as a list.
func (s ScheduleValue) IsList() bool {
	return s.List != nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *ScheduleValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.Single = value.Value
		s.List = nil
		return nil
	case yaml.SequenceNode:
		list := make([]string, 0, len(value.Content))
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: schedule list entries must be scalars", n.Line)
			}
			list = append(list, n.Value)
		}
		s.Single = ""
		s.List = list
		return nil
	default:
		return fmt.Errorf("line %d: schedule must be a string or a list of strings", value.Line)
	}
}

// MarshalYAML writes the schedule back in the form it was read.
func (s ScheduleValue) MarshalYAML() (any, error) {
	if s.IsList() {
		return s.List, nil
	}
	return s.Single, nil
}

// MarshalJSON mirrors MarshalYAML.
func (s ScheduleValue) MarshalJSON() ([]byte, error) {
	if s.IsList() {
		return json.Marshal(s.List)
	}
	return json.Marshal(s.Single)
}

// HasItem reports whether the scenario declares an item with the given name.
func (s *Scenario) HasItem(name string) bool {
	for _, it := range s.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}

// ItemNames returns the declared item names in file order.
func (s *Scenario) ItemNames() []string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name
	}
	return names
}
