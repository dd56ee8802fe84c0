package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/schema"
)

// ErrMissingSchedule is returned for scenario patterns without a schedule.
var ErrMissingSchedule = errors.New("schedule is required")

// BuildCollection turns a decoded scenario into a collection of ready-to-run items.
func BuildCollection(sc *schema.Scenario) (*Collection, error) {
	items := make([]*Item, 0, len(sc.Items))
	for i, si := range sc.Items {
		it, err := BuildItem(si)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, si.Name, err)
		}
		items = append(items, it)
	}
	return NewCollection(items...), nil
}

// BuildItem creates an item and attaches its patterns in file order.
func BuildItem(si schema.ScenarioItem) (*Item, error) {
	it := NewItem(si.Name, si.Value)
	for i, sp := range si.Patterns {
		p, err := BuildPattern(sp)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		if err := it.AddPattern(p); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	if si.Granularity != "" {
		g, err := schedule.ParseInterval(si.Granularity)
		if err != nil {
			return nil, fmt.Errorf("granularity: %w", err)
		}
		if err := it.SetGranularity(g); err != nil {
			return nil, err
		}
	}
	return it, nil
}

// BuildPattern converts one declared pattern, recursing into its children.
func BuildPattern(sp schema.ScenarioPattern) (Pattern, error) {
	spec, err := SpecFromValue(sp.Schedule)
	if err != nil {
		return Pattern{}, err
	}

	var p Pattern
	if strings.EqualFold(strings.TrimSpace(sp.Operator), schema.OperatorAddGrow) {
		growSpec, err := SpecFromValue(sp.GrowSchedule)
		if err != nil {
			return Pattern{}, fmt.Errorf("grow_schedule: %w", err)
		}
		p = AddGrow(spec, sp.Impact, growSpec, sp.GrowFactor)
	} else {
		op, err := ParseOperator(sp.Operator)
		if err != nil {
			return Pattern{}, err
		}
		p = Pattern{Operator: op, Schedule: spec, Impact: sp.Impact}
	}

	if p.StartDate, err = optionalDate(sp.StartDate); err != nil {
		return Pattern{}, fmt.Errorf("start_date: %w", err)
	}
	if p.EndDate, err = optionalDate(sp.EndDate); err != nil {
		return Pattern{}, fmt.Errorf("end_date: %w", err)
	}
	if p.Offset, err = optionalInterval(sp.Offset); err != nil {
		return Pattern{}, fmt.Errorf("offset: %w", err)
	}
	if p.OffsetEnd, err = optionalInterval(sp.OffsetEnd); err != nil {
		return Pattern{}, fmt.Errorf("offset_end: %w", err)
	}
	p.IncludeStart = sp.IncludeStart

	for i, sc := range sp.Children {
		child, err := BuildPattern(sc)
		if err != nil {
			return Pattern{}, fmt.Errorf("child %d: %w", i, err)
		}
		p.Children = append(p.Children, child)
	}
	return p, nil
}

// SpecFromValue maps a scenario schedule to a schedule spec.
func SpecFromValue(v schema.ScheduleValue) (schedule.Spec, error) {
	switch {
	case v.IsZero():
		return schedule.Spec{}, ErrMissingSchedule
	case v.IsList():
		return schedule.ParseList(v.List), nil
	default:
		return schedule.Parse(v.Single), nil
	}
}

func optionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return schedule.ParseDate(s)
}

func optionalInterval(s string) (schedule.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return schedule.Duration{}, nil
	}
	return schedule.ParseInterval(strings.TrimSpace(s))
}
