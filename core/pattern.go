package core

import (
	"fmt"
	"time"

	"github.com/huangsam/forecast/core/schedule"
)

// Pattern is the definition of one scheduled mutation. It holds no run state: attaching
// it to an Item copies the whole tree into that item, so one Pattern can be shared by
// several items.
type Pattern struct {
	Operator Operator
	Schedule schedule.Spec
	Impact   float64

	// StartDate and EndDate clamp the run bound when they are stricter. Zero means unset.
	StartDate time.Time
	EndDate   time.Time

	// Offset shifts the effective start forward, OffsetEnd shifts the effective end backward.
	Offset    schedule.Duration
	OffsetEnd schedule.Duration

	IncludeStart bool

	// Children mutate this pattern's impact rather than the item's value.
	Children []Pattern
}

// Add returns a pattern adding impact on every occurrence of spec.
func Add(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpAdd, Schedule: spec, Impact: impact}
}

// Subtract returns a pattern subtracting impact on every occurrence of spec.
func Subtract(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpSubtract, Schedule: spec, Impact: impact}
}

// Multiply returns a pattern multiplying by impact on every occurrence of spec.
func Multiply(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpMultiply, Schedule: spec, Impact: impact}
}

// Divide returns a pattern dividing by impact on every occurrence of spec.
func Divide(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpDivide, Schedule: spec, Impact: impact}
}

// Replace returns a pattern overwriting the value with impact on every occurrence of spec.
func Replace(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpReplace, Schedule: spec, Impact: impact}
}

// Power returns a pattern raising the value to impact on every occurrence of spec.
func Power(spec schedule.Spec, impact float64) Pattern {
	return Pattern{Operator: OpPower, Schedule: spec, Impact: impact}
}

// AddGrow returns an Add pattern whose impact is multiplied by factor on every
// occurrence of growSpec.
func AddGrow(spec schedule.Spec, impact float64, growSpec schedule.Spec, factor float64) Pattern {
	p := Add(spec, impact)
	p.Children = []Pattern{Multiply(growSpec, factor)}
	return p
}

// With returns a copy of p with the given children appended.
func (p Pattern) With(children ...Pattern) Pattern {
	p.Children = append(append([]Pattern(nil), p.Children...), children...)
	return p
}

// Between returns a copy of p clamped to [start, end]. A zero time leaves that side open.
func (p Pattern) Between(start, end time.Time) Pattern {
	p.StartDate = start
	p.EndDate = end
	return p
}

// Shifted returns a copy of p with the given start and end offsets.
func (p Pattern) Shifted(offset, offsetEnd schedule.Duration) Pattern {
	p.Offset = offset
	p.OffsetEnd = offsetEnd
	return p
}

// Inclusive returns a copy of p whose schedule includes the run start.
func (p Pattern) Inclusive() Pattern {
	p.IncludeStart = true
	return p
}

// Validate checks the pattern tree without running it.
func (p Pattern) Validate() error {
	if !p.Operator.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, string(p.Operator))
	}
	if err := p.Schedule.Validate(); err != nil {
		return fmt.Errorf("pattern %s %s: %w", p.Operator, p.Schedule, err)
	}
	for i, child := range p.Children {
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// String renders a compact description such as "+10 every 1d".
func (p Pattern) String() string {
	s := fmt.Sprintf("%s%g every %s", p.Operator.Symbol(), p.Impact, p.Schedule)
	if n := len(p.Children); n > 0 {
		s += fmt.Sprintf(" (%d nested)", n)
	}
	return s
}

// bounds resolves the effective window for this pattern inside [start, end].
func (p *Pattern) bounds(start, end time.Time) (time.Time, time.Time) {
	if !p.StartDate.IsZero() && p.StartDate.After(start) {
		start = p.StartDate
	}
	if !p.Offset.IsZero() {
		start = p.Offset.AddTo(start)
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(end) {
		end = p.EndDate
	}
	if !p.OffsetEnd.IsZero() {
		end = p.OffsetEnd.SubtractFrom(end)
	}
	return start, end
}
