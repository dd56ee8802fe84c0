package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCronExpression is returned for cron expressions that are not 5 valid fields.
var ErrInvalidCronExpression = errors.New("invalid cron expression")

// cronParser accepts the classic 5-field layout: minute hour day-of-month month day-of-week.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Generate materializes the occurrences of spec within [start, end].
// When includeStart is false the start instant itself is never emitted, except for
// explicit dates which are only filtered to the bound.
func Generate(spec Spec, start, end time.Time, includeStart bool) ([]time.Time, error) {
	switch spec.kind {
	case IntervalKind, AlternatingKind:
		steps, err := spec.steps()
		if err != nil {
			return nil, err
		}
		return stepped(steps, start, end, includeStart), nil
	case MonthlyKind:
		return stepped([]Duration{Month}, start, end, includeStart), nil
	case CronKind:
		return cronTimes(spec.cron, start, end, includeStart)
	case DatesKind:
		dates, err := spec.resolveDates()
		if err != nil {
			return nil, err
		}
		return within(dates, start, end), nil
	default:
		return nil, fmt.Errorf("unsupported schedule kind %d", spec.kind)
	}
}

// stepped emits start + cumulative steps, cycling through steps. Each instant is
// computed from the anchor so month clamping never accumulates; whole cycles are
// applied through shift so long ranges never overflow the fixed span.
func stepped(steps []Duration, start, end time.Time, includeStart bool) []time.Time {
	var out []time.Time
	if end.Before(start) {
		return out
	}
	if includeStart {
		out = append(out, start)
	}
	prefix := make([]Duration, len(steps))
	for j, st := range steps {
		prefix[j] = st
		if j > 0 {
			prefix[j] = prefix[j-1].Plus(st)
		}
	}
	cycle := prefix[len(prefix)-1]
	for i := 0; ; i++ {
		next := shift(start, cycle, i/len(steps), prefix[i%len(steps)])
		if next.After(end) {
			return out
		}
		out = append(out, next)
	}
}

// cronTimes emits every instant matching expr within [start, end].
func cronTimes(expr string, start, end time.Time, includeStart bool) ([]time.Time, error) {
	sched, err := parseCron(expr)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	if end.Before(start) {
		return out, nil
	}
	probe := start
	if includeStart {
		// Next is strictly-after, so step back to let start itself match.
		probe = start.Add(-time.Nanosecond)
	}
	for {
		next := sched.Next(probe)
		if next.IsZero() || next.After(end) {
			return out, nil
		}
		out = append(out, next)
		probe = next
	}
}

// within keeps the dates inside [start, end] without reordering them.
func within(dates []time.Time, start, end time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func parseCron(expr string) (cron.Schedule, error) {
	if n := len(strings.Fields(expr)); n != 5 {
		return nil, fmt.Errorf("%w: %q has %d fields, expected 5", ErrInvalidCronExpression, expr, n)
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidCronExpression, expr, err)
	}
	return sched, nil
}

// cronGranularity picks the coarsest step that still lands on every match.
func cronGranularity(expr string) (Duration, error) {
	if _, err := parseCron(expr); err != nil {
		return Duration{}, err
	}
	fields := strings.Fields(expr)
	switch {
	case fields[0] != "0":
		return Minute, nil
	case fields[1] != "0":
		return Hour, nil
	default:
		return Day, nil
	}
}
