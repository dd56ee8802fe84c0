package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned when an explicit date cannot be parsed.
var ErrInvalidDateFormat = errors.New("invalid date format")

// DateFormat is the layout accepted for explicit dates. Zero padding is optional.
const DateFormat = "2006-1-2"

// Kind identifies which generator a Spec uses.
type Kind int

// All schedule kinds supported.
const (
	IntervalKind Kind = iota
	AlternatingKind
	CronKind
	DatesKind
	MonthlyKind
)

// String returns a readable kind name.
func (k Kind) String() string {
	switch k {
	case IntervalKind:
		return "interval"
	case AlternatingKind:
		return "alternating"
	case CronKind:
		return "cron"
	case DatesKind:
		return "dates"
	case MonthlyKind:
		return "monthly"
	default:
		return "unknown"
	}
}

// Spec is an immutable schedule specification.
type Spec struct {
	kind      Kind
	intervals []string
	cron      string
	dates     []time.Time
	rawDates  []string
}

// Interval schedules an occurrence every fixed interval, e.g. "2d".
func Interval(s string) Spec {
	return Spec{kind: IntervalKind, intervals: []string{s}}
}

// Alternating cycles through the given intervals in order.
func Alternating(intervals ...string) Spec {
	return Spec{kind: AlternatingKind, intervals: append([]string(nil), intervals...)}
}

// Cron schedules every instant matching a 5-field cron expression.
func Cron(expr string) Spec {
	return Spec{kind: CronKind, cron: expr}
}

// Dates schedules exactly the given instants, in the given order.
func Dates(dates ...time.Time) Spec {
	return Spec{kind: DatesKind, dates: append([]time.Time(nil), dates...)}
}

// DateStrings schedules the given yyyy-mm-dd dates, in the given order.
func DateStrings(dates ...string) Spec {
	return Spec{kind: DatesKind, rawDates: append([]string(nil), dates...)}
}

// Monthly schedules one occurrence per calendar month anchored on the start day.
func Monthly() Spec {
	return Spec{kind: MonthlyKind}
}

// Parse builds a Spec from a single schedule string: "monthly"/"month", a cron
// expression (anything containing whitespace) or an interval.
func Parse(s string) Spec {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(trimmed, "monthly"), strings.EqualFold(trimmed, "month"):
		return Monthly()
	case strings.ContainsAny(trimmed, " \t"):
		return Cron(trimmed)
	default:
		return Interval(trimmed)
	}
}

// ParseList builds a Spec from a list of strings. A list made only of dates is an
// explicit date schedule, anything else is a list of alternating intervals.
func ParseList(list []string) Spec {
	if len(list) == 0 {
		return Alternating()
	}
	for _, s := range list {
		if _, err := ParseDate(s); err != nil {
			return Alternating(list...)
		}
	}
	return DateStrings(list...)
}

// ParseDate parses a yyyy-mm-dd date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected yyyy-mm-dd)", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// Kind returns the generator kind of the spec.
func (s Spec) Kind() Kind {
	return s.kind
}

// String renders the spec the way it would be written in a scenario file.
func (s Spec) String() string {
	switch s.kind {
	case IntervalKind:
		return s.intervals[0]
	case AlternatingKind:
		return "[" + strings.Join(s.intervals, ", ") + "]"
	case CronKind:
		return s.cron
	case MonthlyKind:
		return "monthly"
	default:
		parts := make([]string, 0, len(s.dates)+len(s.rawDates))
		for _, d := range s.dates {
			parts = append(parts, d.Format("2006-01-02"))
		}
		parts = append(parts, s.rawDates...)
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// Validate checks the spec without generating anything.
func (s Spec) Validate() error {
	switch s.kind {
	case IntervalKind, AlternatingKind:
		_, err := s.steps()
		return err
	case CronKind:
		_, err := parseCron(s.cron)
		return err
	case DatesKind:
		_, err := s.resolveDates()
		return err
	default:
		return nil
	}
}

// Granularity returns the step size a simulation clock needs to observe every
// occurrence of this spec.
func (s Spec) Granularity() (Duration, error) {
	switch s.kind {
	case IntervalKind, AlternatingKind:
		if len(s.intervals) == 0 {
			return Duration{}, fmt.Errorf("%w: empty interval list", ErrInvalidIntervalFormat)
		}
		units := make([]Duration, len(s.intervals))
		for i, iv := range s.intervals {
			g, err := unitGranularity(iv)
			if err != nil {
				return Duration{}, err
			}
			units[i] = g
		}
		return Common(units...), nil
	case CronKind:
		return cronGranularity(s.cron)
	case MonthlyKind:
		return Month, nil
	default:
		return Day, nil
	}
}

// steps parses the interval list. Zero-length steps would never advance and are rejected.
func (s Spec) steps() ([]Duration, error) {
	if len(s.intervals) == 0 {
		return nil, fmt.Errorf("%w: empty interval list", ErrInvalidIntervalFormat)
	}
	out := make([]Duration, len(s.intervals))
	var cycle time.Duration
	for i, iv := range s.intervals {
		d, err := ParseInterval(iv)
		if err != nil {
			return nil, err
		}
		if d.IsZero() {
			return nil, fmt.Errorf("%w: %q has zero length", ErrInvalidIntervalFormat, iv)
		}
		if cycle > maxSpan-d.span {
			return nil, fmt.Errorf("%w: %v cycle is too long", ErrInvalidIntervalFormat, s.intervals)
		}
		cycle += d.span
		out[i] = d
	}
	return out, nil
}

// resolveDates returns native dates followed by parsed date strings.
func (s Spec) resolveDates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(s.dates)+len(s.rawDates))
	out = append(out, s.dates...)
	for _, raw := range s.rawDates {
		t, err := ParseDate(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
