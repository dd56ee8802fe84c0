// Package schedule turns schedule specifications into concrete occurrence instants.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidIntervalFormat is returned for interval strings outside the <count><unit> grammar.
var ErrInvalidIntervalFormat = errors.New("invalid interval format")

// intervalRegex matches "<count><unit>". Longer unit spellings come first so "min" never matches as "m".
var intervalRegex = regexp.MustCompile(`^(\d+)(sec|min|s|h|d|w|m|y)$`)

// approxMonth is the mean Gregorian month, used only to order durations.
const approxMonth = time.Duration(30.436875 * 24 * float64(time.Hour))

// maxSpan is the longest span a time.Duration can hold, roughly 292 years.
const maxSpan = time.Duration(math.MaxInt64)

const day = 24 * time.Hour

// Duration is a span of calendar time. Months and years are kept as calendar months
// so that adding them respects month lengths; everything else is a fixed span.
type Duration struct {
	months int
	span   time.Duration
}

// Common single-unit durations.
var (
	Second = Duration{span: time.Second}
	Minute = Duration{span: time.Minute}
	Hour   = Duration{span: time.Hour}
	Day    = Duration{span: day}
	Week   = Duration{span: 7 * day}
	Month  = Duration{months: 1}
	Year   = Duration{months: 12}
)

// Months returns a duration of n calendar months.
func Months(n int) Duration {
	return Duration{months: n}
}

// Fixed returns a duration of a fixed time span.
func Fixed(d time.Duration) Duration {
	return Duration{span: d}
}

// ParseInterval converts an interval string such as "2d", "3h", "15min" or "1m" into a Duration.
// Units: s/sec seconds, min minutes, h hours, d days, w weeks, m months, y years.
func ParseInterval(s string) (Duration, error) {
	m := intervalRegex.FindStringSubmatch(s)
	if m == nil {
		return Duration{}, fmt.Errorf("%w: %q (expected <count><unit>, unit one of s, min, h, d, w, m, y)", ErrInvalidIntervalFormat, s)
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return Duration{}, fmt.Errorf("%w: %q: %v", ErrInvalidIntervalFormat, s, err)
	}
	u := unitOf(m[2])
	if (u.span > 0 && int64(count) > int64(maxSpan/u.span)) || (u.months > 0 && count > math.MaxInt32/u.months) {
		return Duration{}, fmt.Errorf("%w: %q is too large", ErrInvalidIntervalFormat, s)
	}
	return u.Times(count), nil
}

// unitOf maps a unit suffix already accepted by intervalRegex to its single-unit duration.
func unitOf(unit string) Duration {
	switch unit {
	case "s", "sec":
		return Second
	case "min":
		return Minute
	case "h":
		return Hour
	case "d":
		return Day
	case "w":
		return Week
	case "m":
		return Month
	default: // "y"
		return Year
	}
}

// unitGranularity returns one unit of the interval's unit, e.g. "3d" -> 1 day.
func unitGranularity(s string) (Duration, error) {
	m := intervalRegex.FindStringSubmatch(s)
	if m == nil {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidIntervalFormat, s)
	}
	return unitOf(m[2]), nil
}

// Unit returns the largest single unit that evenly divides d, e.g. 3d -> 1d, 90min -> 1min.
// Durations mixing calendar months with a fixed span fall back per Common.
func (d Duration) Unit() Duration {
	var fixed Duration
	if d.span != 0 {
		fixed = Fixed(d.span)
		for _, u := range []Duration{Week, Day, Hour, Minute, Second} {
			if d.span%u.span == 0 {
				fixed = u
				break
			}
		}
	}
	if d.months == 0 {
		return fixed
	}
	return Common(Month, fixed)
}

// Common returns a single clock step that lands on every multiple of each of ds.
// Calendar months never line up with fixed spans, so mixing the two falls back to
// a day unless a finer fixed span is already present. Zero durations are ignored.
func Common(ds ...Duration) Duration {
	var fixed, months Duration
	for _, d := range ds {
		switch {
		case d.IsZero():
		case d.span == 0:
			if months.IsZero() || d.Finer(months) {
				months = d
			}
		default:
			if fixed.IsZero() || d.Finer(fixed) {
				fixed = d
			}
		}
	}
	switch {
	case fixed.IsZero():
		return months
	case months.IsZero():
		return fixed
	case fixed.Finer(Day):
		return fixed
	default:
		return Day
	}
}

// IsZero reports whether the duration has no length.
func (d Duration) IsZero() bool {
	return d.months == 0 && d.span == 0
}

// Plus returns the sum of two durations.
func (d Duration) Plus(o Duration) Duration {
	return Duration{months: d.months + o.months, span: d.span + o.span}
}

// Times returns the duration repeated n times.
func (d Duration) Times(n int) Duration {
	return Duration{months: d.months * n, span: d.span * time.Duration(n)}
}

// AddTo returns t shifted forward by d. Month arithmetic clamps to the last day of the target month.
func (d Duration) AddTo(t time.Time) time.Time {
	return AddMonths(t, d.months).Add(d.span)
}

// AddTimesTo returns t shifted forward by n repetitions of d. Unlike d.Times(n).AddTo(t)
// it stays exact when n repetitions of the fixed span exceed a time.Duration.
func (d Duration) AddTimesTo(t time.Time, n int) time.Time {
	return shift(t, d, n, Duration{})
}

// shift returns t moved by n repetitions of d followed by extra.
func shift(t time.Time, d Duration, n int, extra Duration) time.Time {
	t = AddMonths(t, d.months*n+extra.months)
	return addSpan(t, d.span, n).Add(extra.span)
}

// addSpan adds span n times in chunks that each fit in a time.Duration.
func addSpan(t time.Time, span time.Duration, n int) time.Time {
	if span <= 0 || n <= 0 {
		return t.Add(span * time.Duration(n))
	}
	chunk := int(maxSpan / span)
	for n > chunk {
		t = t.Add(span * time.Duration(chunk))
		n -= chunk
	}
	return t.Add(span * time.Duration(n))
}

// Fits reports whether d applied from t spans less than the longest time.Duration,
// so the elapsed time can still be measured with t.Sub.
func (d Duration) Fits(t time.Time) bool {
	return d.AddTo(t).Sub(t) < maxSpan
}

// SubtractFrom returns t shifted backward by d.
func (d Duration) SubtractFrom(t time.Time) time.Time {
	return AddMonths(t, -d.months).Add(-d.span)
}

// Approx returns an approximate fixed length, only meaningful for ordering.
func (d Duration) Approx() time.Duration {
	if d.months > int(maxSpan/approxMonth) {
		return maxSpan
	}
	return time.Duration(d.months)*approxMonth + d.span
}

// Finer reports whether d is strictly shorter than o.
func (d Duration) Finer(o Duration) bool {
	return d.Approx() < o.Approx()
}

// String renders the duration in interval grammar where possible.
func (d Duration) String() string {
	switch {
	case d.IsZero():
		return "0s"
	case d.span == 0 && d.months%12 == 0:
		return fmt.Sprintf("%dy", d.months/12)
	case d.span == 0:
		return fmt.Sprintf("%dm", d.months)
	case d.months != 0:
		return fmt.Sprintf("%dm+%s", d.months, d.span)
	case d.span%(7*day) == 0:
		return fmt.Sprintf("%dw", d.span/(7*day))
	case d.span%day == 0:
		return fmt.Sprintf("%dd", d.span/day)
	case d.span%time.Hour == 0:
		return fmt.Sprintf("%dh", d.span/time.Hour)
	case d.span%time.Minute == 0:
		return fmt.Sprintf("%dmin", d.span/time.Minute)
	case d.span%time.Second == 0:
		return fmt.Sprintf("%ds", d.span/time.Second)
	default:
		return d.span.String()
	}
}

// AddMonths adds n calendar months to t, clamping the day to the last day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
