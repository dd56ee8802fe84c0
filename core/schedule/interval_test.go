package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected Duration
	}{
		{"2d", Day.Times(2)},
		{"1w", Week},
		{"3h", Hour.Times(3)},
		{"15min", Minute.Times(15)},
		{"30s", Second.Times(30)},
		{"30sec", Second.Times(30)},
		{"1m", Month},
		{"2y", Months(24)},
		{"0d", Duration{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseInterval_Invalid(t *testing.T) {
	for _, input := range []string{"", "d", "2", "2x", "-1d", "1.5d", "2 d", "2D", "monthly", "200000d", "2562048h", "9999999999y"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseInterval(input)
			assert.ErrorIs(t, err, ErrInvalidIntervalFormat)
		})
	}
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	jan31 := time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 29, 9, 30, 0, 0, time.UTC), AddMonths(jan31, 1))
	assert.Equal(t, time.Date(2024, 3, 31, 9, 30, 0, 0, time.UTC), AddMonths(jan31, 2))
	assert.Equal(t, time.Date(2024, 4, 30, 9, 30, 0, 0, time.UTC), AddMonths(jan31, 3))
	assert.Equal(t, time.Date(2025, 2, 28, 9, 30, 0, 0, time.UTC), AddMonths(jan31, 13))
	assert.Equal(t, time.Date(2023, 12, 31, 9, 30, 0, 0, time.UTC), AddMonths(jan31, -1))
	assert.Equal(t, jan31, AddMonths(jan31, 0))
}

func TestDuration_Arithmetic(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mixed := Month.Plus(Day.Times(2))
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), mixed.AddTo(start))
	assert.Equal(t, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), mixed.SubtractFrom(start))
	assert.True(t, Day.Finer(Week))
	assert.True(t, Week.Finer(Month))
	assert.False(t, Year.Finer(Month))
	assert.True(t, Duration{}.IsZero())
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "2d", Day.Times(2).String())
	assert.Equal(t, "1w", Week.String())
	assert.Equal(t, "3m", Months(3).String())
	assert.Equal(t, "1y", Year.String())
	assert.Equal(t, "15min", Minute.Times(15).String())
	assert.Equal(t, "0s", Duration{}.String())
}

func TestDuration_AddTimesToBeyondDurationRange(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	// 120000 days is about 328 years, past what a single time.Duration holds.
	assert.Equal(t, start.AddDate(0, 0, 120000), Day.AddTimesTo(start, 120000))
	assert.Equal(t, start.AddDate(0, 0, 7*20000), Week.AddTimesTo(start, 20000))
	assert.Equal(t, AddMonths(start, 3*500), Months(3).AddTimesTo(start, 500))
	assert.Equal(t, start, Day.AddTimesTo(start, 0))

	mixed := Month.Plus(Day)
	assert.Equal(t, mixed.Times(5).AddTo(start), mixed.AddTimesTo(start, 5))
}

func TestDuration_Fits(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, Months(100*12).Fits(start))
	assert.True(t, Months(290*12).Fits(start))
	assert.False(t, Months(293*12).Fits(start))
	assert.False(t, Months(400*12).Fits(start))
}

func TestDuration_Unit(t *testing.T) {
	tests := []struct {
		d        Duration
		expected Duration
	}{
		{Duration{}, Duration{}},
		{Day.Times(3), Day},
		{Day.Times(14), Week},
		{Minute.Times(90), Minute},
		{Hour.Times(36), Hour},
		{Second.Times(45), Second},
		{Fixed(1500 * time.Millisecond), Fixed(1500 * time.Millisecond)},
		{Months(6), Month},
		{Year, Month},
		{Month.Plus(Week), Day},
		{Month.Plus(Hour.Times(5)), Hour},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.d.Unit())
		})
	}
}

func TestCommon(t *testing.T) {
	assert.Equal(t, Duration{}, Common())
	assert.Equal(t, Day, Common(Day))
	assert.Equal(t, Day, Common(Week, Day))
	assert.Equal(t, Month, Common(Year, Month))
	assert.Equal(t, Month, Common(Month, Duration{}))
	assert.Equal(t, Hour, Common(Week, Hour))

	// calendar months and fixed spans only share a grid at day resolution or finer
	assert.Equal(t, Day, Common(Month, Week))
	assert.Equal(t, Day, Common(Year, Day))
	assert.Equal(t, Hour, Common(Month, Hour))
	assert.Equal(t, Minute, Common(Month, Week, Minute))
}
