//go:build integration

// Package integration contains integration tests for forecast.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savingsScenario = `
name: savings
items:
  - name: savings
    value: 100
    patterns:
      - operator: add
        schedule: 1d
        impact: 10
      - operator: multiply
        schedule: 3d
        impact: 2
`

// parseSeries reads "instant;value" lines written by run --output csv.
func parseSeries(t *testing.T, output string) ([]time.Time, []float64) {
	t.Helper()
	var instants []time.Time
	var values []float64
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.Split(line, ";")
		require.Len(t, parts, 2, "unexpected line %q", line)
		instant, err := time.Parse(time.DateTime, parts[0])
		require.NoError(t, err)
		value, err := strconv.ParseFloat(parts[1], 64)
		require.NoError(t, err)
		instants = append(instants, instant)
		values = append(values, value)
	}
	return instants, values
}

// TestRunVerification replays the trajectory by hand and compares every sample.
func TestRunVerification(t *testing.T) {
	path := writeScenario(t, savingsScenario)
	out, err := runForecast(t, nil, "run", path, "--start", "2024-05-01", "--end", "2024-05-10", "--output", "csv")
	require.NoError(t, err)

	instants, values := parseSeries(t, out)
	require.Len(t, values, 10)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	expected := 100.0
	for i := range values {
		if i > 0 {
			expected += 10
			if i%3 == 0 {
				expected *= 2
			}
		}
		assert.Equal(t, start.AddDate(0, 0, i), instants[i])
		assert.Equal(t, expected, values[i], "sample %d", i)
	}
	assert.Equal(t, 1220.0, values[9])
}

// TestUntilVerification checks the reached instant against the run trajectory.
func TestUntilVerification(t *testing.T) {
	path := writeScenario(t, savingsScenario)
	out, err := runForecast(t, nil, "until", path, "--target", "500", "--output", "csv", "--separator", ",")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "item,initial,target,final,reached,elapsed_seconds,days", lines[0])

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 7)
	assert.Equal(t, "savings", fields[0])
	// 100 -> 110 -> 120 -> 260 -> 270 -> 280 -> 580 on day 6
	assert.Equal(t, "580", fields[3])
	assert.Equal(t, "6", fields[6])
}

// TestScheduleVerification compares generated instants with calendar arithmetic.
func TestScheduleVerification(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []string
	}{
		{"interval", "2d", []string{"2024-05-03", "2024-05-05", "2024-05-07", "2024-05-09"}},
		{"alternating", "2d|1d", []string{"2024-05-03", "2024-05-04", "2024-05-06", "2024-05-07", "2024-05-09", "2024-05-10"}},
		{"dates", "2024-05-02,2024-05-09", []string{"2024-05-02", "2024-05-09"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runForecast(t, nil, "schedule", "--spec", tt.spec, "--start", "2024-05-01", "--end", "2024-05-10", "--output", "csv")
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, len(tt.expected))
			for i, line := range lines {
				assert.True(t, strings.HasPrefix(line, tt.expected[i]), "line %d: %q", i, line)
			}
		})
	}
}

// TestRunJSONMatchesCSV makes sure both machine formats carry the same final value.
func TestRunJSONMatchesCSV(t *testing.T) {
	path := writeScenario(t, savingsScenario)
	out, err := runForecast(t, nil, "run", path, "--start", "2024-05-01", "--end", "2024-05-10", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"final": 1220`)
}
