package core

import (
	"testing"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const builderScenario = `
name: household
items:
  - name: savings
    value: 100
    patterns:
      - operator: add
        schedule: 1d
        impact: 10
  - name: salary
    value: 0
    granularity: 1h
    patterns:
      - operator: addgrow
        schedule: monthly
        impact: 3000
        grow_schedule: 12m
        grow_factor: 1.03
        start_date: 2024-05-03
        offset: 1d
`

func decodeScenario(t *testing.T, doc string) *schema.Scenario {
	t.Helper()
	var sc schema.Scenario
	require.NoError(t, yaml.Unmarshal([]byte(doc), &sc))
	return &sc
}

func TestBuildCollection(t *testing.T) {
	c, err := BuildCollection(decodeScenario(t, builderScenario))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	savings, err := c.Find("savings")
	require.NoError(t, err)
	res, err := savings.Run(mayStart, mayEnd)
	require.NoError(t, err)
	assert.InDelta(t, 190.0, res.Final(), 1e-9)

	salary, err := c.Find("salary")
	require.NoError(t, err)
	assert.Equal(t, schedule.Hour, salary.Granularity())

	patterns := salary.Patterns()
	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, OpAdd, p.Operator)
	assert.Equal(t, schedule.MonthlyKind, p.Schedule.Kind())
	assert.Equal(t, day(2024, 5, 3), p.StartDate)
	assert.Equal(t, schedule.Day, p.Offset)
	require.Len(t, p.Children, 1)
	assert.Equal(t, OpMultiply, p.Children[0].Operator)
	assert.Equal(t, 1.03, p.Children[0].Impact)
	assert.Equal(t, "12m", p.Children[0].Schedule.String())
}

func TestBuildPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  schema.ScenarioPattern
		operator Operator
		kind     schedule.Kind
		children int
	}{
		{
			name:     "alias operator",
			pattern:  schema.ScenarioPattern{Operator: "Mul", Schedule: schema.ScheduleValue{Single: "3d"}, Impact: 2},
			operator: OpMultiply,
			kind:     schedule.IntervalKind,
		},
		{
			name:     "cron schedule",
			pattern:  schema.ScenarioPattern{Operator: "add", Schedule: schema.ScheduleValue{Single: "0 0 2 * *"}, Impact: 1},
			operator: OpAdd,
			kind:     schedule.CronKind,
		},
		{
			name:     "alternating list",
			pattern:  schema.ScenarioPattern{Operator: "add", Schedule: schema.ScheduleValue{List: []string{"2d", "1d"}}, Impact: 1},
			operator: OpAdd,
			kind:     schedule.AlternatingKind,
		},
		{
			name:     "date list",
			pattern:  schema.ScenarioPattern{Operator: "replace", Schedule: schema.ScheduleValue{List: []string{"2024-05-02", "2024-06-01"}}, Impact: 0},
			operator: OpReplace,
			kind:     schedule.DatesKind,
		},
		{
			name: "explicit children",
			pattern: schema.ScenarioPattern{
				Operator: "add", Schedule: schema.ScheduleValue{Single: "1d"}, Impact: 10,
				Children: []schema.ScenarioPattern{
					{Operator: "multiply", Schedule: schema.ScheduleValue{Single: "5d"}, Impact: 2},
					{Operator: "add", Schedule: schema.ScheduleValue{Single: "1w"}, Impact: 1},
				},
			},
			operator: OpAdd,
			kind:     schedule.IntervalKind,
			children: 2,
		},
		{
			name: "addgrow",
			pattern: schema.ScenarioPattern{
				Operator: "AddGrow", Schedule: schema.ScheduleValue{Single: "1d"}, Impact: 10,
				GrowSchedule: schema.ScheduleValue{Single: "5d"}, GrowFactor: 2,
			},
			operator: OpAdd,
			kind:     schedule.IntervalKind,
			children: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildPattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.operator, p.Operator)
			assert.Equal(t, tt.kind, p.Schedule.Kind())
			assert.Len(t, p.Children, tt.children)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestBuildPattern_Errors(t *testing.T) {
	daily := schema.ScheduleValue{Single: "1d"}
	tests := []struct {
		name    string
		pattern schema.ScenarioPattern
		target  error
	}{
		{"missing schedule", schema.ScenarioPattern{Operator: "add"}, ErrMissingSchedule},
		{"empty schedule list", schema.ScenarioPattern{Operator: "add", Schedule: schema.ScheduleValue{List: []string{}}}, ErrMissingSchedule},
		{"unknown operator", schema.ScenarioPattern{Operator: "modulo", Schedule: daily}, ErrUnknownOperator},
		{"addgrow without grow schedule", schema.ScenarioPattern{Operator: "addgrow", Schedule: daily}, ErrMissingSchedule},
		{"bad start date", schema.ScenarioPattern{Operator: "add", Schedule: daily, StartDate: "05/01/2024"}, schedule.ErrInvalidDateFormat},
		{"bad offset", schema.ScenarioPattern{Operator: "add", Schedule: daily, Offset: "soon"}, schedule.ErrInvalidIntervalFormat},
		{
			"bad child",
			schema.ScenarioPattern{Operator: "add", Schedule: daily, Children: []schema.ScenarioPattern{{Operator: "nope", Schedule: daily}}},
			ErrUnknownOperator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPattern(tt.pattern)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestBuildItem_Errors(t *testing.T) {
	_, err := BuildItem(schema.ScenarioItem{Name: "x", Granularity: "often"})
	assert.ErrorIs(t, err, schedule.ErrInvalidIntervalFormat)

	_, err = BuildCollection(&schema.Scenario{Items: []schema.ScenarioItem{
		{Name: "ok", Patterns: []schema.ScenarioPattern{{Operator: "add", Schedule: schema.ScheduleValue{Single: "1d"}}}},
		{Name: "broken", Patterns: []schema.ScenarioPattern{{Operator: "add"}}},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1 (broken)")
}

func TestSpecFromValue(t *testing.T) {
	spec, err := SpecFromValue(schema.ScheduleValue{Single: "month"})
	require.NoError(t, err)
	assert.Equal(t, schedule.MonthlyKind, spec.Kind())

	_, err = SpecFromValue(schema.ScheduleValue{})
	assert.ErrorIs(t, err, ErrMissingSchedule)
}
