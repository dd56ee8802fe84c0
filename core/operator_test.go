package core

import (
	"testing"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorApply(t *testing.T) {
	tests := []struct {
		op       Operator
		value    float64
		impact   float64
		expected float64
	}{
		{OpAdd, 10, 5, 15},
		{OpSubtract, 10, 5, 5},
		{OpMultiply, 10, 5, 50},
		{OpDivide, 10, 5, 2},
		{OpReplace, 10, 5, 5},
		{OpPower, 3, 2, 9},
		{OpPower, 4, 0.5, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, err := tt.op.Apply(tt.value, tt.impact)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestOperatorApply_Errors(t *testing.T) {
	got, err := OpDivide.Apply(10, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.Equal(t, float64(10), got)

	_, err = Operator("modulo").Apply(10, 3)
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestParseOperator(t *testing.T) {
	for input, expected := range map[string]Operator{
		"add": OpAdd, "ADD": OpAdd, " sub ": OpSubtract, "mul": OpMultiply,
		"divide": OpDivide, "replace": OpReplace, "quad": OpPower, "power": OpPower,
	} {
		got, err := ParseOperator(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	_, err := ParseOperator("addgrow")
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "+10 every 1d", Add(schedule.Interval("1d"), 10).String())
	assert.Equal(t, "*1.5 every monthly", Multiply(schedule.Monthly(), 1.5).String())
	assert.Equal(t, "+200 every 1m (1 nested)", AddGrow(schedule.Interval("1m"), 200, schedule.Interval("1y"), 1.03).String())
}

func TestPatternBuildersCopy(t *testing.T) {
	base := Add(schedule.Interval("1d"), 1)
	withChild := base.With(Multiply(schedule.Interval("1w"), 2))
	assert.Empty(t, base.Children)
	assert.Len(t, withChild.Children, 1)

	shifted := base.Shifted(schedule.Week, schedule.Day)
	assert.True(t, base.Offset.IsZero())
	assert.Equal(t, schedule.Week, shifted.Offset)
	assert.Equal(t, schedule.Day, shifted.OffsetEnd)
}
